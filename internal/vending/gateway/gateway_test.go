package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	client, err := NewClient(Config{
		BaseURL:  baseURL,
		Username: "C202405128888",
		Password: "8888",
		Timezone: "UTC",
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client
}

func TestNewClientConfigInvalid(t *testing.T) {
	if _, err := NewClient(Config{BaseURL: "http://x"}); !errors.Is(err, ErrConfigInvalid) {
		t.Fatalf("expected ErrConfigInvalid, got %v", err)
	}
}

func TestFetchTokenFromDataField(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/apiusers/checkusername" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("userName") != "C202405128888" {
			t.Errorf("unexpected userName %s", r.URL.Query().Get("userName"))
		}
		_, _ = w.Write([]byte(`{"result":"200","data":"tok-123"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	token, err := client.FetchToken(context.Background())
	if err != nil {
		t.Fatalf("FetchToken: %v", err)
	}
	if token != "tok-123" {
		t.Fatalf("expected tok-123, got %s", token)
	}
}

func TestFetchTokenFallbackField(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"result":"200","token":"tok-456"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	token, err := client.FetchToken(context.Background())
	if err != nil {
		t.Fatalf("FetchToken: %v", err)
	}
	if token != "tok-456" {
		t.Fatalf("expected tok-456, got %s", token)
	}
}

func TestFetchTokenEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"result":"200","data":""}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	if _, err := client.FetchToken(context.Background()); !errors.Is(err, ErrGatewayAuthFailed) {
		t.Fatalf("expected ErrGatewayAuthFailed, got %v", err)
	}
}

func TestFetchTokenRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"result":"401","msg":"bad credentials"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	if _, err := client.FetchToken(context.Background()); !errors.Is(err, ErrGatewayAuthFailed) {
		t.Fatalf("expected ErrGatewayAuthFailed, got %v", err)
	}
}

func TestQueryMachineGoods(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "tok-123" {
			t.Errorf("missing token header, got %q", r.Header.Get("Authorization"))
		}
		if r.URL.Query().Get("machineUuid") != "m-1" {
			t.Errorf("unexpected machineUuid %s", r.URL.Query().Get("machineUuid"))
		}
		_, _ = w.Write([]byte(`{"result":"200","data":[
			{"arrivalName":"Chicken Biryani*","presentNumber":3,"arrivalCapacity":10,"modityTierSeq":1,"modityTierNum":2,
			 "commGoodsResp":{"uuid":"9001","goodsName":"Chicken Biryani","goodsPrice":25.5,"goodsCode":"CB01"}}
		]}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	slots, err := client.QueryMachineGoods(context.Background(), "tok-123", "m-1")
	if err != nil {
		t.Fatalf("QueryMachineGoods: %v", err)
	}
	if len(slots) != 1 {
		t.Fatalf("expected 1 slot, got %d", len(slots))
	}
	slot := slots[0]
	if slot.ArrivalName != "Chicken Biryani*" || slot.PresentNumber != 3 || slot.ArrivalCapacity != 10 {
		t.Fatalf("unexpected slot: %+v", slot)
	}
	if slot.Goods.UUID != "9001" || slot.Goods.Price.String() != "25.5" {
		t.Fatalf("unexpected goods: %+v", slot.Goods)
	}
}

func TestQueryMachineGoodsResultNotSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"result":"500","msg":"machine offline"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	if _, err := client.QueryMachineGoods(context.Background(), "tok", "m-1"); !errors.Is(err, ErrGatewayUnavailable) {
		t.Fatalf("expected ErrGatewayUnavailable, got %v", err)
	}
}

func TestQueryMachineGoodsBrokenJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"result":"200","data":[`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	if _, err := client.QueryMachineGoods(context.Background(), "tok", "m-1"); !errors.Is(err, ErrGatewayBadResponse) {
		t.Fatalf("expected ErrGatewayBadResponse, got %v", err)
	}
}

func TestQueryMachineGoodsHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	if _, err := client.QueryMachineGoods(context.Background(), "tok", "m-1"); !errors.Is(err, ErrGatewayUnavailable) {
		t.Fatalf("expected ErrGatewayUnavailable, got %v", err)
	}
}

func TestQueryMachineGoodsUnauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	if _, err := client.QueryMachineGoods(context.Background(), "tok", "m-1"); !errors.Is(err, ErrGatewayAuthFailed) {
		t.Fatalf("expected ErrGatewayAuthFailed, got %v", err)
	}
}

func TestUpdateStockBody(t *testing.T) {
	var got []map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("expected PUT, got %s", r.Method)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		_, _ = w.Write([]byte(`{"result":"200"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	err := client.UpdateStock(context.Background(), "tok", "m-1", []StockUpdate{
		{ArrivalCapacity: 10, ArrivalName: "Chicken Biryani*", GoodsUUID: 9001, PresentNumber: 2},
	})
	if err != nil {
		t.Fatalf("UpdateStock: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 update, got %d", len(got))
	}
	if got[0]["equipmentUuid"] != "m-1" {
		t.Fatalf("expected equipmentUuid m-1, got %v", got[0]["equipmentUuid"])
	}
	if got[0]["commodityState"] != float64(0) {
		t.Fatalf("expected commodityState 0, got %v", got[0]["commodityState"])
	}
	if got[0]["presentNumber"] != float64(2) {
		t.Fatalf("expected presentNumber 2, got %v", got[0]["presentNumber"])
	}
}

func TestUpdateStockEmptyNoop(t *testing.T) {
	client := newTestClient(t, "http://127.0.0.1:1")
	if err := client.UpdateStock(context.Background(), "tok", "m-1", nil); err != nil {
		t.Fatalf("expected noop, got %v", err)
	}
}

func TestRequestPickupCodeBody(t *testing.T) {
	var got map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/commpick/productionpick" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		_, _ = w.Write([]byte(`{"result":"200","data":"778899"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	code, err := client.RequestPickupCode(context.Background(), "tok", PickupInput{
		MachineUUID: "m-1",
		OrderNo:     "ORD-1",
		OrderTime:   time.Date(2026, 1, 13, 18, 12, 33, 970_000_000, time.UTC),
		Items: []PickupItem{
			{GoodsUUID: "9001", Quantity: 2, Heated: true},
			{GoodsUUID: "9002", Quantity: 1},
		},
	})
	if err != nil {
		t.Fatalf("RequestPickupCode: %v", err)
	}
	if code != "778899" {
		t.Fatalf("expected code 778899, got %s", code)
	}
	if got["goodsNumber"] != float64(3) {
		t.Fatalf("expected total quantity 3, got %v", got["goodsNumber"])
	}
	if got["orderTime"] != "2026-01-13T18:12:33.970Z" {
		t.Fatalf("unexpected orderTime %v", got["orderTime"])
	}
	goodsList, ok := got["goodsList"].([]interface{})
	if !ok || len(goodsList) != 2 {
		t.Fatalf("unexpected goodsList %v", got["goodsList"])
	}
	heated := goodsList[0].(map[string]interface{})
	if heated["serviceType"] != float64(1) || heated["serviceVal"] != "15" {
		t.Fatalf("expected heat service fields, got %v", heated)
	}
	plain := goodsList[1].(map[string]interface{})
	if _, exists := plain["serviceType"]; exists {
		t.Fatalf("unheated item should not carry serviceType: %v", plain)
	}
}

func TestRequestPickupCodeResultNotSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"result":"500","msg":"dispense error"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, err := client.RequestPickupCode(context.Background(), "tok", PickupInput{
		MachineUUID: "m-1",
		OrderNo:     "ORD-1",
		Items:       []PickupItem{{GoodsUUID: "9001", Quantity: 1}},
	})
	if !errors.Is(err, ErrGatewayUnavailable) {
		t.Fatalf("expected ErrGatewayUnavailable, got %v", err)
	}
}
