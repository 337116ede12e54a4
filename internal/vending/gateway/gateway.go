package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrConfigInvalid      = errors.New("vending gateway config invalid")
	ErrGatewayUnavailable = errors.New("vending gateway unavailable")
	ErrGatewayAuthFailed  = errors.New("vending gateway auth failed")
	ErrGatewayBadResponse = errors.New("vending gateway response invalid")
)

// 网关业务结果码
const (
	resultSuccess = "200"
)

const (
	defaultTimeoutSeconds = 15
	defaultTimezone       = "Asia/Dubai"
	heatServiceType       = 1
	heatServiceVal        = "15"
)

// Config 售货机网关配置
type Config struct {
	BaseURL        string `json:"base_url"` // 网关地址
	Username       string `json:"username"` // 网关账号
	Password       string `json:"password"` // 网关密码
	TimeoutSeconds int    `json:"timeout_seconds"`
	Timezone       string `json:"timezone"` // 订单时间所用时区
}

func (c *Config) normalize() {
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	c.Username = strings.TrimSpace(c.Username)
	c.Password = strings.TrimSpace(c.Password)
	c.Timezone = strings.TrimSpace(c.Timezone)
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = defaultTimeoutSeconds
	}
	if c.Timezone == "" {
		c.Timezone = defaultTimezone
	}
}

// ValidateConfig 校验配置
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("%w: config is nil", ErrConfigInvalid)
	}
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return fmt.Errorf("%w: base_url is required", ErrConfigInvalid)
	}
	if strings.TrimSpace(cfg.Username) == "" {
		return fmt.Errorf("%w: username is required", ErrConfigInvalid)
	}
	if strings.TrimSpace(cfg.Password) == "" {
		return fmt.Errorf("%w: password is required", ErrConfigInvalid)
	}
	return nil
}

// Slot 售货机货道
type Slot struct {
	ArrivalName     string    // 货道商品名称
	PresentNumber   int       // 当前数量
	ArrivalCapacity int       // 货道容量
	TierSeq         int       // 货道层号
	TierNum         int       // 货道位号
	Goods           SlotGoods // 货道商品信息
}

// SlotGoods 货道商品信息
type SlotGoods struct {
	UUID  string
	Name  string
	Code  string
	Desc  string
	URL   string
	Price decimal.Decimal
}

// StockUpdate 货道库存更新项
type StockUpdate struct {
	ArrivalCapacity int             `json:"arrivalCapacity"`
	ArrivalName     string          `json:"arrivalName"`
	CommodityState  int             `json:"commodityState"`
	EquipmentUUID   string          `json:"equipmentUuid"`
	GoodsUUID       int64           `json:"goodsUuid"`
	PresentNumber   int             `json:"presentNumber"`
	SalePrice       decimal.Decimal `json:"salePrice"`
}

// PickupItem 取货项
type PickupItem struct {
	GoodsUUID string
	Quantity  int
	Heated    bool
}

// PickupInput 申请取货码输入
type PickupInput struct {
	MachineUUID string
	OrderNo     string
	OrderTime   time.Time
	Items       []PickupItem
}

// Client 售货机网关客户端
type Client struct {
	cfg        Config
	httpClient *http.Client
	loc        *time.Location
}

// NewClient 创建网关客户端
func NewClient(cfg Config) (*Client, error) {
	cfg.normalize()
	if err := ValidateConfig(&cfg); err != nil {
		return nil, err
	}
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: timezone %q: %v", ErrConfigInvalid, cfg.Timezone, err)
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
		loc:        loc,
	}, nil
}

// FetchToken 获取网关访问令牌
func (c *Client) FetchToken(ctx context.Context) (string, error) {
	endpoint := fmt.Sprintf("%s/apiusers/checkusername?userName=%s&password=%s",
		c.cfg.BaseURL, url.QueryEscape(c.cfg.Username), url.QueryEscape(c.cfg.Password))
	respBytes, err := c.doRequest(ctx, http.MethodGet, endpoint, "", nil)
	if err != nil {
		return "", err
	}

	var resp struct {
		Result string `json:"result"`
		Data   string `json:"data"`
		Token  string `json:"token"`
		Msg    string `json:"msg"`
	}
	if err := json.Unmarshal(respBytes, &resp); err != nil {
		return "", fmt.Errorf("%w: %v", ErrGatewayBadResponse, err)
	}
	if resp.Result != "" && resp.Result != resultSuccess {
		return "", fmt.Errorf("%w: result %s %s", ErrGatewayAuthFailed, resp.Result, resp.Msg)
	}
	token := strings.TrimSpace(resp.Data)
	if token == "" {
		token = strings.TrimSpace(resp.Token)
	}
	if token == "" {
		return "", fmt.Errorf("%w: empty token", ErrGatewayAuthFailed)
	}
	return token, nil
}

// QueryMachineGoods 查询售货机货道商品
func (c *Client) QueryMachineGoods(ctx context.Context, token, machineUUID string) ([]Slot, error) {
	if strings.TrimSpace(machineUUID) == "" {
		return nil, fmt.Errorf("%w: machine uuid is required", ErrConfigInvalid)
	}
	endpoint := fmt.Sprintf("%s/commodityinfo/querycommodityinfo?machineUuid=%s",
		c.cfg.BaseURL, url.QueryEscape(machineUUID))
	respBytes, err := c.doRequest(ctx, http.MethodGet, endpoint, token, nil)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Result string `json:"result"`
		Msg    string `json:"msg"`
		Data   []struct {
			ArrivalName     string `json:"arrivalName"`
			PresentNumber   int    `json:"presentNumber"`
			ArrivalCapacity int    `json:"arrivalCapacity"`
			ModityTierSeq   int    `json:"modityTierSeq"`
			ModityTierNum   int    `json:"modityTierNum"`
			CommGoodsResp   struct {
				UUID       string          `json:"uuid"`
				GoodsName  string          `json:"goodsName"`
				GoodsPrice decimal.Decimal `json:"goodsPrice"`
				GoodsURL   string          `json:"goodsUrl"`
				GoodsCode  string          `json:"goodsCode"`
				GoodsDesc  string          `json:"goodsDesc"`
			} `json:"commGoodsResp"`
		} `json:"data"`
	}
	if err := json.Unmarshal(respBytes, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGatewayBadResponse, err)
	}
	if resp.Result != resultSuccess {
		return nil, fmt.Errorf("%w: result %s %s", ErrGatewayUnavailable, resp.Result, resp.Msg)
	}

	slots := make([]Slot, 0, len(resp.Data))
	for _, item := range resp.Data {
		slots = append(slots, Slot{
			ArrivalName:     item.ArrivalName,
			PresentNumber:   item.PresentNumber,
			ArrivalCapacity: item.ArrivalCapacity,
			TierSeq:         item.ModityTierSeq,
			TierNum:         item.ModityTierNum,
			Goods: SlotGoods{
				UUID:  item.CommGoodsResp.UUID,
				Name:  item.CommGoodsResp.GoodsName,
				Code:  item.CommGoodsResp.GoodsCode,
				Desc:  item.CommGoodsResp.GoodsDesc,
				URL:   item.CommGoodsResp.GoodsURL,
				Price: item.CommGoodsResp.GoodsPrice,
			},
		})
	}
	return slots, nil
}

// UpdateStock 推送货道库存更新
func (c *Client) UpdateStock(ctx context.Context, token, machineUUID string, updates []StockUpdate) error {
	if len(updates) == 0 {
		return nil
	}
	for i := range updates {
		updates[i].EquipmentUUID = machineUUID
		updates[i].CommodityState = 0
	}
	endpoint := c.cfg.BaseURL + "/commodityinfo/updatecommodityinfolist"
	respBytes, err := c.doRequest(ctx, http.MethodPut, endpoint, token, updates)
	if err != nil {
		return err
	}

	var resp struct {
		Result string `json:"result"`
		Msg    string `json:"msg"`
	}
	if err := json.Unmarshal(respBytes, &resp); err != nil {
		return fmt.Errorf("%w: %v", ErrGatewayBadResponse, err)
	}
	if resp.Result != resultSuccess {
		return fmt.Errorf("%w: result %s %s", ErrGatewayUnavailable, resp.Result, resp.Msg)
	}
	return nil
}

// RequestPickupCode 申请取货码
func (c *Client) RequestPickupCode(ctx context.Context, token string, input PickupInput) (string, error) {
	if strings.TrimSpace(input.MachineUUID) == "" || strings.TrimSpace(input.OrderNo) == "" || len(input.Items) == 0 {
		return "", fmt.Errorf("%w: pickup input incomplete", ErrConfigInvalid)
	}

	totalQty := 0
	goodsList := make([]map[string]interface{}, 0, len(input.Items))
	for _, item := range input.Items {
		entry := map[string]interface{}{
			"goodsNumber": item.Quantity,
			"goodsPrice":  0.01,
			"goodsUuid":   item.GoodsUUID,
		}
		if item.Heated {
			entry["serviceType"] = heatServiceType
			entry["serviceVal"] = heatServiceVal
		}
		goodsList = append(goodsList, entry)
		totalQty += item.Quantity
	}

	orderTime := input.OrderTime
	if orderTime.IsZero() {
		orderTime = time.Now()
	}
	params := map[string]interface{}{
		"goodsList":   goodsList,
		"goodsNumber": totalQty,
		"machineUuid": input.MachineUUID,
		"orderNo":     input.OrderNo,
		"orderTime":   c.FormatOrderTime(orderTime),
		"timeOut":     1,
		"lock":        0,
	}

	endpoint := c.cfg.BaseURL + "/commpick/productionpick"
	respBytes, err := c.doRequest(ctx, http.MethodPost, endpoint, token, params)
	if err != nil {
		return "", err
	}

	var resp struct {
		Result string `json:"result"`
		Msg    string `json:"msg"`
		Data   string `json:"data"`
	}
	if err := json.Unmarshal(respBytes, &resp); err != nil {
		return "", fmt.Errorf("%w: %v", ErrGatewayBadResponse, err)
	}
	if resp.Result != resultSuccess {
		return "", fmt.Errorf("%w: result %s %s", ErrGatewayUnavailable, resp.Result, resp.Msg)
	}
	code := strings.TrimSpace(resp.Data)
	if code == "" {
		return "", fmt.Errorf("%w: empty pickup code", ErrGatewayBadResponse)
	}
	return code, nil
}

// FormatOrderTime 按网关要求格式化订单时间（毫秒精度，末尾固定 Z）
func (c *Client) FormatOrderTime(t time.Time) string {
	return t.In(c.loc).Format("2006-01-02T15:04:05.000") + "Z"
}

func (c *Client) doRequest(ctx context.Context, method, endpoint, token string, payload interface{}) ([]byte, error) {
	var bodyReader io.Reader
	if payload != nil {
		body, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrConfigInvalid, err)
		}
		bodyReader = strings.NewReader(string(body))
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, fmt.Errorf("%w: http status %d", ErrGatewayAuthFailed, resp.StatusCode)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: http status %d", ErrGatewayUnavailable, resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}
