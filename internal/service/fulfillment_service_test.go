package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/alphadeveloper12/dosta-backend/internal/constants"
	"github.com/alphadeveloper12/dosta-backend/internal/models"
	"github.com/alphadeveloper12/dosta-backend/internal/repository"
	"github.com/alphadeveloper12/dosta-backend/internal/vending/gateway"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=private"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.MasterItem{},
		&models.MenuItem{},
		&models.VendingLocation{},
		&models.PickupTimeSlot{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.VendingMachineStock{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// fakeGateway 记录调用并按配置返回结果
type fakeGateway struct {
	token      string
	tokenErr   error
	slots      []gateway.Slot
	queryErr   error
	updateErr  error
	pickupCode string
	pickupErr  error

	updateCalls []stockUpdateCall
	pickupCalls []gateway.PickupInput
}

type stockUpdateCall struct {
	machineUUID string
	updates     []gateway.StockUpdate
}

func (g *fakeGateway) FetchToken(ctx context.Context) (string, error) {
	if g.tokenErr != nil {
		return "", g.tokenErr
	}
	return g.token, nil
}

func (g *fakeGateway) QueryMachineGoods(ctx context.Context, token, machineUUID string) ([]gateway.Slot, error) {
	if g.queryErr != nil {
		return nil, g.queryErr
	}
	return g.slots, nil
}

func (g *fakeGateway) UpdateStock(ctx context.Context, token, machineUUID string, updates []gateway.StockUpdate) error {
	g.updateCalls = append(g.updateCalls, stockUpdateCall{machineUUID: machineUUID, updates: updates})
	return g.updateErr
}

func (g *fakeGateway) RequestPickupCode(ctx context.Context, token string, input gateway.PickupInput) (string, error) {
	g.pickupCalls = append(g.pickupCalls, input)
	if g.pickupErr != nil {
		return "", g.pickupErr
	}
	return g.pickupCode, nil
}

type noopLocker struct{}

func (noopLocker) Acquire(ctx context.Context, machineUUID string) (func(), error) {
	return func() {}, nil
}

func seedFulfillmentOrder(t *testing.T, db *gorm.DB, items []models.OrderItem) (*models.Order, *models.VendingLocation) {
	t.Helper()
	location := &models.VendingLocation{
		Name:        "Marina Walk",
		MachineUUID: "machine-001",
		IsActive:    true,
	}
	if err := db.Create(location).Error; err != nil {
		t.Fatalf("create location: %v", err)
	}
	order := &models.Order{
		OrderNo:          "ORD-TEST-001",
		UserID:           1,
		LocationID:       location.ID,
		Status:           constants.OrderStatusPending,
		FulfillmentState: constants.FulfillmentPending,
		CurrentStep:      constants.OrderStepPlaced,
		PlanType:         constants.PlanTypeOrderNow,
		TotalAmount:      models.NewMoneyFromDecimal(decimal.NewFromInt(51)),
		Items:            items,
	}
	if err := db.Create(order).Error; err != nil {
		t.Fatalf("create order: %v", err)
	}
	return order, location
}

func newFulfillmentService(db *gorm.DB, gw VendingGateway) *FulfillmentService {
	return NewFulfillmentService(
		repository.NewOrderRepository(db),
		repository.NewLocationRepository(db),
		repository.NewMachineStockRepository(db),
		gw,
		noopLocker{},
	)
}

func TestFulfillOrderHappyPath(t *testing.T) {
	db := newTestDB(t)
	order, location := seedFulfillmentOrder(t, db, []models.OrderItem{
		{Name: "Chicken Biryani", Quantity: 2, PlanType: constants.PlanTypeOrderNow, Heated: true},
	})
	gw := &fakeGateway{
		token:      "tok",
		slots:      []gateway.Slot{slotFixture("9001", "Chicken Biryani*", 5, 10)},
		pickupCode: "734159",
	}
	svc := newFulfillmentService(db, gw)

	if err := svc.FulfillOrder(context.Background(), order.ID); err != nil {
		t.Fatalf("FulfillOrder: %v", err)
	}

	var got models.Order
	if err := db.Preload("Items").First(&got, order.ID).Error; err != nil {
		t.Fatalf("reload order: %v", err)
	}
	if got.FulfillmentState != constants.FulfillmentComplete {
		t.Fatalf("expected COMPLETE, got %s", got.FulfillmentState)
	}
	if got.Status != constants.OrderStatusConfirmed {
		t.Fatalf("expected CONFIRMED, got %s", got.Status)
	}
	if got.PickupCode != "734159" {
		t.Fatalf("expected pickup code, got %q", got.PickupCode)
	}
	if got.QRCodeURL != constants.QRCodeBaseURL+"734159" {
		t.Fatalf("unexpected qr url %q", got.QRCodeURL)
	}
	if len(got.Items) != 1 || !got.Items[0].Fulfilled || got.Items[0].GoodsUUID != "9001" {
		t.Fatalf("unexpected item state %+v", got.Items)
	}

	if len(gw.updateCalls) != 1 || gw.updateCalls[0].machineUUID != location.MachineUUID {
		t.Fatalf("expected one stock update call, got %+v", gw.updateCalls)
	}
	if gw.updateCalls[0].updates[0].PresentNumber != 3 {
		t.Fatalf("expected stock write-back 3, got %+v", gw.updateCalls[0].updates)
	}
	if len(gw.pickupCalls) != 1 {
		t.Fatalf("expected one pickup call, got %d", len(gw.pickupCalls))
	}
	pickup := gw.pickupCalls[0]
	if pickup.OrderNo != order.OrderNo || len(pickup.Items) != 1 || !pickup.Items[0].Heated {
		t.Fatalf("unexpected pickup input %+v", pickup)
	}

	var stock models.VendingMachineStock
	if err := db.Where("location_id = ? AND goods_uuid = ?", location.ID, "9001").First(&stock).Error; err != nil {
		t.Fatalf("stock mirror missing: %v", err)
	}
	if stock.Quantity != 3 {
		t.Fatalf("expected mirror quantity 3, got %d", stock.Quantity)
	}
}

func TestFulfillOrderPartial(t *testing.T) {
	db := newTestDB(t)
	order, _ := seedFulfillmentOrder(t, db, []models.OrderItem{
		{Name: "Chicken Biryani", Quantity: 5, PlanType: constants.PlanTypeOrderNow},
	})
	gw := &fakeGateway{
		token:      "tok",
		slots:      []gateway.Slot{slotFixture("9001", "Chicken Biryani", 2, 10)},
		pickupCode: "112233",
	}
	svc := newFulfillmentService(db, gw)

	err := svc.FulfillOrder(context.Background(), order.ID)
	if !errors.Is(err, ErrPartialFulfillment) {
		t.Fatalf("expected ErrPartialFulfillment, got %v", err)
	}

	var got models.Order
	if err := db.First(&got, order.ID).Error; err != nil {
		t.Fatalf("reload order: %v", err)
	}
	if got.FulfillmentState != constants.FulfillmentPartial {
		t.Fatalf("expected PARTIAL, got %s", got.FulfillmentState)
	}
	if got.PickupCode != "112233" {
		t.Fatalf("partial orders still get a code, got %q", got.PickupCode)
	}
	if len(gw.pickupCalls) != 1 || gw.pickupCalls[0].Items[0].Quantity != 2 {
		t.Fatalf("pickup must carry clamped quantity, got %+v", gw.pickupCalls)
	}
}

func TestFulfillOrderNoFulfillableItems(t *testing.T) {
	db := newTestDB(t)
	order, _ := seedFulfillmentOrder(t, db, []models.OrderItem{
		{Name: "Falafel Wrap", Quantity: 1, PlanType: constants.PlanTypeOrderNow},
	})
	gw := &fakeGateway{
		token: "tok",
		slots: []gateway.Slot{slotFixture("9002", "Falafel Wrap", 0, 10)},
	}
	svc := newFulfillmentService(db, gw)

	err := svc.FulfillOrder(context.Background(), order.ID)
	if !errors.Is(err, ErrNoFulfillableItems) {
		t.Fatalf("expected ErrNoFulfillableItems, got %v", err)
	}
	var got models.Order
	if err := db.First(&got, order.ID).Error; err != nil {
		t.Fatalf("reload order: %v", err)
	}
	if got.FulfillmentState != constants.FulfillmentFailed {
		t.Fatalf("expected FAILED, got %s", got.FulfillmentState)
	}
	if len(gw.updateCalls) != 0 || len(gw.pickupCalls) != 0 {
		t.Fatalf("gateway must not be mutated, got %+v / %+v", gw.updateCalls, gw.pickupCalls)
	}
}

func TestFulfillOrderGatewayQueryFailure(t *testing.T) {
	db := newTestDB(t)
	order, _ := seedFulfillmentOrder(t, db, []models.OrderItem{
		{Name: "Chicken Biryani", Quantity: 1, PlanType: constants.PlanTypeOrderNow},
	})
	gw := &fakeGateway{
		token:    "tok",
		queryErr: fmt.Errorf("boom: %w", gateway.ErrGatewayUnavailable),
	}
	svc := newFulfillmentService(db, gw)

	err := svc.FulfillOrder(context.Background(), order.ID)
	if !errors.Is(err, gateway.ErrGatewayUnavailable) {
		t.Fatalf("expected gateway error passthrough, got %v", err)
	}
	var got models.Order
	if err := db.First(&got, order.ID).Error; err != nil {
		t.Fatalf("reload order: %v", err)
	}
	if got.FulfillmentState != constants.FulfillmentFailed {
		t.Fatalf("expected FAILED, got %s", got.FulfillmentState)
	}
}

func TestFulfillOrderStockWriteBackFailureContinues(t *testing.T) {
	db := newTestDB(t)
	order, _ := seedFulfillmentOrder(t, db, []models.OrderItem{
		{Name: "Chicken Biryani", Quantity: 1, PlanType: constants.PlanTypeOrderNow},
	})
	gw := &fakeGateway{
		token:      "tok",
		slots:      []gateway.Slot{slotFixture("9001", "Chicken Biryani", 4, 10)},
		updateErr:  gateway.ErrGatewayUnavailable,
		pickupCode: "998877",
	}
	svc := newFulfillmentService(db, gw)

	if err := svc.FulfillOrder(context.Background(), order.ID); err != nil {
		t.Fatalf("stock write-back failure must not abort: %v", err)
	}
	var got models.Order
	if err := db.First(&got, order.ID).Error; err != nil {
		t.Fatalf("reload order: %v", err)
	}
	if got.FulfillmentState != constants.FulfillmentComplete || got.PickupCode != "998877" {
		t.Fatalf("expected completed order with code, got %+v", got)
	}
}

func TestFulfillOrderAlreadyFulfilled(t *testing.T) {
	db := newTestDB(t)
	order, _ := seedFulfillmentOrder(t, db, []models.OrderItem{
		{Name: "Chicken Biryani", Quantity: 1, PlanType: constants.PlanTypeOrderNow},
	})
	if err := db.Model(&models.Order{}).Where("id = ?", order.ID).
		Update("fulfillment_state", constants.FulfillmentComplete).Error; err != nil {
		t.Fatalf("mark complete: %v", err)
	}
	gw := &fakeGateway{token: "tok"}
	svc := newFulfillmentService(db, gw)

	err := svc.FulfillOrder(context.Background(), order.ID)
	if !errors.Is(err, ErrAlreadyFulfilled) {
		t.Fatalf("expected ErrAlreadyFulfilled, got %v", err)
	}
	if len(gw.pickupCalls) != 0 {
		t.Fatalf("no gateway call expected for fulfilled order")
	}
}

func TestFulfillOrderNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := newFulfillmentService(db, &fakeGateway{})

	err := svc.FulfillOrder(context.Background(), 424242)
	if !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestIssuePickupCodeManually(t *testing.T) {
	db := newTestDB(t)
	order, location := seedFulfillmentOrder(t, db, []models.OrderItem{
		{Name: "Chicken Biryani", Quantity: 2, PlanType: constants.PlanTypeOrderNow, GoodsUUID: "9001"},
	})
	if err := db.Create(&models.VendingMachineStock{
		LocationID: location.ID,
		GoodsUUID:  "9001",
		GoodsName:  "Chicken Biryani",
		Quantity:   5,
	}).Error; err != nil {
		t.Fatalf("seed stock: %v", err)
	}
	svc := newFulfillmentService(db, &fakeGateway{})

	got, err := svc.IssuePickupCode(order.UserID, order.OrderNo, "556677")
	if err != nil {
		t.Fatalf("IssuePickupCode: %v", err)
	}
	if got.PickupCode != "556677" || got.FulfillmentState != constants.FulfillmentCodeIssued {
		t.Fatalf("unexpected order state %+v", got)
	}

	var stock models.VendingMachineStock
	if err := db.Where("location_id = ? AND goods_uuid = ?", location.ID, "9001").First(&stock).Error; err != nil {
		t.Fatalf("load stock: %v", err)
	}
	if stock.Quantity != 3 {
		t.Fatalf("expected mirror decrement to 3, got %d", stock.Quantity)
	}
}
