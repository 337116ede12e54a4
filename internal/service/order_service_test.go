package service

import (
	"context"
	"errors"
	"testing"

	"github.com/alphadeveloper12/dosta-backend/internal/config"
	"github.com/alphadeveloper12/dosta-backend/internal/constants"
	"github.com/alphadeveloper12/dosta-backend/internal/models"
	"github.com/alphadeveloper12/dosta-backend/internal/queue"
	"github.com/alphadeveloper12/dosta-backend/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func newOrderService(db *gorm.DB) *OrderService {
	queueClient, _ := queue.NewClient(&config.QueueConfig{Enabled: false})
	return NewOrderService(
		repository.NewOrderRepository(db),
		repository.NewLocationRepository(db),
		repository.NewTimeSlotRepository(db),
		repository.NewMenuItemRepository(db),
		repository.NewCartRepository(db),
		queueClient,
		nil,
		config.OrderConfig{},
	)
}

func seedCatalog(t *testing.T, db *gorm.DB) (*models.VendingLocation, []models.MenuItem) {
	t.Helper()
	location := &models.VendingLocation{Name: "JLT Cluster D", MachineUUID: "machine-777", IsActive: true}
	if err := db.Create(location).Error; err != nil {
		t.Fatalf("create location: %v", err)
	}
	items := []models.MenuItem{
		{Name: "Chicken Biryani", Price: models.NewMoneyFromDecimal(decimal.NewFromFloat(25.5)), Heated: true, IsActive: true},
		{Name: "Greek Salad", Price: models.NewMoneyFromDecimal(decimal.NewFromFloat(18.0)), IsActive: true},
		{Name: "Retired Dish", Price: models.NewMoneyFromDecimal(decimal.NewFromFloat(10.0)), IsActive: false},
	}
	for i := range items {
		if err := db.Create(&items[i]).Error; err != nil {
			t.Fatalf("create menu item: %v", err)
		}
	}
	return location, items
}

func TestConfirmOrderFallbackPlanContext(t *testing.T) {
	db := newTestDB(t)
	location, items := seedCatalog(t, db)
	svc := newOrderService(db)

	order, err := svc.ConfirmOrder(context.Background(), ConfirmOrderInput{
		UserID:     1,
		LocationID: location.ID,
		PlanType:   constants.PlanTypeOrderNow,
		PickupType: constants.PickupTypeToday,
		Items: []ConfirmOrderItem{
			{MenuItemID: items[0].ID, Quantity: 2},
			{MenuItemID: items[1].ID, Quantity: 1, PlanType: constants.PlanTypeSmartGrab, PickupType: constants.PickupTypeIn24Hrs},
		},
	})
	if err != nil {
		t.Fatalf("ConfirmOrder: %v", err)
	}
	if order.Status != constants.OrderStatusPending || order.FulfillmentState != constants.FulfillmentPending {
		t.Fatalf("unexpected order state %s/%s", order.Status, order.FulfillmentState)
	}
	if order.CurrentStep != constants.OrderStepPlaced {
		t.Fatalf("expected PLACED step, got %s", order.CurrentStep)
	}
	if order.OrderNo == "" || order.ConfirmedAt == nil {
		t.Fatalf("expected order number and confirmation time, got %+v", order)
	}
	if len(order.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(order.Items))
	}
	if order.Items[0].PlanType != constants.PlanTypeOrderNow || order.Items[0].PickupType != constants.PickupTypeToday {
		t.Fatalf("expected order-level fallback, got %+v", order.Items[0])
	}
	if !order.Items[0].Heated {
		t.Fatalf("menu item heat flag must carry over")
	}
	if order.Items[1].PlanType != constants.PlanTypeSmartGrab || order.Items[1].PickupType != constants.PickupTypeIn24Hrs {
		t.Fatalf("expected per-item plan context, got %+v", order.Items[1])
	}
	if order.TotalAmount.String() != "69.00" {
		t.Fatalf("expected total 69.00, got %s", order.TotalAmount.String())
	}
}

func TestConfirmOrderRejectsInactiveMenuItem(t *testing.T) {
	db := newTestDB(t)
	location, items := seedCatalog(t, db)
	svc := newOrderService(db)

	_, err := svc.ConfirmOrder(context.Background(), ConfirmOrderInput{
		UserID:     1,
		LocationID: location.ID,
		Items:      []ConfirmOrderItem{{MenuItemID: items[2].ID, Quantity: 1}},
	})
	if !errors.Is(err, ErrMenuItemUnavailable) {
		t.Fatalf("expected ErrMenuItemUnavailable, got %v", err)
	}
}

func TestConfirmOrderUnknownLocation(t *testing.T) {
	db := newTestDB(t)
	_, items := seedCatalog(t, db)
	svc := newOrderService(db)

	_, err := svc.ConfirmOrder(context.Background(), ConfirmOrderInput{
		UserID:     1,
		LocationID: 9999,
		Items:      []ConfirmOrderItem{{MenuItemID: items[0].ID, Quantity: 1}},
	})
	if !errors.Is(err, ErrLocationNotFound) {
		t.Fatalf("expected ErrLocationNotFound, got %v", err)
	}
}

func TestConfirmOrderTimeSlotMustBelongToLocation(t *testing.T) {
	db := newTestDB(t)
	location, items := seedCatalog(t, db)
	other := &models.VendingLocation{Name: "Other", MachineUUID: "machine-888", IsActive: true}
	if err := db.Create(other).Error; err != nil {
		t.Fatalf("create location: %v", err)
	}
	slot := &models.PickupTimeSlot{LocationID: other.ID, Label: "Lunch", StartTime: "12:00", EndTime: "14:00", IsActive: true}
	if err := db.Create(slot).Error; err != nil {
		t.Fatalf("create slot: %v", err)
	}
	svc := newOrderService(db)

	_, err := svc.ConfirmOrder(context.Background(), ConfirmOrderInput{
		UserID:     1,
		LocationID: location.ID,
		TimeSlotID: &slot.ID,
		Items:      []ConfirmOrderItem{{MenuItemID: items[0].ID, Quantity: 1}},
	})
	if !errors.Is(err, ErrTimeSlotInvalid) {
		t.Fatalf("expected ErrTimeSlotInvalid, got %v", err)
	}
}

func TestConfirmOrderClearsSamePlanCartItems(t *testing.T) {
	db := newTestDB(t)
	location, items := seedCatalog(t, db)
	cart := &models.Cart{UserID: 1}
	if err := db.Create(cart).Error; err != nil {
		t.Fatalf("create cart: %v", err)
	}
	cartItems := []models.CartItem{
		{CartID: cart.ID, MenuItemID: items[0].ID, Quantity: 1, UnitPrice: items[0].Price, PlanType: constants.PlanTypeOrderNow, PlanSubType: constants.PlanSubTypeNone, PickupType: constants.PickupTypeToday},
		{CartID: cart.ID, MenuItemID: items[1].ID, Quantity: 1, UnitPrice: items[1].Price, PlanType: constants.PlanTypeStartPlan, PlanSubType: constants.PlanSubTypeWeekly, PickupType: constants.PickupTypeToday},
	}
	for i := range cartItems {
		if err := db.Create(&cartItems[i]).Error; err != nil {
			t.Fatalf("create cart item: %v", err)
		}
	}
	svc := newOrderService(db)

	_, err := svc.ConfirmOrder(context.Background(), ConfirmOrderInput{
		UserID:     1,
		LocationID: location.ID,
		PlanType:   constants.PlanTypeOrderNow,
		Items:      []ConfirmOrderItem{{MenuItemID: items[0].ID, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("ConfirmOrder: %v", err)
	}

	var remaining []models.CartItem
	if err := db.Where("cart_id = ?", cart.ID).Find(&remaining).Error; err != nil {
		t.Fatalf("load cart items: %v", err)
	}
	if len(remaining) != 1 || remaining[0].PlanType != constants.PlanTypeStartPlan {
		t.Fatalf("only same-plan items should be cleared, got %+v", remaining)
	}
}

func TestAdvanceOrderProgress(t *testing.T) {
	db := newTestDB(t)
	location, items := seedCatalog(t, db)
	svc := newOrderService(db)

	order, err := svc.ConfirmOrder(context.Background(), ConfirmOrderInput{
		UserID:     1,
		LocationID: location.ID,
		Items:      []ConfirmOrderItem{{MenuItemID: items[0].ID, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("ConfirmOrder: %v", err)
	}

	expected := []struct {
		step   string
		status string
	}{
		{constants.OrderStepPreparing, constants.OrderStatusPreparing},
		{constants.OrderStepReady, constants.OrderStatusReady},
		{constants.OrderStepPickedUp, constants.OrderStatusCompleted},
	}
	for _, want := range expected {
		progress, err := svc.AdvanceOrderProgress(1, order.OrderNo)
		if err != nil {
			t.Fatalf("AdvanceOrderProgress: %v", err)
		}
		if progress.CurrentStep != want.step || progress.Status != want.status {
			t.Fatalf("expected %s/%s, got %s/%s", want.step, want.status, progress.CurrentStep, progress.Status)
		}
	}

	if _, err := svc.AdvanceOrderProgress(1, order.OrderNo); !errors.Is(err, ErrOrderStepInvalid) {
		t.Fatalf("expected ErrOrderStepInvalid at terminal step, got %v", err)
	}
}

func TestGetOrderProgressNextStepHint(t *testing.T) {
	db := newTestDB(t)
	location, items := seedCatalog(t, db)
	svc := newOrderService(db)

	order, err := svc.ConfirmOrder(context.Background(), ConfirmOrderInput{
		UserID:     1,
		LocationID: location.ID,
		Items:      []ConfirmOrderItem{{MenuItemID: items[0].ID, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("ConfirmOrder: %v", err)
	}

	progress, err := svc.GetOrderProgress(1, order.OrderNo)
	if err != nil {
		t.Fatalf("GetOrderProgress: %v", err)
	}
	if progress.CurrentStep != constants.OrderStepPlaced || progress.NextStep != constants.OrderStepPreparing {
		t.Fatalf("unexpected progress %+v", progress)
	}

	if _, err := svc.GetOrderProgress(2, order.OrderNo); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("orders must be scoped to their owner, got %v", err)
	}
}

func TestCancelExpiredOrderOnlyPending(t *testing.T) {
	db := newTestDB(t)
	location, items := seedCatalog(t, db)
	svc := newOrderService(db)

	order, err := svc.ConfirmOrder(context.Background(), ConfirmOrderInput{
		UserID:     1,
		LocationID: location.ID,
		Items:      []ConfirmOrderItem{{MenuItemID: items[0].ID, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("ConfirmOrder: %v", err)
	}

	if err := svc.CancelExpiredOrder(order.ID); err != nil {
		t.Fatalf("CancelExpiredOrder: %v", err)
	}
	got, _ := svc.orderRepo.GetByID(order.ID)
	if got.Status != constants.OrderStatusCancelled {
		t.Fatalf("expected CANCELLED, got %s", got.Status)
	}

	// 已取消的订单再次处理是幂等的
	if err := svc.CancelExpiredOrder(order.ID); err != nil {
		t.Fatalf("second cancel must be a noop: %v", err)
	}
}

func TestListOrdersFiltersByUser(t *testing.T) {
	db := newTestDB(t)
	location, items := seedCatalog(t, db)
	svc := newOrderService(db)

	for _, userID := range []uint{1, 1, 2} {
		if _, err := svc.ConfirmOrder(context.Background(), ConfirmOrderInput{
			UserID:     userID,
			LocationID: location.ID,
			Items:      []ConfirmOrderItem{{MenuItemID: items[0].ID, Quantity: 1}},
		}); err != nil {
			t.Fatalf("ConfirmOrder: %v", err)
		}
	}

	orders, total, err := svc.ListOrders(repository.OrderListFilter{UserID: 1, Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("ListOrders: %v", err)
	}
	if total != 2 || len(orders) != 2 {
		t.Fatalf("expected 2 orders for user 1, got %d/%d", total, len(orders))
	}
	if len(orders[0].Items) == 0 {
		t.Fatalf("order items must be preloaded")
	}
}
