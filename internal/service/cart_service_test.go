package service

import (
	"errors"
	"testing"

	"github.com/alphadeveloper12/dosta-backend/internal/constants"
	"github.com/alphadeveloper12/dosta-backend/internal/repository"

	"gorm.io/gorm"
)

func newCartService(db *gorm.DB) *CartService {
	return NewCartService(repository.NewCartRepository(db), repository.NewMenuItemRepository(db))
}

func TestSyncCartReplacesSamePlanTypeOnly(t *testing.T) {
	db := newTestDB(t)
	_, items := seedCatalog(t, db)
	svc := newCartService(db)

	if _, err := svc.SyncCart(SyncCartInput{
		UserID:   1,
		PlanType: constants.PlanTypeStartPlan,
		Items: []SyncCartItem{
			{MenuItemID: items[1].ID, Quantity: 2, PlanSubType: constants.PlanSubTypeWeekly},
		},
	}); err != nil {
		t.Fatalf("SyncCart start plan: %v", err)
	}

	cart, err := svc.SyncCart(SyncCartInput{
		UserID:   1,
		PlanType: constants.PlanTypeOrderNow,
		Items: []SyncCartItem{
			{MenuItemID: items[0].ID, Quantity: 1},
		},
	})
	if err != nil {
		t.Fatalf("SyncCart order now: %v", err)
	}
	if len(cart.Items) != 2 {
		t.Fatalf("expected both plan types in cart, got %d items", len(cart.Items))
	}
	// 18.00*2 + 25.50
	if cart.TotalAmount.String() != "61.50" {
		t.Fatalf("expected total 61.50, got %s", cart.TotalAmount.String())
	}

	cart, err = svc.SyncCart(SyncCartInput{
		UserID:   1,
		PlanType: constants.PlanTypeOrderNow,
		Items: []SyncCartItem{
			{MenuItemID: items[0].ID, Quantity: 3},
		},
	})
	if err != nil {
		t.Fatalf("SyncCart replace: %v", err)
	}
	if len(cart.Items) != 2 {
		t.Fatalf("replacement must not touch other plan types, got %d items", len(cart.Items))
	}
	if cart.TotalAmount.String() != "112.50" {
		t.Fatalf("expected total 112.50, got %s", cart.TotalAmount.String())
	}
}

func TestSyncCartEmptyListClearsPlanType(t *testing.T) {
	db := newTestDB(t)
	_, items := seedCatalog(t, db)
	svc := newCartService(db)

	if _, err := svc.SyncCart(SyncCartInput{
		UserID:   1,
		PlanType: constants.PlanTypeOrderNow,
		Items:    []SyncCartItem{{MenuItemID: items[0].ID, Quantity: 1}},
	}); err != nil {
		t.Fatalf("SyncCart: %v", err)
	}

	cart, err := svc.SyncCart(SyncCartInput{
		UserID:   1,
		PlanType: constants.PlanTypeOrderNow,
	})
	if err != nil {
		t.Fatalf("SyncCart empty: %v", err)
	}
	if len(cart.Items) != 0 {
		t.Fatalf("expected empty cart, got %d items", len(cart.Items))
	}
	if cart.TotalAmount.String() != "0.00" {
		t.Fatalf("expected zero total, got %s", cart.TotalAmount.String())
	}
}

func TestSyncCartRejectsUnknownMenuItem(t *testing.T) {
	db := newTestDB(t)
	seedCatalog(t, db)
	svc := newCartService(db)

	_, err := svc.SyncCart(SyncCartInput{
		UserID:   1,
		PlanType: constants.PlanTypeOrderNow,
		Items:    []SyncCartItem{{MenuItemID: 9999, Quantity: 1}},
	})
	if !errors.Is(err, ErrMenuItemNotFound) {
		t.Fatalf("expected ErrMenuItemNotFound, got %v", err)
	}
}

func TestClearCart(t *testing.T) {
	db := newTestDB(t)
	_, items := seedCatalog(t, db)
	svc := newCartService(db)

	if _, err := svc.SyncCart(SyncCartInput{
		UserID:   1,
		PlanType: constants.PlanTypeOrderNow,
		Items:    []SyncCartItem{{MenuItemID: items[0].ID, Quantity: 2}},
	}); err != nil {
		t.Fatalf("SyncCart: %v", err)
	}
	if err := svc.ClearCart(1); err != nil {
		t.Fatalf("ClearCart: %v", err)
	}

	cart, err := svc.GetCart(1)
	if err != nil {
		t.Fatalf("GetCart: %v", err)
	}
	if len(cart.Items) != 0 || cart.TotalAmount.String() != "0.00" {
		t.Fatalf("expected empty cart, got %+v", cart)
	}

	// 没有购物车的用户清空是幂等的
	if err := svc.ClearCart(42); err != nil {
		t.Fatalf("clear without cart must be a noop: %v", err)
	}
}
