package repository

import (
	"testing"

	"github.com/alphadeveloper12/dosta-backend/internal/models"
)

func TestMachineStockRepositoryUpsert(t *testing.T) {
	repo := NewMachineStockRepository(newTestDB(t))

	if err := repo.Upsert(&models.VendingMachineStock{
		LocationID: 1,
		GoodsUUID:  "9001",
		GoodsName:  "Chicken Biryani",
		Quantity:   6,
	}); err != nil {
		t.Fatalf("Upsert insert: %v", err)
	}

	if err := repo.Upsert(&models.VendingMachineStock{
		LocationID: 1,
		GoodsUUID:  "9001",
		GoodsName:  "Chicken Biryani XL",
		Quantity:   4,
	}); err != nil {
		t.Fatalf("Upsert update: %v", err)
	}

	stocks, err := repo.ListByLocation(1)
	if err != nil {
		t.Fatalf("ListByLocation: %v", err)
	}
	if len(stocks) != 1 {
		t.Fatalf("upsert must not duplicate rows, got %d", len(stocks))
	}
	if stocks[0].GoodsName != "Chicken Biryani XL" || stocks[0].Quantity != 4 {
		t.Fatalf("unexpected stock row: %+v", stocks[0])
	}
}

func TestMachineStockRepositoryDecrementClamped(t *testing.T) {
	repo := NewMachineStockRepository(newTestDB(t))

	if err := repo.Upsert(&models.VendingMachineStock{
		LocationID: 1,
		GoodsUUID:  "9002",
		GoodsName:  "Greek Salad",
		Quantity:   5,
	}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	if err := repo.DecrementClamped(1, "9002", 2); err != nil {
		t.Fatalf("DecrementClamped: %v", err)
	}
	stock, err := repo.GetByLocationAndGoods(1, "9002")
	if err != nil {
		t.Fatalf("GetByLocationAndGoods: %v", err)
	}
	if stock == nil || stock.Quantity != 3 {
		t.Fatalf("expected quantity 3, got %+v", stock)
	}

	// 超出余量时只扣到 0
	if err := repo.DecrementClamped(1, "9002", 10); err != nil {
		t.Fatalf("DecrementClamped over: %v", err)
	}
	stock, err = repo.GetByLocationAndGoods(1, "9002")
	if err != nil {
		t.Fatalf("GetByLocationAndGoods: %v", err)
	}
	if stock == nil || stock.Quantity != 0 {
		t.Fatalf("quantity must clamp at 0, got %+v", stock)
	}

	// 数量非正时不做任何事
	if err := repo.DecrementClamped(1, "9002", 0); err != nil {
		t.Fatalf("DecrementClamped zero: %v", err)
	}
}

func TestMachineStockRepositoryGetMissing(t *testing.T) {
	repo := NewMachineStockRepository(newTestDB(t))
	stock, err := repo.GetByLocationAndGoods(99, "nope")
	if err != nil {
		t.Fatalf("GetByLocationAndGoods: %v", err)
	}
	if stock != nil {
		t.Fatalf("expected nil for missing stock, got %+v", stock)
	}
}
