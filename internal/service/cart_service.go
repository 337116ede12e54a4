package service

import (
	"fmt"

	"github.com/alphadeveloper12/dosta-backend/internal/constants"
	"github.com/alphadeveloper12/dosta-backend/internal/models"
	"github.com/alphadeveloper12/dosta-backend/internal/repository"

	"github.com/shopspring/decimal"
)

// SyncCartItem 购物车同步项
type SyncCartItem struct {
	MenuItemID  uint   `json:"menu_item_id" binding:"required"`
	Quantity    int    `json:"quantity" binding:"required,min=1"`
	PlanSubType string `json:"plan_sub_type"`
	PickupType  string `json:"pickup_type"`
}

// SyncCartInput 购物车同步入参
// 只替换指定计划类型下的购物车项，其余计划类型的项保持不变。
type SyncCartInput struct {
	UserID   uint
	PlanType string         `json:"plan_type"`
	Items    []SyncCartItem `json:"items"`
}

// CartService 购物车服务
type CartService struct {
	cartRepo     repository.CartRepository
	menuItemRepo repository.MenuItemRepository
}

// NewCartService 创建购物车服务
func NewCartService(cartRepo repository.CartRepository, menuItemRepo repository.MenuItemRepository) *CartService {
	return &CartService{
		cartRepo:     cartRepo,
		menuItemRepo: menuItemRepo,
	}
}

// GetCart 查询用户购物车（不存在时创建空车）
func (s *CartService) GetCart(userID uint) (*models.Cart, error) {
	cart, err := s.cartRepo.GetOrCreateByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCartNotFound, err)
	}
	return cart, nil
}

// SyncCart 同步购物车：替换同计划类型的项并重算合计金额
func (s *CartService) SyncCart(input SyncCartInput) (*models.Cart, error) {
	planType := defaultString(input.PlanType, constants.PlanTypeOrderNow)
	if !validPlanTypes[planType] {
		return nil, ErrInvalidOrderItem
	}

	cart, err := s.cartRepo.GetOrCreateByUser(input.UserID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCartNotFound, err)
	}

	items := make([]models.CartItem, 0, len(input.Items))
	for _, item := range input.Items {
		if item.MenuItemID == 0 || item.Quantity <= 0 {
			return nil, ErrInvalidOrderItem
		}
		menuItem, err := s.menuItemRepo.GetByID(item.MenuItemID)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCartNotFound, err)
		}
		if menuItem == nil {
			return nil, ErrMenuItemNotFound
		}
		if !menuItem.IsActive {
			return nil, ErrMenuItemUnavailable
		}
		items = append(items, models.CartItem{
			CartID:      cart.ID,
			MenuItemID:  menuItem.ID,
			Quantity:    item.Quantity,
			UnitPrice:   menuItem.Price,
			PlanType:    planType,
			PlanSubType: defaultString(item.PlanSubType, constants.PlanSubTypeNone),
			PickupType:  defaultString(item.PickupType, constants.PickupTypeToday),
		})
	}

	if err := s.cartRepo.ReplaceItemsByPlanType(cart.ID, planType, items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCartNotFound, err)
	}
	if err := s.recomputeTotal(cart.ID, input.UserID); err != nil {
		return nil, err
	}
	return s.cartRepo.GetByUser(input.UserID)
}

// ClearCart 清空购物车
func (s *CartService) ClearCart(userID uint) error {
	cart, err := s.cartRepo.GetByUser(userID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCartNotFound, err)
	}
	if cart == nil {
		return nil
	}
	if err := s.cartRepo.ClearItems(cart.ID); err != nil {
		return fmt.Errorf("%w: %v", ErrCartNotFound, err)
	}
	return s.cartRepo.UpdateTotal(cart.ID, models.NewMoneyFromDecimal(decimal.Zero))
}

func (s *CartService) recomputeTotal(cartID, userID uint) error {
	cart, err := s.cartRepo.GetByUser(userID)
	if err != nil || cart == nil {
		return fmt.Errorf("%w: %v", ErrCartNotFound, err)
	}
	total := decimal.Zero
	for _, item := range cart.Items {
		total = total.Add(item.UnitPrice.Decimal.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return s.cartRepo.UpdateTotal(cartID, models.NewMoneyFromDecimal(total))
}
