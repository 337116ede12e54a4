package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alphadeveloper12/dosta-backend/internal/config"
	"github.com/alphadeveloper12/dosta-backend/internal/constants"
	"github.com/alphadeveloper12/dosta-backend/internal/logger"
	"github.com/alphadeveloper12/dosta-backend/internal/models"
	"github.com/alphadeveloper12/dosta-backend/internal/queue"
	"github.com/alphadeveloper12/dosta-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ConfirmOrderItem 确认订单的菜品项
type ConfirmOrderItem struct {
	MenuItemID  uint   `json:"menu_item_id" binding:"required"`
	Quantity    int    `json:"quantity" binding:"required,min=1"`
	PlanType    string `json:"plan_type"`
	PlanSubType string `json:"plan_sub_type"`
	PickupType  string `json:"pickup_type"`
	Heated      bool   `json:"heated"`
}

// ConfirmOrderInput 确认订单入参
type ConfirmOrderInput struct {
	UserID      uint
	LocationID  uint               `json:"location_id" binding:"required"`
	TimeSlotID  *uint              `json:"time_slot_id"`
	PlanType    string             `json:"plan_type"`
	PlanSubType string             `json:"plan_sub_type"`
	PickupType  string             `json:"pickup_type"`
	Items       []ConfirmOrderItem `json:"items" binding:"required"`
}

// OrderProgress 订单进度视图
type OrderProgress struct {
	OrderNo          string `json:"order_no"`
	Status           string `json:"status"`
	CurrentStep      string `json:"current_step"`
	NextStep         string `json:"next_step,omitempty"`
	FulfillmentState string `json:"fulfillment_state"`
	PickupCode       string `json:"pickup_code,omitempty"`
	QRCodeURL        string `json:"qr_code_url,omitempty"`
}

// 进度步骤推进表
var orderStepNext = map[string]string{
	constants.OrderStepPlaced:    constants.OrderStepPreparing,
	constants.OrderStepPreparing: constants.OrderStepReady,
	constants.OrderStepReady:     constants.OrderStepPickedUp,
}

// 计划类型合法值
var validPlanTypes = map[string]bool{
	constants.PlanTypeOrderNow:  true,
	constants.PlanTypeStartPlan: true,
	constants.PlanTypeSmartGrab: true,
}

// OrderService 订单服务
type OrderService struct {
	orderRepo    repository.OrderRepository
	locationRepo repository.LocationRepository
	timeSlotRepo repository.TimeSlotRepository
	menuItemRepo repository.MenuItemRepository
	cartRepo     repository.CartRepository
	queueClient  *queue.Client
	fulfillment  *FulfillmentService
	orderCfg     config.OrderConfig
}

// NewOrderService 创建订单服务
func NewOrderService(
	orderRepo repository.OrderRepository,
	locationRepo repository.LocationRepository,
	timeSlotRepo repository.TimeSlotRepository,
	menuItemRepo repository.MenuItemRepository,
	cartRepo repository.CartRepository,
	queueClient *queue.Client,
	fulfillment *FulfillmentService,
	orderCfg config.OrderConfig,
) *OrderService {
	return &OrderService{
		orderRepo:    orderRepo,
		locationRepo: locationRepo,
		timeSlotRepo: timeSlotRepo,
		menuItemRepo: menuItemRepo,
		cartRepo:     cartRepo,
		queueClient:  queueClient,
		fulfillment:  fulfillment,
		orderCfg:     orderCfg,
	}
}

// ConfirmOrder 确认订单：落库订单与订单项，清空同计划购物车，触发履约任务。
// 每个订单项携带自己的计划上下文，缺省回落到订单级取值。
func (s *OrderService) ConfirmOrder(ctx context.Context, input ConfirmOrderInput) (*models.Order, error) {
	if input.UserID == 0 || len(input.Items) == 0 {
		return nil, ErrInvalidOrderItem
	}

	location, err := s.locationRepo.GetByID(input.LocationID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOrderFetchFailed, err)
	}
	if location == nil || !location.IsActive {
		return nil, ErrLocationNotFound
	}
	if input.TimeSlotID != nil {
		slot, err := s.timeSlotRepo.GetByID(*input.TimeSlotID)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrOrderFetchFailed, err)
		}
		if slot == nil || slot.LocationID != input.LocationID || !slot.IsActive {
			return nil, ErrTimeSlotInvalid
		}
	}

	planType := defaultString(input.PlanType, constants.PlanTypeOrderNow)
	planSubType := defaultString(input.PlanSubType, constants.PlanSubTypeNone)
	pickupType := defaultString(input.PickupType, constants.PickupTypeToday)
	if !validPlanTypes[planType] {
		return nil, ErrInvalidOrderItem
	}

	menuItemIDs := make([]uint, 0, len(input.Items))
	for _, item := range input.Items {
		if item.MenuItemID == 0 || item.Quantity <= 0 {
			return nil, ErrInvalidOrderItem
		}
		menuItemIDs = append(menuItemIDs, item.MenuItemID)
	}
	menuItems, err := s.menuItemRepo.GetByIDs(menuItemIDs)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOrderFetchFailed, err)
	}
	menuItemByID := make(map[uint]*models.MenuItem, len(menuItems))
	for i := range menuItems {
		menuItemByID[menuItems[i].ID] = &menuItems[i]
	}

	now := time.Now()
	total := decimal.Zero
	orderItems := make([]models.OrderItem, 0, len(input.Items))
	for _, item := range input.Items {
		menuItem := menuItemByID[item.MenuItemID]
		if menuItem == nil {
			return nil, ErrMenuItemNotFound
		}
		if !menuItem.IsActive {
			return nil, ErrMenuItemUnavailable
		}
		itemPlanType := defaultString(item.PlanType, planType)
		if !validPlanTypes[itemPlanType] {
			return nil, ErrInvalidOrderItem
		}
		unitPrice := menuItem.Price.Decimal
		total = total.Add(unitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
		orderItems = append(orderItems, models.OrderItem{
			MenuItemID:  menuItem.ID,
			Name:        menuItem.Name,
			UnitPrice:   menuItem.Price,
			Quantity:    item.Quantity,
			PlanType:    itemPlanType,
			PlanSubType: defaultString(item.PlanSubType, planSubType),
			PickupType:  defaultString(item.PickupType, pickupType),
			Heated:      item.Heated || menuItem.Heated,
		})
	}

	order := &models.Order{
		OrderNo:          generateOrderNo(),
		UserID:           input.UserID,
		LocationID:       input.LocationID,
		TimeSlotID:       input.TimeSlotID,
		Status:           constants.OrderStatusPending,
		FulfillmentState: constants.FulfillmentPending,
		CurrentStep:      constants.OrderStepPlaced,
		PlanType:         planType,
		PlanSubType:      planSubType,
		PickupType:       pickupType,
		TotalAmount:      models.NewMoneyFromDecimal(total),
		ConfirmedAt:      &now,
		Items:            orderItems,
	}
	if err := s.orderRepo.Create(order); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOrderUpdateFailed, err)
	}

	// 下单成功后清空同计划类型的购物车项，失败不影响订单
	if s.cartRepo != nil {
		if cart, err := s.cartRepo.GetByUser(input.UserID); err != nil {
			logger.Warnw("order_confirm_cart_load_failed", "user_id", input.UserID, "error", err)
		} else if cart != nil {
			if err := s.cartRepo.ReplaceItemsByPlanType(cart.ID, planType, nil); err != nil {
				logger.Warnw("order_confirm_cart_clear_failed", "cart_id", cart.ID, "error", err)
			}
		}
	}

	s.dispatchFulfillment(ctx, order)
	return s.orderRepo.GetByID(order.ID)
}

// dispatchFulfillment 触发履约：队列可用走异步任务，否则进程内直接执行
func (s *OrderService) dispatchFulfillment(ctx context.Context, order *models.Order) {
	if s.queueClient.Enabled() {
		if err := s.queueClient.EnqueueOrderFulfill(queue.OrderFulfillPayload{OrderID: order.ID}); err != nil {
			logger.Errorw("order_fulfill_enqueue_failed", "order_id", order.ID, "error", err)
		}
		if minutes := s.orderCfg.PickupTimeoutMinutes; minutes > 0 {
			payload := queue.OrderTimeoutCancelPayload{OrderID: order.ID}
			if err := s.queueClient.EnqueueOrderTimeoutCancel(payload, time.Duration(minutes)*time.Minute); err != nil {
				logger.Warnw("order_timeout_enqueue_failed", "order_id", order.ID, "error", err)
			}
		}
		return
	}
	if s.fulfillment == nil {
		logger.Warnw("order_fulfill_skip_no_runner", "order_id", order.ID)
		return
	}
	go func(orderID uint) {
		runCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Minute)
		defer cancel()
		if err := s.fulfillment.FulfillOrder(runCtx, orderID); err != nil {
			logger.Warnw("order_fulfill_inline_failed", "order_id", orderID, "error", err)
		}
	}(order.ID)
}

// ListOrders 分页查询订单列表
func (s *OrderService) ListOrders(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	orders, total, err := s.orderRepo.List(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrOrderFetchFailed, err)
	}
	return orders, total, nil
}

// GetOrderProgress 查询订单进度
func (s *OrderService) GetOrderProgress(userID uint, orderNo string) (*OrderProgress, error) {
	order, err := s.orderRepo.GetUserOrderByOrderNo(userID, orderNo)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOrderFetchFailed, err)
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return buildOrderProgress(order), nil
}

// AdvanceOrderProgress 推进订单进度一步
func (s *OrderService) AdvanceOrderProgress(userID uint, orderNo string) (*OrderProgress, error) {
	order, err := s.orderRepo.GetUserOrderByOrderNo(userID, orderNo)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOrderFetchFailed, err)
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.Status == constants.OrderStatusCancelled {
		return nil, ErrOrderStatusInvalid
	}
	next, ok := orderStepNext[order.CurrentStep]
	if !ok {
		return nil, ErrOrderStepInvalid
	}

	fields := map[string]interface{}{"current_step": next}
	switch next {
	case constants.OrderStepPreparing:
		fields["status"] = constants.OrderStatusPreparing
	case constants.OrderStepReady:
		fields["status"] = constants.OrderStatusReady
	case constants.OrderStepPickedUp:
		fields["status"] = constants.OrderStatusCompleted
	}
	if err := s.orderRepo.Updates(order.ID, fields); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOrderUpdateFailed, err)
	}

	order, err = s.orderRepo.GetByID(order.ID)
	if err != nil || order == nil {
		return nil, fmt.Errorf("%w: %v", ErrOrderFetchFailed, err)
	}
	return buildOrderProgress(order), nil
}

// CancelExpiredOrder 取消超时未履约的订单，仅处理仍处于 PENDING 的订单
func (s *OrderService) CancelExpiredOrder(orderID uint) error {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrOrderFetchFailed, err)
	}
	if order == nil {
		return ErrOrderNotFound
	}
	if order.Status != constants.OrderStatusPending {
		return nil
	}
	if err := s.orderRepo.Updates(order.ID, map[string]interface{}{
		"status": constants.OrderStatusCancelled,
	}); err != nil {
		return fmt.Errorf("%w: %v", ErrOrderUpdateFailed, err)
	}
	logger.Infow("order_timeout_cancelled", "order_id", order.ID, "order_no", order.OrderNo)
	return nil
}

func buildOrderProgress(order *models.Order) *OrderProgress {
	return &OrderProgress{
		OrderNo:          order.OrderNo,
		Status:           order.Status,
		CurrentStep:      order.CurrentStep,
		NextStep:         orderStepNext[order.CurrentStep],
		FulfillmentState: order.FulfillmentState,
		PickupCode:       order.PickupCode,
		QRCodeURL:        order.QRCodeURL,
	}
}

func defaultString(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

func generateOrderNo() string {
	now := time.Now().Format("20060102150405")
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return fmt.Sprintf("DS%s%s", now, suffix[:8])
}
