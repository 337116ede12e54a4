package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alphadeveloper12/dosta-backend/internal/cache"
	"github.com/alphadeveloper12/dosta-backend/internal/constants"
	"github.com/alphadeveloper12/dosta-backend/internal/logger"
	"github.com/alphadeveloper12/dosta-backend/internal/models"
	"github.com/alphadeveloper12/dosta-backend/internal/repository"
	"github.com/alphadeveloper12/dosta-backend/internal/vending/gateway"
)

// VendingGateway 售货机网关抽象，便于注入测试替身
type VendingGateway interface {
	FetchToken(ctx context.Context) (string, error)
	QueryMachineGoods(ctx context.Context, token, machineUUID string) ([]gateway.Slot, error)
	UpdateStock(ctx context.Context, token, machineUUID string, updates []gateway.StockUpdate) error
	RequestPickupCode(ctx context.Context, token string, input gateway.PickupInput) (string, error)
}

// MachineLocker 售货机级串行化
type MachineLocker interface {
	Acquire(ctx context.Context, machineUUID string) (func(), error)
}

// FulfillmentService 履约编排服务
// 驱动 PENDING_FULFILLMENT → STOCK_SYNCED → CODE_ISSUED → COMPLETE 状态机，
// 失败分支为 PARTIAL / FAILED。
type FulfillmentService struct {
	orderRepo    repository.OrderRepository
	locationRepo repository.LocationRepository
	stockRepo    repository.MachineStockRepository
	gateway      VendingGateway
	locker       MachineLocker
}

// NewFulfillmentService 创建履约服务
func NewFulfillmentService(
	orderRepo repository.OrderRepository,
	locationRepo repository.LocationRepository,
	stockRepo repository.MachineStockRepository,
	vendingGateway VendingGateway,
	locker MachineLocker,
) *FulfillmentService {
	if locker == nil {
		locker = cache.NewMachineLock(30 * time.Second)
	}
	return &FulfillmentService{
		orderRepo:    orderRepo,
		locationRepo: locationRepo,
		stockRepo:    stockRepo,
		gateway:      vendingGateway,
		locker:       locker,
	}
}

// FulfillOrder 执行订单履约流水线。
//
// 解析后的货道 UUID 在任何网关写操作之前落库，重入时直接复用；
// 库存回写失败只记录日志不中断，售货机侧自行夹逼。
func (s *FulfillmentService) FulfillOrder(ctx context.Context, orderID uint) error {
	if s.gateway == nil {
		return gateway.ErrConfigInvalid
	}
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrOrderFetchFailed, err)
	}
	if order == nil {
		return ErrOrderNotFound
	}
	switch order.FulfillmentState {
	case constants.FulfillmentCodeIssued, constants.FulfillmentComplete, constants.FulfillmentPartial:
		return ErrAlreadyFulfilled
	}

	location, err := s.locationRepo.GetByID(order.LocationID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrOrderFetchFailed, err)
	}
	if location == nil {
		return ErrLocationNotFound
	}

	release, err := s.locker.Acquire(ctx, location.MachineUUID)
	if err != nil {
		if errors.Is(err, cache.ErrLockTimeout) {
			return ErrMachineBusy
		}
		return err
	}
	defer release()

	token, err := s.gateway.FetchToken(ctx)
	if err != nil {
		s.markFailed(order.ID, "fetch_token", err)
		return err
	}

	slots, err := s.gateway.QueryMachineGoods(ctx, token, location.MachineUUID)
	if err != nil {
		s.markFailed(order.ID, "query_goods", err)
		return err
	}

	items := make([]ReconcileItem, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, ReconcileItem{
			ItemID:    item.ID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			PlanType:  item.PlanType,
			GoodsUUID: item.GoodsUUID,
			Heated:    item.Heated,
		})
	}
	result := ReconcileStock(items, slots)

	// 先持久化解析结果，网关写操作失败后重入可幂等复用
	for _, assignment := range result.Assignments {
		if err := s.orderRepo.UpdateItem(assignment.ItemID, map[string]interface{}{
			"goods_uuid": assignment.GoodsUUID,
		}); err != nil {
			logger.Warnw("fulfillment_persist_goods_uuid_failed",
				"order_id", order.ID, "item_id", assignment.ItemID, "error", err)
		}
	}

	if !result.Fulfillable() {
		s.markFailed(order.ID, "reconcile", ErrNoFulfillableItems)
		return ErrNoFulfillableItems
	}

	if err := s.gateway.UpdateStock(ctx, token, location.MachineUUID, result.StockUpdates); err != nil {
		// 回写失败不中断流水线
		logger.Warnw("fulfillment_stock_update_failed",
			"order_id", order.ID, "machine_uuid", location.MachineUUID, "error", err)
	}
	if err := s.orderRepo.Updates(order.ID, map[string]interface{}{
		"fulfillment_state": constants.FulfillmentStockSynced,
	}); err != nil {
		logger.Warnw("fulfillment_state_update_failed", "order_id", order.ID, "error", err)
	}

	code, err := s.gateway.RequestPickupCode(ctx, token, gateway.PickupInput{
		MachineUUID: location.MachineUUID,
		OrderNo:     order.OrderNo,
		OrderTime:   time.Now(),
		Items:       result.PickupItems(),
	})
	if err != nil {
		s.markFailed(order.ID, "request_pickup_code", err)
		return err
	}

	finalState := constants.FulfillmentComplete
	if result.Partial() {
		finalState = constants.FulfillmentPartial
	}
	if err := s.orderRepo.Updates(order.ID, map[string]interface{}{
		"pickup_code":       code,
		"qr_code_url":       constants.QRCodeBaseURL + code,
		"fulfillment_state": finalState,
		"status":            constants.OrderStatusConfirmed,
	}); err != nil {
		return fmt.Errorf("%w: %v", ErrOrderUpdateFailed, err)
	}
	for _, assignment := range result.Assignments {
		if err := s.orderRepo.UpdateItem(assignment.ItemID, map[string]interface{}{
			"fulfilled": true,
		}); err != nil {
			logger.Warnw("fulfillment_item_update_failed",
				"order_id", order.ID, "item_id", assignment.ItemID, "error", err)
		}
	}

	s.syncStockMirror(order.LocationID, slots, result)

	logger.Infow("fulfillment_pickup_code_issued",
		"order_id", order.ID,
		"order_no", order.OrderNo,
		"machine_uuid", location.MachineUUID,
		"state", finalState,
	)
	if finalState == constants.FulfillmentPartial {
		return ErrPartialFulfillment
	}
	return nil
}

// IssuePickupCode 人工补录取货码（同步镜像库存扣减）
func (s *FulfillmentService) IssuePickupCode(userID uint, orderNo, code string) (*models.Order, error) {
	if code == "" {
		return nil, ErrOrderUpdateFailed
	}
	order, err := s.orderRepo.GetUserOrderByOrderNo(userID, orderNo)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOrderFetchFailed, err)
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	if err := s.orderRepo.Updates(order.ID, map[string]interface{}{
		"pickup_code":       code,
		"qr_code_url":       constants.QRCodeBaseURL + code,
		"fulfillment_state": constants.FulfillmentCodeIssued,
	}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOrderUpdateFailed, err)
	}

	for _, item := range order.Items {
		if item.GoodsUUID == "" {
			continue
		}
		if err := s.stockRepo.DecrementClamped(order.LocationID, item.GoodsUUID, item.Quantity); err != nil {
			logger.Warnw("stock_mirror_decrement_failed",
				"order_id", order.ID, "goods_uuid", item.GoodsUUID, "error", err)
		}
	}

	return s.orderRepo.GetByID(order.ID)
}

// markFailed 将订单履约状态置为 FAILED，订单其余字段不动
func (s *FulfillmentService) markFailed(orderID uint, stage string, cause error) {
	logger.Warnw("fulfillment_failed", "order_id", orderID, "stage", stage, "error", cause)
	if err := s.orderRepo.Updates(orderID, map[string]interface{}{
		"fulfillment_state": constants.FulfillmentFailed,
	}); err != nil {
		logger.Errorw("fulfillment_mark_failed_error", "order_id", orderID, "error", err)
	}
}

// syncStockMirror 出货后刷新本地库存镜像并按实际出货量扣减
func (s *FulfillmentService) syncStockMirror(locationID uint, slots []gateway.Slot, result ReconcileResult) {
	takenByUUID := make(map[string]int)
	for _, assignment := range result.Assignments {
		takenByUUID[assignment.GoodsUUID] += assignment.Taken
	}
	for i := range slots {
		slot := &slots[i]
		uuid := slot.Goods.UUID
		if uuid == "" {
			continue
		}
		quantity := slot.PresentNumber - takenByUUID[uuid]
		if quantity < 0 {
			quantity = 0
		}
		if err := s.stockRepo.Upsert(&models.VendingMachineStock{
			LocationID: locationID,
			GoodsUUID:  uuid,
			GoodsName:  slot.Goods.Name,
			Quantity:   quantity,
		}); err != nil {
			logger.Warnw("stock_mirror_upsert_failed",
				"location_id", locationID, "goods_uuid", uuid, "error", err)
		}
	}
}
