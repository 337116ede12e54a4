package service

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/alphadeveloper12/dosta-backend/internal/constants"
	"github.com/alphadeveloper12/dosta-backend/internal/vending/gateway"
)

var nonAlphanumericPattern = regexp.MustCompile(`[^a-zA-Z0-9]+`)

// NormalizeName 规范化菜品名称：去除所有非字母数字字符并转小写。
// 货道名称带尾缀星号、空格或大小写差异时仍可匹配。
func NormalizeName(name string) string {
	return strings.ToLower(nonAlphanumericPattern.ReplaceAllString(name, ""))
}

// ReconcileItem 参与对账的订单项
type ReconcileItem struct {
	ItemID    uint
	Name      string
	Quantity  int
	PlanType  string
	GoodsUUID string // 已解析的货道商品 UUID（幂等重入时复用）
	Heated    bool
}

// ItemAssignment 订单项的出货分配结果
type ItemAssignment struct {
	ItemID    uint
	GoodsUUID string
	Requested int
	Taken     int
	Heated    bool
}

// ReconcileResult 库存对账结果
type ReconcileResult struct {
	Assignments  []ItemAssignment      // 可出货的订单项分配
	StockUpdates []gateway.StockUpdate // 需要回写网关的货道库存
	Unfulfilled  []uint                // 无法出货的订单项 ID
}

// Fulfillable 判断是否存在可出货项
func (r ReconcileResult) Fulfillable() bool {
	return len(r.Assignments) > 0
}

// Partial 判断是否为部分出货
func (r ReconcileResult) Partial() bool {
	if len(r.Unfulfilled) > 0 {
		return len(r.Assignments) > 0
	}
	for _, assignment := range r.Assignments {
		if assignment.Taken < assignment.Requested {
			return true
		}
	}
	return false
}

// PickupItems 转换为网关取货项
func (r ReconcileResult) PickupItems() []gateway.PickupItem {
	items := make([]gateway.PickupItem, 0, len(r.Assignments))
	for _, assignment := range r.Assignments {
		items = append(items, gateway.PickupItem{
			GoodsUUID: assignment.GoodsUUID,
			Quantity:  assignment.Taken,
			Heated:    assignment.Heated,
		})
	}
	return items
}

// reconcilePlanType 判断计划类型是否参与即时出货
func reconcilePlanType(planType string) bool {
	return planType == constants.PlanTypeOrderNow || planType == constants.PlanTypeSmartGrab
}

// ReconcileStock 将订单项与售货机货道快照对账。
// 纯函数：不做任何 I/O，结果由调用方落库并回写网关。
//
// 规则：
//   - 仅 ORDER_NOW / SMART_GRAB 计划类型的订单项参与；
//   - 候选货道仅取 presentNumber > 0 的货道，同名货道取 presentNumber 最高者；
//   - 订单项已带 UUID 时直接复用；
//   - 出货量 take = min(需求, 剩余)，同一货道的累计需求不会把库存打到负数；
//   - take == 0 或无法解析的订单项记入 Unfulfilled，不进入取货请求。
func ReconcileStock(items []ReconcileItem, slots []gateway.Slot) ReconcileResult {
	var result ReconcileResult

	// 按规范化名称建立候选索引，仅收录有货的货道
	byName := make(map[string]*gateway.Slot)
	byUUID := make(map[string]*gateway.Slot)
	for i := range slots {
		slot := &slots[i]
		if slot.Goods.UUID != "" {
			byUUID[slot.Goods.UUID] = slot
		}
		if slot.PresentNumber <= 0 {
			continue
		}
		key := NormalizeName(slot.ArrivalName)
		if key == "" {
			continue
		}
		if current, ok := byName[key]; !ok || slot.PresentNumber > current.PresentNumber {
			byName[key] = slot
		}
	}

	// 各货道剩余量，跨订单项累计扣减
	remaining := make(map[string]int)
	taken := make(map[string]int)

	for _, item := range items {
		if !reconcilePlanType(item.PlanType) {
			continue
		}
		if item.Quantity <= 0 {
			result.Unfulfilled = append(result.Unfulfilled, item.ItemID)
			continue
		}

		var slot *gateway.Slot
		if item.GoodsUUID != "" {
			slot = byUUID[item.GoodsUUID]
		}
		if slot == nil {
			slot = byName[NormalizeName(item.Name)]
		}
		if slot == nil || slot.Goods.UUID == "" {
			result.Unfulfilled = append(result.Unfulfilled, item.ItemID)
			continue
		}

		uuid := slot.Goods.UUID
		if _, ok := remaining[uuid]; !ok {
			remaining[uuid] = slot.PresentNumber
		}
		take := item.Quantity
		if take > remaining[uuid] {
			take = remaining[uuid]
		}
		if take <= 0 {
			result.Unfulfilled = append(result.Unfulfilled, item.ItemID)
			continue
		}
		remaining[uuid] -= take
		taken[uuid] += take

		result.Assignments = append(result.Assignments, ItemAssignment{
			ItemID:    item.ItemID,
			GoodsUUID: uuid,
			Requested: item.Quantity,
			Taken:     take,
			Heated:    item.Heated,
		})
	}

	// 仅对实际出货的货道生成库存回写
	for i := range slots {
		slot := &slots[i]
		uuid := slot.Goods.UUID
		takenQty := taken[uuid]
		if takenQty <= 0 {
			continue
		}
		newQuantity := slot.PresentNumber - takenQty
		if newQuantity < 0 {
			newQuantity = 0
		}
		goodsID, _ := strconv.ParseInt(uuid, 10, 64)
		result.StockUpdates = append(result.StockUpdates, gateway.StockUpdate{
			ArrivalCapacity: slot.ArrivalCapacity,
			ArrivalName:     slot.ArrivalName,
			GoodsUUID:       goodsID,
			PresentNumber:   newQuantity,
			SalePrice:       slot.Goods.Price,
		})
		delete(taken, uuid)
	}

	return result
}
