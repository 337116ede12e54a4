package public

import (
	"github.com/alphadeveloper12/dosta-backend/internal/http/response"
	"github.com/alphadeveloper12/dosta-backend/internal/service"

	"github.com/gin-gonic/gin"
)

// SyncCartItemRequest 购物车同步项请求
type SyncCartItemRequest struct {
	MenuItemID  uint   `json:"menu_item_id" binding:"required"`
	Quantity    int    `json:"quantity" binding:"required"`
	PlanSubType string `json:"plan_sub_type"`
	PickupType  string `json:"pickup_type"`
}

// SyncCartRequest 购物车同步请求
type SyncCartRequest struct {
	PlanType string                `json:"plan_type"`
	Items    []SyncCartItemRequest `json:"items"`
}

// GetCart 获取购物车
func (h *Handler) GetCart(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	cart, err := h.CartService.GetCart(uid)
	if err != nil {
		respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "cart fetch failed")
		return
	}

	response.Success(c, cart)
}

// SyncCart 同步购物车（替换同计划类型的项）
func (h *Handler) SyncCart(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	var req SyncCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	items := make([]service.SyncCartItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, service.SyncCartItem{
			MenuItemID:  item.MenuItemID,
			Quantity:    item.Quantity,
			PlanSubType: item.PlanSubType,
			PickupType:  item.PickupType,
		})
	}

	cart, err := h.CartService.SyncCart(service.SyncCartInput{
		UserID:   uid,
		PlanType: req.PlanType,
		Items:    items,
	})
	if err != nil {
		respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "cart sync failed")
		return
	}

	response.Success(c, cart)
}

// ClearCart 清空购物车
func (h *Handler) ClearCart(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	if err := h.CartService.ClearCart(uid); err != nil {
		respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "cart clear failed")
		return
	}

	response.Success(c, nil)
}
