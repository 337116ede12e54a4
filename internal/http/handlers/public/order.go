package public

import (
	"strconv"
	"strings"

	handlershared "github.com/alphadeveloper12/dosta-backend/internal/http/handlers/shared"
	"github.com/alphadeveloper12/dosta-backend/internal/http/response"
	"github.com/alphadeveloper12/dosta-backend/internal/repository"
	"github.com/alphadeveloper12/dosta-backend/internal/service"

	"github.com/gin-gonic/gin"
)

// ConfirmOrderItemRequest 确认订单的菜品项请求
type ConfirmOrderItemRequest struct {
	MenuItemID  uint   `json:"menu_item_id" binding:"required"`
	Quantity    int    `json:"quantity" binding:"required"`
	PlanType    string `json:"plan_type"`
	PlanSubType string `json:"plan_sub_type"`
	PickupType  string `json:"pickup_type"`
	Heated      bool   `json:"heated"`
}

// ConfirmOrderRequest 确认订单请求
type ConfirmOrderRequest struct {
	LocationID  uint                      `json:"location_id" binding:"required"`
	TimeSlotID  *uint                     `json:"time_slot_id"`
	PlanType    string                    `json:"plan_type"`
	PlanSubType string                    `json:"plan_sub_type"`
	PickupType  string                    `json:"pickup_type"`
	Items       []ConfirmOrderItemRequest `json:"items" binding:"required"`
}

// IssuePickupCodeRequest 手工补录取货码请求
type IssuePickupCodeRequest struct {
	Code string `json:"code" binding:"required"`
}

// ConfirmOrder 确认订单并触发履约
func (h *Handler) ConfirmOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	var req ConfirmOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	items := make([]service.ConfirmOrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, service.ConfirmOrderItem{
			MenuItemID:  item.MenuItemID,
			Quantity:    item.Quantity,
			PlanType:    item.PlanType,
			PlanSubType: item.PlanSubType,
			PickupType:  item.PickupType,
			Heated:      item.Heated,
		})
	}

	order, err := h.OrderService.ConfirmOrder(c.Request.Context(), service.ConfirmOrderInput{
		UserID:      uid,
		LocationID:  req.LocationID,
		TimeSlotID:  req.TimeSlotID,
		PlanType:    req.PlanType,
		PlanSubType: req.PlanSubType,
		PickupType:  req.PickupType,
		Items:       items,
	})
	if err != nil {
		respondWithMappedError(c, err, orderConfirmErrorRules, response.CodeInternal, "order confirm failed")
		return
	}

	response.Success(c, order)
}

// ListOrders 分页获取订单列表
func (h *Handler) ListOrders(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)

	orders, total, err := h.OrderService.ListOrders(repository.OrderListFilter{
		Page:     page,
		PageSize: pageSize,
		UserID:   uid,
		Status:   strings.TrimSpace(c.Query("status")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "order list failed", err)
		return
	}

	totalPage := (total + int64(pageSize) - 1) / int64(pageSize)
	response.SuccessWithPage(c, orders, response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: totalPage,
	})
}

// GetOrderProgress 查询订单进度
func (h *Handler) GetOrderProgress(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	progress, err := h.OrderService.GetOrderProgress(uid, c.Param("order_no"))
	if err != nil {
		respondWithMappedError(c, err, orderProgressErrorRules, response.CodeInternal, "order progress failed")
		return
	}

	response.Success(c, progress)
}

// AdvanceOrderProgress 推进订单进度
func (h *Handler) AdvanceOrderProgress(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	progress, err := h.OrderService.AdvanceOrderProgress(uid, c.Param("order_no"))
	if err != nil {
		respondWithMappedError(c, err, orderProgressErrorRules, response.CodeInternal, "order progress failed")
		return
	}

	response.Success(c, progress)
}

// IssuePickupCode 手工补录取货码
func (h *Handler) IssuePickupCode(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	var req IssuePickupCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	order, err := h.FulfillmentService.IssuePickupCode(uid, c.Param("order_no"), strings.TrimSpace(req.Code))
	if err != nil {
		respondWithMappedError(c, err, pickupCodeErrorRules, response.CodeInternal, "pickup code issue failed")
		return
	}

	response.Success(c, order)
}
