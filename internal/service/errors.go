package service

import "errors"

// 业务错误定义，处理器通过 errors.Is 映射为接口响应。
var (
	ErrOrderNotFound       = errors.New("order not found")
	ErrOrderFetchFailed    = errors.New("order fetch failed")
	ErrOrderUpdateFailed   = errors.New("order update failed")
	ErrOrderStatusInvalid  = errors.New("order status invalid")
	ErrInvalidOrderItem    = errors.New("order item invalid")
	ErrOrderStepInvalid    = errors.New("order step invalid")
	ErrAlreadyFulfilled    = errors.New("order already fulfilled")
	ErrLocationNotFound    = errors.New("vending location not found")
	ErrTimeSlotInvalid     = errors.New("pickup time slot invalid")
	ErrMenuItemNotFound    = errors.New("menu item not found")
	ErrMenuItemUnavailable = errors.New("menu item unavailable")
	ErrCartNotFound        = errors.New("cart not found")
	ErrNoFulfillableItems  = errors.New("no fulfillable items")
	ErrPartialFulfillment  = errors.New("partial fulfillment")
	ErrMachineBusy         = errors.New("vending machine busy")
)
