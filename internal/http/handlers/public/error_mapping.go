package public

import (
	"errors"

	handlershared "github.com/alphadeveloper12/dosta-backend/internal/http/handlers/shared"
	"github.com/alphadeveloper12/dosta-backend/internal/http/response"
	"github.com/alphadeveloper12/dosta-backend/internal/service"
	"github.com/alphadeveloper12/dosta-backend/internal/vending/gateway"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	msg    string
}

func respondError(c *gin.Context, code int, msg string, err error) {
	handlershared.RespondError(c, code, msg, err)
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackMsg string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.msg, nil)
			return
		}
	}
	respondError(c, fallbackCode, fallbackMsg, err)
}

var orderConfirmErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidOrderItem, code: response.CodeBadRequest, msg: "order item invalid"},
	{target: service.ErrLocationNotFound, code: response.CodeBadRequest, msg: "vending location not found"},
	{target: service.ErrTimeSlotInvalid, code: response.CodeBadRequest, msg: "pickup time slot invalid"},
	{target: service.ErrMenuItemNotFound, code: response.CodeBadRequest, msg: "menu item not found"},
	{target: service.ErrMenuItemUnavailable, code: response.CodeBadRequest, msg: "menu item unavailable"},
}

var orderProgressErrorRules = []mappedHandlerError{
	{target: service.ErrOrderNotFound, code: response.CodeNotFound, msg: "order not found"},
	{target: service.ErrOrderStatusInvalid, code: response.CodeBadRequest, msg: "order status invalid"},
	{target: service.ErrOrderStepInvalid, code: response.CodeBadRequest, msg: "order step cannot advance"},
}

var pickupCodeErrorRules = []mappedHandlerError{
	{target: service.ErrOrderNotFound, code: response.CodeNotFound, msg: "order not found"},
	{target: service.ErrOrderUpdateFailed, code: response.CodeBadRequest, msg: "pickup code invalid"},
	{target: service.ErrMachineBusy, code: response.CodeTooManyRequests, msg: "vending machine busy"},
	{target: gateway.ErrGatewayAuthFailed, code: response.CodeInternal, msg: "vending gateway auth failed"},
	{target: gateway.ErrGatewayUnavailable, code: response.CodeInternal, msg: "vending gateway unavailable"},
}

var cartErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidOrderItem, code: response.CodeBadRequest, msg: "cart item invalid"},
	{target: service.ErrMenuItemNotFound, code: response.CodeBadRequest, msg: "menu item not found"},
	{target: service.ErrMenuItemUnavailable, code: response.CodeBadRequest, msg: "menu item unavailable"},
	{target: service.ErrCartNotFound, code: response.CodeInternal, msg: "cart unavailable"},
}

var locationErrorRules = []mappedHandlerError{
	{target: service.ErrLocationNotFound, code: response.CodeNotFound, msg: "vending location not found"},
}
