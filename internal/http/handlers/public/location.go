package public

import (
	"strconv"

	"github.com/alphadeveloper12/dosta-backend/internal/http/response"

	"github.com/gin-gonic/gin"
)

// ListLocations 获取启用的售货点列表
func (h *Handler) ListLocations(c *gin.Context) {
	locations, err := h.LocationService.ListLocations()
	if err != nil {
		respondError(c, response.CodeInternal, "location list failed", err)
		return
	}
	response.Success(c, locations)
}

// ListTimeSlots 获取售货点的取货时段
func (h *Handler) ListTimeSlots(c *gin.Context) {
	locationID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || locationID == 0 {
		respondError(c, response.CodeBadRequest, "location id invalid", nil)
		return
	}

	slots, err := h.LocationService.ListTimeSlots(uint(locationID))
	if err != nil {
		respondWithMappedError(c, err, locationErrorRules, response.CodeInternal, "time slot list failed")
		return
	}
	response.Success(c, slots)
}

// ListMachineStock 获取售货点的本地库存镜像
func (h *Handler) ListMachineStock(c *gin.Context) {
	locationID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || locationID == 0 {
		respondError(c, response.CodeBadRequest, "location id invalid", nil)
		return
	}

	stock, err := h.LocationService.ListMachineStock(uint(locationID))
	if err != nil {
		respondWithMappedError(c, err, locationErrorRules, response.CodeInternal, "stock list failed")
		return
	}
	response.Success(c, stock)
}
