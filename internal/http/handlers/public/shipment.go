package public

import (
	"strings"

	"github.com/dujiao-next/storefront/internal/http/response"

	"github.com/gin-gonic/gin"
)

// TrackShipment 查询物流轨迹
func (h *Handler) TrackShipment(c *gin.Context) {
	if _, ok := getUserID(c); !ok {
		return
	}
	shipmentID := strings.TrimSpace(c.Param("shipment_id"))
	if shipmentID == "" {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	data, err := h.ShippingService.Track(c.Request.Context(), shipmentID)
	if err != nil {
		respondMappedError(c, err, contentRules, "error.shipping_failed")
		return
	}
	response.Success(c, data)
}
