package handler

import (
	"github.com/gin-gonic/gin"
	billingapp "github.com/incorp/backend/internal/application/billing"
)

// OrderHandler handles incorporation order API endpoints
type OrderHandler struct {
	BaseHandler
	orderService *billingapp.OrderService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService *billingapp.OrderService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
	}
}

// Get returns the incorporation order created for the session. The order
// exists only after the application has been submitted.
func (h *OrderHandler) Get(c *gin.Context) {
	onboardingID, err := getOnboardingID(c)
	if err != nil {
		h.Unauthorized(c, "Intake token required")
		return
	}

	resp, err := h.orderService.GetByOnboardingID(c.Request.Context(), onboardingID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}
