package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"salon-backend/internal/models"
	"salon-backend/pkg/utils"
)

// ProcessPayment records the payment of an appointment. The body is optional;
// without a method the payment is recorded as cash.
func (h *Handler) ProcessPayment(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	var input models.PaymentInput
	if c.Request.ContentLength != 0 && !bindJSON(c, &input) {
		return
	}

	payment, err := h.engine.ProcessPayment(c.Request.Context(), a, idParam(c), input.PaymentMethod)
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	utils.APIResponse(c, http.StatusCreated, true, "Payment processed successfully.", payment)
}
