package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"salon-backend/pkg/utils"
)

// GetUserProfile returns the logged-in user.
func (h *Handler) GetUserProfile(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	user, err := h.accounts.Profile(c.Request.Context(), a)
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	utils.APIResponse(c, http.StatusOK, true, "Profile", user)
}
