package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"salon-backend/internal/accounts"
	"salon-backend/internal/models"
	"salon-backend/pkg/utils"
)

func (h *Handler) Register(c *gin.Context) {
	var input models.RegisterInput
	if !bindJSON(c, &input) {
		return
	}

	user, err := h.accounts.Register(c.Request.Context(), input)
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	utils.APIResponse(c, http.StatusCreated, true, "Registration successful. Please log in.", user)
}

func (h *Handler) Login(c *gin.Context) {
	var input models.LoginInput
	if !bindJSON(c, &input) {
		return
	}

	token, user, err := h.accounts.Login(c.Request.Context(), input)
	if errors.Is(err, accounts.ErrInvalidCredentials) {
		utils.APIResponse(c, http.StatusUnauthorized, false, "Invalid username or password.", nil)
		return
	}
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}

	utils.APIResponse(c, http.StatusOK, true, "Login successful", gin.H{
		"token": token,
		"user":  user,
	})
}
