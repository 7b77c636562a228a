package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"salon-backend/pkg/utils"
)

// Public catalog endpoints. Only bookable items are listed.

func (h *Handler) GetServices(c *gin.Context) {
	services, err := h.catalog.ListServices(c.Request.Context(), true)
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	utils.APIResponse(c, http.StatusOK, true, "Services", services)
}

func (h *Handler) GetServiceDetail(c *gin.Context) {
	svc, err := h.catalog.GetService(c.Request.Context(), idParam(c))
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	utils.APIResponse(c, http.StatusOK, true, "Service detail", svc)
}

func (h *Handler) GetStaffList(c *gin.Context) {
	staff, err := h.catalog.ListStaff(c.Request.Context(), true)
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	utils.APIResponse(c, http.StatusOK, true, "Staff", staff)
}

// GetStaffDetail includes the services the staff member offers.
func (h *Handler) GetStaffDetail(c *gin.Context) {
	staff, err := h.catalog.GetStaff(c.Request.Context(), idParam(c))
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	utils.APIResponse(c, http.StatusOK, true, "Staff detail", staff)
}

// GetSchedules lists open slots, optionally ?staff_id= and ?date=YYYY-MM-DD.
func (h *Handler) GetSchedules(c *gin.Context) {
	staffID := utils.StringToUint64(c.Query("staff_id"))
	schedules, err := h.catalog.ListSchedules(c.Request.Context(), staffID, c.Query("date"))
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	utils.APIResponse(c, http.StatusOK, true, "Available schedules", schedules)
}
