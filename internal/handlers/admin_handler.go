package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"salon-backend/internal/models"
	"salon-backend/pkg/utils"
)

// CreateUser provisions a Staff, Admin or Customer account.
func (h *Handler) CreateUser(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	var input models.CreateUserInput
	if !bindJSON(c, &input) {
		return
	}
	user, err := h.accounts.CreateUser(c.Request.Context(), a, input)
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	utils.APIResponse(c, http.StatusCreated, true, "User created.", user)
}

func (h *Handler) CreateService(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	var input models.ServiceInput
	if !bindJSON(c, &input) {
		return
	}
	svc, err := h.catalog.CreateService(c.Request.Context(), a, input)
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	utils.APIResponse(c, http.StatusCreated, true, "Service created.", svc)
}

func (h *Handler) UpdateService(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	var input models.UpdateServiceInput
	if !bindJSON(c, &input) {
		return
	}
	svc, err := h.catalog.UpdateService(c.Request.Context(), a, idParam(c), input)
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	utils.APIResponse(c, http.StatusOK, true, "Service updated.", svc)
}

// DeleteService deactivates; the row stays for existing appointments.
func (h *Handler) DeleteService(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	svc, err := h.catalog.DeactivateService(c.Request.Context(), a, idParam(c))
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	utils.APIResponse(c, http.StatusOK, true, "Service deactivated.", svc)
}

func (h *Handler) CreateStaff(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	var input models.StaffInput
	if !bindJSON(c, &input) {
		return
	}
	staff, err := h.catalog.CreateStaff(c.Request.Context(), a, input)
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	utils.APIResponse(c, http.StatusCreated, true, "Staff profile created.", staff)
}

func (h *Handler) UpdateStaff(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	var input models.UpdateStaffInput
	if !bindJSON(c, &input) {
		return
	}
	staff, err := h.catalog.UpdateStaff(c.Request.Context(), a, idParam(c), input)
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	utils.APIResponse(c, http.StatusOK, true, "Staff profile updated.", staff)
}

func (h *Handler) AssignStaffService(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	var input models.AssignServiceInput
	if !bindJSON(c, &input) {
		return
	}
	ss, err := h.catalog.AssignService(c.Request.Context(), a, idParam(c), input.ServiceID)
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	utils.APIResponse(c, http.StatusCreated, true, "Service assigned to staff.", ss)
}

func (h *Handler) CreateSchedule(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	var input models.ScheduleInput
	if !bindJSON(c, &input) {
		return
	}
	sch, err := h.catalog.CreateSchedule(c.Request.Context(), a, input)
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	utils.APIResponse(c, http.StatusCreated, true, "Schedule created.", sch)
}

func (h *Handler) BulkCreateSchedules(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	var input models.BulkScheduleInput
	if !bindJSON(c, &input) {
		return
	}
	n, err := h.catalog.BulkCreateSchedules(c.Request.Context(), a, input)
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	utils.APIResponse(c, http.StatusCreated, true, "Schedules created.", gin.H{"created": n})
}

func (h *Handler) DeleteSchedule(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	if err := h.catalog.DeleteSchedule(c.Request.Context(), a, idParam(c)); err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	utils.APIResponse(c, http.StatusOK, true, "Schedule deleted.", nil)
}
