package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"salon-backend/internal/apperror"
	"salon-backend/internal/models"
	"salon-backend/pkg/utils"
)

// CreateAppointment books a slot for the caller (or, for admins, for user_id).
func (h *Handler) CreateAppointment(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	var input models.CreateAppointmentInput
	if !bindJSON(c, &input) {
		return
	}

	appt, err := h.engine.Book(c.Request.Context(), a, input)
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	utils.APIResponse(c, http.StatusCreated, true, "Appointment booked successfully.", appt)
}

// GetMyAppointments lists appointments. Customers get their own; staff and
// admins get everyone's. Filters: ?status= ?date= ?staff_id=
func (h *Handler) GetMyAppointments(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}

	filter := models.AppointmentFilter{
		StaffID: utils.StringToUint64(c.Query("staff_id")),
		Date:    c.Query("date"),
	}
	if s := c.Query("status"); s != "" {
		status, valid := models.ParseAppointmentStatus(s)
		if !valid {
			utils.ErrorResponse(c, apperror.Validation("Invalid status filter."))
			return
		}
		filter.Status = status
	}

	list, err := h.engine.List(c.Request.Context(), a, filter)
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	utils.APIResponse(c, http.StatusOK, true, "Appointments", list)
}

func (h *Handler) GetAppointmentDetail(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	appt, err := h.engine.Get(c.Request.Context(), a, idParam(c))
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	utils.APIResponse(c, http.StatusOK, true, "Appointment detail", appt)
}

func (h *Handler) CancelAppointment(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	appt, err := h.engine.Cancel(c.Request.Context(), a, idParam(c))
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	utils.APIResponse(c, http.StatusOK, true, "Appointment cancelled successfully.", appt)
}

func (h *Handler) RescheduleAppointment(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	var input models.RescheduleInput
	if !bindJSON(c, &input) {
		return
	}
	appt, err := h.engine.Reschedule(c.Request.Context(), a, idParam(c), input)
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	utils.APIResponse(c, http.StatusOK, true, "Appointment rescheduled successfully.", appt)
}

// UpdateAppointmentStatus is for staff and admins.
func (h *Handler) UpdateAppointmentStatus(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	var input models.UpdateStatusInput
	if !bindJSON(c, &input) {
		return
	}
	appt, err := h.engine.UpdateStatus(c.Request.Context(), a, idParam(c), input.Status)
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	utils.APIResponse(c, http.StatusOK, true, "Appointment status updated to "+string(appt.Status)+".", appt)
}
