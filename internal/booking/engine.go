// Package booking allocates schedule slots to appointments and drives the
// appointment lifecycle. A slot is held by at most one Pending or Confirmed
// appointment, and its availability flag always mirrors that.
package booking

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"salon-backend/internal/apperror"
	"salon-backend/internal/models"
	"salon-backend/internal/notify"
	"salon-backend/internal/policy"
	"salon-backend/internal/store"
)

const (
	msgSlotUnavailable  = "This time slot is not available."
	msgSlotBooked       = "This time slot is already booked."
	msgAlreadyCancelled = "This appointment is already cancelled."
	msgNotReschedulable = "Cannot reschedule a cancelled or completed appointment."
)

// Catalog is the reference data a booking is validated against.
type Catalog interface {
	GetService(ctx context.Context, id uint64) (*models.Service, error)
	GetStaff(ctx context.Context, id uint64) (*models.Staff, error)
	GetUser(ctx context.Context, id uint64) (*models.User, error)
}

type Engine struct {
	store    *store.Store
	catalog  Catalog
	notifier notify.Notifier
	log      *zap.Logger
	now      func() time.Time
}

func NewEngine(st *store.Store, catalog Catalog, notifier notify.Notifier, log *zap.Logger) *Engine {
	if notifier == nil {
		notifier = notify.Noop{}
	}
	return &Engine{
		store:    st,
		catalog:  catalog,
		notifier: notifier,
		log:      log.Named("booking"),
		now:      time.Now,
	}
}

// Book claims the (staff, date, time slot) schedule and creates a Pending
// appointment on it. Of several concurrent bookings for one slot exactly one
// succeeds; the others get a Conflict.
func (e *Engine) Book(ctx context.Context, actor policy.Actor, in models.CreateAppointmentInput) (*models.Appointment, error) {
	userID := in.UserID
	if userID == 0 {
		userID = actor.UserID
	}
	if err := policy.AuthorizeBookingFor(actor, userID); err != nil {
		return nil, err
	}
	if userID != actor.UserID {
		if _, err := e.catalog.GetUser(ctx, userID); err != nil {
			return nil, err
		}
	}

	svc, err := e.catalog.GetService(ctx, in.ServiceID)
	if err != nil {
		return nil, err
	}
	if !svc.IsActive {
		return nil, apperror.Validation("This service is not currently available.")
	}
	staff, err := e.availableStaff(ctx, in.StaffID)
	if err != nil {
		return nil, err
	}
	date, err := normalizeDate(in.Date)
	if err != nil {
		return nil, err
	}

	appt := models.Appointment{
		UserID:    userID,
		ServiceID: svc.ID,
		StaffID:   staff.ID,
		Status:    models.StatusPending,
		Notes:     in.Notes,
	}
	err = e.store.Transaction(ctx, func(tx *store.Store) error {
		sch, err := tx.FindSlot(ctx, staff.ID, date, in.TimeSlot, true)
		if err != nil {
			return err
		}
		if err := claimSlot(ctx, tx, sch, 0); err != nil {
			return err
		}
		appt.ScheduleID = sch.ID
		return tx.CreateAppointment(ctx, &appt)
	})
	if err != nil {
		return nil, e.fail("book", err)
	}

	created, err := e.store.GetAppointment(ctx, appt.ID)
	if err != nil {
		return nil, e.fail("book", err)
	}
	e.log.Info("appointment booked",
		zap.Uint64("appointment_id", created.ID),
		zap.Uint64("schedule_id", created.ScheduleID),
		zap.Uint64("user_id", created.UserID))
	e.notifyAsync(created, "Appointment booked",
		fmt.Sprintf("Your %s appointment on %s at %s is pending confirmation.", svc.Name, date, in.TimeSlot))
	return created, nil
}

// Cancel marks the appointment Cancelled and frees its slot. Cancelling twice
// is a Conflict. Payments are left untouched.
func (e *Engine) Cancel(ctx context.Context, actor policy.Actor, appointmentID uint64) (*models.Appointment, error) {
	err := e.store.Transaction(ctx, func(tx *store.Store) error {
		a, err := tx.LockAppointment(ctx, appointmentID)
		if err != nil {
			return err
		}
		if err := policy.Authorize(actor, policy.ActionCancel, a.UserID); err != nil {
			return err
		}
		if a.Status == models.StatusCancelled {
			return apperror.Conflict(msgAlreadyCancelled)
		}
		if err := tx.UpdateAppointmentStatus(ctx, a.ID, models.StatusCancelled); err != nil {
			return err
		}
		return tx.SyncAvailability(ctx, a.ScheduleID)
	})
	if err != nil {
		return nil, e.fail("cancel", err)
	}

	a, err := e.store.GetAppointment(ctx, appointmentID)
	if err != nil {
		return nil, e.fail("cancel", err)
	}
	e.log.Info("appointment cancelled", zap.Uint64("appointment_id", a.ID), zap.Uint64("actor_id", actor.UserID))
	e.notifyAsync(a, "Appointment cancelled", "Your appointment has been cancelled.")
	return a, nil
}

// Reschedule moves an appointment to another (staff, date, time slot). The old
// slot is released and the new one claimed in the same transaction. Moving to
// the slot the appointment already holds changes nothing.
func (e *Engine) Reschedule(ctx context.Context, actor policy.Actor, appointmentID uint64, in models.RescheduleInput) (*models.Appointment, error) {
	current, err := e.store.GetAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(actor, policy.ActionReschedule, current.UserID); err != nil {
		return nil, err
	}
	if current.Status.Terminal() {
		return nil, apperror.Validation(msgNotReschedulable)
	}
	staff, err := e.availableStaff(ctx, in.StaffID)
	if err != nil {
		return nil, err
	}
	date, err := normalizeDate(in.Date)
	if err != nil {
		return nil, err
	}

	moved := false
	err = e.store.Transaction(ctx, func(tx *store.Store) error {
		a, err := tx.LockAppointment(ctx, appointmentID)
		if err != nil {
			return err
		}
		// status may have changed since the pre-check
		if a.Status.Terminal() {
			return apperror.Validation(msgNotReschedulable)
		}
		sch, err := tx.FindSlot(ctx, staff.ID, date, in.TimeSlot, true)
		if err != nil {
			return err
		}
		if sch.ID == a.ScheduleID {
			return nil
		}
		if err := claimSlot(ctx, tx, sch, a.ID); err != nil {
			return err
		}
		if err := tx.MoveAppointment(ctx, a.ID, staff.ID, sch.ID); err != nil {
			return err
		}
		moved = true
		return tx.SyncAvailability(ctx, a.ScheduleID)
	})
	if err != nil {
		return nil, e.fail("reschedule", err)
	}

	a, err := e.store.GetAppointment(ctx, appointmentID)
	if err != nil {
		return nil, e.fail("reschedule", err)
	}
	if moved {
		e.log.Info("appointment rescheduled",
			zap.Uint64("appointment_id", a.ID),
			zap.Uint64("from_schedule_id", current.ScheduleID),
			zap.Uint64("to_schedule_id", a.ScheduleID))
		e.notifyAsync(a, "Appointment rescheduled",
			fmt.Sprintf("Your appointment was moved to %s at %s.", date, in.TimeSlot))
	}
	return a, nil
}

func (e *Engine) Get(ctx context.Context, actor policy.Actor, appointmentID uint64) (*models.Appointment, error) {
	a, err := e.store.GetAppointment(ctx, appointmentID)
	if err != nil {
		return nil, e.fail("get appointment", err)
	}
	if err := policy.Authorize(actor, policy.ActionViewAppointment, a.UserID); err != nil {
		return nil, err
	}
	return a, nil
}

// List returns appointments visible to actor. Customers only ever see their own.
func (e *Engine) List(ctx context.Context, actor policy.Actor, filter models.AppointmentFilter) ([]models.Appointment, error) {
	if !policy.Allowed(actor, policy.ActionListAllAppointments, 0) {
		filter.UserID = actor.UserID
	}
	if filter.Date != "" {
		date, err := normalizeDate(filter.Date)
		if err != nil {
			return nil, err
		}
		filter.Date = date
	}
	out, err := e.store.ListAppointments(ctx, filter)
	if err != nil {
		return nil, e.fail("list appointments", err)
	}
	return out, nil
}

// claimSlot checks a locked schedule and takes it. excludeID is the
// appointment being moved, if any, so it does not count against itself.
func claimSlot(ctx context.Context, tx *store.Store, sch *models.Schedule, excludeID uint64) error {
	if !sch.AvailabilityStatus {
		return apperror.Conflict(msgSlotUnavailable)
	}
	n, err := tx.CountActiveAppointments(ctx, sch.ID, excludeID)
	if err != nil {
		return err
	}
	if n > 0 {
		return apperror.Conflict(msgSlotBooked)
	}
	ok, err := tx.ClaimSchedule(ctx, sch.ID)
	if err != nil {
		return err
	}
	if !ok {
		return apperror.Conflict(msgSlotUnavailable)
	}
	return nil
}

func (e *Engine) availableStaff(ctx context.Context, staffID uint64) (*models.Staff, error) {
	staff, err := e.catalog.GetStaff(ctx, staffID)
	if err != nil {
		return nil, err
	}
	if !staff.IsAvailable {
		return nil, apperror.Validation("This staff member is not currently available.")
	}
	return staff, nil
}

func normalizeDate(s string) (string, error) {
	d, err := time.Parse(models.DateLayout, s)
	if err != nil {
		return "", apperror.Validation("Date must be in YYYY-MM-DD format.")
	}
	return d.Format(models.DateLayout), nil
}

// fail logs unexpected failures. Expected outcomes are returned quietly.
func (e *Engine) fail(op string, err error) error {
	if apperror.KindOf(err) == apperror.KindInternal {
		e.log.Error(op+" failed", zap.Error(err))
	} else {
		e.log.Debug(op+" rejected", zap.String("reason", apperror.Message(err)))
	}
	return err
}

// notifyAsync pushes a message to the appointment owner after commit. Delivery
// failures never affect the operation.
func (e *Engine) notifyAsync(a *models.Appointment, title, body string) {
	if a.User == nil || a.User.FCMToken == "" {
		return
	}
	msg := notify.Message{
		Token: a.User.FCMToken,
		Title: title,
		Body:  body,
		Data: map[string]string{
			"appointment_id": fmt.Sprint(a.ID),
			"status":         string(a.Status),
		},
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := e.notifier.Send(ctx, msg); err != nil {
			e.log.Warn("push notification failed", zap.Uint64("appointment_id", a.ID), zap.Error(err))
		}
	}()
}
