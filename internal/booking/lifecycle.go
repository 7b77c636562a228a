package booking

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"salon-backend/internal/apperror"
	"salon-backend/internal/models"
	"salon-backend/internal/policy"
	"salon-backend/internal/store"
)

const maxPaymentMethodLen = 50

// transitions lists the statuses reachable from each status.
var transitions = map[models.AppointmentStatus][]models.AppointmentStatus{
	models.StatusPending:   {models.StatusConfirmed, models.StatusCancelled},
	models.StatusConfirmed: {models.StatusCompleted, models.StatusCancelled},
	models.StatusCompleted: {models.StatusCancelled},
	models.StatusCancelled: nil,
}

// CheckTransition validates a status change. Staying in the same status is
// always allowed.
func CheckTransition(from, to models.AppointmentStatus) error {
	if from == to {
		return nil
	}
	for _, next := range transitions[from] {
		if next == to {
			return nil
		}
	}
	switch from {
	case models.StatusCancelled:
		return apperror.Validation("Cannot change the status of a cancelled appointment.")
	case models.StatusCompleted:
		return apperror.Validation("A completed appointment can only be cancelled.")
	default:
		return apperror.Validation(fmt.Sprintf("Cannot change status from %s to %s.", from, to))
	}
}

// UpdateStatus applies a lifecycle transition. Entering Completed or Cancelled
// recomputes the slot's availability.
func (e *Engine) UpdateStatus(ctx context.Context, actor policy.Actor, appointmentID uint64, status string) (*models.Appointment, error) {
	if err := policy.Authorize(actor, policy.ActionUpdateStatus, 0); err != nil {
		return nil, err
	}
	to, ok := models.ParseAppointmentStatus(status)
	if !ok {
		return nil, apperror.Validation("Invalid status. Must be one of: Pending, Confirmed, Completed, Cancelled.")
	}

	var from models.AppointmentStatus
	err := e.store.Transaction(ctx, func(tx *store.Store) error {
		a, err := tx.LockAppointment(ctx, appointmentID)
		if err != nil {
			return err
		}
		from = a.Status
		if from == to {
			return nil
		}
		if err := CheckTransition(from, to); err != nil {
			return err
		}
		if err := tx.UpdateAppointmentStatus(ctx, a.ID, to); err != nil {
			return err
		}
		if to.Terminal() {
			return tx.SyncAvailability(ctx, a.ScheduleID)
		}
		return nil
	})
	if err != nil {
		return nil, e.fail("update status", err)
	}

	a, err := e.store.GetAppointment(ctx, appointmentID)
	if err != nil {
		return nil, e.fail("update status", err)
	}
	if from != to {
		e.log.Info("appointment status changed",
			zap.Uint64("appointment_id", a.ID),
			zap.String("from", string(from)),
			zap.String("to", string(to)))
		e.notifyAsync(a, "Appointment "+strings.ToLower(string(to)),
			fmt.Sprintf("Your appointment is now %s.", to))
	}
	return a, nil
}

// ProcessPayment records the one payment of an appointment for the service's
// current price and confirms the appointment.
func (e *Engine) ProcessPayment(ctx context.Context, actor policy.Actor, appointmentID uint64, method string) (*models.Payment, error) {
	method = strings.TrimSpace(method)
	if method == "" {
		method = models.DefaultPaymentMethod
	}
	if len(method) > maxPaymentMethodLen {
		return nil, apperror.Validation("Payment method must be at most 50 characters.")
	}

	var payment models.Payment
	err := e.store.Transaction(ctx, func(tx *store.Store) error {
		a, err := tx.LockAppointment(ctx, appointmentID)
		if err != nil {
			return err
		}
		if err := policy.Authorize(actor, policy.ActionProcessPayment, a.UserID); err != nil {
			return err
		}
		if !a.Status.Active() {
			return apperror.Validation("Payment can only be processed for pending or confirmed appointments.")
		}
		exists, err := tx.PaymentExists(ctx, a.ID)
		if err != nil {
			return err
		}
		if exists {
			return apperror.Conflict("Payment already exists for this appointment.")
		}
		svc, err := tx.GetService(ctx, a.ServiceID)
		if err != nil {
			return err
		}

		payment = models.Payment{
			AppointmentID: a.ID,
			Amount:        svc.Price,
			PaymentMethod: method,
			TransactionID: "TXN-" + strings.ToUpper(uuid.NewString()),
			PaymentDate:   e.now(),
		}
		if err := tx.CreatePayment(ctx, &payment); err != nil {
			return err
		}
		if a.Status != models.StatusConfirmed {
			return tx.UpdateAppointmentStatus(ctx, a.ID, models.StatusConfirmed)
		}
		return nil
	})
	if err != nil {
		return nil, e.fail("process payment", err)
	}

	e.log.Info("payment recorded",
		zap.Uint64("appointment_id", appointmentID),
		zap.String("transaction_id", payment.TransactionID),
		zap.Float64("amount", payment.Amount))
	if a, err := e.store.GetAppointment(ctx, appointmentID); err == nil {
		e.notifyAsync(a, "Payment received",
			fmt.Sprintf("We received your payment of %.2f. Your appointment is confirmed.", payment.Amount))
	}
	return &payment, nil
}
