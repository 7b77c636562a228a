package catalog

import (
	"context"

	"go.uber.org/zap"

	"salon-backend/internal/apperror"
	"salon-backend/internal/models"
	"salon-backend/internal/policy"
	"salon-backend/internal/store"
)

// ListSchedules is the public slot listing. Only available slots are shown.
func (m *Manager) ListSchedules(ctx context.Context, staffID uint64, date string) ([]models.Schedule, error) {
	if date != "" {
		d, err := parseDate(date)
		if err != nil {
			return nil, err
		}
		date = d.Format(models.DateLayout)
	}
	return m.store.ListSchedules(ctx, models.ScheduleFilter{StaffID: staffID, Date: date, AvailableOnly: true})
}

func (m *Manager) CreateSchedule(ctx context.Context, actor policy.Actor, in models.ScheduleInput) (*models.Schedule, error) {
	if err := policy.Authorize(actor, policy.ActionManageCatalog, 0); err != nil {
		return nil, err
	}
	if _, err := m.store.GetStaff(ctx, in.StaffID); err != nil {
		return nil, err
	}
	d, err := parseDate(in.Date)
	if err != nil {
		return nil, err
	}
	if err := ValidateTimeSlot(in.TimeSlot); err != nil {
		return nil, err
	}

	sch := &models.Schedule{
		StaffID:            in.StaffID,
		Date:               d.Format(models.DateLayout),
		TimeSlot:           in.TimeSlot,
		AvailabilityStatus: true,
	}
	if err := m.store.CreateSchedule(ctx, sch); err != nil {
		if apperror.Is(err, apperror.KindConflict) {
			return nil, apperror.Conflict("A schedule already exists for this staff member at this date and time.")
		}
		return nil, err
	}
	return sch, nil
}

// BulkCreateSchedules creates every slot for each day of the range and
// returns how many were new. Slots that already exist are skipped.
func (m *Manager) BulkCreateSchedules(ctx context.Context, actor policy.Actor, in models.BulkScheduleInput) (int, error) {
	if err := policy.Authorize(actor, policy.ActionManageCatalog, 0); err != nil {
		return 0, err
	}
	if _, err := m.store.GetStaff(ctx, in.StaffID); err != nil {
		return 0, err
	}
	start, err := parseDate(in.StartDate)
	if err != nil {
		return 0, err
	}
	end, err := parseDate(in.EndDate)
	if err != nil {
		return 0, err
	}
	if end.Before(start) {
		return 0, apperror.Validation("End date must not be before start date.")
	}
	if end.Sub(start).Hours()/24 >= maxBulkDays {
		return 0, apperror.Validation("Date range is too long.")
	}

	slots := in.TimeSlots
	if len(slots) == 0 {
		slots = DefaultTimeSlots()
	}
	for _, s := range slots {
		if err := ValidateTimeSlot(s); err != nil {
			return 0, err
		}
	}

	created := 0
	err = m.store.Transaction(ctx, func(tx *store.Store) error {
		existing, err := tx.ExistingSlots(ctx, in.StaffID, start.Format(models.DateLayout), end.Format(models.DateLayout))
		if err != nil {
			return err
		}
		var batch []models.Schedule
		for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
			date := d.Format(models.DateLayout)
			for _, slot := range slots {
				key := date + "|" + slot
				if existing[key] {
					continue
				}
				existing[key] = true
				batch = append(batch, models.Schedule{
					StaffID:            in.StaffID,
					Date:               date,
					TimeSlot:           slot,
					AvailabilityStatus: true,
				})
			}
		}
		created = len(batch)
		return tx.CreateSchedules(ctx, batch)
	})
	if err != nil {
		return 0, err
	}
	m.log.Info("schedules created",
		zap.Uint64("staff_id", in.StaffID),
		zap.String("from", in.StartDate),
		zap.String("to", in.EndDate),
		zap.Int("count", created))
	return created, nil
}

// DeleteSchedule removes a slot nobody ever booked.
func (m *Manager) DeleteSchedule(ctx context.Context, actor policy.Actor, id uint64) error {
	if err := policy.Authorize(actor, policy.ActionManageCatalog, 0); err != nil {
		return err
	}
	return m.store.Transaction(ctx, func(tx *store.Store) error {
		if _, err := tx.GetSchedule(ctx, id); err != nil {
			return err
		}
		n, err := tx.CountAppointments(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return apperror.Conflict("Cannot delete a schedule that has appointments.")
		}
		return tx.DeleteSchedule(ctx, id)
	})
}
