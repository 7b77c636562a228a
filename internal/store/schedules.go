package store

import (
	"context"

	"salon-backend/internal/apperror"
	"salon-backend/internal/models"
)

func (s *Store) CreateSchedule(ctx context.Context, sch *models.Schedule) error {
	return translate(s.conn(ctx).Omit("Staff").Create(sch).Error)
}

// CreateSchedules inserts a batch in one statement.
func (s *Store) CreateSchedules(ctx context.Context, batch []models.Schedule) error {
	if len(batch) == 0 {
		return nil
	}
	return translate(s.conn(ctx).Omit("Staff").CreateInBatches(batch, 100).Error)
}

func (s *Store) GetSchedule(ctx context.Context, id uint64) (*models.Schedule, error) {
	var sch models.Schedule
	if err := s.conn(ctx).First(&sch, id).Error; err != nil {
		return nil, notFound(err, "Schedule not found.")
	}
	return &sch, nil
}

// FindSlot loads the schedule for (staff, date, slot). With lock set the row
// stays locked until the surrounding transaction ends.
func (s *Store) FindSlot(ctx context.Context, staffID uint64, date, timeSlot string, lock bool) (*models.Schedule, error) {
	q := s.conn(ctx)
	if lock {
		q = s.forUpdate(q)
	}
	var sch models.Schedule
	err := q.Where("staff_id = ? AND date = ? AND time_slot = ?", staffID, date, timeSlot).First(&sch).Error
	if err != nil {
		return nil, notFound(err, "No schedule exists for this staff member at the selected date and time.")
	}
	return &sch, nil
}

// ExistingSlots returns the "date|time_slot" keys already present for a staff
// member inside [from, to].
func (s *Store) ExistingSlots(ctx context.Context, staffID uint64, from, to string) (map[string]bool, error) {
	var rows []models.Schedule
	err := s.conn(ctx).
		Select("date", "time_slot").
		Where("staff_id = ? AND date >= ? AND date <= ?", staffID, from, to).
		Find(&rows).Error
	if err != nil {
		return nil, translate(err)
	}
	out := make(map[string]bool, len(rows))
	for _, r := range rows {
		out[r.Date+"|"+r.TimeSlot] = true
	}
	return out, nil
}

func (s *Store) ListSchedules(ctx context.Context, f models.ScheduleFilter) ([]models.Schedule, error) {
	q := s.conn(ctx).Preload("Staff.User").Order("date asc, time_slot asc")
	if f.StaffID != 0 {
		q = q.Where("staff_id = ?", f.StaffID)
	}
	if f.Date != "" {
		q = q.Where("date = ?", f.Date)
	}
	if f.AvailableOnly {
		q = q.Where("availability_status = ?", true)
	}
	var out []models.Schedule
	if err := q.Find(&out).Error; err != nil {
		return nil, translate(err)
	}
	return out, nil
}

func (s *Store) DeleteSchedule(ctx context.Context, id uint64) error {
	res := s.conn(ctx).Delete(&models.Schedule{}, id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound("Schedule not found.")
	}
	return nil
}

// ClaimSchedule flips availability from true to false. It reports false when
// another writer got there first.
func (s *Store) ClaimSchedule(ctx context.Context, id uint64) (bool, error) {
	res := s.conn(ctx).Model(&models.Schedule{}).
		Where("id = ? AND availability_status = ?", id, true).
		Update("availability_status", false)
	if res.Error != nil {
		return false, translate(res.Error)
	}
	return res.RowsAffected == 1, nil
}

// SyncAvailability recomputes the flag from the appointments that still hold
// the slot: available iff none is Pending or Confirmed.
func (s *Store) SyncAvailability(ctx context.Context, scheduleID uint64) error {
	var sch models.Schedule
	if err := s.forUpdate(s.conn(ctx)).Select("id").First(&sch, scheduleID).Error; err != nil {
		return notFound(err, "Schedule not found.")
	}
	n, err := s.CountActiveAppointments(ctx, scheduleID, 0)
	if err != nil {
		return err
	}
	err = s.conn(ctx).Model(&models.Schedule{}).
		Where("id = ?", scheduleID).
		Update("availability_status", n == 0).Error
	return translate(err)
}
