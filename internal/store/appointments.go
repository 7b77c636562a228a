package store

import (
	"context"

	"gorm.io/gorm"

	"salon-backend/internal/models"
)

// CountActiveAppointments counts Pending/Confirmed appointments on a schedule,
// ignoring excludeID when it is non-zero.
func (s *Store) CountActiveAppointments(ctx context.Context, scheduleID, excludeID uint64) (int64, error) {
	q := s.conn(ctx).Model(&models.Appointment{}).
		Where("schedule_id = ? AND status IN ?", scheduleID, models.ActiveStatuses)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return 0, translate(err)
	}
	return n, nil
}

// CountAppointments counts appointments of any status on a schedule.
func (s *Store) CountAppointments(ctx context.Context, scheduleID uint64) (int64, error) {
	var n int64
	err := s.conn(ctx).Model(&models.Appointment{}).Where("schedule_id = ?", scheduleID).Count(&n).Error
	return n, translate(err)
}

func (s *Store) CreateAppointment(ctx context.Context, a *models.Appointment) error {
	return translate(s.conn(ctx).Omit("User", "Service", "Staff", "Schedule", "Payment").Create(a).Error)
}

// LockAppointment loads the bare row under a row lock.
func (s *Store) LockAppointment(ctx context.Context, id uint64) (*models.Appointment, error) {
	var a models.Appointment
	if err := s.forUpdate(s.conn(ctx)).First(&a, id).Error; err != nil {
		return nil, notFound(err, "Appointment not found.")
	}
	return &a, nil
}

// GetAppointment loads an appointment with its service, staff, schedule, user and payment.
func (s *Store) GetAppointment(ctx context.Context, id uint64) (*models.Appointment, error) {
	var a models.Appointment
	err := s.withDetails(s.conn(ctx)).First(&a, id).Error
	if err != nil {
		return nil, notFound(err, "Appointment not found.")
	}
	return &a, nil
}

func (s *Store) ListAppointments(ctx context.Context, f models.AppointmentFilter) ([]models.Appointment, error) {
	q := s.withDetails(s.conn(ctx)).Order("created_at desc, id desc")
	if f.UserID != 0 {
		q = q.Where("user_id = ?", f.UserID)
	}
	if f.StaffID != 0 {
		q = q.Where("staff_id = ?", f.StaffID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Date != "" {
		q = q.Where("schedule_id IN (?)", s.db.Model(&models.Schedule{}).Select("id").Where("date = ?", f.Date))
	}
	var out []models.Appointment
	if err := q.Find(&out).Error; err != nil {
		return nil, translate(err)
	}
	return out, nil
}

func (s *Store) UpdateAppointmentStatus(ctx context.Context, id uint64, status models.AppointmentStatus) error {
	err := s.conn(ctx).Model(&models.Appointment{}).Where("id = ?", id).Update("status", status).Error
	return translate(err)
}

// MoveAppointment reassigns an appointment to another staff member and slot.
func (s *Store) MoveAppointment(ctx context.Context, id, staffID, scheduleID uint64) error {
	err := s.conn(ctx).Model(&models.Appointment{}).Where("id = ?", id).Updates(map[string]interface{}{
		"staff_id":    staffID,
		"schedule_id": scheduleID,
	}).Error
	return translate(err)
}

func (s *Store) PaymentExists(ctx context.Context, appointmentID uint64) (bool, error) {
	var n int64
	if err := s.conn(ctx).Model(&models.Payment{}).Where("appointment_id = ?", appointmentID).Count(&n).Error; err != nil {
		return false, translate(err)
	}
	return n > 0, nil
}

func (s *Store) CreatePayment(ctx context.Context, p *models.Payment) error {
	return translate(s.conn(ctx).Create(p).Error)
}

func (s *Store) withDetails(db *gorm.DB) *gorm.DB {
	return db.
		Preload("User").
		Preload("Service").
		Preload("Staff.User").
		Preload("Schedule").
		Preload("Payment")
}
