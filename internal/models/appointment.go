package models

import "time"

type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "Pending"
	StatusConfirmed AppointmentStatus = "Confirmed"
	StatusCompleted AppointmentStatus = "Completed"
	StatusCancelled AppointmentStatus = "Cancelled"
)

// ActiveStatuses are the statuses that hold a schedule slot.
var ActiveStatuses = []AppointmentStatus{StatusPending, StatusConfirmed}

func ParseAppointmentStatus(s string) (AppointmentStatus, bool) {
	switch st := AppointmentStatus(s); st {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return st, true
	}
	return "", false
}

func (s AppointmentStatus) Active() bool {
	return s == StatusPending || s == StatusConfirmed
}

func (s AppointmentStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Appointment rows are never hard-deleted; cancellation is a status.
type Appointment struct {
	ID         uint64            `gorm:"primaryKey" json:"id"`
	UserID     uint64            `gorm:"not null;index" json:"user_id"`
	ServiceID  uint64            `gorm:"not null" json:"service_id"`
	StaffID    uint64            `gorm:"not null" json:"staff_id"`
	ScheduleID uint64            `gorm:"not null;index" json:"schedule_id"`
	Status     AppointmentStatus `gorm:"size:20;not null;index" json:"status"`
	Notes      string            `gorm:"type:text" json:"notes"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`

	User     *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Service  *Service  `gorm:"foreignKey:ServiceID" json:"service,omitempty"`
	Staff    *Staff    `gorm:"foreignKey:StaffID" json:"staff,omitempty"`
	Schedule *Schedule `gorm:"foreignKey:ScheduleID" json:"schedule,omitempty"`
	Payment  *Payment  `gorm:"foreignKey:AppointmentID" json:"payment,omitempty"`
}

type CreateAppointmentInput struct {
	ServiceID uint64 `json:"service_id" binding:"required"`
	StaffID   uint64 `json:"staff_id" binding:"required"`
	Date      string `json:"date" binding:"required"`
	TimeSlot  string `json:"time_slot" binding:"required"`
	Notes     string `json:"notes"`
	// UserID lets an admin book on behalf of someone else. Zero means the caller.
	UserID uint64 `json:"user_id"`
}

type RescheduleInput struct {
	StaffID  uint64 `json:"staff_id" binding:"required"`
	Date     string `json:"date" binding:"required"`
	TimeSlot string `json:"time_slot" binding:"required"`
}

type UpdateStatusInput struct {
	Status string `json:"status" binding:"required"`
}

type AppointmentFilter struct {
	UserID  uint64 // zero lists everyone's
	StaffID uint64
	Status  AppointmentStatus
	Date    string
}
