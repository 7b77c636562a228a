package models

import "time"

// DateLayout is the wire and storage format of Schedule.Date.
const DateLayout = "2006-01-02"

// Schedule is one bookable slot of a staff member. (staff, date, time_slot) is unique.
type Schedule struct {
	ID                 uint64    `gorm:"primaryKey" json:"id"`
	StaffID            uint64    `gorm:"not null;uniqueIndex:idx_staff_slot" json:"staff_id"`
	Date               string    `gorm:"size:10;not null;uniqueIndex:idx_staff_slot" json:"date"`
	TimeSlot           string    `gorm:"size:11;not null;uniqueIndex:idx_staff_slot" json:"time_slot"`
	AvailabilityStatus bool      `gorm:"not null;index" json:"availability_status"`
	CreatedAt          time.Time `json:"created_at"`
	Staff              *Staff    `gorm:"foreignKey:StaffID" json:"staff,omitempty"`
}

type ScheduleInput struct {
	StaffID  uint64 `json:"staff_id" binding:"required"`
	Date     string `json:"date" binding:"required"`
	TimeSlot string `json:"time_slot" binding:"required"`
}

// BulkScheduleInput creates every slot in TimeSlots for each day in [StartDate, EndDate].
type BulkScheduleInput struct {
	StaffID   uint64   `json:"staff_id" binding:"required"`
	StartDate string   `json:"start_date" binding:"required"`
	EndDate   string   `json:"end_date" binding:"required"`
	TimeSlots []string `json:"time_slots"`
}

type ScheduleFilter struct {
	StaffID       uint64
	Date          string
	AvailableOnly bool
}
