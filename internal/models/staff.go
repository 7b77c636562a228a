package models

import "time"

// Staff is the bookable profile of a user with role Staff. One profile per user.
type Staff struct {
	ID             uint64         `gorm:"primaryKey" json:"id"`
	UserID         uint64         `gorm:"uniqueIndex;not null" json:"user_id"`
	Specialization string         `gorm:"size:100" json:"specialization"`
	Bio            string         `gorm:"type:text" json:"bio"`
	IsAvailable    bool           `gorm:"not null" json:"is_available"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	User           *User          `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Services       []StaffService `gorm:"foreignKey:StaffID" json:"services,omitempty"`
}

// StaffService records that a staff member offers a service.
type StaffService struct {
	ID        uint64   `gorm:"primaryKey" json:"id"`
	StaffID   uint64   `gorm:"not null;uniqueIndex:idx_staff_service" json:"staff_id"`
	ServiceID uint64   `gorm:"not null;uniqueIndex:idx_staff_service" json:"service_id"`
	Service   *Service `gorm:"foreignKey:ServiceID" json:"service,omitempty"`
}

type StaffInput struct {
	UserID         uint64 `json:"user_id" binding:"required"`
	Specialization string `json:"specialization" binding:"max=100"`
	Bio            string `json:"bio"`
	IsAvailable    *bool  `json:"is_available"`
}

type UpdateStaffInput struct {
	Specialization *string `json:"specialization"`
	Bio            *string `json:"bio"`
	IsAvailable    *bool   `json:"is_available"`
}

type AssignServiceInput struct {
	ServiceID uint64 `json:"service_id" binding:"required"`
}
