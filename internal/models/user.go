package models

import (
	"time"

	"salon-backend/internal/policy"
)

// User is a row of the 'users' table. Role drives every authorization decision.
type User struct {
	ID           uint64      `gorm:"primaryKey" json:"id"`
	Username     string      `gorm:"uniqueIndex;size:150;not null" json:"username"`
	Email        string      `gorm:"uniqueIndex;size:100;not null" json:"email"`
	PasswordHash string      `gorm:"not null" json:"-"`
	FirstName    string      `gorm:"size:100" json:"first_name"`
	LastName     string      `gorm:"size:100" json:"last_name"`
	Role         policy.Role `gorm:"type:varchar(20);not null" json:"role"`
	Phone        string      `gorm:"column:phone_number;size:20" json:"phone,omitempty"`
	FCMToken     string      `gorm:"size:255" json:"-"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

func (u User) FullName() string {
	if u.FirstName == "" && u.LastName == "" {
		return u.Username
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// RegisterInput is the self-service signup payload. Role is always Customer.
type RegisterInput struct {
	Username  string `json:"username" binding:"required,max=150"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

// CreateUserInput is used by admins to provision Staff and Admin accounts.
type CreateUserInput struct {
	RegisterInput
	Role string `json:"role" binding:"required,oneof=Admin Staff Customer"`
}

type LoginInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	FCMToken string `json:"fcm_token"`
}
