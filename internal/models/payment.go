package models

import "time"

// DefaultPaymentMethod is recorded when the caller does not name one.
const DefaultPaymentMethod = "Cash"

// Payment is the settlement record of an appointment. At most one per appointment.
type Payment struct {
	ID            uint64    `gorm:"primaryKey" json:"id"`
	AppointmentID uint64    `gorm:"uniqueIndex;not null" json:"appointment_id"`
	Amount        float64   `gorm:"type:decimal(10,2);not null" json:"amount"`
	PaymentMethod string    `gorm:"size:50;not null" json:"payment_method"`
	TransactionID string    `gorm:"size:100;uniqueIndex;not null" json:"transaction_id"`
	PaymentDate   time.Time `json:"payment_date"`
}

type PaymentInput struct {
	PaymentMethod string `json:"payment_method" binding:"max=50"`
}
