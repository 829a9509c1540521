package models

import "time"

// SessionStatus is the lifecycle of an external checkout session.
type SessionStatus string

const (
	SessionOpen      SessionStatus = "open"
	SessionCompleted SessionStatus = "completed"
)

// CheckoutSession links an opaque payment-session identifier to the order
// it pays for. Reconciliation resolves the session exactly once; a replay
// returns the recorded transaction instead of failing.
type CheckoutSession struct {
	ID            string        `json:"id" gorm:"primaryKey"` // e.g. "cs_<uuid>"
	OrderID       uint          `json:"order_id" gorm:"index;not null"`
	Amount        float64       `json:"amount" gorm:"not null"`
	Status        SessionStatus `json:"status" gorm:"not null;default:'open'"`
	TransactionID string        `json:"transaction_id"`
	TrackingID    string        `json:"tracking_id"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// Payment is the settled record behind a customer's payment history.
type Payment struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	OrderID       uint      `json:"order_id" gorm:"index;not null"`
	CustomerEmail string    `json:"customer_email" gorm:"index;not null"`
	MealName      string    `json:"meal_name"`
	Amount        float64   `json:"amount" gorm:"not null"`
	TransactionID string    `json:"transaction_id" gorm:"uniqueIndex;not null"`
	TrackingID    string    `json:"tracking_id"`
	PaidAt        time.Time `json:"paid_at"`
}
