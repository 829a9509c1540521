package models

import "time"

// OrderStatus represents all possible fulfilment states of an order
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderAccepted  OrderStatus = "accepted"
	OrderPreparing OrderStatus = "preparing"
	OrderDelivered OrderStatus = "delivered"
	OrderCancelled OrderStatus = "cancelled"
)

// PaymentStatus tracks whether the order has been paid for. It changes
// only through payment reconciliation, never through a status action.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
)

type Order struct {
	ID            uint          `json:"id" gorm:"primaryKey"`
	MealID        uint          `json:"meal_id" gorm:"not null"`
	MealName      string        `json:"meal_name"` // snapshot at order time
	Price         float64       `json:"price" gorm:"not null"` // snapshot unit price
	Quantity      int           `json:"quantity" gorm:"not null"`
	Address       string        `json:"address" gorm:"not null"`
	CustomerEmail string        `json:"customer_email" gorm:"index;not null"`
	ChefID        uint          `json:"chef_id" gorm:"index;not null"`
	ChefName      string        `json:"chef_name"`
	OrderStatus   OrderStatus   `json:"order_status" gorm:"not null;default:'pending'"`
	PaymentStatus PaymentStatus `json:"payment_status" gorm:"not null;default:'pending'"`
	OrderTime     time.Time     `json:"order_time"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// Total is derived from its inputs and never stored independently.
func (o *Order) Total() float64 {
	return o.Price * float64(o.Quantity)
}

// Terminal reports whether no further status action is legal.
func (o *Order) Terminal() bool {
	return o.OrderStatus == OrderDelivered || o.OrderStatus == OrderCancelled
}
