package models

import "time"

// RequestStatus is the resolution state of a role-upgrade request
type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestApproved RequestStatus = "approved"
	RequestRejected RequestStatus = "rejected"
)

// RoleRequest is a user's petition for elevated privileges (chef or admin).
// It is resolved at most once by an admin; approval also updates the
// requester's stored role.
type RoleRequest struct {
	ID            uint          `json:"id" gorm:"primaryKey"`
	UserEmail     string        `json:"user_email" gorm:"index;not null"`
	UserName      string        `json:"user_name"`
	RequestedRole UserRole      `json:"requested_role" gorm:"not null"`
	Status        RequestStatus `json:"status" gorm:"not null;default:'pending'"`
	RequestTime   time.Time     `json:"request_time"`
	UpdatedAt     time.Time     `json:"updated_at"`
}
