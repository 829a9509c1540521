package models

import "time"

// UserRole defines allowed roles in the system
type UserRole string

const (
	RoleCustomer UserRole = "customer"
	RoleChef     UserRole = "chef"
	RoleAdmin    UserRole = "admin"
)

// UserStatus marks an account as trustworthy or not. A fraud user keeps
// whatever role field they had, but the server refuses privileged actions.
type UserStatus string

const (
	StatusActive UserStatus = "active"
	StatusFraud  UserStatus = "fraud"
)

type User struct {
	ID           uint       `json:"id" gorm:"primaryKey"`
	Name         string     `json:"name" gorm:"not null"`
	Email        string     `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string     `json:"-" gorm:"not null"`
	Role         UserRole   `json:"role" gorm:"not null;default:'customer'"`
	Status       UserStatus `json:"status" gorm:"not null;default:'active'"`
	Address      string     `json:"address"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// CanActAs reports whether the user may exercise a role. Fraud status
// revokes chef/admin powers regardless of the stored role value.
func (u *User) CanActAs(role UserRole) bool {
	if u.Status == StatusFraud && role != RoleCustomer {
		return false
	}
	return u.Role == role
}
