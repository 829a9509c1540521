package models

import "time"

type Meal struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	ChefID      uint      `json:"chef_id" gorm:"not null"`
	Chef        User      `json:"chef,omitempty" gorm:"foreignKey:ChefID"`
	Name        string    `json:"name" gorm:"not null"`
	Description string    `json:"description"`
	Price       float64   `json:"price" gorm:"not null"`
	Category    string    `json:"category"`
	ImageURL    string    `json:"image_url"`
	IsAvailable bool      `json:"is_available" gorm:"default:true"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Favorite is a plain ownership record: one user bookmarking one meal.
type Favorite struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserEmail string    `json:"user_email" gorm:"index;not null"`
	MealID    uint      `json:"meal_id" gorm:"not null"`
	Meal      Meal      `json:"meal,omitempty" gorm:"foreignKey:MealID"`
	CreatedAt time.Time `json:"created_at"`
}

type Review struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	MealID    uint      `json:"meal_id" gorm:"index;not null"`
	UserEmail string    `json:"user_email" gorm:"not null"`
	UserName  string    `json:"user_name"`
	Rating    int       `json:"rating" gorm:"not null"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
