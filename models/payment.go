package models

import "time"

// Payment records an owner paying to promote a restaurant.
type Payment struct {
	ID            uint       `json:"id" gorm:"primaryKey"`
	TransactionID string     `json:"transaction_id" gorm:"not null"`
	UserID        uint       `json:"user_id" gorm:"not null"`
	User          User       `json:"user,omitempty" gorm:"foreignKey:UserID"`
	RestaurantID  uint       `json:"restaurant_id" gorm:"not null"`
	Restaurant    Restaurant `json:"restaurant,omitempty" gorm:"foreignKey:RestaurantID"`
	CreatedAt     time.Time  `json:"created_at"`
}

// All lists every persisted model for AutoMigrate.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Verification{},
		&Category{},
		&Restaurant{},
		&Dish{},
		&Order{},
		&OrderItem{},
		&Payment{},
	}
}
