package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

type Category struct {
	ID          uint         `json:"id" gorm:"primaryKey"`
	Name        string       `json:"name" gorm:"not null"`
	Slug        string       `json:"slug" gorm:"uniqueIndex;not null"`
	CoverImage  string       `json:"cover_image"`
	Restaurants []Restaurant `json:"restaurants,omitempty" gorm:"foreignKey:CategoryID"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

type Restaurant struct {
	ID            uint       `json:"id" gorm:"primaryKey"`
	OwnerID       uint       `json:"owner_id" gorm:"not null"`
	Owner         User       `json:"owner,omitempty" gorm:"foreignKey:OwnerID"`
	CategoryID    *uint      `json:"category_id"`
	Category      *Category  `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	Name          string     `json:"name" gorm:"not null"`
	Address       string     `json:"address"`
	CoverImage    string     `json:"cover_image"`
	IsPromoted    bool       `json:"is_promoted" gorm:"default:false"`
	PromotedUntil *time.Time `json:"promoted_until"`
	Dishes        []Dish     `json:"dishes,omitempty" gorm:"foreignKey:RestaurantID"`
	Orders        []Order    `json:"orders,omitempty" gorm:"foreignKey:RestaurantID"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// DishChoice is one pick under a dish option, optionally costing extra.
type DishChoice struct {
	Name  string  `json:"name"`
	Extra float64 `json:"extra,omitempty"`
}

// DishOption is a named customization axis on a dish, e.g. "Size". Either the
// option itself carries an extra cost or its individual choices do.
type DishOption struct {
	Name    string       `json:"name"`
	Extra   float64      `json:"extra,omitempty"`
	Choices []DishChoice `json:"choices,omitempty"`
}

// DishOptions is stored as a JSON column, mirroring how the order item
// selections are kept. Option data is a document, not a relation: orders
// reference it by name only.
type DishOptions []DishOption

func (o DishOptions) Value() (driver.Value, error) {
	if o == nil {
		return nil, nil
	}
	return json.Marshal(o)
}

func (o *DishOptions) Scan(value interface{}) error {
	if value == nil {
		*o = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, o)
	case string:
		return json.Unmarshal([]byte(v), o)
	}
	return errors.New("unsupported type for DishOptions")
}

type Dish struct {
	ID           uint        `json:"id" gorm:"primaryKey"`
	RestaurantID uint        `json:"restaurant_id" gorm:"not null"`
	Restaurant   Restaurant  `json:"restaurant,omitempty" gorm:"foreignKey:RestaurantID"`
	Name         string      `json:"name" gorm:"not null"`
	Price        float64     `json:"price" gorm:"not null"`
	Photo        string      `json:"photo"`
	Description  string      `json:"description"`
	Options      DishOptions `json:"options,omitempty" gorm:"type:json"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}
