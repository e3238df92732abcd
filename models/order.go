package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// OrderStatus represents the lifecycle states of an order.
type OrderStatus string

const (
	StatusPending   OrderStatus = "Pending"
	StatusCooking   OrderStatus = "Cooking"
	StatusCooked    OrderStatus = "Cooked"
	StatusPickedUp  OrderStatus = "PickedUp"
	StatusDelivered OrderStatus = "Delivered"
)

// Valid reports whether s is one of the defined statuses.
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusCooking, StatusCooked, StatusPickedUp, StatusDelivered:
		return true
	}
	return false
}

// OrderItemOption is the customer's pick for one dish option, matched by name
// against the dish's option list when the item is priced.
type OrderItemOption struct {
	Name   string `json:"name"`
	Choice string `json:"choice,omitempty"`
}

type OrderItemOptions []OrderItemOption

func (o OrderItemOptions) Value() (driver.Value, error) {
	if o == nil {
		return nil, nil
	}
	return json.Marshal(o)
}

func (o *OrderItemOptions) Scan(value interface{}) error {
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
	return errors.New("unsupported type for OrderItemOptions")
}

type OrderItem struct {
	ID       uint             `json:"id" gorm:"primaryKey"`
	OrderID  uint             `json:"order_id" gorm:"not null"`
	DishID   uint             `json:"dish_id" gorm:"not null"`
	Dish     Dish             `json:"dish,omitempty" gorm:"foreignKey:DishID"`
	Quantity int              `json:"quantity" gorm:"not null"`
	Options  OrderItemOptions `json:"options,omitempty" gorm:"type:json"`
	// ItemPrice is derived from the current dish data whenever the item is
	// read; the column is never the source of truth.
	ItemPrice float64   `json:"item_price" gorm:"-"`
	CreatedAt time.Time `json:"created_at"`
}

type Order struct {
	ID           uint        `json:"id" gorm:"primaryKey"`
	CustomerID   *uint       `json:"customer_id"`
	Customer     *User       `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
	DriverID     *uint       `json:"driver_id"`
	Driver       *User       `json:"driver,omitempty" gorm:"foreignKey:DriverID"`
	RestaurantID uint        `json:"restaurant_id" gorm:"not null"`
	Restaurant   Restaurant  `json:"restaurant,omitempty" gorm:"foreignKey:RestaurantID"`
	Items        []OrderItem `json:"items,omitempty" gorm:"foreignKey:OrderID"`
	// Total is fixed when the order is placed; later dish edits do not move it.
	Total     float64     `json:"total" gorm:"not null"`
	Status    OrderStatus `json:"status" gorm:"not null;default:'Pending'"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}
