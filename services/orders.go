package services

import (
	"context"
	"errors"
	"log"

	"gorm.io/gorm"

	"eats-backend/models"
	"eats-backend/notifier"
	"eats-backend/policy"
	"eats-backend/pricing"
	"eats-backend/pubsub"
)

// Generic operation errors returned when a collaborator fails unexpectedly.
// The underlying cause is logged, never surfaced.
var (
	errCreateOrder = errors.New("could not create order")
	errGetOrders   = errors.New("could not get orders")
	errGetOrder    = errors.New("could not get order")
	errEditOrder   = errors.New("could not edit order")
	errTakeOrder   = errors.New("could not take order")
)

// Orders owns order placement, status transitions and driver assignment.
type Orders struct {
	db   *gorm.DB
	pub  pubsub.Publisher
	mail notifier.Mailer // optional
}

func NewOrders(db *gorm.DB, pub pubsub.Publisher, mail notifier.Mailer) *Orders {
	return &Orders{db: db, pub: pub, mail: mail}
}

type CreateOrderItemInput struct {
	DishID   uint                     `json:"dish_id" binding:"required"`
	Quantity int                      `json:"quantity" binding:"required,min=1"`
	Options  []models.OrderItemOption `json:"options"`
}

type CreateOrderInput struct {
	RestaurantID uint                   `json:"restaurant_id" binding:"required"`
	Items        []CreateOrderItemInput `json:"items" binding:"required,min=1,dive"`
}

// CreateOrder prices every requested line, persists the order atomically and
// announces it on the pending-order channel. A single unknown dish aborts the
// whole order; nothing is left behind.
func (s *Orders) CreateOrder(customer models.User, in CreateOrderInput) (models.Order, error) {
	var restaurant models.Restaurant
	if err := s.db.First(&restaurant, in.RestaurantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Order{}, ErrRestaurantNotFound
		}
		log.Printf("create order: load restaurant %d: %v", in.RestaurantID, err)
		return models.Order{}, errCreateOrder
	}

	var order models.Order
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var total float64
		var items []models.OrderItem
		for _, line := range in.Items {
			var dish models.Dish
			if err := tx.First(&dish, line.DishID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrDishNotFound
				}
				return err
			}
			total += pricing.ItemPrice(dish, line.Options) * float64(line.Quantity)
			items = append(items, models.OrderItem{
				DishID:   dish.ID,
				Quantity: line.Quantity,
				Options:  line.Options,
			})
		}

		order = models.Order{
			CustomerID:   &customer.ID,
			RestaurantID: restaurant.ID,
			Status:       models.StatusPending,
			Total:        total,
			Items:        items,
		}
		return tx.Create(&order).Error
	})
	if err != nil {
		if errors.Is(err, ErrDishNotFound) {
			return models.Order{}, err
		}
		log.Printf("create order: %v", err)
		return models.Order{}, errCreateOrder
	}

	if err := s.db.Preload("Items.Dish").Preload("Restaurant").First(&order, order.ID).Error; err != nil {
		log.Printf("create order: reload order %d: %v", order.ID, err)
		return models.Order{}, errCreateOrder
	}
	pricing.SetItemPrices(&order)

	s.pub.Publish(pubsub.PendingOrders, pubsub.PendingOrder{Order: order, OwnerID: restaurant.OwnerID})

	if s.mail != nil {
		go func(email string, id uint, total float64) {
			if err := s.mail.SendOrderReceipt(context.Background(), email, id, total); err != nil {
				log.Printf("order receipt email: %v", err)
			}
		}(customer.Email, order.ID, order.Total)
	}

	return order, nil
}

// GetOrders lists the orders visible to the user: their own purchases, their
// deliveries, or every order of the restaurants they own.
func (s *Orders) GetOrders(user models.User, status *models.OrderStatus) ([]models.Order, error) {
	query := s.db.Preload("Items.Dish").Preload("Restaurant")
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	var orders []models.Order
	var err error
	switch user.Role {
	case models.RoleClient:
		err = query.Where("customer_id = ?", user.ID).Order("created_at desc").Find(&orders).Error
	case models.RoleDelivery:
		err = query.Where("driver_id = ?", user.ID).Order("created_at desc").Find(&orders).Error
	case models.RoleOwner:
		var restaurantIDs []uint
		err = s.db.Model(&models.Restaurant{}).Where("owner_id = ?", user.ID).Pluck("id", &restaurantIDs).Error
		if err == nil {
			err = query.Where("restaurant_id IN ?", restaurantIDs).Order("created_at desc").Find(&orders).Error
		}
	}
	if err != nil {
		log.Printf("get orders for user %d: %v", user.ID, err)
		return nil, errGetOrders
	}

	for i := range orders {
		pricing.SetItemPrices(&orders[i])
	}
	return orders, nil
}

// GetOrder fetches one order and enforces visibility.
func (s *Orders) GetOrder(user models.User, orderID uint) (models.Order, error) {
	order, err := s.loadOrder(orderID, errGetOrder)
	if err != nil {
		return models.Order{}, err
	}
	if !policy.CanView(user, order) {
		return models.Order{}, ErrForbidden
	}
	pricing.SetItemPrices(&order)
	return order, nil
}

// UpdateStatus applies a status transition under the access policy, then
// announces it: cooked orders on their own channel, every change on the
// generic order-update channel. The caller re-fetches if it needs the result.
func (s *Orders) UpdateStatus(user models.User, orderID uint, status models.OrderStatus) error {
	order, err := s.loadOrder(orderID, errEditOrder)
	if err != nil {
		return err
	}
	if !policy.CanView(user, order) || !policy.CanTransition(user.Role, status) {
		return ErrForbidden
	}

	if err := s.db.Model(&models.Order{}).Where("id = ?", orderID).Update("status", status).Error; err != nil {
		log.Printf("update status of order %d: %v", orderID, err)
		return errEditOrder
	}

	order.Status = status
	pricing.SetItemPrices(&order)

	if status == models.StatusCooked {
		s.pub.Publish(pubsub.CookedOrders, order)
	}
	s.pub.Publish(pubsub.OrderUpdates, order)
	return nil
}

// TakeOrder assigns the delivery driver to an order. First assignment wins;
// there is no reassignment path.
func (s *Orders) TakeOrder(driver models.User, orderID uint) error {
	order, err := s.loadOrder(orderID, errTakeOrder)
	if err != nil {
		return err
	}
	if order.DriverID != nil {
		return ErrDriverTaken
	}

	if err := s.db.Model(&models.Order{}).Where("id = ?", orderID).Update("driver_id", driver.ID).Error; err != nil {
		log.Printf("take order %d: %v", orderID, err)
		return errTakeOrder
	}

	order.DriverID = &driver.ID
	order.Driver = &driver
	pricing.SetItemPrices(&order)
	s.pub.Publish(pubsub.OrderUpdates, order)
	return nil
}

// loadOrder fetches an order with its relations, distinguishing a missing
// order from a broken restaurant link.
func (s *Orders) loadOrder(orderID uint, generic error) (models.Order, error) {
	var order models.Order
	err := s.db.Preload("Items.Dish").Preload("Restaurant").Preload("Customer").Preload("Driver").
		First(&order, orderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Order{}, ErrOrderNotFound
		}
		log.Printf("load order %d: %v", orderID, err)
		return models.Order{}, generic
	}
	if order.Restaurant.ID == 0 {
		return models.Order{}, ErrRestaurantNotFound
	}
	return order, nil
}
