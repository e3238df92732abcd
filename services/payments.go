package services

import (
	"context"
	"errors"
	"log"
	"time"

	"gorm.io/gorm"

	"eats-backend/models"
)

var (
	errCreatePayment = errors.New("could not create payment")
	errGetPayments   = errors.New("could not load payments")
)

// How long one payment promotes a restaurant.
const promotionPeriod = 7 * 24 * time.Hour

// Payments records promotion payments and expires the promotions they buy.
type Payments struct {
	db *gorm.DB
}

func NewPayments(db *gorm.DB) *Payments {
	return &Payments{db: db}
}

type CreatePaymentInput struct {
	TransactionID string `json:"transaction_id" binding:"required"`
	RestaurantID  uint   `json:"restaurant_id" binding:"required"`
}

// CreatePayment records the transaction and promotes the owner's restaurant
// for the promotion period.
func (s *Payments) CreatePayment(owner models.User, in CreatePaymentInput) (models.Payment, error) {
	var restaurant models.Restaurant
	if err := s.db.First(&restaurant, in.RestaurantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Payment{}, ErrRestaurantNotFound
		}
		log.Printf("create payment: load restaurant %d: %v", in.RestaurantID, err)
		return models.Payment{}, errCreatePayment
	}
	if restaurant.OwnerID != owner.ID {
		return models.Payment{}, ErrForbidden
	}

	payment := models.Payment{
		TransactionID: in.TransactionID,
		UserID:        owner.ID,
		RestaurantID:  restaurant.ID,
	}
	until := time.Now().Add(promotionPeriod)
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}
		restaurant.IsPromoted = true
		restaurant.PromotedUntil = &until
		return tx.Save(&restaurant).Error
	})
	if err != nil {
		log.Printf("create payment: %v", err)
		return models.Payment{}, errCreatePayment
	}
	return payment, nil
}

// GetPayments lists the caller's own payments.
func (s *Payments) GetPayments(user models.User) ([]models.Payment, error) {
	var payments []models.Payment
	if err := s.db.Where("user_id = ?", user.ID).Order("created_at desc").Find(&payments).Error; err != nil {
		log.Printf("get payments for user %d: %v", user.ID, err)
		return nil, errGetPayments
	}
	return payments, nil
}

// ExpirePromotions clears the promoted flag on every restaurant whose
// promotion has lapsed.
func (s *Payments) ExpirePromotions() error {
	return s.db.Model(&models.Restaurant{}).
		Where("is_promoted = ? AND promoted_until < ?", true, time.Now()).
		Updates(map[string]interface{}{"is_promoted": false, "promoted_until": nil}).Error
}

// StartPromotionSweeper runs ExpirePromotions on the given interval until ctx
// is cancelled.
func (s *Payments) StartPromotionSweeper(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := s.ExpirePromotions(); err != nil {
					log.Printf("expire promotions: %v", err)
				}
			}
		}
	}()
}
