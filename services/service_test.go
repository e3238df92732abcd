package services

import (
	"fmt"
	"sync"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"eats-backend/models"
	"eats-backend/pubsub"
)

// setupDB opens a fresh in-memory database per test. The named shared-cache
// DSN keeps one database alive across gorm's pooled connections.
func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

// capturePublisher records published events for assertions.
type capturePublisher struct {
	mu     sync.Mutex
	events []pubsub.Event
}

func (p *capturePublisher) Publish(channel string, payload interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, pubsub.Event{Channel: channel, Payload: payload})
}

func (p *capturePublisher) onChannel(channel string) []pubsub.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []pubsub.Event
	for _, ev := range p.events {
		if ev.Channel == channel {
			out = append(out, ev)
		}
	}
	return out
}

func seedUser(t *testing.T, db *gorm.DB, email string, role models.UserRole) models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)
	user := models.User{Email: email, PasswordHash: string(hash), Role: role}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func seedRestaurant(t *testing.T, db *gorm.DB, owner models.User) models.Restaurant {
	t.Helper()
	restaurant := models.Restaurant{OwnerID: owner.ID, Name: "Testaurant", Address: "1 Test St"}
	require.NoError(t, db.Create(&restaurant).Error)
	return restaurant
}

func seedDish(t *testing.T, db *gorm.DB, restaurant models.Restaurant, name string, price float64, options models.DishOptions) models.Dish {
	t.Helper()
	dish := models.Dish{RestaurantID: restaurant.ID, Name: name, Price: price, Options: options}
	require.NoError(t, db.Create(&dish).Error)
	return dish
}
