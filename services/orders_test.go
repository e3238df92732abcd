package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eats-backend/models"
	"eats-backend/pubsub"
)

type orderFixture struct {
	orders     *Orders
	pub        *capturePublisher
	client     models.User
	owner      models.User
	driver     models.User
	restaurant models.Restaurant
	pizza      models.Dish
	salad      models.Dish
}

func newOrderFixture(t *testing.T) (*orderFixture, *Orders) {
	db := setupDB(t)
	pub := &capturePublisher{}

	f := &orderFixture{pub: pub}
	f.client = seedUser(t, db, "client@test.dev", models.RoleClient)
	f.owner = seedUser(t, db, "owner@test.dev", models.RoleOwner)
	f.driver = seedUser(t, db, "driver@test.dev", models.RoleDelivery)
	f.restaurant = seedRestaurant(t, db, f.owner)
	f.pizza = seedDish(t, db, f.restaurant, "Pizza", 10, models.DishOptions{
		{Name: "Size", Extra: 2, Choices: []models.DishChoice{{Name: "Large", Extra: 5}}},
		{Name: "Spice", Choices: []models.DishChoice{{Name: "Hot", Extra: 1}}},
	})
	f.salad = seedDish(t, db, f.restaurant, "Salad", 5, nil)

	f.orders = NewOrders(db, pub, nil)
	return f, f.orders
}

func (f *orderFixture) placeOrder(t *testing.T) models.Order {
	t.Helper()
	order, err := f.orders.CreateOrder(f.client, CreateOrderInput{
		RestaurantID: f.restaurant.ID,
		Items: []CreateOrderItemInput{
			{DishID: f.pizza.ID, Quantity: 1},
		},
	})
	require.NoError(t, err)
	return order
}

func TestCreateOrder(t *testing.T) {
	f, orders := newOrderFixture(t)

	order, err := orders.CreateOrder(f.client, CreateOrderInput{
		RestaurantID: f.restaurant.ID,
		Items: []CreateOrderItemInput{
			{
				DishID:   f.pizza.ID,
				Quantity: 2,
				Options:  []models.OrderItemOption{{Name: "Size", Choice: "Large"}},
			},
			{
				DishID:   f.salad.ID,
				Quantity: 1,
			},
		},
	})
	require.NoError(t, err)

	// (10 + 2) × 2 + 5: the Large choice's extra must not stack on Size's.
	assert.Equal(t, 29.0, order.Total)
	assert.Equal(t, models.StatusPending, order.Status)
	require.Len(t, order.Items, 2)
	assert.Equal(t, 12.0, order.Items[0].ItemPrice)
	assert.Equal(t, 5.0, order.Items[1].ItemPrice)
	require.NotNil(t, order.CustomerID)
	assert.Equal(t, f.client.ID, *order.CustomerID)

	events := f.pub.onChannel(pubsub.PendingOrders)
	require.Len(t, events, 1)
	pending := events[0].Payload.(pubsub.PendingOrder)
	assert.Equal(t, f.owner.ID, pending.OwnerID)
	assert.Equal(t, order.ID, pending.Order.ID)
}

func TestCreateOrderUnknownDishAbortsEverything(t *testing.T) {
	f, orders := newOrderFixture(t)

	_, err := orders.CreateOrder(f.client, CreateOrderInput{
		RestaurantID: f.restaurant.ID,
		Items: []CreateOrderItemInput{
			{DishID: f.pizza.ID, Quantity: 1},
			{DishID: 9999, Quantity: 1},
		},
	})
	require.ErrorIs(t, err, ErrDishNotFound)

	// No partial state: neither the order nor the first line survived.
	var orderCount, itemCount int64
	require.NoError(t, f.orders.db.Model(&models.Order{}).Count(&orderCount).Error)
	require.NoError(t, f.orders.db.Model(&models.OrderItem{}).Count(&itemCount).Error)
	assert.Zero(t, orderCount)
	assert.Zero(t, itemCount)
	assert.Empty(t, f.pub.events)
}

func TestCreateOrderUnknownRestaurant(t *testing.T) {
	f, orders := newOrderFixture(t)

	_, err := orders.CreateOrder(f.client, CreateOrderInput{
		RestaurantID: 9999,
		Items:        []CreateOrderItemInput{{DishID: f.pizza.ID, Quantity: 1}},
	})
	assert.ErrorIs(t, err, ErrRestaurantNotFound)
}

func TestGetOrderVisibility(t *testing.T) {
	f, orders := newOrderFixture(t)
	placed := f.placeOrder(t)

	got, err := orders.GetOrder(f.client, placed.ID)
	require.NoError(t, err)
	assert.Equal(t, placed.ID, got.ID)
	require.Len(t, got.Items, 1)
	assert.Equal(t, 10.0, got.Items[0].ItemPrice)

	_, err = orders.GetOrder(f.owner, placed.ID)
	assert.NoError(t, err, "restaurant owner may view")

	stranger := seedUser(t, f.orders.db, "stranger@test.dev", models.RoleClient)
	_, err = orders.GetOrder(stranger, placed.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = orders.GetOrder(f.driver, placed.ID)
	assert.ErrorIs(t, err, ErrForbidden, "unassigned driver may not view")

	_, err = orders.GetOrder(f.client, 9999)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestGetOrdersScoping(t *testing.T) {
	f, orders := newOrderFixture(t)
	placed := f.placeOrder(t)
	f.placeOrder(t)

	clientOrders, err := orders.GetOrders(f.client, nil)
	require.NoError(t, err)
	assert.Len(t, clientOrders, 2)

	ownerOrders, err := orders.GetOrders(f.owner, nil)
	require.NoError(t, err)
	assert.Len(t, ownerOrders, 2)

	driverOrders, err := orders.GetOrders(f.driver, nil)
	require.NoError(t, err)
	assert.Empty(t, driverOrders)

	require.NoError(t, orders.TakeOrder(f.driver, placed.ID))
	driverOrders, err = orders.GetOrders(f.driver, nil)
	require.NoError(t, err)
	assert.Len(t, driverOrders, 1)

	cooking := models.StatusCooking
	filtered, err := orders.GetOrders(f.client, &cooking)
	require.NoError(t, err)
	assert.Empty(t, filtered)
}

func TestUpdateStatusByOwner(t *testing.T) {
	f, orders := newOrderFixture(t)
	placed := f.placeOrder(t)

	require.NoError(t, orders.UpdateStatus(f.owner, placed.ID, models.StatusCooking))

	got, err := orders.GetOrder(f.owner, placed.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCooking, got.Status)

	updates := f.pub.onChannel(pubsub.OrderUpdates)
	require.Len(t, updates, 1)
	assert.Equal(t, models.StatusCooking, updates[0].Payload.(models.Order).Status)
	assert.Empty(t, f.pub.onChannel(pubsub.CookedOrders))
}

func TestUpdateStatusSkipsLinearOrdering(t *testing.T) {
	f, orders := newOrderFixture(t)
	placed := f.placeOrder(t)

	// Straight from Pending to Cooked: only role vs target is checked.
	require.NoError(t, orders.UpdateStatus(f.owner, placed.ID, models.StatusCooked))

	cooked := f.pub.onChannel(pubsub.CookedOrders)
	require.Len(t, cooked, 1)
	assert.Equal(t, models.StatusCooked, cooked[0].Payload.(models.Order).Status)
	assert.Len(t, f.pub.onChannel(pubsub.OrderUpdates), 1)
}

func TestUpdateStatusDeniedTransitions(t *testing.T) {
	f, orders := newOrderFixture(t)
	placed := f.placeOrder(t)

	err := orders.UpdateStatus(f.owner, placed.ID, models.StatusPickedUp)
	assert.ErrorIs(t, err, ErrForbidden, "owner may not set delivery statuses")

	err = orders.UpdateStatus(f.client, placed.ID, models.StatusCooking)
	assert.ErrorIs(t, err, ErrForbidden, "clients never transition")

	err = orders.UpdateStatus(f.driver, placed.ID, models.StatusPickedUp)
	assert.ErrorIs(t, err, ErrForbidden, "unassigned driver cannot even view")

	got, err := orders.GetOrder(f.client, placed.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, got.Status)
	assert.Empty(t, f.pub.onChannel(pubsub.OrderUpdates))
}

func TestUpdateStatusByAssignedDriver(t *testing.T) {
	f, orders := newOrderFixture(t)
	placed := f.placeOrder(t)

	require.NoError(t, orders.TakeOrder(f.driver, placed.ID))
	require.NoError(t, orders.UpdateStatus(f.driver, placed.ID, models.StatusPickedUp))
	require.NoError(t, orders.UpdateStatus(f.driver, placed.ID, models.StatusDelivered))

	got, err := orders.GetOrder(f.driver, placed.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusDelivered, got.Status)

	err = orders.UpdateStatus(f.driver, placed.ID, models.StatusCooking)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestTakeOrderFirstAssignmentWins(t *testing.T) {
	f, orders := newOrderFixture(t)
	placed := f.placeOrder(t)

	require.NoError(t, orders.TakeOrder(f.driver, placed.ID))

	updates := f.pub.onChannel(pubsub.OrderUpdates)
	require.Len(t, updates, 1)
	taken := updates[0].Payload.(models.Order)
	require.NotNil(t, taken.DriverID)
	assert.Equal(t, f.driver.ID, *taken.DriverID)

	rival := seedUser(t, f.orders.db, "rival@test.dev", models.RoleDelivery)
	err := orders.TakeOrder(rival, placed.ID)
	assert.ErrorIs(t, err, ErrDriverTaken)

	got, err := orders.GetOrder(f.driver, placed.ID)
	require.NoError(t, err)
	assert.Equal(t, f.driver.ID, *got.DriverID, "driver unchanged after rejected retake")
}

func TestTakeOrderNotFound(t *testing.T) {
	f, orders := newOrderFixture(t)
	err := orders.TakeOrder(f.driver, 9999)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestOrderTotalFixedAtCreation(t *testing.T) {
	f, orders := newOrderFixture(t)
	placed := f.placeOrder(t)
	require.Equal(t, 10.0, placed.Total)

	// A later price hike moves the derived item price but not the total.
	require.NoError(t, f.orders.db.Model(&models.Dish{}).Where("id = ?", f.pizza.ID).Update("price", 99).Error)

	got, err := orders.GetOrder(f.client, placed.ID)
	require.NoError(t, err)
	assert.Equal(t, 10.0, got.Total)
	require.Len(t, got.Items, 1)
	assert.Equal(t, 99.0, got.Items[0].ItemPrice)
}
