package services

import "errors"

// Sentinel errors shared across the services. Handlers map these to HTTP
// statuses; anything a service cannot classify is wrapped in a generic
// per-operation error so collaborator detail never reaches the caller.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrRestaurantNotFound = errors.New("restaurant not found")
	ErrDishNotFound       = errors.New("dish not found")
	ErrOrderNotFound      = errors.New("order not found")
	ErrCategoryNotFound   = errors.New("category not found")
	ErrCodeNotFound       = errors.New("verification code not found")

	ErrForbidden     = errors.New("you are not allowed to do that")
	ErrWrongPassword = errors.New("wrong password")

	ErrEmailTaken  = errors.New("there is a user with that email already")
	ErrDriverTaken = errors.New("this order already has a driver")
)
