// Package policy decides who may see an order and which status values a role
// may set. It is a pure lookup over the actor's role and relationship to the
// order; persistence and transport know nothing of it.
package policy

import "eats-backend/models"

// CanView reports whether user may read the order: the client who placed it,
// the driver carrying it, or the owner of its restaurant. No other
// relationship grants visibility.
func CanView(user models.User, order models.Order) bool {
	switch user.Role {
	case models.RoleClient:
		return order.CustomerID != nil && *order.CustomerID == user.ID
	case models.RoleDelivery:
		return order.DriverID != nil && *order.DriverID == user.ID
	case models.RoleOwner:
		return order.Restaurant.OwnerID == user.ID
	}
	return false
}

// allowedTargets maps each role to the statuses it may set. Clients are
// absent: they can never transition an order.
var allowedTargets = map[models.UserRole]map[models.OrderStatus]bool{
	models.RoleOwner: {
		models.StatusCooking: true,
		models.StatusCooked:  true,
	},
	models.RoleDelivery: {
		models.StatusPickedUp:  true,
		models.StatusDelivered: true,
	},
}

// CanTransition reports whether a role may set the target status. Only the
// role/target pair is checked, never the order's current status, so an owner
// may jump a Pending order straight to Cooked.
func CanTransition(role models.UserRole, target models.OrderStatus) bool {
	return allowedTargets[role][target]
}
