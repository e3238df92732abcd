package pricing

import "eats-backend/models"

// ItemPrice computes the price of a single dish with the given selections.
// Selections are matched by name against the dish's option list; anything
// that does not match contributes nothing. When an option carries its own
// extra cost, that cost wins and the selected choice is ignored: option-level
// and choice-level extras are mutually exclusive.
func ItemPrice(dish models.Dish, selections []models.OrderItemOption) float64 {
	price := dish.Price
	for _, sel := range selections {
		option, ok := findOption(dish.Options, sel.Name)
		if !ok {
			continue
		}
		if option.Extra != 0 {
			price += option.Extra
			continue
		}
		for _, choice := range option.Choices {
			if choice.Name == sel.Choice {
				price += choice.Extra
				break
			}
		}
	}
	return price
}

func findOption(options models.DishOptions, name string) (models.DishOption, bool) {
	for _, option := range options {
		if option.Name == name {
			return option, true
		}
	}
	return models.DishOption{}, false
}

// SetItemPrice derives the item price from the item's loaded dish. Called on
// every read path so the price always reflects current dish data.
func SetItemPrice(item *models.OrderItem) {
	item.ItemPrice = ItemPrice(item.Dish, item.Options)
}

// SetItemPrices derives prices for every item of an order in place.
func SetItemPrices(order *models.Order) {
	for i := range order.Items {
		SetItemPrice(&order.Items[i])
	}
}
