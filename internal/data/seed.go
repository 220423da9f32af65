package data

import (
	"github.com/fpawel/foodhub/internal/food"
)

type seedRestaurant struct {
	food.Restaurant
	Menu []food.MenuItem
}

func seedMenuItem(name, description, price, imageText, category string) food.MenuItem {
	return food.MenuItem{
		Name:        name,
		Description: description,
		Price:       food.MustParsePrice(price),
		ImageURL:    "https://via.placeholder.com/150?text=" + imageText,
		Category:    category,
	}
}

func seedRestaurantInfo(name, cuisine string, rating float64, deliveryTime int, imageText string) food.Restaurant {
	return food.Restaurant{
		Name:         name,
		Cuisine:      cuisine,
		Rating:       rating,
		DeliveryTime: deliveryTime,
		ImageURL:     "https://via.placeholder.com/200?text=" + imageText,
	}
}

var seedData = []seedRestaurant{
	{
		Restaurant: seedRestaurantInfo("Pizza Palace", "Italian", 4.5, 30, "Pizza+Palace"),
		Menu: []food.MenuItem{
			seedMenuItem("Margherita Pizza", "Classic pizza with tomato, mozzarella, and basil", "8.99", "Margherita", "Pizza"),
			seedMenuItem("Pepperoni Pizza", "Traditional pepperoni pizza", "10.99", "Pepperoni", "Pizza"),
			seedMenuItem("Garlic Bread", "Crispy garlic bread", "3.99", "Garlic+Bread", "Appetizer"),
			seedMenuItem("Caesar Salad", "Fresh caesar salad", "5.99", "Caesar+Salad", "Salad"),
		},
	},
	{
		Restaurant: seedRestaurantInfo("Burger Bistro", "American", 4.2, 25, "Burger+Bistro"),
		Menu: []food.MenuItem{
			seedMenuItem("Classic Burger", "Juicy burger with cheese and lettuce", "9.99", "Classic+Burger", "Burger"),
			seedMenuItem("Double Cheeseburger", "Two patties with double cheese", "12.99", "Double+Cheeseburger", "Burger"),
			seedMenuItem("French Fries", "Crispy french fries", "3.49", "Fries", "Sides"),
			seedMenuItem("Milkshake", "Vanilla milkshake", "4.99", "Milkshake", "Beverage"),
		},
	},
	{
		Restaurant: seedRestaurantInfo("Sushi Supreme", "Japanese", 4.8, 40, "Sushi+Supreme"),
		Menu: []food.MenuItem{
			seedMenuItem("California Roll", "Crab, avocado, cucumber", "12.99", "California+Roll", "Sushi"),
			seedMenuItem("Spicy Tuna Roll", "Spicy tuna with mayo", "14.99", "Spicy+Tuna", "Sushi"),
			seedMenuItem("Salmon Sashimi", "Fresh salmon sashimi", "16.99", "Salmon+Sashimi", "Sashimi"),
			seedMenuItem("Miso Soup", "Traditional miso soup", "3.99", "Miso+Soup", "Soup"),
		},
	},
	{
		Restaurant: seedRestaurantInfo("Taco Fiesta", "Mexican", 4.3, 20, "Taco+Fiesta"),
		Menu: []food.MenuItem{
			seedMenuItem("Beef Tacos", "Three soft beef tacos", "8.99", "Beef+Tacos", "Tacos"),
			seedMenuItem("Chicken Enchiladas", "Three chicken enchiladas", "11.99", "Enchiladas", "Entree"),
			seedMenuItem("Guacamole Dip", "Fresh guacamole with chips", "6.99", "Guacamole", "Appetizer"),
			seedMenuItem("Churros", "Fried churros with chocolate", "5.99", "Churros", "Dessert"),
		},
	},
	{
		Restaurant: seedRestaurantInfo("Curry House", "Indian", 4.6, 35, "Curry+House"),
		Menu: []food.MenuItem{
			seedMenuItem("Butter Chicken", "Creamy butter chicken curry", "13.99", "Butter+Chicken", "Curry"),
			seedMenuItem("Tandoori Chicken", "Marinated tandoori chicken", "14.99", "Tandoori", "Grill"),
			seedMenuItem("Naan Bread", "Freshly baked naan", "2.99", "Naan", "Bread"),
			seedMenuItem("Mango Lassi", "Refreshing mango lassi", "3.99", "Lassi", "Beverage"),
		},
	},
}
