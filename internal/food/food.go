package food

import (
	"time"

	"github.com/shopspring/decimal"
)

const StatusPending = "Pending"

type Restaurant struct {
	ID           int64     `db:"id" yaml:"id"`
	Name         string    `db:"name" yaml:"name"`
	Cuisine      string    `db:"cuisine" yaml:"cuisine"`
	Rating       float64   `db:"rating" yaml:"rating"`
	DeliveryTime int       `db:"delivery_time" yaml:"delivery_time"`
	ImageURL     string    `db:"image_url" yaml:"image_url"`
	CreatedAt    time.Time `db:"created_at" yaml:"created_at"`
}

type MenuItem struct {
	ID           int64           `db:"id" yaml:"id"`
	RestaurantID int64           `db:"restaurant_id" yaml:"restaurant_id"`
	Name         string          `db:"name" yaml:"name"`
	Description  string          `db:"description" yaml:"description"`
	Price        decimal.Decimal `db:"price" yaml:"price"`
	ImageURL     string          `db:"image_url" yaml:"image_url"`
	Category     string          `db:"category" yaml:"category"`
	CreatedAt    time.Time       `db:"created_at" yaml:"created_at"`
}

type Order struct {
	ID           int64           `db:"id" yaml:"id"`
	RestaurantID int64           `db:"restaurant_id" yaml:"restaurant_id"`
	TotalPrice   decimal.Decimal `db:"total_price" yaml:"total_price"`
	Status       string          `db:"status" yaml:"status"`
	CreatedAt    time.Time       `db:"created_at" yaml:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at" yaml:"updated_at"`
}

// OrderItem.Price is the menu price copied at the moment the order was placed.
type OrderItem struct {
	ID         int64           `db:"id" yaml:"id"`
	OrderID    int64           `db:"order_id" yaml:"order_id"`
	MenuItemID int64           `db:"menu_item_id" yaml:"menu_item_id"`
	Quantity   int             `db:"quantity" yaml:"quantity"`
	Price      decimal.Decimal `db:"price" yaml:"price"`
	CreatedAt  time.Time       `db:"created_at" yaml:"created_at"`
}

func (x OrderItem) Subtotal() decimal.Decimal {
	return Subtotal(x.Price, x.Quantity)
}

func Subtotal(price decimal.Decimal, quantity int) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(int64(quantity))).Round(PriceDecimals)
}

// Total sums price*quantity over the items.
func Total(xs []OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, x := range xs {
		total = total.Add(x.Subtotal())
	}
	return total.Round(PriceDecimals)
}
