package data

import (
	"database/sql"
	"strings"

	"github.com/ansel1/merry"
	"github.com/fpawel/foodhub/internal/food"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

var ErrInvalidOrder = merry.New("invalid order")

type OrderLine struct {
	MenuItemID int64
	Quantity   int
}

// CreateOrder stores an order with its items. Item prices are copied from the
// current menu and the order total is computed from them; callers never supply
// prices.
func CreateOrder(db *sqlx.DB, restaurantID int64, lines []OrderLine) (food.Order, error) {
	if len(lines) == 0 {
		return food.Order{}, ErrInvalidOrder.Append("no items")
	}

	tx, err := db.Beginx()
	if err != nil {
		return food.Order{}, merry.Append(err, "begin transaction")
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var exists int
	err = tx.Get(&exists, `SELECT COUNT(*) FROM restaurants WHERE id = ?`, restaurantID)
	if err != nil {
		return food.Order{}, merry.Appendf(err, "find restaurant %d", restaurantID)
	}
	if exists == 0 {
		return food.Order{}, ErrInvalidOrder.Appendf("restaurant %d not found", restaurantID)
	}

	items := make([]food.OrderItem, 0, len(lines))
	for _, line := range lines {
		if line.Quantity < 1 {
			return food.Order{}, ErrInvalidOrder.Appendf("menu item %d: quantity %d, must be at least 1",
				line.MenuItemID, line.Quantity)
		}
		var m food.MenuItem
		err := tx.Get(&m, `SELECT id, restaurant_id, price FROM menu_items WHERE id = ?`, line.MenuItemID)
		if err == sql.ErrNoRows {
			return food.Order{}, ErrInvalidOrder.Appendf("menu item %d not found", line.MenuItemID)
		}
		if err != nil {
			return food.Order{}, merry.Appendf(err, "find menu item %d", line.MenuItemID)
		}
		if m.RestaurantID != restaurantID {
			return food.Order{}, ErrInvalidOrder.Appendf("menu item %d belongs to restaurant %d, not %d",
				m.ID, m.RestaurantID, restaurantID)
		}
		items = append(items, food.OrderItem{
			MenuItemID: m.ID,
			Quantity:   line.Quantity,
			Price:      m.Price,
		})
	}

	r, err := tx.Exec(`INSERT INTO orders (restaurant_id, total_price) VALUES (?, ?)`,
		restaurantID, food.Total(items))
	if err != nil {
		return food.Order{}, merry.Append(err, "insert order")
	}
	orderID, err := getNewInsertedID(r)
	if err != nil {
		return food.Order{}, merry.Append(err, "insert order")
	}

	for _, x := range items {
		x.OrderID = orderID
		if _, err := tx.NamedExec(`
INSERT INTO order_items (order_id, menu_item_id, quantity, price)
VALUES (:order_id, :menu_item_id, :quantity, :price)`, x); err != nil {
			return food.Order{}, merry.Appendf(err, "insert item %d of order %d", x.MenuItemID, orderID)
		}
	}

	if err := tx.Commit(); err != nil {
		return food.Order{}, merry.Append(err, "commit")
	}
	return GetOrder(db, orderID)
}

func UpdateOrderStatus(db *sqlx.DB, orderID int64, status string) error {
	status = strings.TrimSpace(status)
	if status == "" {
		return ErrInvalidOrder.Append("empty status")
	}
	r, err := db.Exec(`UPDATE orders SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		status, orderID)
	if err != nil {
		return merry.Appendf(err, "update status of order %d", orderID)
	}
	if err := checkOneRowAffected(r); err != nil {
		return merry.Appendf(err, "update status of order %d", orderID)
	}
	return nil
}

// DeleteRestaurant removes a restaurant. Its menu items, orders and the items
// of those orders go with it through ON DELETE CASCADE.
func DeleteRestaurant(db *sqlx.DB, restaurantID int64) error {
	r, err := db.Exec(`DELETE FROM restaurants WHERE id = ?`, restaurantID)
	if err != nil {
		return merry.Appendf(err, "delete restaurant %d", restaurantID)
	}
	if err := checkOneRowAffected(r); err != nil {
		return merry.Appendf(err, "delete restaurant %d", restaurantID)
	}
	return nil
}

type TotalMismatch struct {
	OrderID  int64
	Stored   decimal.Decimal
	Computed decimal.Decimal
}

// CheckOrderTotals recomputes every order total from its items and returns the
// orders whose stored total_price differs.
func CheckOrderTotals(db *sqlx.DB) ([]TotalMismatch, error) {
	var orders []struct {
		ID         int64           `db:"id"`
		TotalPrice decimal.Decimal `db:"total_price"`
	}
	if err := db.Select(&orders, `SELECT id, total_price FROM orders ORDER BY id`); err != nil {
		return nil, merry.Append(err, "check order totals")
	}

	var items []food.OrderItem
	if err := db.Select(&items, `
SELECT order_id, quantity, COALESCE(price, 0) AS price
FROM order_items`); err != nil {
		return nil, merry.Append(err, "check order totals")
	}
	byOrder := make(map[int64][]food.OrderItem)
	for _, x := range items {
		byOrder[x.OrderID] = append(byOrder[x.OrderID], x)
	}

	var xs []TotalMismatch
	for _, o := range orders {
		computed := food.Total(byOrder[o.ID])
		if !o.TotalPrice.Round(food.PriceDecimals).Equal(computed) {
			xs = append(xs, TotalMismatch{
				OrderID:  o.ID,
				Stored:   o.TotalPrice,
				Computed: computed,
			})
		}
	}
	return xs, nil
}
