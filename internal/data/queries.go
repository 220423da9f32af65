package data

import (
	"fmt"
	"strings"
	"time"

	"github.com/ansel1/merry"
	"github.com/fpawel/foodhub/internal/food"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type OrderRow struct {
	ID         int64           `db:"id"`
	Restaurant string          `db:"restaurant"`
	TotalPrice decimal.Decimal `db:"total_price"`
	Status     string          `db:"status"`
	CreatedAt  time.Time       `db:"created_at"`
}

type MenuItemRow struct {
	ID         int64           `db:"id"`
	Name       string          `db:"name"`
	Restaurant string          `db:"restaurant"`
	Category   string          `db:"category"`
	Price      decimal.Decimal `db:"price"`
}

type OrderItemLine struct {
	ID       int64           `db:"id"`
	Name     string          `db:"name"`
	Quantity int             `db:"quantity"`
	Price    decimal.Decimal `db:"price"`
}

func (x OrderItemLine) Subtotal() decimal.Decimal {
	return food.Subtotal(x.Price, x.Quantity)
}

type SortOrder bool

const (
	Ascending  SortOrder = false
	Descending SortOrder = true
)

func (x SortOrder) sql() string {
	if x == Descending {
		return "DESC"
	}
	return "ASC"
}

// ListOrders returns orders joined with their restaurant names, sorted by id.
func ListOrders(db *sqlx.DB, order SortOrder) (xs []OrderRow, err error) {
	err = db.Select(&xs, `
SELECT o.id,
       COALESCE(r.name, '')   AS restaurant,
       o.total_price,
       COALESCE(o.status, '') AS status,
       o.created_at
FROM orders o
LEFT JOIN restaurants r ON o.restaurant_id = r.id
ORDER BY o.id `+order.sql())
	if err != nil {
		return nil, merry.Append(err, "list orders")
	}
	return
}

func ListMenuItems(db *sqlx.DB) (xs []MenuItemRow, err error) {
	err = db.Select(&xs, `
SELECT m.id,
       m.name,
       COALESCE(r.name, '')     AS restaurant,
       COALESCE(m.category, '') AS category,
       m.price
FROM menu_items m
LEFT JOIN restaurants r ON m.restaurant_id = r.id
ORDER BY r.name, m.name`)
	if err != nil {
		return nil, merry.Append(err, "list menu items")
	}
	return
}

func ListRestaurants(db *sqlx.DB) (xs []food.Restaurant, err error) {
	err = db.Select(&xs, `
SELECT id,
       name,
       COALESCE(cuisine, '')     AS cuisine,
       COALESCE(rating, 0)       AS rating,
       COALESCE(delivery_time, 0) AS delivery_time,
       COALESCE(image_url, '')   AS image_url,
       created_at
FROM restaurants
ORDER BY id`)
	if err != nil {
		return nil, merry.Append(err, "list restaurants")
	}
	return
}

func ListMenuItemsByRestaurant(db *sqlx.DB, restaurantID int64) (xs []food.MenuItem, err error) {
	err = db.Select(&xs, `
SELECT id,
       restaurant_id,
       name,
       COALESCE(description, '') AS description,
       price,
       COALESCE(image_url, '')   AS image_url,
       COALESCE(category, '')    AS category,
       created_at
FROM menu_items
WHERE restaurant_id = ?
ORDER BY id`, restaurantID)
	if err != nil {
		return nil, merry.Appendf(err, "list menu items of restaurant %d", restaurantID)
	}
	return
}

// ListOrderItems returns the lines of one order with the names of the ordered
// menu items.
func ListOrderItems(db *sqlx.DB, orderID int64) (xs []OrderItemLine, err error) {
	err = db.Select(&xs, `
SELECT oi.id,
       COALESCE(mi.name, '') AS name,
       oi.quantity,
       COALESCE(oi.price, 0) AS price
FROM order_items oi
LEFT JOIN menu_items mi ON oi.menu_item_id = mi.id
WHERE oi.order_id = ?
ORDER BY oi.id`, orderID)
	if err != nil {
		return nil, merry.Appendf(err, "list items of order %d", orderID)
	}
	return
}

func GetOrder(db *sqlx.DB, orderID int64) (food.Order, error) {
	var x food.Order
	err := db.Get(&x, `
SELECT id, restaurant_id, total_price, COALESCE(status, '') AS status, created_at, updated_at
FROM orders
WHERE id = ?`, orderID)
	if err != nil {
		return food.Order{}, merry.Appendf(err, "get order %d", orderID)
	}
	return x, nil
}

// Table is the raw content of a table as returned by SELECT *.
type Table struct {
	Name    string
	Columns []string
	Rows    [][]interface{}
}

// DumpTable selects the given columns of a schema table, all columns when none
// are given. limit <= 0 means all rows.
func DumpTable(db *sqlx.DB, table string, limit int, columns ...string) (Table, error) {
	if !isKnownTable(table) {
		return Table{}, ErrUnknownTable.Append(table)
	}
	selection := "*"
	if len(columns) > 0 {
		live, err := tableInfo(db, table)
		if err != nil {
			return Table{}, merry.Appendf(err, "dump %s", table)
		}
		known := make(map[string]bool)
		for _, c := range live {
			known[c.Name] = true
		}
		quoted := make([]string, len(columns))
		for i, c := range columns {
			if !known[c] {
				return Table{}, ErrUnknownColumn.Appendf("%s.%s", table, c)
			}
			quoted[i] = `"` + c + `"`
		}
		selection = strings.Join(quoted, ", ")
	}
	query := `SELECT ` + selection + ` FROM ` + table + ` ORDER BY id`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}
	rows, err := db.Queryx(query)
	if err != nil {
		return Table{}, merry.Appendf(err, "dump %s", table)
	}
	defer func() {
		_ = rows.Close()
	}()

	x := Table{Name: table}
	if x.Columns, err = rows.Columns(); err != nil {
		return Table{}, merry.Appendf(err, "dump %s", table)
	}
	for rows.Next() {
		row, err := rows.SliceScan()
		if err != nil {
			return Table{}, merry.Appendf(err, "dump %s", table)
		}
		x.Rows = append(x.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return Table{}, merry.Appendf(err, "dump %s", table)
	}
	return x, nil
}
