// Package report prints the orders stored in the database as human readable
// text.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/fpawel/foodhub/internal/data"
	"github.com/fpawel/foodhub/internal/food"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

const (
	lineWidth      = 80
	menuSampleSize = 5
)

// Print writes the orders with their items, followed by the raw content of
// the orders, order_items and menu_items tables. A failed query is reported in
// the output and the remaining sections are still printed; the first such
// error is returned.
func Print(w io.Writer, db *sqlx.DB) error {
	p := &printer{w: w}

	p.banner("ALL ORDERS IN DATABASE")
	p.println()
	p.orders(db)

	p.banner("DIRECT TABLE QUERIES")
	p.println()
	p.table(db, "ORDERS table:", data.TableOrders, 0)
	p.table(db, "ORDER_ITEMS table:", data.TableOrderItems, 0)
	p.table(db, "MENU_ITEMS table (sample):", data.TableMenuItems, menuSampleSize, "id", "name", "price")

	if p.werr != nil {
		return p.werr
	}
	return p.qerr
}

type printer struct {
	w    io.Writer
	werr error
	qerr error
}

func (p *printer) printf(format string, args ...interface{}) {
	if p.werr != nil {
		return
	}
	_, p.werr = fmt.Fprintf(p.w, format, args...)
}

func (p *printer) println(args ...interface{}) {
	if p.werr != nil {
		return
	}
	_, p.werr = fmt.Fprintln(p.w, args...)
}

func (p *printer) queryFailed(err error) {
	p.printf("  Error: %v\n", err)
	if p.qerr == nil {
		p.qerr = err
	}
}

func (p *printer) banner(title string) {
	p.println(strings.Repeat("=", lineWidth))
	p.println(title)
	p.println(strings.Repeat("=", lineWidth))
}

func (p *printer) orders(db *sqlx.DB) {
	orders, err := data.ListOrders(db, data.Descending)
	if err != nil {
		p.queryFailed(err)
		p.println()
		return
	}
	if len(orders) == 0 {
		p.println("No orders found in database")
		p.println()
		return
	}
	for _, o := range orders {
		p.printf("Order #%d\n", o.ID)
		p.printf("  Restaurant: %s\n", o.Restaurant)
		p.printf("  Total Price: %s\n", food.FormatPrice(o.TotalPrice))
		p.printf("  Status: %s\n", o.Status)
		p.printf("  Created: %s\n", food.FormatTime(o.CreatedAt))

		items, err := data.ListOrderItems(db, o.ID)
		if err != nil {
			p.queryFailed(err)
			p.println()
			continue
		}
		if len(items) == 0 {
			p.println("  Items: None")
		} else {
			p.println("  Items:")
			sum := decimal.Zero
			for _, x := range items {
				p.printf("    - %s x%d @ %s = %s\n",
					x.Name, x.Quantity, food.FormatPrice(x.Price), food.FormatPrice(x.Subtotal()))
				sum = sum.Add(x.Subtotal())
			}
			if !sum.Equal(o.TotalPrice.Round(food.PriceDecimals)) {
				p.printf("  Warning: total price %s differs from items sum %s\n",
					food.FormatPrice(o.TotalPrice), food.FormatPrice(sum))
			}
		}
		p.println()
	}
}

func (p *printer) table(db *sqlx.DB, title, table string, limit int, columns ...string) {
	p.println(title)
	p.println(strings.Repeat("-", lineWidth))
	t, err := data.DumpTable(db, table, limit, columns...)
	if err != nil {
		p.queryFailed(err)
	}
	for _, row := range t.Rows {
		p.println(formatRow(t.Columns, row))
	}
	p.println()
}

func formatRow(columns []string, row []interface{}) string {
	xs := make([]string, len(columns))
	for i, c := range columns {
		xs[i] = c + ": " + formatValue(row[i])
	}
	return "{" + strings.Join(xs, ", ") + "}"
}

func formatValue(v interface{}) string {
	switch v := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return strconv.Quote(string(v))
	case string:
		return strconv.Quote(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case time.Time:
		return strconv.Quote(food.FormatTime(v))
	default:
		return fmt.Sprint(v)
	}
}
