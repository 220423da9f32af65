// Package export writes database content to CSV files.
package export

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/ansel1/merry"
	"github.com/fpawel/foodhub/internal/data"
	"github.com/fpawel/foodhub/internal/food"
	"github.com/jmoiron/sqlx"
)

var OrdersHeader = []string{"Order ID", "Restaurant", "Total Price", "Status", "Created"}

func OrdersFileName(now time.Time) string {
	return "orders_export_" + now.Format("20060102_150405") + ".csv"
}

// Orders writes all orders, ascending by id, to a new timestamp named CSV file
// in dir and returns the file name. Without orders the file holds the header
// only.
func Orders(db *sqlx.DB, dir string, now time.Time) (string, error) {
	orders, err := data.ListOrders(db, data.Ascending)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return "", merry.Appendf(err, "create %s", dir)
	}
	filename := filepath.Join(dir, OrdersFileName(now))
	f, err := os.Create(filename)
	if err != nil {
		return "", merry.Appendf(err, "create %s", filename)
	}
	err = WriteOrders(f, orders)
	if errClose := f.Close(); err == nil {
		err = errClose
	}
	if err != nil {
		_ = os.Remove(filename)
		return "", merry.Appendf(err, "write %s", filename)
	}
	return filename, nil
}

func WriteOrders(w io.Writer, orders []data.OrderRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(OrdersHeader); err != nil {
		return err
	}
	for _, o := range orders {
		if err := cw.Write([]string{
			strconv.FormatInt(o.ID, 10),
			o.Restaurant,
			food.FormatAmount(o.TotalPrice),
			o.Status,
			food.FormatTime(o.CreatedAt),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
