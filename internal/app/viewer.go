package app

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/ansel1/merry"
	"github.com/fpawel/foodhub/internal/config"
	"github.com/fpawel/foodhub/internal/data"
	"github.com/fpawel/foodhub/internal/export"
	"github.com/fpawel/foodhub/internal/food"
	"github.com/jmoiron/sqlx"
)

type Column struct {
	Title string
	Width int
}

// View is one table the viewer can show.
type View struct {
	Name    string
	Title   string
	Noun    string
	Columns []Column
	Load    func(db *sqlx.DB) ([][]string, error)
}

var (
	OrdersView = View{
		Name:  "orders",
		Title: "View All Orders",
		Noun:  "orders",
		Columns: []Column{
			{"ID", 40},
			{"Restaurant", 200},
			{"Total Price", 100},
			{"Status", 120},
			{"Created", 200},
		},
		Load: loadOrders,
	}

	MenuView = View{
		Name:  "menu",
		Title: "View Menu Items",
		Noun:  "menu items",
		Columns: []Column{
			{"ID", 40},
			{"Item Name", 250},
			{"Restaurant", 150},
			{"Category", 120},
			{"Price", 100},
		},
		Load: loadMenuItems,
	}

	RestaurantsView = View{
		Name:  "restaurants",
		Title: "View Restaurants",
		Noun:  "restaurants",
		Columns: []Column{
			{"ID", 40},
			{"Name", 200},
			{"Cuisine", 150},
			{"Rating", 100},
			{"Delivery (min)", 100},
		},
		Load: loadRestaurants,
	}

	Views = []View{OrdersView, MenuView, RestaurantsView}
)

func ViewByName(name string) (View, bool) {
	for _, v := range Views {
		if v.Name == name {
			return v, true
		}
	}
	return View{}, false
}

func loadOrders(db *sqlx.DB) ([][]string, error) {
	orders, err := data.ListOrders(db, data.Descending)
	if err != nil {
		return nil, err
	}
	var xs [][]string
	for _, o := range orders {
		xs = append(xs, []string{
			formatID(o.ID),
			o.Restaurant,
			food.FormatPrice(o.TotalPrice),
			o.Status,
			food.FormatTime(o.CreatedAt),
		})
	}
	return xs, nil
}

func loadMenuItems(db *sqlx.DB) ([][]string, error) {
	items, err := data.ListMenuItems(db)
	if err != nil {
		return nil, err
	}
	var xs [][]string
	for _, m := range items {
		xs = append(xs, []string{
			formatID(m.ID),
			m.Name,
			m.Restaurant,
			m.Category,
			food.FormatPrice(m.Price),
		})
	}
	return xs, nil
}

func loadRestaurants(db *sqlx.DB) ([][]string, error) {
	restaurants, err := data.ListRestaurants(db)
	if err != nil {
		return nil, err
	}
	var xs [][]string
	for _, r := range restaurants {
		xs = append(xs, []string{
			formatID(r.ID),
			r.Name,
			r.Cuisine,
			strconv.FormatFloat(r.Rating, 'f', 1, 64),
			strconv.Itoa(r.DeliveryTime),
		})
	}
	return xs, nil
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

// Viewer opens the database for every action, so a database replaced by the
// initializer in the meantime is picked up on the next load.
type Viewer struct {
	Config config.Config
}

func (x Viewer) withDB(f func(db *sqlx.DB) error) error {
	db, err := data.Open(x.Config.Database.Driver, x.Config.Database.Path)
	if err != nil {
		return err
	}
	defer log.ErrIfFail(db.Close)
	return f(db)
}

func (x Viewer) Load(v View) (rows [][]string, err error) {
	err = x.withDB(func(db *sqlx.DB) error {
		rows, err = v.Load(db)
		return err
	})
	if err != nil {
		return nil, merry.Appendf(err, "load %s", v.Noun)
	}
	log.Debug("loaded", "view", v.Name, "rows", len(rows))
	return rows, nil
}

// Export writes all orders to a CSV file in the configured export directory.
func (x Viewer) Export(now time.Time) (filename string, err error) {
	err = x.withDB(func(db *sqlx.DB) error {
		filename, err = export.Orders(db, x.Config.ExportDir, now)
		return err
	})
	if err != nil {
		return "", err
	}
	log.Info("orders exported", "path", filename)
	return filename, nil
}

func LoadedStatus(v View, n int) string {
	return fmt.Sprintf("Loaded %d %s", n, v.Noun)
}

func ExportedStatus(filename string) string {
	return "Exported to " + filename
}

func ErrorStatus(err error) string {
	return "Error: " + err.Error()
}

// WriteTable renders rows as an aligned text table.
func WriteTable(w io.Writer, v View, rows [][]string) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	titles := make([]string, len(v.Columns))
	rules := make([]string, len(v.Columns))
	for i, c := range v.Columns {
		titles[i] = c.Title
		rules[i] = strings.Repeat("-", len(c.Title))
	}
	if _, err := fmt.Fprintln(tw, strings.Join(titles, "\t")); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(tw, strings.Join(rules, "\t")); err != nil {
		return err
	}
	for _, row := range rows {
		if _, err := fmt.Fprintln(tw, strings.Join(row, "\t")); err != nil {
			return err
		}
	}
	return tw.Flush()
}

// Render prints every view followed by its status line. A view that fails to
// load is reported by its status line and the next view is still printed; the
// first error is returned.
func Render(w io.Writer, x Viewer, views []View) error {
	var firstErr error
	for _, v := range views {
		if _, err := fmt.Fprintf(w, "%s\n\n", strings.TrimPrefix(v.Title, "View ")); err != nil {
			return err
		}
		rows, err := x.Load(v)
		status := LoadedStatus(v, len(rows))
		if err != nil {
			status = ErrorStatus(err)
			if firstErr == nil {
				firstErr = err
			}
		} else if err := WriteTable(w, v, rows); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "\n%s\n\n", status); err != nil {
			return err
		}
	}
	return firstErr
}
