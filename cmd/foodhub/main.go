package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/ansel1/merry"
	"github.com/fpawel/foodhub/internal/app"
	"github.com/fpawel/foodhub/internal/config"
	"github.com/fpawel/foodhub/internal/data"
	"github.com/fpawel/foodhub/internal/export"
	"github.com/fpawel/foodhub/internal/food"
	"github.com/fpawel/foodhub/internal/monitor"
	"github.com/fpawel/foodhub/internal/report"
	"github.com/jmoiron/sqlx"
	"github.com/powerman/structlog"
)

var (
	ErrConfirmationRequired = merry.New("database already exists, run again with -yes to replace it")
	ErrUsage                = merry.New("usage")
)

func main() {
	action := flag.String("a", "report", `what to do:
 - init : create the database with sample data
 - setup : create the database from an SQL script given by -sql
 - report : print all orders and the raw tables
 - export : write orders to a CSV file
 - view : show orders, menu items and restaurants
 - monitor : print changed files under the monitor root
 - check : compare order totals with the sum of their items
 - order : place an order given by -restaurant and -items
 - status : set the status of the order given by -order`)
	configFile := flag.String("config", config.DefaultFileName, "configuration file, .yaml or .toml")
	dbPath := flag.String("db", "", "database file, overrides the configuration")
	yes := flag.Bool("yes", false, "replace an existing database without asking")
	sqlFile := flag.String("sql", "database.sql", "SQL script for setup")
	restaurantID := flag.Int64("restaurant", 0, "restaurant id of a new order")
	items := flag.String("items", "", "menu items of a new order as ID[:QTY],... e.g. 9:2,12")
	orderID := flag.Int64("order", 0, "order id for status")
	status := flag.String("status", "", "new order status")

	flag.Parse()

	cfg, err := config.Resolve(*configFile)
	if err != nil {
		structlog.New().PrintErr(err)
		os.Exit(1)
	}
	if *dbPath != "" {
		cfg.Database.Path = *dbPath
	}
	app.InitLog(cfg.LogLevel)

	log := logPrependSuffixKeys(structlog.New(), "action", *action)

	switch *action {
	case "init":
		err = initDB(log, cfg, *yes)
	case "setup":
		err = setupDB(log, cfg, *sqlFile, *yes)
	case "report":
		err = withDB(cfg, func(db *sqlx.DB) error {
			return report.Print(os.Stdout, db)
		})
	case "export":
		err = withDB(cfg, func(db *sqlx.DB) error {
			filename, err := export.Orders(db, cfg.ExportDir, time.Now())
			if err == nil {
				fmt.Println("Orders exported to", filename)
			}
			return err
		})
	case "view":
		err = app.Render(os.Stdout, app.Viewer{Config: cfg}, app.Views)
	case "monitor":
		err = runMonitor(log, cfg)
	case "check":
		err = withDB(cfg, checkTotals)
	case "order":
		err = placeOrder(cfg, *restaurantID, *items)
	case "status":
		err = withDB(cfg, func(db *sqlx.DB) error {
			if err := data.UpdateOrderStatus(db, *orderID, *status); err != nil {
				return err
			}
			fmt.Printf("Order #%d: %s\n", *orderID, *status)
			return nil
		})
	default:
		err = ErrUsage.Appendf("wrong parameter: -a=%q", *action)
	}

	if err != nil {
		log.PrintErr(err)
		if merry.Is(err, ErrUsage) {
			flag.PrintDefaults()
		}
		os.Exit(1)
	}
}

func init() {
	structlog.DefaultLogger.
		SetLogLevel(structlog.DBG).
		SetPrefixKeys(
			structlog.KeyApp, structlog.KeyPID, structlog.KeyLevel, structlog.KeyUnit, structlog.KeyTime,
		).
		SetSuffixKeys(structlog.KeySource).
		SetTimeFormat("15:04:05")
}

func withDB(cfg config.Config, f func(db *sqlx.DB) error) error {
	db, err := data.Open(cfg.Database.Driver, cfg.Database.Path)
	if err != nil {
		return err
	}
	defer structlog.New().ErrIfFail(db.Close)
	return f(db)
}

func initDB(log *structlog.Logger, cfg config.Config, confirmed bool) error {
	if data.Exists(cfg.Database.Path) && !confirmed {
		return ErrConfirmationRequired.Append(cfg.Database.Path)
	}
	r, err := data.Initialize(cfg.Database.Driver, cfg.Database.Path)
	if err != nil {
		return merry.Append(err, "database initialization failed")
	}
	log.Info("database initialized", "path", r.Filename)
	fmt.Println("Database initialized successfully!")
	fmt.Println("Database created at:", r.Filename)
	fmt.Printf("- %d restaurants added\n", r.Rows(data.TableRestaurants))
	fmt.Printf("- %d menu items added\n", r.Rows(data.TableMenuItems))
	return nil
}

func setupDB(log *structlog.Logger, cfg config.Config, sqlFile string, confirmed bool) error {
	f, err := os.Open(sqlFile)
	if err != nil {
		return merry.Append(err, "read SQL script")
	}
	defer log.ErrIfFail(f.Close)

	if data.Exists(cfg.Database.Path) {
		if !confirmed {
			return ErrConfirmationRequired.Append(cfg.Database.Path)
		}
		log.Warn("database already exists, removing old version", "path", cfg.Database.Path)
	}
	db, err := data.Recreate(cfg.Database.Driver, cfg.Database.Path)
	if err != nil {
		return err
	}
	defer log.ErrIfFail(db.Close)

	r, err := data.ReplaySQL(db, f)
	if err != nil {
		return err
	}
	for _, w := range r.Warnings {
		log.Warn(w.String())
	}
	fmt.Printf("Executed %d SQL statements, skipped %d\n", r.Executed, r.Skipped)
	fmt.Println("Created:", cfg.Database.Path)

	// a script may leave out tables, Reconcile reports them below
	if counts, err := data.CountRows(db); err != nil {
		log.Warn(err.Error())
	} else {
		for _, c := range counts {
			fmt.Printf("  %s table (%d records)\n", c.Table, c.Rows)
		}
	}

	diffs, err := data.Reconcile(db)
	if err != nil {
		return err
	}
	for _, d := range diffs {
		log.Warn("schema differs", "table", d.Table, "problem", d.String())
	}
	if len(diffs) == 0 {
		log.Info("schema matches")
	}
	return nil
}

func runMonitor(log *structlog.Logger, cfg config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	root := cfg.Monitor.Root
	fmt.Println("Monitoring file changes in", root)
	p := &monitor.Poller{
		Root:     root,
		Ignore:   cfg.Monitor.IgnoreDirs,
		Interval: cfg.Monitor.IntervalDuration(),
		Duration: cfg.Monitor.WatchDuration(),
		OnChange: func(at time.Time, changes []monitor.Change) {
			fmt.Println(at.Format("15:04:05"), "Changes detected:")
			for _, c := range changes {
				fmt.Println(" ", c.Kind, monitor.Relative(root, c.Path))
			}
			fmt.Println("---")
		},
		OnError: func(err error) {
			log.PrintErr(err)
		},
	}
	err := p.Run(ctx)
	fmt.Println("Monitoring finished")
	if merry.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func checkTotals(db *sqlx.DB) error {
	xs, err := data.CheckOrderTotals(db)
	if err != nil {
		return err
	}
	if len(xs) == 0 {
		fmt.Println("All order totals match their items")
		return nil
	}
	for _, x := range xs {
		fmt.Printf("Order #%d: total price %s, items sum %s\n",
			x.OrderID, food.FormatPrice(x.Stored), food.FormatPrice(x.Computed))
	}
	return merry.Errorf("%d orders with wrong total price", len(xs))
}

func placeOrder(cfg config.Config, restaurantID int64, items string) error {
	lines, err := parseOrderLines(items)
	if err != nil {
		return err
	}
	return withDB(cfg, func(db *sqlx.DB) error {
		o, err := data.CreateOrder(db, restaurantID, lines)
		if err != nil {
			return err
		}
		fmt.Printf("Order #%d: %s, %s\n", o.ID, food.FormatPrice(o.TotalPrice), o.Status)
		return nil
	})
}

// parseOrderLines parses "ID[:QTY],..." where the quantity defaults to 1.
func parseOrderLines(s string) ([]data.OrderLine, error) {
	var xs []data.OrderLine
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		idStr, qtyStr := part, "1"
		if n := strings.IndexByte(part, ':'); n >= 0 {
			idStr, qtyStr = part[:n], part[n+1:]
		}
		id, err := strconv.ParseInt(strings.TrimSpace(idStr), 10, 64)
		if err != nil {
			return nil, ErrUsage.Appendf("menu item %q", part)
		}
		qty, err := strconv.Atoi(strings.TrimSpace(qtyStr))
		if err != nil {
			return nil, ErrUsage.Appendf("quantity %q", part)
		}
		xs = append(xs, data.OrderLine{MenuItemID: id, Quantity: qty})
	}
	if len(xs) == 0 {
		return nil, ErrUsage.Append("-items: no menu items")
	}
	return xs, nil
}

func logPrependSuffixKeys(log *structlog.Logger, args ...interface{}) *structlog.Logger {
	var keys []string
	for i, arg := range args {
		if i%2 == 0 {
			k, ok := arg.(string)
			if !ok {
				panic("key must be string")
			}
			keys = append(keys, k)
		}
	}
	return log.New(args...).PrependSuffixKeys(keys...)
}
