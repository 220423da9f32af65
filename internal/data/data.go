package data

import (
	"database/sql"
	"os"

	"github.com/ansel1/merry"
	_ "github.com/glebarez/go-sqlite"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

const (
	// DriverSqlite3 is github.com/mattn/go-sqlite3, needs cgo.
	DriverSqlite3 = "sqlite3"
	// DriverSqlite is github.com/glebarez/go-sqlite, pure Go.
	DriverSqlite = "sqlite"
)

var (
	ErrNotFound      = merry.New("database file not found")
	ErrUnknownTable  = merry.New("unknown table")
	ErrUnknownColumn = merry.New("unknown column")
)

type TableCount struct {
	Table string
	Rows  int
}

type InitResult struct {
	Filename string
	Tables   []TableCount
}

func init() {
	sqlx.BindDriver(DriverSqlite, sqlx.QUESTION)
}

func (x InitResult) Rows(table string) int {
	for _, t := range x.Tables {
		if t.Table == table {
			return t.Rows
		}
	}
	return 0
}

// Open opens an existing database. It never creates the file.
func Open(driver, filename string) (*sqlx.DB, error) {
	if !Exists(filename) {
		return nil, ErrNotFound.Appendf("%s: run the initializer first", filename)
	}
	db, err := openSqliteDBx(driver, filename)
	if err != nil {
		return nil, merry.Appendf(err, "open %s", filename)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, merry.Appendf(err, "open %s", filename)
	}
	return db, nil
}

func Exists(filename string) bool {
	_, err := os.Stat(filename)
	return err == nil
}

// Recreate deletes filename together with its journal files if they exist and
// opens a new empty database in its place. Nothing is backed up.
func Recreate(driver, filename string) (*sqlx.DB, error) {
	for _, suffix := range []string{"", "-journal", "-wal", "-shm"} {
		if err := os.Remove(filename + suffix); err != nil && !os.IsNotExist(err) {
			return nil, merry.Appendf(err, "remove %s", filename+suffix)
		}
	}
	db, err := openSqliteDBx(driver, filename)
	if err != nil {
		return nil, merry.Appendf(err, "create %s", filename)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, merry.Appendf(err, "create %s", filename)
	}
	return db, nil
}

// Initialize replaces the database at filename with a freshly created schema
// and the seed restaurants and menu items. Tables and seed rows are written in
// one transaction, so a failure leaves an empty database rather than a
// partially seeded one.
func Initialize(driver, filename string) (InitResult, error) {
	db, err := Recreate(driver, filename)
	if err != nil {
		return InitResult{}, err
	}
	defer func() {
		_ = db.Close()
	}()

	tx, err := db.Beginx()
	if err != nil {
		return InitResult{}, merry.Append(err, "begin transaction")
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, t := range TableDefinitions() {
		if _, err := tx.Exec(t.SQL); err != nil {
			return InitResult{}, merry.Appendf(err, "create table %s", t.Name)
		}
	}

	restaurants, menuItems, err := seed(tx)
	if err != nil {
		return InitResult{}, err
	}

	if err := tx.Commit(); err != nil {
		return InitResult{}, merry.Append(err, "commit")
	}

	return InitResult{
		Filename: filename,
		Tables: []TableCount{
			{TableRestaurants, restaurants},
			{TableMenuItems, menuItems},
			{TableOrders, 0},
			{TableOrderItems, 0},
		},
	}, nil
}

func seed(tx *sqlx.Tx) (restaurants int, menuItems int, err error) {
	insRestaurant, err := tx.PrepareNamed(`
INSERT INTO restaurants (name, cuisine, rating, delivery_time, image_url)
VALUES (:name, :cuisine, :rating, :delivery_time, :image_url)`)
	if err != nil {
		return 0, 0, merry.Append(err, "prepare restaurants insert")
	}
	defer func() {
		_ = insRestaurant.Close()
	}()

	insMenuItem, err := tx.PrepareNamed(`
INSERT INTO menu_items (restaurant_id, name, description, price, image_url, category)
VALUES (:restaurant_id, :name, :description, :price, :image_url, :category)`)
	if err != nil {
		return 0, 0, merry.Append(err, "prepare menu_items insert")
	}
	defer func() {
		_ = insMenuItem.Close()
	}()

	for _, r := range seedData {
		res, err := insRestaurant.Exec(r.Restaurant)
		if err != nil {
			return 0, 0, merry.Appendf(err, "insert restaurant %q", r.Name)
		}
		restaurantID, err := getNewInsertedID(res)
		if err != nil {
			return 0, 0, merry.Appendf(err, "insert restaurant %q", r.Name)
		}
		restaurants++

		for _, m := range r.Menu {
			m.RestaurantID = restaurantID
			res, err := insMenuItem.Exec(m)
			if err != nil {
				return 0, 0, merry.Appendf(err, "insert menu item %q", m.Name)
			}
			if _, err := getNewInsertedID(res); err != nil {
				return 0, 0, merry.Appendf(err, "insert menu item %q", m.Name)
			}
			menuItems++
		}
	}
	return restaurants, menuItems, nil
}

// CountRows returns the row count of every schema table in dependency order.
func CountRows(db *sqlx.DB) ([]TableCount, error) {
	var xs []TableCount
	for _, name := range TableNames() {
		var n int
		if err := db.Get(&n, `SELECT COUNT(*) FROM `+name); err != nil {
			return nil, merry.Appendf(err, "count %s", name)
		}
		xs = append(xs, TableCount{Table: name, Rows: n})
	}
	return xs, nil
}

func dataSourceName(driver, filename string) string {
	if driver == DriverSqlite {
		return filename + "?_pragma=foreign_keys(1)"
	}
	return filename + "?_foreign_keys=1"
}

func openSqliteDB(driver, fileName string) (*sql.DB, error) {
	conn, err := sql.Open(driver, dataSourceName(driver, fileName))
	if err != nil {
		return nil, err
	}
	conn.SetMaxIdleConns(1)
	conn.SetMaxOpenConns(1)
	conn.SetConnMaxLifetime(0)
	return conn, err
}

func openSqliteDBx(driver, fileName string) (*sqlx.DB, error) {
	conn, err := openSqliteDB(driver, fileName)
	if err != nil {
		return nil, err
	}
	return sqlx.NewDb(conn, driver), nil
}

func getNewInsertedID(r sql.Result) (int64, error) {
	id, err := r.LastInsertId()
	if err != nil {
		return 0, err
	}
	if id <= 0 {
		return 0, merry.New("was not inserted")
	}
	return id, nil
}

func checkOneRowAffected(r sql.Result) error {
	n, err := r.RowsAffected()
	if err != nil {
		return err
	}
	if n != 1 {
		return merry.Errorf("expected 1 row affected, got %d", n)
	}
	return nil
}
