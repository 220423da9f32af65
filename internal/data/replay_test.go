package data

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/ansel1/merry"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEmptyDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := Recreate(DriverSqlite3, filepath.Join(t.TempDir(), "setup.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})
	return db
}

func TestSplitStatements(t *testing.T) {
	xs := SplitStatements(`
-- header comment; with a semicolon
CREATE DATABASE food;
USE food;
/* block; comment */
INSERT INTO restaurants (name) VALUES ('Joe''s; Diner');
INSERT INTO restaurants (name) VALUES ("a;b")  ;

;
SELECT 1`)
	assert.Equal(t, []string{
		"CREATE DATABASE food",
		"USE food",
		"INSERT INTO restaurants (name) VALUES ('Joe''s; Diner')",
		`INSERT INTO restaurants (name) VALUES ("a;b")`,
		"SELECT 1",
	}, xs)
}

func TestCheckStatement(t *testing.T) {
	for _, c := range []struct {
		stmt   string
		skip   bool
		reject bool
	}{
		{"CREATE DATABASE food_delivery", true, false},
		{"USE food_delivery", true, false},
		{"CREATE TABLE IF NOT EXISTS restaurants (id INTEGER PRIMARY KEY)", false, false},
		{"CREATE TABLE `menu_items` (id INTEGER)", false, false},
		{"CREATE INDEX idx_menu ON menu_items(restaurant_id)", false, false},
		{"CREATE UNIQUE INDEX idx_name ON restaurants(name)", false, false},
		{"INSERT INTO restaurants (name) VALUES ('engine room')", false, false},
		{"CREATE TABLE restaurants (id INT AUTO_INCREMENT PRIMARY KEY)", false, true},
		{"CREATE TABLE orders (id INT) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4", false, true},
		{"CREATE TABLE orders (id INT) ENGINE = InnoDB", false, true},
		{"CREATE TABLE orders (id INT) DEFAULT CHARACTER SET utf8mb4", false, true},
		{"CREATE TABLE orders (id INT UNSIGNED)", false, true},
		{"CREATE TABLE menu_items (name VARCHAR(100) COLLATE utf8mb4_unicode_ci)", false, true},
		{"CREATE TABLE menu_items (id INTEGER, engine TEXT, charset TEXT, unsigned INTEGER)", false, false},
		{"INSERT INTO menu_items (engine, charset) VALUES ('v8', 'utf8')", false, false},
		{"CREATE INDEX idx_engine ON menu_items(engine)", false, false},
		{"CREATE TABLE users (id INTEGER)", false, true},
		{"INSERT INTO users (id) VALUES (1)", false, true},
		{"DROP TABLE restaurants", false, true},
		{"DELETE FROM orders", false, true},
		{"PRAGMA foreign_keys = OFF", false, true},
	} {
		skip, err := checkStatement(c.stmt)
		assert.Equal(t, c.skip, skip, c.stmt)
		if c.reject {
			require.Error(t, err, c.stmt)
			assert.True(t, merry.Is(err, ErrRejectedStatement), c.stmt)
		} else {
			assert.NoError(t, err, c.stmt)
		}
	}
}

func TestMysqlSyntax(t *testing.T) {
	syntax, ok := mysqlSyntax(sqlTokens("CREATE TABLE t (id INT) ENGINE=InnoDB"))
	assert.True(t, ok)
	assert.Equal(t, "ENGINE =", syntax)

	syntax, ok = mysqlSyntax(sqlTokens("CREATE TABLE t (c TEXT COLLATE utf8mb4_general_ci)"))
	assert.True(t, ok)
	assert.Equal(t, "COLLATE UTF8MB4_GENERAL_CI", syntax)

	_, ok = mysqlSyntax(sqlTokens("SELECT engine, charset FROM t WHERE unsigned = 1"))
	assert.False(t, ok)
}

func TestReplaySQL(t *testing.T) {
	db := newEmptyDB(t)
	var script strings.Builder
	script.WriteString("CREATE DATABASE IF NOT EXISTS food_delivery;\nUSE food_delivery;\n")
	for _, d := range TableDefinitions() {
		script.WriteString(d.SQL + ";\n")
	}
	script.WriteString(`
-- sample data
INSERT INTO restaurants (name, cuisine, rating, delivery_time) VALUES ('Pizza Palace', 'Italian', 4.5, 30);
INSERT INTO menu_items (restaurant_id, name, price) VALUES (1, 'California Roll', 12.99);
INSERT INTO menu_items (restaurant_id, name, price) VALUES (7, 'Orphan', 1.00);
CREATE TABLE restaurants (id INT AUTO_INCREMENT PRIMARY KEY) ENGINE=InnoDB;
CREATE TABLE menu_items (id INTEGER);
DROP TABLE orders;
`)

	result, err := ReplaySQL(db, strings.NewReader(script.String()))
	require.NoError(t, err)
	assert.Equal(t, 6, result.Executed)
	// CREATE DATABASE, USE, re-created menu_items
	assert.Equal(t, 3, result.Skipped)
	require.Len(t, result.Warnings, 3)
	assert.Contains(t, result.Warnings[0].Err.Error(), "FOREIGN KEY")
	assert.True(t, merry.Is(result.Warnings[1].Err, ErrRejectedStatement))
	assert.True(t, merry.Is(result.Warnings[2].Err, ErrRejectedStatement))

	counts, err := CountRows(db)
	require.NoError(t, err)
	assert.Equal(t, 1, counts[0].Rows)
	assert.Equal(t, 1, counts[1].Rows)

	diffs, err := Reconcile(db)
	require.NoError(t, err)
	assert.Empty(t, diffs)
}

func TestReconcile(t *testing.T) {
	db, _ := newTestDB(t)
	diffs, err := Reconcile(db)
	require.NoError(t, err)
	assert.Empty(t, diffs)

	db2 := newEmptyDB(t)
	for _, stmt := range []string{
		`CREATE TABLE restaurants (id INTEGER PRIMARY KEY AUTOINCREMENT, name TEXT, cuisine TEXT, rating REAL DEFAULT 5.0, delivery_time INTEGER, image_url TEXT, created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP, phone TEXT)`,
		`CREATE TABLE menu_items (id INTEGER PRIMARY KEY AUTOINCREMENT, restaurant_id INTEGER NOT NULL, name TEXT NOT NULL, description TEXT, price DECIMAL(10,2) NOT NULL, category TEXT, created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP)`,
	} {
		_, err := db2.Exec(stmt)
		require.NoError(t, err)
	}
	diffs, err = Reconcile(db2)
	require.NoError(t, err)

	var got []string
	for _, d := range diffs {
		got = append(got, d.String())
	}
	assert.Equal(t, []string{
		`restaurants.name: not null false, want true`,
		`restaurants.rating: default "5.0", want "4.0"`,
		`restaurants.phone: unexpected column`,
		`menu_items.image_url: column is missing`,
		`menu_items.category: position 5, want 6`,
		`menu_items.created_at: position 6, want 7`,
		`orders: table is missing`,
		`order_items: table is missing`,
	}, got)
}
