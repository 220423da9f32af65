package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ansel1/merry"
	"github.com/fpawel/foodhub/internal/config"
	"github.com/fpawel/foodhub/internal/data"
	"github.com/jmoiron/sqlx"
	"github.com/powerman/structlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOrderLines(t *testing.T) {
	xs, err := parseOrderLines("9:2, 12 ,")
	require.NoError(t, err)
	assert.Equal(t, []data.OrderLine{
		{MenuItemID: 9, Quantity: 2},
		{MenuItemID: 12, Quantity: 1},
	}, xs)

	for _, s := range []string{"", " , ", "x", "9:y", "9:2:1"} {
		_, err := parseOrderLines(s)
		assert.True(t, merry.Is(err, ErrUsage), s)
	}
}

func testConfig(t *testing.T) config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Database.Path = filepath.Join(t.TempDir(), "food_delivery.db")
	return cfg
}

func TestInitRequiresConfirmation(t *testing.T) {
	log := structlog.New()
	cfg := testConfig(t)

	require.NoError(t, initDB(log, cfg, false))
	require.FileExists(t, cfg.Database.Path)

	err := initDB(log, cfg, false)
	assert.True(t, merry.Is(err, ErrConfirmationRequired))

	require.NoError(t, initDB(log, cfg, true))
}

func TestSetupMissingScript(t *testing.T) {
	cfg := testConfig(t)
	err := setupDB(structlog.New(), cfg, filepath.Join(t.TempDir(), "database.sql"), true)
	require.Error(t, err)
	assert.NoFileExists(t, cfg.Database.Path)
}

func TestSetup(t *testing.T) {
	cfg := testConfig(t)
	script := filepath.Join(t.TempDir(), "database.sql")
	require.NoError(t, os.WriteFile(script, []byte(`
CREATE DATABASE food;
USE food;
CREATE TABLE restaurants (id INTEGER PRIMARY KEY AUTOINCREMENT, name TEXT NOT NULL);
INSERT INTO restaurants (name) VALUES ('Pizza Palace');
`), 0644))

	require.NoError(t, setupDB(structlog.New(), cfg, script, false))

	db, err := data.Open(cfg.Database.Driver, cfg.Database.Path)
	require.NoError(t, err)
	defer func() {
		_ = db.Close()
	}()
	var n int
	require.NoError(t, db.Get(&n, `SELECT COUNT(*) FROM restaurants`))
	assert.Equal(t, 1, n)
}

func TestPlaceOrderAndCheck(t *testing.T) {
	cfg := testConfig(t)
	_, err := data.Initialize(cfg.Database.Driver, cfg.Database.Path)
	require.NoError(t, err)

	require.NoError(t, placeOrder(cfg, 3, "9:2,12"))
	require.NoError(t, withDB(cfg, checkTotals))

	require.NoError(t, withDB(cfg, func(db *sqlx.DB) error {
		_, err := db.Exec(`UPDATE orders SET total_price = 1 WHERE id = 1`)
		return err
	}))
	assert.Error(t, withDB(cfg, checkTotals))

	assert.Error(t, placeOrder(cfg, 1, "9:1"))
}

func TestSetupRequiresConfirmation(t *testing.T) {
	log := structlog.New()
	cfg := testConfig(t)
	require.NoError(t, initDB(log, cfg, false))
	require.NoError(t, placeOrder(cfg, 1, "1"))

	script := filepath.Join(t.TempDir(), "database.sql")
	require.NoError(t, os.WriteFile(script, []byte(`
CREATE TABLE restaurants (id INTEGER PRIMARY KEY AUTOINCREMENT, name TEXT NOT NULL);
`), 0644))

	err := setupDB(log, cfg, script, false)
	assert.True(t, merry.Is(err, ErrConfirmationRequired))

	// the existing database and its order are untouched
	countOrders := func() (n int) {
		require.NoError(t, withDB(cfg, func(db *sqlx.DB) error {
			return db.Get(&n, `SELECT COUNT(*) FROM orders`)
		}))
		return
	}
	assert.Equal(t, 1, countOrders())

	// a missing script is reported before the confirmation
	err = setupDB(log, cfg, filepath.Join(t.TempDir(), "missing.sql"), false)
	require.Error(t, err)
	assert.False(t, merry.Is(err, ErrConfirmationRequired))

	require.NoError(t, setupDB(log, cfg, script, true))
	require.NoError(t, withDB(cfg, func(db *sqlx.DB) error {
		var n int
		return db.Get(&n, `SELECT COUNT(*) FROM restaurants`)
	}))
	assert.Error(t, withDB(cfg, func(db *sqlx.DB) error {
		var n int
		return db.Get(&n, `SELECT COUNT(*) FROM orders`)
	}))
}
