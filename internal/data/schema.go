package data

const (
	TableRestaurants = "restaurants"
	TableMenuItems   = "menu_items"
	TableOrders      = "orders"
	TableOrderItems  = "order_items"
)

type TableDefinition struct {
	Name string
	SQL  string
}

const sqlCreateRestaurants = `
CREATE TABLE IF NOT EXISTS restaurants
(
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    name          TEXT NOT NULL,
    cuisine       TEXT,
    rating        REAL      DEFAULT 4.0,
    delivery_time INTEGER,
    image_url     TEXT,
    created_at    TIMESTAMP DEFAULT CURRENT_TIMESTAMP
)`

const sqlCreateMenuItems = `
CREATE TABLE IF NOT EXISTS menu_items
(
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    restaurant_id INTEGER        NOT NULL,
    name          TEXT           NOT NULL,
    description   TEXT,
    price         DECIMAL(10, 2) NOT NULL CHECK (price >= 0),
    image_url     TEXT,
    category      TEXT,
    created_at    TIMESTAMP DEFAULT CURRENT_TIMESTAMP,

    FOREIGN KEY (restaurant_id) REFERENCES restaurants (id) ON DELETE CASCADE
)`

const sqlCreateOrders = `
CREATE TABLE IF NOT EXISTS orders
(
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    restaurant_id INTEGER        NOT NULL,
    total_price   DECIMAL(10, 2) NOT NULL CHECK (total_price >= 0),
    status        TEXT      DEFAULT 'Pending',
    created_at    TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    updated_at    TIMESTAMP DEFAULT CURRENT_TIMESTAMP,

    FOREIGN KEY (restaurant_id) REFERENCES restaurants (id) ON DELETE CASCADE
)`

const sqlCreateOrderItems = `
CREATE TABLE IF NOT EXISTS order_items
(
    id           INTEGER PRIMARY KEY AUTOINCREMENT,
    order_id     INTEGER NOT NULL,
    menu_item_id INTEGER NOT NULL,
    quantity     INTEGER NOT NULL DEFAULT 1 CHECK (quantity >= 1),
    price        DECIMAL(10, 2) CHECK (price >= 0),
    created_at   TIMESTAMP DEFAULT CURRENT_TIMESTAMP,

    FOREIGN KEY (order_id) REFERENCES orders (id) ON DELETE CASCADE,
    FOREIGN KEY (menu_item_id) REFERENCES menu_items (id) ON DELETE CASCADE
)`

// TableDefinitions returns the CREATE statements of the schema in dependency
// order: every table comes after the tables it references.
func TableDefinitions() []TableDefinition {
	return []TableDefinition{
		{TableRestaurants, sqlCreateRestaurants},
		{TableMenuItems, sqlCreateMenuItems},
		{TableOrders, sqlCreateOrders},
		{TableOrderItems, sqlCreateOrderItems},
	}
}

func TableNames() []string {
	var xs []string
	for _, t := range TableDefinitions() {
		xs = append(xs, t.Name)
	}
	return xs
}

func isKnownTable(name string) bool {
	for _, t := range TableDefinitions() {
		if t.Name == name {
			return true
		}
	}
	return false
}
