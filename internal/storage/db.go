package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"bakeimport/internal"
)

type DB struct {
	conn *sql.DB
}

func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := conn.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.init(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return db, nil
}

func (d *DB) Close() error {
	return d.conn.Close()
}

func (d *DB) init() error {
	schema := `
CREATE TABLE IF NOT EXISTS products (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  bakeryId TEXT NOT NULL,
  originalId TEXT NOT NULL,
  name TEXT NOT NULL,
  category TEXT NOT NULL,
  isActive INTEGER NOT NULL DEFAULT 1,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  updatedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  UNIQUE(bakeryId, originalId)
);
CREATE INDEX IF NOT EXISTS idx_products_bakery ON products(bakeryId);

CREATE TABLE IF NOT EXISTS customers (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  bakeryId TEXT NOT NULL,
  originalId TEXT NOT NULL,
  name TEXT NOT NULL,
  contactPerson TEXT,
  phone TEXT,
  email TEXT,
  address TEXT,
  status TEXT NOT NULL DEFAULT 'active',
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  updatedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  UNIQUE(bakeryId, originalId)
);
CREATE INDEX IF NOT EXISTS idx_customers_bakery ON customers(bakeryId);

CREATE TABLE IF NOT EXISTS orders (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  orderNumber TEXT NOT NULL UNIQUE,
  bakeryId TEXT NOT NULL,
  deliveryDate TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  customerId INTEGER NOT NULL,
  customerOriginalId TEXT NOT NULL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  FOREIGN KEY(customerId) REFERENCES customers(id)
);
CREATE INDEX IF NOT EXISTS idx_orders_bakery_date ON orders(bakeryId, deliveryDate);

CREATE TABLE IF NOT EXISTS order_products (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  orderId INTEGER NOT NULL,
  productId INTEGER,
  productOriginalId TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  packingStatus TEXT NOT NULL DEFAULT 'pending',
  FOREIGN KEY(orderId) REFERENCES orders(id),
  FOREIGN KEY(productId) REFERENCES products(id)
);

CREATE TABLE IF NOT EXISTS import_runs (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  traceId TEXT NOT NULL,
  bakeryId TEXT NOT NULL,
  countsJson TEXT NOT NULL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS skipped_lines (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  traceId TEXT NOT NULL,
  file TEXT NOT NULL,
  lineNo INTEGER NOT NULL,
  rawLine TEXT NOT NULL,
  reason TEXT NOT NULL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_skipped_trace ON skipped_lines(traceId);
`

	_, err := d.conn.Exec(schema)
	return err
}

func (d *DB) UpsertProducts(products []internal.ParsedProduct) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(`
INSERT INTO products (bakeryId, originalId, name, category, isActive)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(bakeryId, originalId) DO UPDATE SET
  name = excluded.name,
  category = excluded.category,
  isActive = excluded.isActive,
  updatedAt = CURRENT_TIMESTAMP`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, p := range products {
		if _, err := stmt.Exec(p.BakeryID, p.OriginalID, p.Name, p.Category, boolToInt(p.IsActive)); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (d *DB) UpsertCustomers(customers []internal.ParsedCustomer) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(`
INSERT INTO customers (bakeryId, originalId, name, contactPerson, phone, email, address, status)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(bakeryId, originalId) DO UPDATE SET
  name = excluded.name,
  contactPerson = excluded.contactPerson,
  phone = excluded.phone,
  email = excluded.email,
  address = excluded.address,
  status = excluded.status,
  updatedAt = CURRENT_TIMESTAMP`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, c := range customers {
		if _, err := stmt.Exec(c.BakeryID, c.OriginalID, c.Name, c.ContactPerson, c.Phone, c.Email, c.Address, c.Status); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// ProductIDsByOriginal maps legacy product ids to database ids for one bakery.
func (d *DB) ProductIDsByOriginal(bakeryID string) (map[string]int, error) {
	return d.idsByOriginal(`SELECT originalId, id FROM products WHERE bakeryId = ?`, bakeryID)
}

// CustomerIDsByOriginal maps legacy customer ids to database ids for one bakery.
func (d *DB) CustomerIDsByOriginal(bakeryID string) (map[string]int, error) {
	return d.idsByOriginal(`SELECT originalId, id FROM customers WHERE bakeryId = ?`, bakeryID)
}

func (d *DB) idsByOriginal(query, bakeryID string) (map[string]int, error) {
	rows, err := d.conn.Query(query, bakeryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string]int{}
	for rows.Next() {
		var originalID string
		var id int
		if err := rows.Scan(&originalID, &id); err != nil {
			return nil, err
		}
		out[originalID] = id
	}
	return out, rows.Err()
}

// InsertOrder stores one grouped order with its line items. Line items whose
// product original id has no master row keep a NULL product FK; the original
// id column stays populated so the operator can backfill later.
func (d *DB) InsertOrder(order internal.ParsedOrder, customerID int, productIDs map[string]int) (int, error) {
	tx, err := d.conn.Begin()
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.Exec(`
INSERT INTO orders (orderNumber, bakeryId, deliveryDate, status, customerId, customerOriginalId)
VALUES (?, ?, ?, ?, ?, ?)`,
		order.OrderNumber, order.BakeryID, order.DeliveryDate, order.Status, customerID, order.CustomerOriginalID)
	if err != nil {
		return 0, err
	}
	orderID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	stmt, err := tx.Prepare(`
INSERT INTO order_products (orderId, productId, productOriginalId, quantity, packingStatus)
VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	for _, line := range order.Lines {
		var productID any
		if id, ok := productIDs[line.ProductOriginalID]; ok {
			productID = id
		}
		if _, err := stmt.Exec(orderID, productID, line.ProductOriginalID, line.Quantity, line.PackingStatus); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return int(orderID), nil
}

func (d *DB) InsertRun(traceID, bakeryID string, counts map[string]int) error {
	countsJSON, err := json.Marshal(counts)
	if err != nil {
		return err
	}
	_, err = d.conn.Exec(`INSERT INTO import_runs (traceId, bakeryId, countsJson) VALUES (?, ?, ?)`,
		traceID, bakeryID, string(countsJSON))
	return err
}

// RunByTrace loads the run row for one import, for post-hoc reporting.
func (d *DB) RunByTrace(traceID string) (string, map[string]int, error) {
	var bakeryID, countsJSON string
	err := d.conn.QueryRow(`
SELECT bakeryId, countsJson FROM import_runs WHERE traceId = ? ORDER BY id DESC LIMIT 1`,
		traceID).Scan(&bakeryID, &countsJSON)
	if err == sql.ErrNoRows {
		return "", nil, fmt.Errorf("no import run with trace id %s", traceID)
	}
	if err != nil {
		return "", nil, err
	}

	counts := map[string]int{}
	if err := json.Unmarshal([]byte(countsJSON), &counts); err != nil {
		return "", nil, err
	}
	return bakeryID, counts, nil
}

func (d *DB) InsertSkippedLines(traceID string, skipped []internal.LineError) error {
	if len(skipped) == 0 {
		return nil
	}

	tx, err := d.conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(`
INSERT INTO skipped_lines (traceId, file, lineNo, rawLine, reason) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, e := range skipped {
		if _, err := stmt.Exec(traceID, string(e.File), e.LineNo, e.Line, e.Reason); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (d *DB) SkippedLines(traceID string) ([]internal.LineError, error) {
	rows, err := d.conn.Query(`
SELECT file, lineNo, rawLine, reason FROM skipped_lines WHERE traceId = ? ORDER BY id`, traceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []internal.LineError{}
	for rows.Next() {
		var e internal.LineError
		var file string
		if err := rows.Scan(&file, &e.LineNo, &e.Line, &e.Reason); err != nil {
			return nil, err
		}
		e.File = internal.ImportFile(file)
		out = append(out, e)
	}
	return out, rows.Err()
}

type OrderSummary struct {
	OrderNumber        string
	DeliveryDate       string
	Status             string
	CustomerOriginalID string
	LineCount          int
}

func (d *DB) OrderSummaries(bakeryID string) ([]OrderSummary, error) {
	rows, err := d.conn.Query(`
SELECT o.orderNumber, o.deliveryDate, o.status, o.customerOriginalId, COUNT(op.id)
FROM orders o
LEFT JOIN order_products op ON op.orderId = o.id
WHERE o.bakeryId = ?
GROUP BY o.id
ORDER BY o.deliveryDate, o.customerOriginalId`, bakeryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []OrderSummary{}
	for rows.Next() {
		var s OrderSummary
		if err := rows.Scan(&s.OrderNumber, &s.DeliveryDate, &s.Status, &s.CustomerOriginalID, &s.LineCount); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
