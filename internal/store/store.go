package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"github.com/posbook-dev/posbook/internal/model"
)

var (
	// ErrDuplicateCustomer indicates a customer with that name (compared
	// case-insensitively) already exists.
	ErrDuplicateCustomer = errors.New("customer already exists")

	// ErrCustomerNotFound indicates the named customer does not exist.
	ErrCustomerNotFound = errors.New("customer not found")
)

const schema = `
CREATE TABLE IF NOT EXISTS customers (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT UNIQUE NOT NULL
);
CREATE TABLE IF NOT EXISTS transactions (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	customer_id INTEGER,
	type TEXT,
	amount TEXT,
	note TEXT,
	dt TEXT,
	FOREIGN KEY(customer_id) REFERENCES customers(id)
);`

// Store persists customers and transactions in a single SQLite file.
// Every operation opens its own handle and releases it before returning;
// mutations commit immediately. The path is explicit configuration so
// tests can run against isolated instances.
type Store struct {
	path string
}

// New creates a Store for the given database file. Call Init before use.
func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Init creates the database folder and schema.
func (s *Store) Init() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	db, err := s.open()
	if err != nil {
		return err
	}
	defer db.Close()

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

func (s *Store) open() (*sql.DB, error) {
	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return nil, fmt.Errorf("opening database %s: %w", s.path, err)
	}
	return db, nil
}

// Customers returns all customer names sorted case-insensitively ascending.
func (s *Store) Customers() ([]string, error) {
	db, err := s.open()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	const query = `SELECT name FROM customers ORDER BY name COLLATE NOCASE`

	rows, err := db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("listing customers: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning customer: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing customers: %w", err)
	}
	return names, nil
}

// AddCustomer inserts a customer. Uniqueness is case-insensitive, so
// "Bob" and "bob" cannot coexist.
func (s *Store) AddCustomer(name string) error {
	db, err := s.open()
	if err != nil {
		return err
	}
	defer db.Close()

	var exists int
	err = db.QueryRow(`SELECT 1 FROM customers WHERE name = ? COLLATE NOCASE LIMIT 1`, name).Scan(&exists)
	if err == nil {
		return ErrDuplicateCustomer
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("checking customer %q: %w", name, err)
	}

	if _, err := db.Exec(`INSERT INTO customers (name) VALUES (?)`, name); err != nil {
		return fmt.Errorf("inserting customer %q: %w", name, err)
	}
	return nil
}

// DeleteCustomer removes a customer and all its transactions. The child
// delete and parent delete run inside one database transaction so the
// cascade is observed as a single unit. Absent customers are a no-op.
func (s *Store) DeleteCustomer(name string) error {
	db, err := s.open()
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning delete of %q: %w", name, err)
	}

	var id int64
	err = tx.QueryRow(`SELECT id FROM customers WHERE name = ?`, name).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		tx.Rollback()
		return nil
	}
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("looking up customer %q: %w", name, err)
	}

	if _, err := tx.Exec(`DELETE FROM transactions WHERE customer_id = ?`, id); err != nil {
		tx.Rollback()
		return fmt.Errorf("deleting transactions of %q: %w", name, err)
	}
	if _, err := tx.Exec(`DELETE FROM customers WHERE id = ?`, id); err != nil {
		tx.Rollback()
		return fmt.Errorf("deleting customer %q: %w", name, err)
	}
	return tx.Commit()
}

// AddTransaction inserts a transaction for the named customer at the
// given timestamp.
func (s *Store) AddTransaction(customerName string, kind model.Kind, amount decimal.Decimal, note string, ts time.Time) error {
	db, err := s.open()
	if err != nil {
		return err
	}
	defer db.Close()

	var customerID int64
	err = db.QueryRow(`SELECT id FROM customers WHERE name = ?`, customerName).Scan(&customerID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrCustomerNotFound
	}
	if err != nil {
		return fmt.Errorf("looking up customer %q: %w", customerName, err)
	}

	const query = `INSERT INTO transactions (customer_id, type, amount, note, dt) VALUES (?, ?, ?, ?, ?)`
	_, err = db.Exec(query, customerID, string(kind), amount.String(), note, ts.Format(model.TimestampFormat))
	if err != nil {
		return fmt.Errorf("inserting transaction: %w", err)
	}
	return nil
}

// EditTransaction overwrites amount and note in place. Kind and timestamp
// are never touched. Returns false (without error) when the id does not
// exist, so a missing row is not a fault at this layer.
func (s *Store) EditTransaction(id int64, amount decimal.Decimal, note string) (bool, error) {
	db, err := s.open()
	if err != nil {
		return false, err
	}
	defer db.Close()

	res, err := db.Exec(`UPDATE transactions SET amount = ?, note = ? WHERE id = ?`, amount.String(), note, id)
	if err != nil {
		return false, fmt.Errorf("updating transaction %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("updating transaction %d: %w", id, err)
	}
	return n > 0, nil
}

// DeleteTransaction removes a transaction. Absent ids are a no-op.
func (s *Store) DeleteTransaction(id int64) error {
	db, err := s.open()
	if err != nil {
		return err
	}
	defer db.Close()

	if _, err := db.Exec(`DELETE FROM transactions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting transaction %d: %w", id, err)
	}
	return nil
}

// Transactions returns the named customer's transactions ordered by
// (timestamp ascending, id ascending). Unknown customers yield an empty
// slice, not an error.
func (s *Store) Transactions(customerName string) ([]model.Transaction, error) {
	db, err := s.open()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	var customerID int64
	err = db.QueryRow(`SELECT id FROM customers WHERE name = ?`, customerName).Scan(&customerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("looking up customer %q: %w", customerName, err)
	}

	const query = `SELECT id, type, amount, note, dt FROM transactions WHERE customer_id = ? ORDER BY dt, id`

	rows, err := db.Query(query, customerID)
	if err != nil {
		return nil, fmt.Errorf("listing transactions of %q: %w", customerName, err)
	}
	defer rows.Close()

	var txns []model.Transaction
	for rows.Next() {
		var (
			txn    model.Transaction
			kind   string
			amount string
			dt     string
		)
		if err := rows.Scan(&txn.ID, &kind, &amount, &txn.Note, &dt); err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}

		txn.CustomerID = customerID
		txn.Kind = model.Kind(kind)

		txn.Amount, err = decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("parsing amount %q: %w", amount, err)
		}
		txn.Timestamp, err = time.Parse(model.TimestampFormat, dt)
		if err != nil {
			return nil, fmt.Errorf("parsing timestamp %q: %w", dt, err)
		}
		txns = append(txns, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing transactions of %q: %w", customerName, err)
	}
	return txns, nil
}
