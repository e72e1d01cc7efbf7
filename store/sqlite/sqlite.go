/*
Package sqlite provides a SQLite-backed implementation of household.Store.

PURPOSE:
  A database-backed alternative to the JSON document store. The store
  contract is unchanged: Load reads the whole book, Save rewrites it.
  Save runs in a single database transaction, so a failed save leaves
  the previous state committed - the database plays the role the backup
  file plays for the JSON store.

KEY TABLES:
  property:   Single-row household configuration
  bill_types: category -> provider map
  tenants:    Roster, ordered by position
  bills:      Bill list, ordered by position

AMOUNTS:
  Stored as decimal strings (TEXT), never REAL, so values round-trip
  exactly.

WAL MODE:
  Opened with WAL for better crash recovery; a mutex serializes writers
  within the process.

USAGE:
  store, err := sqlite.New("./data/billcalc.db")
  if err != nil { ... }
  defer store.Close()

SEE ALSO:
  - household/store.go: interface definition
  - store/jsonfile: the document store
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/evanjt/billcalc/household"
	"github.com/evanjt/billcalc/split"
)

// Store implements household.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// New creates a SQLite store at the given path. Use ":memory:" for an
// in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS property (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		name TEXT NOT NULL,
		tenant_count INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS bill_types (
		category TEXT PRIMARY KEY,
		provider TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS tenants (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		entered_house TEXT NOT NULL,
		left_house TEXT NOT NULL,
		still_at_address INTEGER NOT NULL,
		position INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS bills (
		id TEXT PRIMARY KEY,
		category TEXT NOT NULL,
		amount TEXT NOT NULL,
		from_date TEXT NOT NULL,
		to_date TEXT NOT NULL,
		supplier TEXT NOT NULL,
		position INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_tenants_position ON tenants(position);
	CREATE INDEX IF NOT EXISTS idx_bills_position ON bills(position);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// LOAD
// =============================================================================

// Load reads the full book. An empty database yields an empty book.
func (s *Store) Load(ctx context.Context) (*household.Book, error) {
	prop, err := s.loadProperty(ctx)
	if err != nil {
		return nil, err
	}

	book := household.NewBook(prop)

	if err := s.loadTenants(ctx, book); err != nil {
		return nil, err
	}
	if err := s.loadBills(ctx, book); err != nil {
		return nil, err
	}
	return book, nil
}

func (s *Store) loadProperty(ctx context.Context) (*household.Property, error) {
	var name string
	var tenantCount int
	err := s.db.QueryRowContext(ctx,
		`SELECT name, tenant_count FROM property WHERE id = 1`).Scan(&name, &tenantCount)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load property: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT category, provider FROM bill_types`)
	if err != nil {
		return nil, fmt.Errorf("load bill types: %w", err)
	}
	defer rows.Close()

	billTypes := make(map[string]string)
	for rows.Next() {
		var category, provider string
		if err := rows.Scan(&category, &provider); err != nil {
			return nil, fmt.Errorf("scan bill type: %w", err)
		}
		billTypes[category] = provider
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return household.NewProperty(name, tenantCount, billTypes)
}

func (s *Store) loadTenants(ctx context.Context, book *household.Book) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, entered_house, left_house, still_at_address
		FROM tenants ORDER BY position`)
	if err != nil {
		return fmt.Errorf("load tenants: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id, name, entered, left string
		var still bool
		if err := rows.Scan(&id, &name, &entered, &left, &still); err != nil {
			return fmt.Errorf("scan tenant: %w", err)
		}

		enteredDate, err := split.ParseDate(entered)
		if err != nil {
			return fmt.Errorf("tenant %s: %w", id, err)
		}
		leftDate, err := split.ParseDate(left)
		if err != nil {
			return fmt.Errorf("tenant %s: %w", id, err)
		}

		book.AddTenant(&household.Tenant{
			ID:             id,
			Name:           name,
			EnteredHouse:   enteredDate,
			LeftHouse:      leftDate,
			StillAtAddress: still,
		})
	}
	return rows.Err()
}

func (s *Store) loadBills(ctx context.Context, book *household.Book) error {
	headcount := 0
	if book.Property != nil {
		headcount = book.Property.TenantCount
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, category, amount, from_date, to_date, supplier
		FROM bills ORDER BY position`)
	if err != nil {
		return fmt.Errorf("load bills: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id, category, amount, from, to, supplier string
		if err := rows.Scan(&id, &category, &amount, &from, &to, &supplier); err != nil {
			return fmt.Errorf("scan bill: %w", err)
		}

		amountDec, err := decimal.NewFromString(amount)
		if err != nil {
			return fmt.Errorf("bill %s: invalid amount %q: %w", id, amount, err)
		}
		fromDate, err := split.ParseDate(from)
		if err != nil {
			return fmt.Errorf("bill %s: %w", id, err)
		}
		toDate, err := split.ParseDate(to)
		if err != nil {
			return fmt.Errorf("bill %s: %w", id, err)
		}

		bill, err := household.RestoreBill(id, category, amountDec, fromDate, toDate, supplier, headcount)
		if err != nil {
			return err
		}
		book.Bills = append(book.Bills, bill)
	}
	return rows.Err()
}

// =============================================================================
// SAVE
// =============================================================================

// Save rewrites the whole book in one transaction. Either everything
// commits or the previous state survives.
func (s *Store) Save(ctx context.Context, book *household.Book) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"property", "bill_types", "tenants", "bills"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	if book.Property != nil {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO property (id, name, tenant_count) VALUES (1, ?, ?)`,
			book.Property.Name, book.Property.TenantCount); err != nil {
			return fmt.Errorf("save property: %w", err)
		}
		for category, provider := range book.Property.BillTypes {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO bill_types (category, provider) VALUES (?, ?)`,
				category, provider); err != nil {
				return fmt.Errorf("save bill type %s: %w", category, err)
			}
		}
	}

	for i, t := range book.Tenants {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO tenants (id, name, entered_house, left_house, still_at_address, position)
			VALUES (?, ?, ?, ?, ?, ?)`,
			t.ID, t.Name, t.EnteredHouse.String(), t.LeftHouse.String(), t.StillAtAddress, i); err != nil {
			return fmt.Errorf("save tenant %s: %w", t.ID, err)
		}
	}

	for i, b := range book.Bills {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO bills (id, category, amount, from_date, to_date, supplier, position)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			b.ID, b.Category, b.Amount.String(), b.Period.Start.String(), b.Period.End.String(),
			b.Supplier, i); err != nil {
			return fmt.Errorf("save bill %s: %w", b.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}
	return nil
}
