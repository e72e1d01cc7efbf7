/*
Package jsonfile persists the household book as a single JSON document.

PURPOSE:
  The primary store: one local file per household, exclusively owned by
  the process. The whole document is read at the start of a run and
  rewritten at the end.

DOCUMENT FORMAT:
  {
    "property": { "name": ..., "tenant_count": ..., "bill_types": {...} },
    "tenants":  [ { "<uuid>": { "name", "entered_house", "left_house",
                                "still_at_address" } } ],
    "bills":    [ { "<uuid>": { "category", "amount", "from_date",
                                "to_date", "supplier" } } ]
  }
  Dates are {year, month, day} objects. Tenants and bills are arrays of
  single-key objects keyed by their identifiers, preserving list order.

ERROR TAXONOMY:
  Load and Save wrap failures with distinct sentinels so callers can
  tell a corrupt document (ErrDecode) from a missing disk (ErrWrite):
  ErrRead, ErrDecode, ErrEncode, ErrWrite.

BACKUP PROTOCOL (household.BackupStore):
  WithBackup copies the document aside before the run, restores it over
  the working file when the run fails, and deletes the copy on success.
  A run against a not-yet-existing file backs up nothing and removes
  the file again on failure.

SEE ALSO:
  - household/store.go: interface definitions
  - store/sqlite: database-backed alternative
*/
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/shopspring/decimal"

	"github.com/evanjt/billcalc/household"
	"github.com/evanjt/billcalc/split"
)

// =============================================================================
// SENTINEL ERRORS
// =============================================================================

var (
	ErrRead   = errors.New("read store file")
	ErrDecode = errors.New("decode store document")
	ErrEncode = errors.New("encode store document")
	ErrWrite  = errors.New("write store file")
)

// =============================================================================
// STORE
// =============================================================================

// Store reads and writes one JSON document.
type Store struct {
	path       string
	backupPath string
}

// New creates a store for the given document path. When backupPath is
// empty it defaults to path + ".bak".
func New(path, backupPath string) *Store {
	if backupPath == "" {
		backupPath = path + ".bak"
	}
	return &Store{path: path, backupPath: backupPath}
}

// Path returns the document location.
func (s *Store) Path() string { return s.path }

// Load reads the full book. A missing file yields an empty book
// (start-from-nothing), not an error.
func (s *Store) Load(_ context.Context) (*household.Book, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return household.NewBook(nil), nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRead, err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return doc.toBook()
}

// Save rewrites the document wholesale.
func (s *Store) Save(_ context.Context, book *household.Book) error {
	data, err := json.MarshalIndent(fromBook(book), "", "    ")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEncode, err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	return nil
}

// WithBackup implements the copy-aside / restore-on-failure protocol.
func (s *Store) WithBackup(_ context.Context, fn func() error) error {
	hadFile := true
	if _, err := os.Stat(s.path); errors.Is(err, os.ErrNotExist) {
		hadFile = false
	}

	if hadFile {
		if err := copyFile(s.path, s.backupPath); err != nil {
			return fmt.Errorf("backup %s: %w", s.backupPath, err)
		}
	}

	if err := fn(); err != nil {
		if hadFile {
			if restoreErr := copyFile(s.backupPath, s.path); restoreErr != nil {
				return errors.Join(err, fmt.Errorf("restore %s: %w", s.path, restoreErr))
			}
			os.Remove(s.backupPath)
		} else {
			// No prior state to restore: remove whatever the failed run left.
			os.Remove(s.path)
		}
		return err
	}

	if hadFile {
		os.Remove(s.backupPath)
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}

// =============================================================================
// WIRE TYPES
// =============================================================================

type document struct {
	Property *wireProperty            `json:"property"`
	Tenants  []map[string]wireTenant  `json:"tenants"`
	Bills    []map[string]wireBill    `json:"bills"`
}

type wireProperty struct {
	Name        string            `json:"name"`
	TenantCount int               `json:"tenant_count"`
	BillTypes   map[string]string `json:"bill_types"`
}

type wireDate struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Day   int `json:"day"`
}

type wireTenant struct {
	Name           string   `json:"name"`
	EnteredHouse   wireDate `json:"entered_house"`
	LeftHouse      wireDate `json:"left_house"`
	StillAtAddress bool     `json:"still_at_address"`
}

type wireBill struct {
	Category string   `json:"category"`
	Amount   float64  `json:"amount"`
	FromDate wireDate `json:"from_date"`
	ToDate   wireDate `json:"to_date"`
	Supplier string   `json:"supplier"`
}

func toWireDate(d split.Date) wireDate {
	return wireDate{Year: d.Year(), Month: int(d.Month()), Day: d.Day()}
}

func (wd wireDate) date() split.Date {
	return split.NewDate(wd.Year, time.Month(wd.Month), wd.Day)
}

// =============================================================================
// DOMAIN <-> WIRE CONVERSION
// =============================================================================

func fromBook(book *household.Book) document {
	doc := document{
		Tenants: []map[string]wireTenant{},
		Bills:   []map[string]wireBill{},
	}

	if book.Property != nil {
		doc.Property = &wireProperty{
			Name:        book.Property.Name,
			TenantCount: book.Property.TenantCount,
			BillTypes:   book.Property.BillTypes,
		}
	}

	for _, t := range book.Tenants {
		doc.Tenants = append(doc.Tenants, map[string]wireTenant{
			t.ID: {
				Name:           t.Name,
				EnteredHouse:   toWireDate(t.EnteredHouse),
				LeftHouse:      toWireDate(t.LeftHouse),
				StillAtAddress: t.StillAtAddress,
			},
		})
	}

	for _, b := range book.Bills {
		doc.Bills = append(doc.Bills, map[string]wireBill{
			b.ID: {
				Category: b.Category,
				Amount:   b.Amount.InexactFloat64(),
				FromDate: toWireDate(b.Period.Start),
				ToDate:   toWireDate(b.Period.End),
				Supplier: b.Supplier,
			},
		})
	}

	return doc
}

func (doc document) toBook() (*household.Book, error) {
	var prop *household.Property
	if doc.Property != nil {
		var err error
		prop, err = household.NewProperty(doc.Property.Name, doc.Property.TenantCount, doc.Property.BillTypes)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDecode, err)
		}
	}

	book := household.NewBook(prop)

	for _, entry := range doc.Tenants {
		for id, wt := range entry {
			book.AddTenant(&household.Tenant{
				ID:             id,
				Name:           wt.Name,
				EnteredHouse:   wt.EnteredHouse.date(),
				LeftHouse:      wt.LeftHouse.date(),
				StillAtAddress: wt.StillAtAddress,
			})
		}
	}

	headcount := 0
	if prop != nil {
		headcount = prop.TenantCount
	}
	for _, entry := range doc.Bills {
		for id, wb := range entry {
			bill, err := household.RestoreBill(
				id,
				wb.Category,
				decimal.NewFromFloat(wb.Amount),
				wb.FromDate.date(),
				wb.ToDate.date(),
				wb.Supplier,
				headcount,
			)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrDecode, err)
			}
			book.Bills = append(book.Bills, bill)
		}
	}

	return book, nil
}
