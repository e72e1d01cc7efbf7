/*
store.go - Persistence interface for the household book

PURPOSE:
  Defines the interface between the domain and its persistence. The
  store model is deliberately simple: the whole book is loaded at the
  start of a run and rewritten at the end. There are no partial writes
  and no record-level updates.

LOAD/SAVE CONTRACT:
  - Load on a store with no existing data returns an empty book, not an
    error (start-from-nothing).
  - Save replaces the persisted state wholesale.

BACKUP PROTOCOL:
  File-backed stores additionally implement BackupStore. WithBackup
  copies the current state aside before fn runs, restores it if fn
  fails, and discards the copy on success. This is the only crash
  protection the system carries: either the whole run commits or the
  previous state survives.

IMPLEMENTATIONS:
  - store/jsonfile: JSON document, one file per household (primary)
  - store/sqlite:   SQLite database
  - store/memory:   In-memory, for tests and dev servers
*/
package household

import "context"

// Store persists the household book.
type Store interface {
	// Load reads the full book. A store with no data returns an empty
	// book and no error.
	Load(ctx context.Context) (*Book, error)

	// Save replaces the persisted state with the given book.
	Save(ctx context.Context, book *Book) error
}

// BackupStore is implemented by stores that can snapshot their state
// around a mutating run.
type BackupStore interface {
	Store

	// WithBackup copies the current state aside, runs fn, restores the
	// copy if fn returns an error, and discards it otherwise.
	WithBackup(ctx context.Context, fn func() error) error
}

// SaveWithBackup saves through the backup protocol when the store
// supports it, and plainly otherwise.
func SaveWithBackup(ctx context.Context, st Store, book *Book) error {
	if bs, ok := st.(BackupStore); ok {
		return bs.WithBackup(ctx, func() error {
			return bs.Save(ctx, book)
		})
	}
	return st.Save(ctx, book)
}
