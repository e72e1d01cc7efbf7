// Package memory provides an in-memory household.Store for tests and
// development servers.
package memory

import (
	"context"
	"sync"

	"github.com/evanjt/billcalc/household"
)

// =============================================================================
// MEMORY STORE
// =============================================================================

type Store struct {
	mu   sync.RWMutex
	book *household.Book
}

func New() *Store {
	return &Store{}
}

// Load returns a copy of the stored book. A never-saved store yields an
// empty book, matching the file store's start-from-nothing behavior.
func (s *Store) Load(_ context.Context) (*household.Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.book == nil {
		return household.NewBook(nil), nil
	}
	return copyBook(s.book), nil
}

// Save replaces the stored book with a copy of the given one.
func (s *Store) Save(_ context.Context, book *household.Book) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.book = copyBook(book)
	return nil
}

// copyBook clones records so callers cannot mutate stored state through
// retained pointers.
func copyBook(book *household.Book) *household.Book {
	out := &household.Book{}

	if book.Property != nil {
		billTypes := make(map[string]string, len(book.Property.BillTypes))
		for k, v := range book.Property.BillTypes {
			billTypes[k] = v
		}
		out.Property = &household.Property{
			Name:        book.Property.Name,
			TenantCount: book.Property.TenantCount,
			BillTypes:   billTypes,
		}
	}

	out.Tenants = make([]*household.Tenant, len(book.Tenants))
	for i, t := range book.Tenants {
		clone := *t
		out.Tenants[i] = &clone
	}

	out.Bills = make([]*household.Bill, len(book.Bills))
	for i, b := range book.Bills {
		clone := *b
		out.Bills[i] = &clone
	}

	return out
}
