/*
Package household provides the domain model for a shared house: the
property configuration, the tenant roster, and the utility bills.

PURPOSE:
  Wraps the split engine with household-specific semantics. The split
  package computes shares; this package decides what a valid bill is,
  who the tenants are, and how the whole set is mutated safely.

KEY CONCEPTS:
  - Property: category -> provider map plus the equal-split headcount
  - Tenant: a residency interval, open-ended while still resident
  - Bill: an immutable charge validated against the property
  - Book: the in-memory aggregate the stores load and save

SEE ALSO:
  - split: the calculation engine
  - store/jsonfile, store/sqlite, store/memory: persistence
*/
package household

import (
	"sort"
	"strings"
)

// =============================================================================
// PROPERTY CONFIGURATION
// =============================================================================

// SuggestedCategories is the conventional set offered during interactive
// setup. It is a suggestion, not an enforcement: a property may configure
// any category it likes.
var SuggestedCategories = []string{"electricity", "gas", "water", "internet"}

// Property holds the household configuration: its name, the headcount
// used as the equal-split divisor, and the category -> provider map that
// every bill is validated against.
type Property struct {
	Name        string
	TenantCount int
	BillTypes   map[string]string
}

// NewProperty constructs a property configuration. Category keys are
// normalized to lower case.
func NewProperty(name string, tenantCount int, billTypes map[string]string) (*Property, error) {
	if tenantCount <= 0 {
		return nil, &InvalidPropertyError{Name: name, TenantCount: tenantCount}
	}

	normalized := make(map[string]string, len(billTypes))
	for category, provider := range billTypes {
		normalized[strings.ToLower(category)] = provider
	}

	return &Property{
		Name:        name,
		TenantCount: tenantCount,
		BillTypes:   normalized,
	}, nil
}

// ResolveSupplier looks up the provider for a bill category.
// The lookup is case-insensitive.
func (p *Property) ResolveSupplier(category string) (string, error) {
	if p == nil {
		return "", &UnknownCategoryError{Category: category}
	}
	provider, ok := p.BillTypes[strings.ToLower(category)]
	if !ok {
		return "", &UnknownCategoryError{Category: category, Known: p.Categories()}
	}
	return provider, nil
}

// Categories returns the configured category keys, sorted.
func (p *Property) Categories() []string {
	if p == nil {
		return nil
	}
	categories := make([]string, 0, len(p.BillTypes))
	for category := range p.BillTypes {
		categories = append(categories, category)
	}
	sort.Strings(categories)
	return categories
}
