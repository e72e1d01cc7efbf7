/*
prompt.go - Interactive terminal entry for tenants and property config

PURPOSE:
  Implements the question-and-answer flows behind the set-property and
  add-tenant commands. Reads line by line from the given reader so the
  flows stay testable without a real terminal.
*/
package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/evanjt/billcalc/household"
	"github.com/evanjt/billcalc/split"
)

// =============================================================================
// LINE READER
// =============================================================================

type prompter struct {
	scanner *bufio.Scanner
}

func newPrompter(r io.Reader) *prompter {
	return &prompter{scanner: bufio.NewScanner(r)}
}

// ask prints the question and returns the trimmed reply. EOF yields an
// empty string, which every flow treats as "skip".
func (p *prompter) ask(question string) string {
	fmt.Print(question)
	if !p.scanner.Scan() {
		fmt.Println()
		return ""
	}
	return strings.TrimSpace(p.scanner.Text())
}

// =============================================================================
// PROPERTY FLOW
// =============================================================================

// promptProperty walks through the property configuration: name, tenant
// count, then bill categories until the user presses Enter on its own.
func promptProperty(r io.Reader) (*household.Property, error) {
	p := newPrompter(r)

	name := p.ask("Enter property name: ")
	countText := p.ask("Enter number of tenants: ")
	count, err := strconv.Atoi(countText)
	if err != nil {
		return nil, fmt.Errorf("tenant count must be a number, got %q", countText)
	}

	billTypes := map[string]string{}
	for {
		fmt.Printf("Enter bill category (options are %s)\n",
			strings.Join(household.SuggestedCategories, "/"))
		fmt.Println("Press Enter to escape")
		category := p.ask(": ")
		if category == "" {
			break
		}
		for !knownCategory(category) {
			fmt.Println("Bill category not allowed")
			category = p.ask(": ")
			if category == "" {
				break
			}
		}
		if category == "" {
			break
		}
		fmt.Println("Enter bill provider")
		billTypes[strings.ToLower(category)] = p.ask(": ")
	}

	return household.NewProperty(name, count, billTypes)
}

func knownCategory(category string) bool {
	for _, c := range household.SuggestedCategories {
		if strings.EqualFold(category, c) {
			return true
		}
	}
	return false
}

// =============================================================================
// TENANT FLOW
// =============================================================================

// promptTenants collects tenants one at a time until the user declines
// to add another.
func promptTenants(r io.Reader) ([]*household.Tenant, error) {
	p := newPrompter(r)

	var tenants []*household.Tenant
	for {
		t, err := promptOneTenant(p)
		if err != nil {
			return nil, err
		}
		tenants = append(tenants, t)

		if p.ask("Do you wish to add another tenant? yes/no: ") != "yes" {
			return tenants, nil
		}
	}
}

func promptOneTenant(p *prompter) (*household.Tenant, error) {
	name := p.ask("Name of person: ")

	fmt.Println("\nEnter date of when tenant started living at the house")
	fmt.Println("NOTE: If tenants are changing, the end date and the start date must be the same")
	entered, err := promptDate(p, "Date entered house")
	if err != nil {
		return nil, err
	}

	fmt.Println("\nEnter date of when tenant left the house")
	fmt.Println("**Leave blank and press enter if they have not left yet")
	leftText := p.ask(fmt.Sprintf("Date left house (%s): ", split.DateLayout))
	if leftText == "" {
		return household.NewTenant(name, entered)
	}
	left, err := split.ParseDate(leftText)
	if err != nil {
		return nil, fmt.Errorf("date left house: %w", err)
	}
	return household.NewDepartedTenant(name, entered, left)
}

func promptDate(p *prompter, label string) (split.Date, error) {
	text := p.ask(fmt.Sprintf("%s (%s): ", label, split.DateLayout))
	d, err := split.ParseDate(text)
	if err != nil {
		return split.Date{}, fmt.Errorf("%s: %w", strings.ToLower(label), err)
	}
	return d, nil
}
