/*
main.go - Command-line interface for the bill splitter

PURPOSE:
  Terminal front end for the household book. Loads the JSON store,
  runs one command, and persists through the backup protocol.

COMMANDS:
  show-property            Print the property configuration
  set-property             Configure the property interactively
  list-tenants             Print the tenant roster
  add-tenant               Register tenants interactively
  delete-tenant <index>    Remove a tenant by list index
  list-bills               Print all stored bills
  add-bill <amount> <from> <to> <category>
                           Store a bill and print its settlement
  delete-bill <index>      Remove a bill by list index
  recalc <index>           Reprint the settlement for a stored bill

COMMAND-LINE FLAGS:
  -store   JSON store path (default: billcalc.json, env STORE_PATH)
  -backup  Backup path (default: <store>.bak, env BACKUP_PATH)

PERSISTENCE:
  Mutating commands save the whole book inside the store's backup
  protocol: the previous file is copied aside first and restored if the
  write fails. Listing commands never write.

SEE ALSO:
  - prompt.go: Interactive tenant and property entry
  - store/jsonfile/jsonfile.go: The JSON document format
*/
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/evanjt/billcalc/household"
	"github.com/evanjt/billcalc/internal/config"
	"github.com/evanjt/billcalc/pkg/logging"
	"github.com/evanjt/billcalc/split"
	"github.com/evanjt/billcalc/store/jsonfile"
)

// =============================================================================
// APPLICATION CONTEXT
// =============================================================================

// app holds the loaded book and the store it came from. Each command
// handler operates on the in-memory book; mutating handlers call save.
type app struct {
	store *jsonfile.Store
	book  *household.Book
	today split.Date
}

// save persists the book through the backup protocol.
func (a *app) save(ctx context.Context) error {
	return household.SaveWithBackup(ctx, a.store, a.book)
}

type command struct {
	usage string
	help  string
	run   func(ctx context.Context, a *app, args []string) error
}

// commands maps each command name to its handler. The map is the single
// source of truth for dispatch and for the usage text.
var commands = map[string]command{
	"show-property": {"show-property", "print the property configuration", runShowProperty},
	"set-property":  {"set-property", "configure the property interactively", runSetProperty},
	"list-tenants":  {"list-tenants", "print the tenant roster", runListTenants},
	"add-tenant":    {"add-tenant", "register tenants interactively", runAddTenant},
	"delete-tenant": {"delete-tenant <index>", "remove a tenant by list index", runDeleteTenant},
	"list-bills":    {"list-bills", "print all stored bills", runListBills},
	"add-bill":      {"add-bill <amount> <from> <to> <category>", "store a bill and print its settlement", runAddBill},
	"delete-bill":   {"delete-bill <index>", "remove a bill by list index", runDeleteBill},
	"recalc":        {"recalc <index>", "reprint the settlement for a stored bill", runRecalc},
}

var commandOrder = []string{
	"show-property", "set-property",
	"list-tenants", "add-tenant", "delete-tenant",
	"list-bills", "add-bill", "delete-bill", "recalc",
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: billcalc [flags] <command> [args]\n\nCommands:\n")
	for _, name := range commandOrder {
		cmd := commands[name]
		fmt.Fprintf(os.Stderr, "  %-40s %s\n", cmd.usage, cmd.help)
	}
	fmt.Fprintf(os.Stderr, "\nFlags:\n")
	flag.PrintDefaults()
}

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "billcalc: loading .env: %v\n", err)
	}
	logging.Setup()

	cfg := config.Load()
	storePath := flag.String("store", cfg.StorePath, "JSON store path")
	backupPath := flag.String("backup", cfg.BackupPath, "backup path (default: <store>.bak)")
	flag.Usage = usage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}
	cmd, ok := commands[args[0]]
	if !ok {
		fmt.Fprintf(os.Stderr, "billcalc: unknown command %q\n\n", args[0])
		usage()
		os.Exit(2)
	}

	ctx := context.Background()
	store := jsonfile.New(*storePath, *backupPath)

	book, err := store.Load(ctx)
	if err != nil {
		slog.Error("failed to load store", "path", *storePath, "error", err)
		os.Exit(1)
	}

	a := &app{store: store, book: book, today: split.Today()}
	if err := cmd.run(ctx, a, args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "billcalc: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// PROPERTY COMMANDS
// =============================================================================

func runShowProperty(_ context.Context, a *app, _ []string) error {
	if a.book.Property == nil {
		fmt.Println("No property configured. Run set-property first.")
		return nil
	}
	p := a.book.Property
	fmt.Printf("%s (%d tenants)\n", p.Name, p.TenantCount)
	if len(p.BillTypes) == 0 {
		fmt.Println("No bill types!")
		return nil
	}
	fmt.Println("Configured bill categories:")
	for _, category := range p.Categories() {
		fmt.Printf("  %s (%s)\n", category, p.BillTypes[category])
	}
	return nil
}

func runSetProperty(ctx context.Context, a *app, _ []string) error {
	prop, err := promptProperty(os.Stdin)
	if err != nil {
		return err
	}
	a.book.ReplaceProperty(prop)
	if err := a.save(ctx); err != nil {
		return fmt.Errorf("saving property: %w", err)
	}
	fmt.Printf("Property %q saved.\n", prop.Name)
	return nil
}

// =============================================================================
// TENANT COMMANDS
// =============================================================================

func runListTenants(_ context.Context, a *app, _ []string) error {
	if len(a.book.Tenants) == 0 {
		fmt.Println("No tenants stored.")
		return nil
	}
	for _, t := range a.book.Tenants {
		fmt.Println(t.Summary(a.today))
	}
	return nil
}

func runAddTenant(ctx context.Context, a *app, _ []string) error {
	added, err := promptTenants(os.Stdin)
	if err != nil {
		return err
	}
	if len(added) == 0 {
		fmt.Println("No tenants added.")
		return nil
	}
	for _, t := range added {
		a.book.AddTenant(t)
	}
	if err := a.save(ctx); err != nil {
		return fmt.Errorf("saving tenants: %w", err)
	}
	fmt.Println("\nUpdated tenant list:")
	return runListTenants(ctx, a, nil)
}

func runDeleteTenant(ctx context.Context, a *app, args []string) error {
	index, err := argIndex(args, "delete-tenant")
	if err != nil {
		return err
	}
	t, err := a.book.DeleteTenant(index)
	if err != nil {
		return err
	}
	if err := a.save(ctx); err != nil {
		return fmt.Errorf("saving roster: %w", err)
	}
	fmt.Printf("Removed tenant %s.\n", t.Name)
	return nil
}

// =============================================================================
// BILL COMMANDS
// =============================================================================

func runListBills(_ context.Context, a *app, _ []string) error {
	if len(a.book.Bills) == 0 {
		fmt.Println("No bills stored.")
		return nil
	}
	for i, b := range a.book.Bills {
		fmt.Printf("[%d] %s\n", i, b.Summary())
	}
	return nil
}

func runAddBill(ctx context.Context, a *app, args []string) error {
	if len(args) != 4 {
		return fmt.Errorf("usage: add-bill <amount> <from> <to> <category> (dates as %s)", split.DateLayout)
	}
	if a.book.Property == nil {
		return household.ErrNoProperty
	}

	amount, err := split.ParseMoney(args[0])
	if err != nil {
		return fmt.Errorf("amount: %w", err)
	}
	from, err := split.ParseDate(args[1])
	if err != nil {
		return fmt.Errorf("from date: %w", err)
	}
	to, err := split.ParseDate(args[2])
	if err != nil {
		return fmt.Errorf("to date: %w", err)
	}

	bill, err := household.NewBill(args[3], amount, from, to, a.book.Property)
	if err != nil {
		return err
	}
	if err := a.book.AddBill(bill, a.today); err != nil {
		if errors.Is(err, household.ErrDuplicateBill) {
			fmt.Println("Bill already exists")
			return nil
		}
		return err
	}

	settlement, err := a.book.Settle(bill, a.today)
	if err != nil {
		return err
	}
	if err := a.save(ctx); err != nil {
		return fmt.Errorf("saving bill: %w", err)
	}

	fmt.Println()
	printSettlement(bill, settlement)
	return nil
}

func runDeleteBill(ctx context.Context, a *app, args []string) error {
	index, err := argIndex(args, "delete-bill")
	if err != nil {
		return err
	}
	b, err := a.book.DeleteBill(index)
	if err != nil {
		return err
	}
	if err := a.save(ctx); err != nil {
		return fmt.Errorf("saving bills: %w", err)
	}
	fmt.Printf("Removed bill: %s\n", b.Summary())
	return nil
}

func runRecalc(_ context.Context, a *app, args []string) error {
	index, err := argIndex(args, "recalc")
	if err != nil {
		return err
	}
	bill, settlement, err := a.book.SettleIndex(index, a.today)
	if err != nil {
		return err
	}
	printSettlement(bill, settlement)
	return nil
}

// =============================================================================
// OUTPUT
// =============================================================================

// printSettlement prints one line per payee, then the reconciliation
// line. The difference is informational: it is reported, never fed back
// into the shares.
func printSettlement(bill *household.Bill, s *split.Settlement) {
	for _, p := range s.Payees {
		fmt.Printf("%-10s$%6s (%d days)\n", p.Name, p.Share.StringFixed(2), p.Days)
	}
	fmt.Println()
	fmt.Printf("%s bill, %s total sum [%s difference] (informational)\n",
		bill.Amount.StringFixed(2),
		s.TotalCollected.StringFixed(2),
		signedAmount(s.Difference))
}

func signedAmount(d decimal.Decimal) string {
	s := d.StringFixed(2)
	if s[0] != '-' {
		return "+" + s
	}
	return s
}

func argIndex(args []string, cmd string) (int, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("usage: %s <index>", cmd)
	}
	index, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("index must be a number, got %q", args[0])
	}
	return index, nil
}
