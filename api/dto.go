/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication, decoupling the
  domain model from the wire contract. Dates cross the API as
  YYYY-MM-DD strings; money crosses as decimal strings so no client
  ever sees a float artifact.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data
  carriers.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"encoding/json"

	"github.com/evanjt/billcalc/household"
	"github.com/evanjt/billcalc/split"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// PropertyDTO represents the household configuration.
type PropertyDTO struct {
	Name        string            `json:"name"`
	TenantCount int               `json:"tenant_count"`
	BillTypes   map[string]string `json:"bill_types"`
}

// ReplacePropertyRequest replaces the configuration wholesale.
type ReplacePropertyRequest struct {
	Name        string            `json:"name"`
	TenantCount int               `json:"tenant_count"`
	BillTypes   map[string]string `json:"bill_types"`
}

// TenantDTO represents a tenant in API responses. LeftHouse is only
// populated once the tenant has departed.
type TenantDTO struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	EnteredHouse   string `json:"entered_house"`
	LeftHouse      string `json:"left_house,omitempty"`
	StillAtAddress bool   `json:"still_at_address"`
}

// CreateTenantRequest registers a tenant. An empty left_house means the
// tenant still lives at the property.
type CreateTenantRequest struct {
	Name         string `json:"name"`
	EnteredHouse string `json:"entered_house"`
	LeftHouse    string `json:"left_house,omitempty"`
}

// BillDTO represents a stored bill.
type BillDTO struct {
	ID        string `json:"id"`
	Category  string `json:"category"`
	Amount    string `json:"amount"`
	FromDate  string `json:"from_date"`
	ToDate    string `json:"to_date"`
	TotalDays int    `json:"total_days"`
	Supplier  string `json:"supplier"`
	Headcount int    `json:"headcount"`
}

// CreateBillRequest adds a bill. Amount accepts either a JSON number or
// a string; both decode through json.Number without float loss.
type CreateBillRequest struct {
	Category string      `json:"category"`
	Amount   json.Number `json:"amount"`
	FromDate string      `json:"from_date"`
	ToDate   string      `json:"to_date"`
}

// PayeeDTO is one tenant's computed obligation for a bill.
type PayeeDTO struct {
	TenantID string `json:"tenant_id"`
	Name     string `json:"name"`
	Days     int    `json:"days"`
	Amount   string `json:"amount"`
}

// SettlementDTO is the full settlement result for one bill.
type SettlementDTO struct {
	Bill           BillDTO    `json:"bill"`
	Payees         []PayeeDTO `json:"payees"`
	TotalCollected string     `json:"total_collected"`
	Difference     string     `json:"difference"`
	Note           string     `json:"note"`
}

// ErrorResponse is the standard error body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// differenceNote explains the reconciliation difference to the reader.
// The difference is never auto-corrected, so it needs the explanation.
const differenceNote = "difference is informational: rounding residue, or the configured " +
	"tenant count differs from the tenants actually resident during the billing period"

// =============================================================================
// DOMAIN -> DTO CONVERSION
// =============================================================================

func propertyDTO(p *household.Property) PropertyDTO {
	return PropertyDTO{
		Name:        p.Name,
		TenantCount: p.TenantCount,
		BillTypes:   p.BillTypes,
	}
}

func tenantDTO(t *household.Tenant) TenantDTO {
	dto := TenantDTO{
		ID:             t.ID,
		Name:           t.Name,
		EnteredHouse:   t.EnteredHouse.String(),
		StillAtAddress: t.StillAtAddress,
	}
	if !t.StillAtAddress {
		dto.LeftHouse = t.LeftHouse.String()
	}
	return dto
}

func billDTO(b *household.Bill) BillDTO {
	return BillDTO{
		ID:        b.ID,
		Category:  b.Category,
		Amount:    b.Amount.String(),
		FromDate:  b.Period.Start.String(),
		ToDate:    b.Period.End.String(),
		TotalDays: b.TotalDays(),
		Supplier:  b.Supplier,
		Headcount: b.Headcount,
	}
}

func settlementDTO(b *household.Bill, s *split.Settlement) SettlementDTO {
	payees := make([]PayeeDTO, len(s.Payees))
	for i, p := range s.Payees {
		payees[i] = PayeeDTO{
			TenantID: p.ID,
			Name:     p.Name,
			Days:     p.Days,
			Amount:   p.Share.StringFixed(2),
		}
	}
	return SettlementDTO{
		Bill:           billDTO(b),
		Payees:         payees,
		TotalCollected: s.TotalCollected.StringFixed(2),
		Difference:     s.Difference.StringFixed(2),
		Note:           differenceNote,
	}
}
