package categorize

import (
	"encoding/json"
	"fmt"
	"strings"

	"expensebot/internal/core"
)

// response mirrors the JSON object the rulebook demands. Every field is
// untrusted until validated.
type response struct {
	Vendor          string   `json:"vendor"`
	Category        string   `json:"category"`
	Amount          *float64 `json:"amount"`
	BusinessType    string   `json:"businessType"`
	EntityType      string   `json:"entityType"`
	DeductiblePct   *int     `json:"deductibilityPercentage"`
	TaxNotes        string   `json:"taxNotes"`
	Description     string   `json:"description"`
	WorkDescription string   `json:"workDescription"`
}

func decodeResponse(raw, fallbackDescription string) (core.ExpenseRecord, error) {
	clean := cleanModelJSON(raw)

	var r response
	dec := json.NewDecoder(strings.NewReader(clean))
	if err := dec.Decode(&r); err != nil {
		return core.ExpenseRecord{}, fmt.Errorf("unmarshal JSON: %w", err)
	}

	if strings.TrimSpace(r.Category) == "" {
		return core.ExpenseRecord{}, fmt.Errorf("missing category: %w", core.ErrEmptyCategory)
	}
	if r.Amount == nil {
		return core.ExpenseRecord{}, fmt.Errorf("missing amount: %w", core.ErrInvalidAmount)
	}
	cents, err := core.CentsFromFloat(*r.Amount)
	if err != nil {
		return core.ExpenseRecord{}, fmt.Errorf("amount %v: %w", *r.Amount, err)
	}
	if r.DeductiblePct == nil {
		return core.ExpenseRecord{}, fmt.Errorf("missing deductibility percentage: %w", core.ErrInvalidPercentage)
	}
	if *r.DeductiblePct < 0 || *r.DeductiblePct > 100 {
		return core.ExpenseRecord{}, fmt.Errorf("percentage %d: %w", *r.DeductiblePct, core.ErrInvalidPercentage)
	}

	business := core.BusinessType(strings.TrimSpace(r.BusinessType))
	if !business.Valid() {
		return core.ExpenseRecord{}, fmt.Errorf("business type %q: %w", r.BusinessType, core.ErrInvalidBusiness)
	}
	entity := core.EntityType(strings.TrimSpace(r.EntityType))
	if !entity.Valid() {
		return core.ExpenseRecord{}, fmt.Errorf("entity type %q: %w", r.EntityType, core.ErrInvalidEntity)
	}

	description := strings.TrimSpace(r.Description)
	if description == "" {
		description = strings.TrimSpace(fallbackDescription)
	}

	return core.ExpenseRecord{
		Vendor:          strings.TrimSpace(r.Vendor),
		Category:        strings.TrimSpace(r.Category),
		Amount:          core.Money{Cents: cents},
		BusinessType:    business,
		EntityType:      entity,
		DeductiblePct:   *r.DeductiblePct,
		TaxNotes:        strings.TrimSpace(r.TaxNotes),
		Description:     description,
		WorkDescription: strings.TrimSpace(r.WorkDescription),
	}, nil
}

// cleanModelJSON strips Markdown fences and surrounding noise when the model
// ignores the raw-JSON instruction.
func cleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		// Drop the first line (``` or ```json).
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			return s
		}
		s = strings.TrimSpace(s)
	}
	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}
