package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Business  BusinessType = "business"
	Personal  BusinessType = "personal"
	FamilyLLC BusinessType = "family_llc"

	EntitySCorp     EntityType = "scorp"
	EntityFamilyLLC EntityType = "family_llc"
)

type (
	BusinessType string

	EntityType string

	Money struct {
		Cents int64
	}

	// ExpenseRecord is the unit of persisted data. It is produced by the
	// categorization engine, optionally enriched by the dispatcher (caption,
	// receipt URL), and appended exactly once to the ledger.
	ExpenseRecord struct {
		Date            time.Time
		Vendor          string
		Category        string
		Amount          Money
		BusinessType    BusinessType
		EntityType      EntityType
		DeductiblePct   int
		TaxNotes        string
		Description     string
		WorkDescription string
		ReceiptURL      string
	}
)

var (
	ErrNegativeAmount    = errors.New("amount must be non-negative")
	ErrInvalidPercentage = errors.New("deductible percentage must be between 0 and 100")
	ErrEmptyCategory     = errors.New("empty category")
	ErrEmptyDescription  = errors.New("empty description")
	ErrInvalidBusiness   = errors.New("invalid business type")
	ErrInvalidEntity     = errors.New("invalid entity type")
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrMissingDate       = errors.New("missing date")
)

func (b BusinessType) Valid() bool {
	switch b {
	case Business, Personal, FamilyLLC:
		return true
	}
	return false
}

func (e EntityType) Valid() bool {
	switch e {
	case EntitySCorp, EntityFamilyLLC:
		return true
	}
	return false
}

func (m Money) Validate() error {
	if m.Cents < 0 {
		return ErrNegativeAmount
	}
	return nil
}

func (r ExpenseRecord) Validate() error {
	if r.Date.IsZero() {
		return ErrMissingDate
	}
	if err := r.Amount.Validate(); err != nil {
		return err
	}
	if r.DeductiblePct < 0 || r.DeductiblePct > 100 {
		return ErrInvalidPercentage
	}
	if strings.TrimSpace(r.Category) == "" {
		return ErrEmptyCategory
	}
	if strings.TrimSpace(r.Description) == "" {
		return ErrEmptyDescription
	}
	if !r.BusinessType.Valid() {
		return ErrInvalidBusiness
	}
	if !r.EntityType.Valid() {
		return ErrInvalidEntity
	}
	return nil
}

// RelatedParty reports whether the record must be mirrored into the
// related-party ledger after the primary append.
func (r ExpenseRecord) RelatedParty() bool {
	return r.EntityType == EntityFamilyLLC && r.BusinessType != Personal
}
