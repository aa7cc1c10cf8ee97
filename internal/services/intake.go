// Package services holds the expense intake pipeline: normalization and
// categorization of free text or receipt images into validated ledger rows,
// with the derived year-to-date aggregate over related-party payments.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"expensebot/internal/core"
	"expensebot/internal/ledger"
	"expensebot/internal/log"
	"expensebot/internal/receipts"
)

// ContractLaborCategory is the fixed label aggregated by the YTD query.
const ContractLaborCategory = "Contract Labor"

// WarnMargin is how close the YTD total may get to the annual threshold
// before intake replies start carrying a low-remaining-balance warning.
var WarnMargin = core.Money{Cents: 1_000_00}

// Categorizer turns a free-text description into a typed expense record.
type Categorizer interface {
	Categorize(ctx context.Context, description string) (core.ExpenseRecord, error)
}

// Extractor recovers raw text from a receipt image.
type Extractor interface {
	DetectText(ctx context.Context, image []byte) (string, error)
}

// YTDStatus is the running total attached to replies after a qualifying
// related-party write, and to explicit /ytd queries.
type YTDStatus struct {
	Total     core.Money
	Threshold core.Money
}

// Remaining is the headroom left under the threshold. Negative once the
// threshold is exceeded.
func (s YTDStatus) Remaining() core.Money {
	return core.Money{Cents: s.Threshold.Cents - s.Total.Cents}
}

// Warn reports whether the remaining headroom is inside the warning margin.
func (s YTDStatus) Warn() bool {
	return s.Remaining().Cents <= WarnMargin.Cents
}

// IntakeResult is the outcome of a successful text or receipt intake.
type IntakeResult struct {
	Record   core.ExpenseRecord
	RowRef   string
	Mirrored bool
	// YTD is set only after a mirrored Contract Labor write.
	YTD *YTDStatus
}

// Intake chains categorization, OCR, receipt storage and ledger writes.
// Every external collaborator is awaited sequentially; nothing is retried.
type Intake struct {
	store        ledger.Store
	engine       Categorizer
	ocr          Extractor
	receipts     receipts.Store
	primarySheet string
	relatedSheet string
	threshold    core.Money
	recentLimit  int
	logger       *log.Logger
	now          func() time.Time
}

// Options configures an Intake service. OCR and Receipts may be nil when
// the deployment has no receipt pipeline configured.
type Options struct {
	Store        ledger.Store
	Engine       Categorizer
	OCR          Extractor
	Receipts     receipts.Store
	PrimarySheet string
	RelatedSheet string
	Threshold    core.Money
	RecentLimit  int
	Logger       *log.Logger
}

func NewIntake(opts Options) *Intake {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &Intake{
		store:        opts.Store,
		engine:       opts.Engine,
		ocr:          opts.OCR,
		receipts:     opts.Receipts,
		primarySheet: opts.PrimarySheet,
		relatedSheet: opts.RelatedSheet,
		threshold:    opts.Threshold,
		recentLimit:  opts.RecentLimit,
		logger:       logger.WithComponent(log.ComponentIntake),
		now:          time.Now,
	}
}

// IntakeText categorizes a free-text expense description and records it.
func (s *Intake) IntakeText(ctx context.Context, text string) (IntakeResult, error) {
	rec, err := s.engine.Categorize(ctx, text)
	if err != nil {
		return IntakeResult{}, err
	}
	return s.record(ctx, rec)
}

// IntakeReceipt runs OCR on the image, stores the original best-effort, and
// feeds the recovered text through the same pipeline as IntakeText. A
// receipt with no detectable text never reaches the categorization engine.
func (s *Intake) IntakeReceipt(ctx context.Context, image []byte, caption string) (IntakeResult, error) {
	if s.ocr == nil {
		return IntakeResult{}, errors.New("receipt extraction not configured")
	}
	text, err := s.ocr.DetectText(ctx, image)
	if err != nil {
		return IntakeResult{}, err
	}

	var receiptURL string
	if s.receipts != nil {
		url, err := s.receipts.Upload(ctx, image, s.now())
		if err != nil {
			s.logger.WarnContext(ctx, "Receipt upload failed, recording without image",
				log.FieldOperation, log.OpUpload, log.FieldError, err)
		} else {
			receiptURL = url
		}
	}

	description := "Receipt text: " + text
	if caption = strings.TrimSpace(caption); caption != "" {
		description += "\nAdditional context: " + caption
	}

	rec, err := s.engine.Categorize(ctx, description)
	if err != nil {
		return IntakeResult{}, err
	}
	rec.ReceiptURL = receiptURL
	return s.record(ctx, rec)
}

// record stamps the ingestion date, appends the single authoritative row,
// and mirrors related-party records. The mirror is an independently failing
// side effect of the primary write, never transactional with it.
func (s *Intake) record(ctx context.Context, rec core.ExpenseRecord) (IntakeResult, error) {
	rec.Date = s.now()
	if err := rec.Validate(); err != nil {
		return IntakeResult{}, fmt.Errorf("invalid record: %w", err)
	}

	rowRef, err := s.store.Append(ctx, rec, s.primarySheet)
	if err != nil {
		return IntakeResult{}, fmt.Errorf("append to ledger: %w", err)
	}
	s.logger.InfoContext(ctx, "Recorded expense",
		log.FieldOperation, log.OpAppend,
		log.FieldSheet, s.primarySheet,
		log.FieldRowRef, rowRef,
		log.FieldCategory, rec.Category,
		log.FieldVendor, rec.Vendor,
		log.FieldAmountCents, rec.Amount.Cents)

	result := IntakeResult{Record: rec, RowRef: rowRef}
	if !rec.RelatedParty() {
		return result, nil
	}

	if _, err := s.store.Append(ctx, rec, s.relatedSheet); err != nil {
		s.logger.ErrorContext(ctx, "Related-party mirror failed",
			log.FieldOperation, log.OpMirror,
			log.FieldSheet, s.relatedSheet,
			log.FieldError, err)
		return result, nil
	}
	result.Mirrored = true

	if rec.Category == ContractLaborCategory {
		status, err := s.ComputeYTD(ctx)
		if err != nil {
			s.logger.ErrorContext(ctx, "YTD recompute failed after mirror",
				log.FieldOperation, log.OpScan, log.FieldError, err)
			return result, nil
		}
		result.YTD = &status
	}
	return result, nil
}

// ComputeYTD sums Contract Labor amounts on the related-party sheet for the
// current calendar year. A missing sheet counts as an empty one. The scan is
// side-effect-free and recomputed on every call.
func (s *Intake) ComputeYTD(ctx context.Context) (YTDStatus, error) {
	status := YTDStatus{Threshold: s.threshold}

	records, err := s.store.ScanSheet(ctx, s.relatedSheet)
	if err != nil {
		if errors.Is(err, ledger.ErrSheetNotFound) {
			return status, nil
		}
		return YTDStatus{}, fmt.Errorf("scan %s: %w", s.relatedSheet, err)
	}

	year := s.now().Year()
	for _, rec := range records {
		if rec.Category != ContractLaborCategory || rec.Date.Year() != year {
			continue
		}
		status.Total.Cents += rec.Amount.Cents
	}
	return status, nil
}

// Recent lists the newest ledger entries, most recent first.
func (s *Intake) Recent(ctx context.Context) ([]ledger.Entry, error) {
	return s.store.ListRecent(ctx, s.recentLimit)
}

// EditDescription overwrites the description of the row at the given
// display index.
func (s *Intake) EditDescription(ctx context.Context, index int, text string) error {
	return s.store.UpdateField(ctx, index, ledger.FieldDescription, text)
}

// AppendNote appends to the work-description notes of the row at the given
// display index, preserving any existing value.
func (s *Intake) AppendNote(ctx context.Context, index int, text string) error {
	return s.store.UpdateField(ctx, index, ledger.FieldNotes, text)
}
