// Package google implements the ledger ports on top of the Google Sheets
// API, authenticated with a service credential (email + private key).
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"expensebot/internal/core"
	"expensebot/internal/ledger"

	googleauth "golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	// primarySheet is both the primary ledger and the fallback target when a
	// requested sheet does not exist.
	primarySheet string
}

var _ ledger.Store = (*Client)(nil)

// NewClient creates a Sheets-backed ledger for the given spreadsheet.
func NewClient(ctx context.Context, spreadsheetID, primarySheet, saEmail, saKey string) (*Client, error) {
	if strings.TrimSpace(spreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet ID")
	}
	svc, err := newSheetsService(ctx, saEmail, saKey)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		primarySheet:  primarySheet,
	}, nil
}

// newSheetsService initializes a Sheets Service from a service-account
// email and PEM private key via a two-legged JWT flow.
func newSheetsService(ctx context.Context, saEmail, saKey string) (*gsheet.Service, error) {
	if saEmail == "" || saKey == "" {
		return nil, errors.New("missing service account email or private key")
	}
	conf := &jwt.Config{
		Email:      saEmail,
		PrivateKey: []byte(saKey),
		Scopes:     []string{gsheet.SpreadsheetsScope},
		TokenURL:   googleauth.JWTTokenURL,
	}
	svc, err := gsheet.NewService(ctx, goption.WithHTTPClient(conf.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return svc, nil
}

func (c *Client) Append(ctx context.Context, rec core.ExpenseRecord, sheet string) (string, error) {
	if err := rec.Validate(); err != nil {
		return "", fmt.Errorf("validation failed: %w", err)
	}
	target, err := c.resolveSheet(ctx, sheet)
	if err != nil {
		return "", err
	}
	if target != sheet {
		slog.WarnContext(ctx, "Requested sheet missing, falling back to primary",
			"requested", sheet, "sheet", target)
	}

	vr := &gsheet.ValueRange{Values: [][]any{ledger.RowFromRecord(rec)}}
	resp, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, sheetRange(target), vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("append to sheet %s: %w", target, err)
	}
	ref := ""
	if resp.Updates != nil {
		ref = resp.Updates.UpdatedRange
	}
	return ref, nil
}

func (c *Client) ListRecent(ctx context.Context, limit int) ([]ledger.Entry, error) {
	rows, _, err := c.readRows(ctx, c.primarySheet)
	if err != nil {
		return nil, err
	}
	if limit > len(rows) {
		limit = len(rows)
	}
	out := make([]ledger.Entry, 0, limit)
	for i := 0; i < limit; i++ {
		out = append(out, ledger.Entry{
			Index:  i + 1,
			Record: ledger.RecordFromRow(rows[len(rows)-1-i]),
		})
	}
	return out, nil
}

func (c *Client) UpdateField(ctx context.Context, index int, field ledger.Field, value string) error {
	rows, headerRows, err := c.readRows(ctx, c.primarySheet)
	if err != nil {
		return err
	}
	if index < 1 || index > len(rows) {
		return ledger.ErrRowNotFound
	}
	dataIdx := len(rows) - index
	sheetRow := dataIdx + headerRows + 1 // 1-based sheet row

	var col int
	switch field {
	case ledger.FieldDescription:
		col = ledger.ColDescription
	case ledger.FieldNotes:
		col = ledger.ColWorkDescription
		current := ""
		if col < len(rows[dataIdx]) {
			current = strings.TrimSpace(rows[dataIdx][col])
		}
		if current != "" {
			value = current + ledger.NoteSeparator + value
		}
	default:
		return ledger.ErrUnknownField
	}

	rng := fmt.Sprintf("'%s'!%s%d", c.primarySheet, columnLetter(col), sheetRow)
	vr := &gsheet.ValueRange{Values: [][]any{{value}}}
	if _, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rng, vr).
		ValueInputOption("RAW").Context(ctx).Do(); err != nil {
		return fmt.Errorf("update %s: %w", rng, err)
	}
	return nil
}

func (c *Client) ScanSheet(ctx context.Context, sheet string) ([]core.ExpenseRecord, error) {
	titles, err := c.sheetTitles(ctx)
	if err != nil {
		return nil, err
	}
	if !titles[sheet] {
		return nil, ledger.ErrSheetNotFound
	}
	rows, _, err := c.readRows(ctx, sheet)
	if err != nil {
		return nil, err
	}
	out := make([]core.ExpenseRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, ledger.RecordFromRow(row))
	}
	return out, nil
}

// resolveSheet returns the requested sheet if it exists, else the primary,
// else ErrSheetNotFound.
func (c *Client) resolveSheet(ctx context.Context, requested string) (string, error) {
	titles, err := c.sheetTitles(ctx)
	if err != nil {
		return "", err
	}
	if titles[requested] {
		return requested, nil
	}
	if titles[c.primarySheet] {
		return c.primarySheet, nil
	}
	return "", ledger.ErrSheetNotFound
}

func (c *Client) sheetTitles(ctx context.Context) (map[string]bool, error) {
	doc, err := c.svc.Spreadsheets.Get(c.spreadsheetID).
		Fields("sheets.properties.title").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("get spreadsheet: %w", err)
	}
	titles := make(map[string]bool, len(doc.Sheets))
	for _, s := range doc.Sheets {
		if s.Properties != nil {
			titles[s.Properties.Title] = true
		}
	}
	return titles, nil
}

// readRows returns the data rows of a sheet as trimmed strings plus the
// number of header rows skipped.
func (c *Client) readRows(ctx context.Context, sheet string) ([][]string, int, error) {
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, sheetRange(sheet)).
		Context(ctx).Do()
	if err != nil {
		return nil, 0, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	rows := make([][]string, 0, len(resp.Values))
	for _, row := range resp.Values {
		rows = append(rows, toStrings(row))
	}
	headerRows := 0
	if len(rows) > 0 && ledger.IsHeaderRow(rows[0]) {
		rows = rows[1:]
		headerRows = 1
	}
	return rows, headerRows, nil
}

func sheetRange(sheet string) string {
	return fmt.Sprintf("'%s'!A:%s", sheet, columnLetter(ledger.ColCount-1))
}

func columnLetter(i int) string {
	return string(rune('A' + i))
}

func toStrings(in []any) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}
