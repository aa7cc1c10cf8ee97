package categorize

import (
	"context"
	"errors"
	"strings"
	"testing"

	"expensebot/internal/core"
)

const goodResponse = `{
  "vendor": "Chipotle",
  "category": "Business Meals",
  "amount": 85.00,
  "businessType": "business",
  "entityType": "scorp",
  "deductibilityPercentage": 50,
  "taxNotes": "Client meal, 50% limitation",
  "description": "Client lunch at Chipotle",
  "workDescription": ""
}`

func TestDecodeResponse(t *testing.T) {
	rec, err := decodeResponse(goodResponse, "Client lunch $85")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rec.Category != "Business Meals" || rec.DeductiblePct != 50 {
		t.Errorf("got %+v", rec)
	}
	if rec.Amount.Cents != 8500 {
		t.Errorf("amount = %d", rec.Amount.Cents)
	}
	if rec.BusinessType != core.Business || rec.EntityType != core.EntitySCorp {
		t.Errorf("types: %s/%s", rec.BusinessType, rec.EntityType)
	}
	if !rec.Date.IsZero() {
		t.Error("engine must not stamp the date")
	}
}

func TestDecodeResponseFencedJSON(t *testing.T) {
	fenced := "```json\n" + goodResponse + "\n```"
	rec, err := decodeResponse(fenced, "")
	if err != nil {
		t.Fatalf("decode fenced: %v", err)
	}
	if rec.Vendor != "Chipotle" {
		t.Errorf("vendor = %q", rec.Vendor)
	}
}

func TestDecodeResponseFamilyLLC(t *testing.T) {
	raw := `{
	  "vendor": "Family LLC",
	  "category": "Professional Services",
	  "amount": 1100,
	  "businessType": "business",
	  "entityType": "family_llc",
	  "deductibilityPercentage": 100,
	  "taxNotes": "Management fee to related LLC",
	  "description": "Family LLC management fee",
	  "workDescription": ""
	}`
	rec, err := decodeResponse(raw, "")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rec.EntityType != core.EntityFamilyLLC || rec.DeductiblePct != 100 {
		t.Errorf("got %+v", rec)
	}
	if !rec.RelatedParty() {
		t.Error("management fee should be a related-party record")
	}
}

func TestDecodeResponseRejections(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"not json", "sorry, I cannot help with that"},
		{"missing category", `{"amount": 10, "businessType": "business", "entityType": "scorp", "deductibilityPercentage": 100}`},
		{"missing amount", `{"category": "Travel", "businessType": "business", "entityType": "scorp", "deductibilityPercentage": 100}`},
		{"negative amount", `{"category": "Travel", "amount": -5, "businessType": "business", "entityType": "scorp", "deductibilityPercentage": 100}`},
		{"missing percentage", `{"category": "Travel", "amount": 5, "businessType": "business", "entityType": "scorp"}`},
		{"percentage out of range", `{"category": "Travel", "amount": 5, "businessType": "business", "entityType": "scorp", "deductibilityPercentage": 120}`},
		{"bad business type", `{"category": "Travel", "amount": 5, "businessType": "corp", "entityType": "scorp", "deductibilityPercentage": 100}`},
		{"bad entity type", `{"category": "Travel", "amount": 5, "businessType": "business", "entityType": "llc", "deductibilityPercentage": 100}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := decodeResponse(tc.raw, "fallback"); err == nil {
				t.Error("expected rejection")
			}
		})
	}
}

func TestDecodeResponseDescriptionFallback(t *testing.T) {
	raw := `{"category": "Travel", "amount": 5, "businessType": "business", "entityType": "scorp", "deductibilityPercentage": 100}`
	rec, err := decodeResponse(raw, "  Uber to airport  ")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rec.Description != "Uber to airport" {
		t.Errorf("description = %q", rec.Description)
	}
}

func TestCleanModelJSON(t *testing.T) {
	cases := []struct{ in, want string }{
		{"{\"a\":1}", "{\"a\":1}"},
		{"```json\n{\"a\":1}\n```", "{\"a\":1}"},
		{"```\n{\"a\":1}\n```", "{\"a\":1}"},
		{"  {\"a\":1}  ", "{\"a\":1}"},
	}
	for _, tc := range cases {
		if got := cleanModelJSON(tc.in); got != tc.want {
			t.Errorf("cleanModelJSON(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestCategorizeCollapsesFailures(t *testing.T) {
	cases := []struct {
		name string
		gen  generateFunc
	}{
		{"transport error", func(context.Context, string) (string, error) {
			return "", errors.New("upstream 500")
		}},
		{"empty content", func(context.Context, string) (string, error) {
			return "", nil
		}},
		{"malformed json", func(context.Context, string) (string, error) {
			return "not json", nil
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := &Engine{generate: tc.gen, model: "test"}
			if _, err := e.Categorize(context.Background(), "lunch"); !errors.Is(err, ErrUnavailable) {
				t.Errorf("got %v, want ErrUnavailable", err)
			}
		})
	}
}

func TestCategorizeSuccess(t *testing.T) {
	var seenPrompt string
	e := &Engine{
		generate: func(_ context.Context, prompt string) (string, error) {
			seenPrompt = prompt
			return goodResponse, nil
		},
		model: "test",
	}
	rec, err := e.Categorize(context.Background(), "Client lunch $85")
	if err != nil {
		t.Fatalf("categorize: %v", err)
	}
	if rec.Category != "Business Meals" {
		t.Errorf("category = %q", rec.Category)
	}
	if !strings.Contains(seenPrompt, "Client lunch $85") {
		t.Error("prompt does not embed the description")
	}
	if !strings.Contains(seenPrompt, "Contract Labor") {
		t.Error("prompt does not embed the rulebook")
	}
}
