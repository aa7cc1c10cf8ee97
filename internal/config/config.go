package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"expensebot/internal/core"
)

// Backend names accepted for LEDGER_BACKEND.
const (
	LedgerSheets = "sheets"
	LedgerSQLite = "sqlite"
	LedgerMemory = "memory"
)

// Backend names accepted for RECEIPT_BACKEND.
const (
	ReceiptsNone   = "none"
	ReceiptsDrive  = "drive"
	ReceiptsWebDAV = "webdav"
	ReceiptsGCS    = "gcs"
)

// Config is read once at process start and passed by reference into every
// component constructor. No component reads ambient environment directly.
type Config struct {
	// HTTP server
	Port string

	// Telegram
	TelegramBotToken string
	AllowedChatIDs   []int64

	// LLM categorization
	GeminiAPIKey string
	GeminiModel  string

	// Ledger
	LedgerBackend       string
	SpreadsheetID       string
	LedgerSheet         string
	RelatedPartySheet   string
	ServiceAccountEmail string
	ServiceAccountKey   string
	SQLiteDBPath        string

	// Receipt storage
	ReceiptBackend string
	ReceiptsFolder string
	WebDAVURL      string
	WebDAVUser     string
	WebDAVPassword string
	GCSBucket      string

	// YTD policy: the current-year standard-deduction threshold used only
	// for the running-total warning after related-party Contract Labor writes.
	YTDThreshold core.Money

	// Listing
	RecentLimit int
}

func Load() *Config {
	cfg := &Config{
		Port: getEnv("PORT", "8080"),

		TelegramBotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
		AllowedChatIDs:   parseChatIDs(getEnv("TELEGRAM_ALLOWED_CHAT_IDS", "")),

		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-2.0-flash"),

		LedgerBackend:       getEnv("LEDGER_BACKEND", LedgerSheets),
		SpreadsheetID:       getEnv("LEDGER_SPREADSHEET_ID", ""),
		LedgerSheet:         getEnv("LEDGER_SHEET_NAME", "Expenses"),
		RelatedPartySheet:   getEnv("RELATED_PARTY_SHEET_NAME", "Family LLC Payments"),
		ServiceAccountEmail: getEnv("GOOGLE_SERVICE_ACCOUNT_EMAIL", ""),
		ServiceAccountKey:   normalizeKey(getEnv("GOOGLE_SERVICE_ACCOUNT_KEY", "")),
		SQLiteDBPath:        getEnv("SQLITE_DB_PATH", "./data/expensebot.db"),

		ReceiptBackend: getEnv("RECEIPT_BACKEND", ReceiptsNone),
		ReceiptsFolder: getEnv("RECEIPTS_FOLDER", "Receipts"),
		WebDAVURL:      getEnv("WEBDAV_URL", ""),
		WebDAVUser:     getEnv("WEBDAV_USER", ""),
		WebDAVPassword: getEnv("WEBDAV_PASSWORD", ""),
		GCSBucket:      getEnv("GCS_BUCKET", ""),

		YTDThreshold: core.Money{Cents: getEnvCents("STANDARD_DEDUCTION", 15_000_00)},

		RecentLimit: getEnvInt("RECENT_LIMIT", 10),
	}

	return cfg
}

// Validate validates the configuration and returns an aggregated error.
func (c *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.TelegramBotToken == "" {
		errs = append(errs, "TELEGRAM_BOT_TOKEN is required")
	}
	if len(c.AllowedChatIDs) == 0 {
		errs = append(errs, "TELEGRAM_ALLOWED_CHAT_IDS must list at least one chat ID")
	}
	if c.GeminiAPIKey == "" {
		errs = append(errs, "GEMINI_API_KEY is required")
	}

	switch c.LedgerBackend {
	case LedgerSheets:
		if c.SpreadsheetID == "" {
			errs = append(errs, "LEDGER_SPREADSHEET_ID is required for the sheets backend")
		}
		if c.ServiceAccountEmail == "" || c.ServiceAccountKey == "" {
			errs = append(errs, "GOOGLE_SERVICE_ACCOUNT_EMAIL and GOOGLE_SERVICE_ACCOUNT_KEY are required for the sheets backend")
		}
	case LedgerSQLite:
		if c.SQLiteDBPath == "" {
			errs = append(errs, "SQLITE_DB_PATH cannot be empty when using the sqlite backend")
		}
	case LedgerMemory:
	default:
		errs = append(errs, fmt.Sprintf("invalid ledger backend '%s': must be one of [%s %s %s]",
			c.LedgerBackend, LedgerSheets, LedgerSQLite, LedgerMemory))
	}

	switch c.ReceiptBackend {
	case ReceiptsNone:
	case ReceiptsDrive:
		if c.ServiceAccountEmail == "" || c.ServiceAccountKey == "" {
			errs = append(errs, "GOOGLE_SERVICE_ACCOUNT_EMAIL and GOOGLE_SERVICE_ACCOUNT_KEY are required for the drive backend")
		}
	case ReceiptsWebDAV:
		if c.WebDAVURL == "" {
			errs = append(errs, "WEBDAV_URL is required for the webdav backend")
		} else if u, err := url.Parse(c.WebDAVURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			errs = append(errs, fmt.Sprintf("invalid WEBDAV_URL '%s': must be an http(s) URL", c.WebDAVURL))
		}
		if c.WebDAVUser == "" || c.WebDAVPassword == "" {
			errs = append(errs, "WEBDAV_USER and WEBDAV_PASSWORD are required for the webdav backend")
		}
	case ReceiptsGCS:
		if c.GCSBucket == "" {
			errs = append(errs, "GCS_BUCKET is required for the gcs backend")
		}
	default:
		errs = append(errs, fmt.Sprintf("invalid receipt backend '%s': must be one of [%s %s %s %s]",
			c.ReceiptBackend, ReceiptsNone, ReceiptsDrive, ReceiptsWebDAV, ReceiptsGCS))
	}

	if c.YTDThreshold.Cents <= 0 {
		errs = append(errs, "STANDARD_DEDUCTION must be a positive amount")
	}
	if c.RecentLimit < 1 || c.RecentLimit > 100 {
		errs = append(errs, fmt.Sprintf("invalid recent limit %d: must be between 1 and 100", c.RecentLimit))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

// Authorized reports whether the chat ID is on the allow-list.
func (c *Config) Authorized(chatID int64) bool {
	for _, id := range c.AllowedChatIDs {
		if id == chatID {
			return true
		}
	}
	return false
}

func parseChatIDs(s string) []int64 {
	var out []int64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			continue
		}
		out = append(out, id)
	}
	return out
}

// normalizeKey restores real newlines in a PEM key passed through a
// single-line environment variable.
func normalizeKey(s string) string {
	return strings.ReplaceAll(s, `\n`, "\n")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvCents(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if cents, err := core.ParseDecimalToCents(value); err == nil {
			return cents
		}
	}
	return defaultValue
}
