// Package http exposes the webhook endpoint: it authorizes the sender,
// routes commands and content to the intake pipeline, and replies over the
// messaging gateway. Business failures become chat messages, never HTTP
// errors.
package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"expensebot/internal/config"
	"expensebot/internal/ledger"
	"expensebot/internal/log"
	"expensebot/internal/services"
	"expensebot/internal/telegram"
)

// IntakeService is the pipeline surface the dispatcher drives.
type IntakeService interface {
	IntakeText(ctx context.Context, text string) (services.IntakeResult, error)
	IntakeReceipt(ctx context.Context, image []byte, caption string) (services.IntakeResult, error)
	ComputeYTD(ctx context.Context) (services.YTDStatus, error)
	Recent(ctx context.Context) ([]ledger.Entry, error)
	EditDescription(ctx context.Context, index int, text string) error
	AppendNote(ctx context.Context, index int, text string) error
}

type Server struct {
	http.Server
	cfg     *config.Config
	intake  IntakeService
	sender  telegram.Sender
	fetcher telegram.PhotoFetcher
	logger  *log.Logger
}

// NewServer configures routes, returning a ready-to-run http.Server.
func NewServer(cfg *config.Config, intake IntakeService, sender telegram.Sender, fetcher telegram.PhotoFetcher, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		},
		cfg:     cfg,
		intake:  intake,
		sender:  sender,
		fetcher: fetcher,
		logger:  logger.WithComponent(log.ComponentDispatcher),
	}

	mux.HandleFunc("/", s.withRecovery(s.handleWebhook))
	mux.HandleFunc("/healthz", s.withRecovery(s.handleStatus))

	return s
}

// withRecovery converts a panic escaping the handler into a 500. This is the
// only path that surfaces an error over HTTP.
func (s *Server) withRecovery(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error("Handler panic",
					log.FieldError, fmt.Sprint(rec))
				writeError(w, http.StatusInternalServerError, fmt.Sprint(rec))
			}
		}()
		next(w, r)
	}
}

// handleStatus reports which required secrets are present and how many
// senders are authorized, without revealing any secret values.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":             "ok",
		"telegram_token":     s.cfg.TelegramBotToken != "",
		"gemini_api_key":     s.cfg.GeminiAPIKey != "",
		"spreadsheet_id":     s.cfg.SpreadsheetID != "",
		"service_account":    s.cfg.ServiceAccountEmail != "" && s.cfg.ServiceAccountKey != "",
		"authorized_senders": len(s.cfg.AllowedChatIDs),
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeStatus(w http.ResponseWriter, status string) {
	writeJSON(w, http.StatusOK, map[string]string{"status": status})
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
