package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"expensebot/internal/categorize"
	"expensebot/internal/ledger"
	"expensebot/internal/log"
	"expensebot/internal/ocr"
)

// update is the inbound webhook payload, reduced to the fields the
// dispatcher routes on.
type update struct {
	Message *message `json:"message"`
}

type message struct {
	Chat    chat        `json:"chat"`
	Text    string      `json:"text"`
	Caption string      `json:"caption"`
	Photo   []photoSize `json:"photo"`
}

type chat struct {
	ID int64 `json:"id"`
}

type photoSize struct {
	FileID string `json:"file_id"`
}

// handleWebhook is the request entry point. Every business outcome returns
// 200 with a status body; failures reach the user as chat messages.
func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
	case http.MethodGet:
		s.handleStatus(w, r)
		return
	case http.MethodOptions:
		w.WriteHeader(http.StatusOK)
		return
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var upd update
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		writeError(w, http.StatusInternalServerError, "malformed request body: "+err.Error())
		return
	}
	if upd.Message == nil {
		writeStatus(w, "ignored")
		return
	}

	msg := upd.Message
	if !s.cfg.Authorized(msg.Chat.ID) {
		// Silent drop. Unauthorized senders get no reply and no error
		// status, so probers learn nothing.
		s.logger.Warn("Dropped message from unauthorized chat",
			log.FieldChatID, msg.Chat.ID)
		writeStatus(w, "ok")
		return
	}

	s.dispatch(r.Context(), msg)
	writeStatus(w, "ok")
}

// dispatch routes a single authorized message. Precedence: exact commands,
// prefix commands, photo, plain text, no-op.
func (s *Server) dispatch(ctx context.Context, msg *message) {
	text := strings.TrimSpace(msg.Text)

	switch text {
	case "/start":
		s.reply(ctx, msg.Chat.ID, welcomeReply())
		return
	case "/ytd":
		s.handleYTD(ctx, msg.Chat.ID)
		return
	case "/recent":
		s.handleRecent(ctx, msg.Chat.ID)
		return
	}

	switch {
	case strings.HasPrefix(text, "/edit"):
		s.handleEdit(ctx, msg.Chat.ID, text)
	case strings.HasPrefix(text, "/note"):
		s.handleNote(ctx, msg.Chat.ID, text)
	case len(msg.Photo) > 0:
		s.handlePhoto(ctx, msg)
	case text != "" && !strings.HasPrefix(text, "/"):
		s.handleText(ctx, msg.Chat.ID, text)
	}
}

func (s *Server) handleText(ctx context.Context, chatID int64, text string) {
	result, err := s.intake.IntakeText(ctx, text)
	if err != nil {
		s.logger.ErrorContext(ctx, "Text intake failed",
			log.FieldChatID, chatID, log.FieldError, err)
		s.reply(ctx, chatID, intakeErrorReply(err))
		return
	}
	s.reply(ctx, chatID, recordedReply(result))
}

func (s *Server) handlePhoto(ctx context.Context, msg *message) {
	chatID := msg.Chat.ID

	// Telegram orders photo sizes smallest first.
	fileID := msg.Photo[len(msg.Photo)-1].FileID
	image, err := s.fetcher.FetchPhoto(ctx, fileID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Photo download failed",
			log.FieldChatID, chatID, log.FieldError, err)
		s.reply(ctx, chatID, photoDownloadFailedReply())
		return
	}

	result, err := s.intake.IntakeReceipt(ctx, image, msg.Caption)
	if err != nil {
		s.logger.ErrorContext(ctx, "Receipt intake failed",
			log.FieldChatID, chatID, log.FieldError, err)
		s.reply(ctx, chatID, intakeErrorReply(err))
		return
	}
	s.reply(ctx, chatID, recordedReply(result))
}

func (s *Server) handleYTD(ctx context.Context, chatID int64) {
	status, err := s.intake.ComputeYTD(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "YTD query failed",
			log.FieldChatID, chatID, log.FieldError, err)
		s.reply(ctx, chatID, ledgerErrorReply())
		return
	}
	s.reply(ctx, chatID, ytdReply(status))
}

func (s *Server) handleRecent(ctx context.Context, chatID int64) {
	entries, err := s.intake.Recent(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Recent listing failed",
			log.FieldChatID, chatID, log.FieldError, err)
		s.reply(ctx, chatID, ledgerErrorReply())
		return
	}
	s.reply(ctx, chatID, recentReply(entries))
}

func (s *Server) handleEdit(ctx context.Context, chatID int64, text string) {
	index, rest, ok := parseIndexedCommand(text, "/edit")
	if !ok {
		s.reply(ctx, chatID, usageReply("/edit", "Updated description"))
		return
	}
	if err := s.intake.EditDescription(ctx, index, rest); err != nil {
		s.replyUpdateError(ctx, chatID, index, err)
		return
	}
	s.reply(ctx, chatID, editedReply(index, rest))
}

func (s *Server) handleNote(ctx context.Context, chatID int64, text string) {
	index, rest, ok := parseIndexedCommand(text, "/note")
	if !ok {
		s.reply(ctx, chatID, usageReply("/note", "Paid back in cash"))
		return
	}
	if err := s.intake.AppendNote(ctx, index, rest); err != nil {
		s.replyUpdateError(ctx, chatID, index, err)
		return
	}
	s.reply(ctx, chatID, notedReply(index, rest))
}

func (s *Server) replyUpdateError(ctx context.Context, chatID int64, index int, err error) {
	if errors.Is(err, ledger.ErrRowNotFound) {
		s.reply(ctx, chatID, notFoundReply(index))
		return
	}
	s.logger.ErrorContext(ctx, "Row update failed",
		log.FieldChatID, chatID, log.FieldError, err)
	s.reply(ctx, chatID, ledgerErrorReply())
}

// reply is fire-and-forget: a messaging failure is logged and deliberately
// dropped so it never fails the webhook request.
func (s *Server) reply(ctx context.Context, chatID int64, html string) {
	if err := s.sender.SendHTML(ctx, chatID, html); err != nil {
		s.logger.ErrorContext(ctx, "Reply send failed",
			log.FieldOperation, log.OpSend,
			log.FieldChatID, chatID,
			log.FieldError, err)
	}
}

// parseIndexedCommand splits "/cmd <n> <text>" into its index and trailing
// text. The index must be a positive integer and the text non-empty.
func parseIndexedCommand(text, cmd string) (index int, rest string, ok bool) {
	args := strings.TrimSpace(strings.TrimPrefix(text, cmd))
	if args == text {
		return 0, "", false
	}
	parts := strings.SplitN(args, " ", 2)
	if len(parts) < 2 {
		return 0, "", false
	}
	index, err := strconv.Atoi(parts[0])
	if err != nil || index < 1 {
		return 0, "", false
	}
	rest = strings.TrimSpace(parts[1])
	if rest == "" {
		return 0, "", false
	}
	return index, rest, true
}

// intakeErrorReply distinguishes "could not read receipt" from "could not
// categorize" so the user knows whether to retake a photo or rephrase.
func intakeErrorReply(err error) string {
	switch {
	case errors.Is(err, ocr.ErrNoText):
		return noTextReply()
	case errors.Is(err, categorize.ErrUnavailable):
		return categorizeFailedReply()
	default:
		return ledgerErrorReply()
	}
}
