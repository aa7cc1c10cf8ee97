// Package telegram wraps the Bot API client behind the two narrow
// capabilities the rest of the service needs: sending HTML-formatted
// replies and downloading photo payloads by file ID.
package telegram

import (
	"context"
	"fmt"
	"io"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Sender delivers a reply to a chat. Messages use Telegram's HTML parse
// mode, so callers are responsible for escaping user-controlled text.
type Sender interface {
	SendHTML(ctx context.Context, chatID int64, html string) error
}

// PhotoFetcher downloads the raw bytes of a photo previously uploaded to
// Telegram, addressed by its file ID.
type PhotoFetcher interface {
	FetchPhoto(ctx context.Context, fileID string) ([]byte, error)
}

// Bot is the production Sender and PhotoFetcher backed by the Bot API.
type Bot struct {
	api  *tgbotapi.BotAPI
	http *http.Client
}

// NewBot authenticates the bot token against the Bot API.
func NewBot(token string) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("authenticate bot: %w", err)
	}
	return &Bot{api: api, http: http.DefaultClient}, nil
}

// Username returns the authenticated bot's username.
func (b *Bot) Username() string {
	return b.api.Self.UserName
}

func (b *Bot) SendHTML(ctx context.Context, chatID int64, html string) error {
	msg := tgbotapi.NewMessage(chatID, html)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	if _, err := b.api.Send(msg); err != nil {
		return fmt.Errorf("send message to chat %d: %w", chatID, err)
	}
	return nil
}

func (b *Bot) FetchPhoto(ctx context.Context, fileID string) ([]byte, error) {
	url, err := b.api.GetFileDirectURL(fileID)
	if err != nil {
		return nil, fmt.Errorf("resolve file %s: %w", fileID, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build download request: %w", err)
	}
	resp, err := b.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download file %s: %w", fileID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download file %s: unexpected status %d", fileID, resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read file %s: %w", fileID, err)
	}
	return data, nil
}
