// Package notify sends account notifications through a Telegram bot.
package notify

import (
	"context"
	"fmt"
	"net/http"

	"github.com/aussiebroadwan/stepglobe/internal/stepglobe/domain"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Sender is the part of *tgbotapi.BotAPI the notifier uses.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Telegram posts new pending accounts to the admin chat and tells people
// when they have been approved.
type Telegram struct {
	bot         Sender
	adminChatID int64
}

// NewTelegram logs the bot in. apiEndpoint may be empty for the public API.
func NewTelegram(token, apiEndpoint string, adminChatID int64) (*Telegram, error) {
	if apiEndpoint == "" {
		apiEndpoint = tgbotapi.APIEndpoint
	}
	bot, err := tgbotapi.NewBotAPIWithClient(token, apiEndpoint, &http.Client{})
	if err != nil {
		return nil, fmt.Errorf("notify: connect bot: %w", err)
	}
	return NewTelegramWithSender(bot, adminChatID), nil
}

func NewTelegramWithSender(bot Sender, adminChatID int64) *Telegram {
	return &Telegram{bot: bot, adminChatID: adminChatID}
}

// AccountPending is a no-op without an admin chat.
func (t *Telegram) AccountPending(ctx context.Context, a domain.Account) error {
	if t.adminChatID == 0 {
		return nil
	}
	text := fmt.Sprintf("New participant waiting for approval: %s\nAccount: %s", a.Label(), a.ID)
	if a.TelegramID != nil {
		text += fmt.Sprintf("\nTelegram: tg://user?id=%d", *a.TelegramID)
	}
	return t.send(ctx, tgbotapi.NewMessage(t.adminChatID, text))
}

// AccountApproved messages the participant. Accounts without a Telegram id
// are skipped.
func (t *Telegram) AccountApproved(ctx context.Context, a domain.Account) error {
	if a.TelegramID == nil {
		return nil
	}
	text := fmt.Sprintf("%s, your account has been approved. You can now log your steps.", a.Label())
	return t.send(ctx, tgbotapi.NewMessage(*a.TelegramID, text))
}

func (t *Telegram) send(ctx context.Context, msg tgbotapi.MessageConfig) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg.DisableWebPagePreview = true
	if _, err := t.bot.Send(msg); err != nil {
		return fmt.Errorf("notify: send to %d: %w", msg.ChatID, err)
	}
	return nil
}
