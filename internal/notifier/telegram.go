// Package notifier delivers task reminders to external channels.
package notifier

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"backend/internal/config"
	"backend/internal/models"
)

// Telegram sends reminder notifications to a configured Telegram chat.
type Telegram struct {
	api    *tgbotapi.BotAPI
	chatID int64
	logger *zap.Logger
}

// NewTelegram creates the Telegram notifier. It returns (nil, nil) when the
// notifier is disabled or no bot token is configured.
func NewTelegram(cfg *config.Config, logger *zap.Logger) (*Telegram, error) {
	if !cfg.Reminders.Enabled || cfg.Reminders.TelegramBotToken == "" {
		logger.Info("Telegram reminder notifier is disabled (reminders.enabled=false or token is empty)")
		return nil, nil
	}

	botAPI, err := tgbotapi.NewBotAPI(cfg.Reminders.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot API: %w", err)
	}

	logger.Info("Telegram reminder notifier authorized", zap.String("username", botAPI.Self.UserName))

	return &Telegram{
		api:    botAPI,
		chatID: cfg.Reminders.TelegramChatID,
		logger: logger,
	}, nil
}

// NotifyDueTask sends a reminder message for the task.
func (t *Telegram) NotifyDueTask(task *models.Task, userEmail string) error {
	text := fmt.Sprintf("⏰ Reminder for %s: %q is waiting", userEmail, task.Title)
	if task.DeadlineAt != nil {
		text += fmt.Sprintf(" (deadline %s)", task.DeadlineAt.Format("2006-01-02 15:04"))
	}

	msg := tgbotapi.NewMessage(t.chatID, text)
	if _, err := t.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send Telegram message: %w", err)
	}
	return nil
}
