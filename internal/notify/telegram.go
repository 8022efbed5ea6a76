package notify

import (
	"context"
	"fmt"

	"achihouse/internal/config"
	"achihouse/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// TelegramSender is the slice of the bot API the notifier needs.
type TelegramSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramNotifier pushes new reservation requests into the managers chat.
type TelegramNotifier struct {
	bot    TelegramSender
	chatID int64
	logger zerolog.Logger
}

func NewTelegramNotifier(cfg config.TelegramConfig, logger *zerolog.Logger) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("telegram bot init: %w", err)
	}
	bot.Debug = cfg.Debug

	return &TelegramNotifier{
		bot:    bot,
		chatID: cfg.ChatID,
		logger: logger.With().Str("component", "telegram_notifier").Logger(),
	}, nil
}

func NewTelegramNotifierWithSender(bot TelegramSender, chatID int64, logger *zerolog.Logger) *TelegramNotifier {
	return &TelegramNotifier{
		bot:    bot,
		chatID: chatID,
		logger: logger.With().Str("component", "telegram_notifier").Logger(),
	}
}

func (n *TelegramNotifier) NotifyReservation(ctx context.Context, r *models.ReservationRequest) error {
	msg := tgbotapi.NewMessage(n.chatID, formatReservationMessage(r))
	msg.ParseMode = tgbotapi.ModeMarkdown

	if _, err := n.bot.Send(msg); err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}

	n.logger.Info().Int64("reservation_id", r.ID).Msg("Manager notification sent")
	return nil
}

func formatReservationMessage(r *models.ReservationRequest) string {
	text := fmt.Sprintf(
		"*Đặt bàn mới / New reservation*\n\n"+
			"Khách / Guest: %s\n"+
			"SĐT / Phone: `%s`\n"+
			"Số khách / Guests: %d\n"+
			"Ngày / Date: %s\n"+
			"Giờ / Time: %s",
		r.FullName, r.PhoneNumber, r.GuestCount, r.ReservationDate, r.ReservationTime,
	)
	if r.Email != "" {
		text += "\nEmail: " + r.Email
	}
	if r.Note != "" {
		text += "\nGhi chú / Note: " + r.Note
	}
	return text
}
