package telegram

import (
	"context"
	"fmt"
	"strconv"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"bidboard/internal/domain"
	"bidboard/internal/infra/metrics"
)

// sender — часть tgbotapi.BotAPI, нужная для отправки.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Notifier отправляет уведомления через Bot API.
type Notifier struct {
	bot sender
}

var _ domain.Notifier = (*Notifier)(nil)

// NewNotifier создаёт отправителя поверх бота.
func NewNotifier(bot *tgbotapi.BotAPI) *Notifier {
	return &Notifier{bot: bot}
}

// Send отправляет HTML-текст, разбивая его на части по лимиту Telegram.
func (n *Notifier) Send(ctx context.Context, chatID int64, text string) error {
	for i, part := range SplitMessage(text) {
		if err := ctx.Err(); err != nil {
			return err
		}
		msg := tgbotapi.NewMessage(chatID, part)
		msg.ParseMode = tgbotapi.ModeHTML
		msg.DisableWebPagePreview = true
		start := time.Now()
		_, err := n.bot.Send(msg)
		metrics.ObserveNetworkRequest("telegram_bot", "send_message", strconv.FormatInt(chatID, 10), start, err)
		if err != nil {
			return fmt.Errorf("отправка части %d: %w", i+1, err)
		}
	}
	return nil
}
