package mirror

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramNotifier mirrors exchanges to a Telegram chat.
type TelegramNotifier struct {
	bot       *tgbotapi.BotAPI
	chatID    int64
	agentName string
}

func NewTelegramNotifier(token string, chatID int64, agentName string) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("connecting telegram bot: %w", err)
	}
	return &TelegramNotifier{bot: bot, chatID: chatID, agentName: agentName}, nil
}

func (t *TelegramNotifier) Name() string { return "telegram" }

func (t *TelegramNotifier) Notify(_ context.Context, human, agent string) error {
	text := fmt.Sprintf("Human: %s\n%s: %s", human, t.agentName, agent)
	if _, err := t.bot.Send(tgbotapi.NewMessage(t.chatID, text)); err != nil {
		return fmt.Errorf("sending telegram message: %w", err)
	}
	return nil
}
