package notifier

import (
	"context"
	"log"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// CommandHandler is called for every text message. chatID identifies the user session.
type CommandHandler func(ctx context.Context, chatID int64, text string) Reply

// StartPolling long-polls for messages and answers each one. Blocks until ctx is cancelled.
// Messages are handled one at a time in arrival order.
func (t *TelegramNotifier) StartPolling(ctx context.Context, handler CommandHandler) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := t.Bot.GetUpdatesChan(u)
	defer t.Bot.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			log.Println("[INFO] Telegram polling stopped")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			msg := update.Message
			if msg == nil || msg.Chat == nil || strings.TrimSpace(msg.Text) == "" {
				continue
			}
			text := strings.TrimSpace(msg.Text)
			log.Printf("[INFO] chat %d: received %q", msg.Chat.ID, text)
			reply := handler(ctx, msg.Chat.ID, text)
			if err := t.SendReply(msg.Chat.ID, reply); err != nil {
				log.Printf("[ERROR] send reply: %v", err)
			}
		}
	}
}
