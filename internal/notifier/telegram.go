package notifier

import (
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// maxMessageLength is Telegram's limit for one text message.
const maxMessageLength = 4096

// Document is a file attached to a reply.
type Document struct {
	Name    string
	Data    []byte
	Caption string
}

// Reply is what a command handler sends back. Empty text and nil Document send nothing.
type Reply struct {
	Text     string
	Document *Document
}

// TelegramNotifier sends messages through the Telegram Bot API.
type TelegramNotifier struct {
	Bot *tgbotapi.BotAPI
}

// NewTelegramNotifier connects to the Bot API with optional proxy support.
func NewTelegramNotifier(botToken, proxyURL string) (*TelegramNotifier, error) {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	client := &http.Client{
		Timeout:   60 * time.Second,
		Transport: transport,
	}
	bot, err := tgbotapi.NewBotAPIWithClient(botToken, tgbotapi.APIEndpoint, client)
	if err != nil {
		return nil, fmt.Errorf("connect telegram bot: %w", err)
	}
	log.Printf("[INFO] telegram bot connected as @%s", bot.Self.UserName)
	return &TelegramNotifier{Bot: bot}, nil
}

// Send sends an HTML message to chatID. Text over Telegram's length limit goes out
// as several messages, each with balanced tags.
func (t *TelegramNotifier) Send(chatID int64, text string) error {
	parts := splitMessage(text)
	for i, part := range parts {
		msg := tgbotapi.NewMessage(chatID, part)
		msg.ParseMode = tgbotapi.ModeHTML
		msg.DisableWebPagePreview = true
		if _, err := t.Bot.Send(msg); err != nil {
			return fmt.Errorf("send message part %d/%d: %w", i+1, len(parts), err)
		}
	}
	return nil
}

// SendDocument uploads doc to chatID.
func (t *TelegramNotifier) SendDocument(chatID int64, doc *Document) error {
	cfg := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: doc.Name, Bytes: doc.Data})
	cfg.Caption = doc.Caption
	if _, err := t.Bot.Send(cfg); err != nil {
		return fmt.Errorf("send document %s: %w", doc.Name, err)
	}
	return nil
}

// SendReply delivers both parts of r.
func (t *TelegramNotifier) SendReply(chatID int64, r Reply) error {
	if r.Text != "" {
		if err := t.Send(chatID, r.Text); err != nil {
			return err
		}
	}
	if r.Document != nil {
		return t.SendDocument(chatID, r.Document)
	}
	return nil
}
