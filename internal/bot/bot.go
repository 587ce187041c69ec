package bot

import (
	"fmt"
	"log"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/artur/tubedrop/internal/database/models"
)

// Notifier posts download events to a Telegram chat
type Notifier struct {
	api    *tgbotapi.BotAPI
	chatID int64
}

func New(token string, chatID int64) (*Notifier, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	return newNotifier(api, chatID), nil
}

// NewWithEndpoint talks to a custom Bot API endpoint, e.g. a local bot API server.
// endpoint is a format string like tgbotapi.APIEndpoint.
func NewWithEndpoint(token, endpoint string, client tgbotapi.HTTPClient, chatID int64) (*Notifier, error) {
	api, err := tgbotapi.NewBotAPIWithClient(token, endpoint, client)
	if err != nil {
		return nil, err
	}
	return newNotifier(api, chatID), nil
}

func newNotifier(api *tgbotapi.BotAPI, chatID int64) *Notifier {
	log.Printf("[BOT] Authorized on account %s", api.Self.UserName)
	return &Notifier{
		api:    api,
		chatID: chatID,
	}
}

// SendStartupNotification tells the chat the server is up
func (n *Notifier) SendStartupNotification(addr string) error {
	return n.send(fmt.Sprintf("🚀 tubedrop запущен на %s", addr))
}

// NotifyDownload reports a recorded download
func (n *Notifier) NotifyDownload(d *models.Download) error {
	return n.send(formatDownloadMessage(d))
}

func (n *Notifier) send(text string) error {
	msg := tgbotapi.NewMessage(n.chatID, text)
	msg.DisableWebPagePreview = true
	if _, err := n.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send telegram message: %w", err)
	}
	return nil
}

func formatDownloadMessage(d *models.Download) string {
	var b strings.Builder

	icon := "🎬"
	if d.Format == "mp3" {
		icon = "🎵"
	}
	fmt.Fprintf(&b, "%s %s\n", icon, d.Title)

	quality := "auto"
	if d.Quality != nil && *d.Quality != "" {
		quality = *d.Quality
	}
	fmt.Fprintf(&b, "Формат: %s (%s)\n", strings.ToUpper(d.Format), quality)
	b.WriteString(d.URL)

	return b.String()
}
