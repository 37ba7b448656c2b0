package telegram

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"sareeapi/models"
)

func EscapeMessage(message string) string {
	r := strings.NewReplacer(
		"_", "\\_",
		"*", "\\*",
		"[", "\\[",
		"`", "\\`",
	)
	return r.Replace(message)
}

// Notifier tells the operations chat about published exports.
type Notifier interface {
	NotifyExport(ctx context.Context, record models.ExportRecord) error
	NotifyDigest(ctx context.Context, digest models.ExportDigest) error
}

type BotNotifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

func NewBotNotifier(token string, chatID int64) (*BotNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram bot init: %w", err)
	}
	return &BotNotifier{bot: bot, chatID: chatID}, nil
}

func (n *BotNotifier) send(text string) error {
	msg := tgbotapi.NewMessage(n.chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	_, err := n.bot.Send(msg)
	return err
}

func (n *BotNotifier) NotifyExport(ctx context.Context, record models.ExportRecord) error {
	return n.send(ExportMessage(record))
}

func (n *BotNotifier) NotifyDigest(ctx context.Context, digest models.ExportDigest) error {
	return n.send(DigestMessage(digest))
}

// ExportMessage renders the markdown summary of a published export.
func ExportMessage(record models.ExportRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*New catalog export* by %s\n", EscapeMessage(record.Username))
	fmt.Fprintf(&b, "`%s` (%d products, %d KB)\n", EscapeMessage(record.ArchiveName), record.ProductCount, record.SizeBytes/1024)
	for _, e := range record.Entries {
		sku := e.SKU
		if sku == "" {
			sku = "NO-SKU"
		}
		title := e.SEOTitle
		if title == "" {
			title = e.Folder
		}
		fmt.Fprintf(&b, "• %s: %s\n", EscapeMessage(sku), EscapeMessage(title))
	}
	return b.String()
}

func DigestMessage(digest models.ExportDigest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*Catalog digest* %s to %s\n", digest.From.Format("02 Jan 15:04"), digest.To.Format("02 Jan 15:04"))
	fmt.Fprintf(&b, "%d exports, %d products\n", digest.Exports, digest.Products)
	if len(digest.Users) > 0 {
		users := make([]string, len(digest.Users))
		for i, u := range digest.Users {
			users[i] = EscapeMessage(u)
		}
		fmt.Fprintf(&b, "By: %s\n", strings.Join(users, ", "))
	}
	return b.String()
}

type NoopNotifier struct{}

func (NoopNotifier) NotifyExport(context.Context, models.ExportRecord) error { return nil }

func (NoopNotifier) NotifyDigest(context.Context, models.ExportDigest) error { return nil }
