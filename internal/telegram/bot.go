// Package telegram is the delivery channel: it formats and sends news
// alerts, answers commands and button presses, and keeps the persisted
// delivery state in sync with what was actually sent.
package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"tonnewsbot/internal/metrics"
	"tonnewsbot/internal/news"
	"tonnewsbot/internal/price"
	"tonnewsbot/internal/retry"
	"tonnewsbot/internal/storage"
)

// Sender is the narrow slice of the Telegram API the bot sends through.
// *tgbotapi.BotAPI satisfies it; tests substitute a fake.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// StateStore is the persisted state the bot reads and mutates.
type StateStore interface {
	IsSent(link string) bool
	MarkSent(link string) error
	LastNews() (storage.Snapshot, bool)
	SetLastNews(snap storage.Snapshot) error
	UserLanguage(userID int64) string
	SetUserLanguage(userID int64, lang string) error
}

// Analyzer produces the AI (or fallback) analysis texts.
type Analyzer interface {
	Analyze(ctx context.Context, title, content, lang string) string
	PriceImpact(ctx context.Context, title, content, lang string) string
}

// PriceProvider answers price queries; nil result with error means the
// price is unavailable right now.
type PriceProvider interface {
	Get(ctx context.Context) (*price.Info, error)
}

// Translator converts message text to the user's language, best effort.
type Translator interface {
	Translate(ctx context.Context, text, targetLang string) string
}

type Bot struct {
	api        Sender
	tg         *tgbotapi.BotAPI // nil in tests; used only for the update stream
	chatID     int64
	store      StateStore
	analyzer   Analyzer
	prices     PriceProvider
	translator Translator

	// Zero value means the default send retry policy.
	sendRetry retry.Config
}

func NewBot(token string, chatID int64, store StateStore, analyzer Analyzer, prices PriceProvider, translator Translator) (*Bot, error) {
	tg, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	slog.Info("authorized on telegram", "account", tg.Self.UserName)

	return &Bot{
		api:        tg,
		tg:         tg,
		chatID:     chatID,
		store:      store,
		analyzer:   analyzer,
		prices:     prices,
		translator: translator,
	}, nil
}

// ChatLanguage returns the delivery chat's stored language preference.
func (b *Bot) ChatLanguage() string {
	return b.store.UserLanguage(b.chatID)
}

// RegisterCommands publishes the command menu.
func (b *Bot) RegisterCommands() error {
	commands := tgbotapi.NewSetMyCommands(
		tgbotapi.BotCommand{Command: "start", Description: "Menu"},
		tgbotapi.BotCommand{Command: "lastnews", Description: "Latest news"},
		tgbotapi.BotCommand{Command: "ton", Description: "TON price"},
		tgbotapi.BotCommand{Command: "help", Description: "Help"},
	)
	if _, err := b.api.Request(commands); err != nil {
		return fmt.Errorf("failed to register commands: %w", err)
	}
	return nil
}

// Run consumes the update stream until the context is cancelled.
func (b *Bot) Run(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30

	updates := b.tg.GetUpdatesChan(u)
	defer b.tg.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil && update.Message.IsCommand():
		b.handleCommand(ctx, update.Message)
	}
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	userID := msg.From.ID
	chatID := msg.Chat.ID
	lang := b.store.UserLanguage(userID)

	switch msg.Command() {
	case "start":
		kb := languageKeyboard()
		b.reply(chatID, startText(), &kb)
	case "lastnews":
		text, markup := b.renderLastNews(ctx, lang, false)
		b.reply(chatID, text, markup)
	case "ton", "price":
		text, markup := b.renderPrice(ctx, lang)
		b.reply(chatID, text, markup)
	case "help":
		b.reply(chatID, helpText(lang), nil)
	default:
		b.reply(chatID, helpText(lang), nil)
	}
}

func (b *Bot) handleCallback(ctx context.Context, query *tgbotapi.CallbackQuery) {
	if query.Message == nil {
		return
	}
	userID := query.From.ID
	chatID := query.Message.Chat.ID
	messageID := query.Message.MessageID

	ack := ""

	switch query.Data {
	case "set_lang_ru", "set_lang_en":
		lang := "ru"
		if query.Data == "set_lang_en" {
			lang = "en"
		}
		if err := b.store.SetUserLanguage(userID, lang); err != nil {
			slog.Warn("failed to save language", "error", err)
		}
		kb := menuKeyboard(lang)
		b.edit(chatID, messageID, menuText(lang), &kb)

	case "lang_ru", "lang_en":
		lang := "ru"
		ack = "Язык изменен на русский"
		if query.Data == "lang_en" {
			lang = "en"
			ack = "Language changed to English"
		}
		if err := b.store.SetUserLanguage(userID, lang); err != nil {
			slog.Warn("failed to save language", "error", err)
		}
		if text, _ := b.renderLastNews(ctx, lang, true); text != noNewsText(lang) {
			kb := langSwitchKeyboard()
			b.edit(chatID, messageID, text, &kb)
		}

	case "price", "price_refresh":
		lang := b.store.UserLanguage(userID)
		text, markup := b.renderPrice(ctx, lang)
		b.edit(chatID, messageID, text, markup)

	case "lastnews":
		lang := b.store.UserLanguage(userID)
		text, _ := b.renderLastNews(ctx, lang, false)
		b.edit(chatID, messageID, text, nil)

	case "help":
		lang := b.store.UserLanguage(userID)
		b.edit(chatID, messageID, helpText(lang), nil)

	case "price_impact":
		lang := b.store.UserLanguage(userID)
		if snap, ok := b.store.LastNews(); ok {
			impact := b.analyzer.PriceImpact(ctx, snap.Title, snap.Content, lang)
			b.edit(chatID, messageID, formatImpactMessage(impact, lang), nil)
			ack = "Анализ готов ✅"
			if lang == "en" {
				ack = "Analysis ready ✅"
			}
		} else {
			b.edit(chatID, messageID, noNewsText(lang), nil)
		}
	}

	// Every interaction gets answered, even unknown callback data.
	if _, err := b.api.Request(tgbotapi.NewCallback(query.ID, ack)); err != nil {
		slog.Warn("failed to answer callback", "error", err)
	}
}

// renderLastNews builds the last-news view in lang. The snapshot keeps the
// feed-native Russian text, so English views translate on render.
func (b *Bot) renderLastNews(ctx context.Context, lang string, keepKeyboard bool) (string, *tgbotapi.InlineKeyboardMarkup) {
	snap, ok := b.store.LastNews()
	if !ok {
		return noNewsText(lang), nil
	}

	item := snap.Item
	analysis := b.analyzer.Analyze(ctx, item.Title, item.Content, lang)
	if lang == "en" {
		item.Title = b.translator.Translate(ctx, item.Title, "en")
		item.Content = b.translator.Translate(ctx, item.Content, "en")
	}

	text := formatNewsMessage(item, analysis, lang, time.Time{})
	if keepKeyboard {
		markup := langSwitchKeyboard()
		return text, &markup
	}
	return text, nil
}

func (b *Bot) renderPrice(ctx context.Context, lang string) (string, *tgbotapi.InlineKeyboardMarkup) {
	info, err := b.prices.Get(ctx)
	if err != nil || info == nil {
		slog.Warn("price unavailable", "error", err)
		return priceErrorText(lang), nil
	}
	markup := priceKeyboard(lang)
	return formatPriceMessage(*info, lang), &markup
}

// SendNewsAlert formats and delivers one news item to the configured chat.
// On success the link is marked sent and the last-news snapshot is
// overwritten. Failures are logged and reported as false, never raised.
func (b *Bot) SendNewsAlert(ctx context.Context, item news.Item, lang string) bool {
	analysis := b.analyzer.Analyze(ctx, item.Title, item.Content, lang)

	rendered := item
	if lang == "en" {
		rendered.Title = b.translator.Translate(ctx, item.Title, "en")
		rendered.Content = b.translator.Translate(ctx, item.Content, "en")
	}

	msg := tgbotapi.NewMessage(b.chatID, formatNewsMessage(rendered, analysis, lang, time.Now()))
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	msg.ReplyMarkup = newsKeyboard(lang)

	policy := b.sendRetry
	if policy.MaxAttempts == 0 {
		policy = retry.Config{MaxAttempts: 3, Delay: time.Second, Backoff: true}
	}

	var sent tgbotapi.Message
	err := retry.Do(ctx, policy, func() error {
		var sendErr error
		sent, sendErr = b.api.Send(msg)
		return sendErr
	})
	if err != nil {
		slog.Error("failed to send news alert", "title", item.Title, "error", err)
		metrics.Global.IncrementSendFailures()
		return false
	}

	if err := b.store.MarkSent(item.Link); err != nil {
		slog.Warn("failed to persist sent link", "error", err)
	}
	if err := b.store.SetLastNews(storage.Snapshot{Item: item, MessageID: sent.MessageID}); err != nil {
		slog.Warn("failed to persist last news", "error", err)
	}

	metrics.Global.IncrementMessagesSent()
	slog.Info("news alert sent", "lang", lang, "title", item.Title)
	return true
}

func (b *Bot) reply(chatID int64, text string, markup *tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	if markup != nil {
		msg.ReplyMarkup = *markup
	}
	if _, err := b.api.Send(msg); err != nil {
		slog.Warn("failed to send reply", "error", err)
	}
}

func (b *Bot) edit(chatID int64, messageID int, text string, markup *tgbotapi.InlineKeyboardMarkup) {
	var edit tgbotapi.EditMessageTextConfig
	if markup != nil {
		edit = tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, text, *markup)
	} else {
		edit = tgbotapi.NewEditMessageText(chatID, messageID, text)
	}
	edit.ParseMode = tgbotapi.ModeHTML
	edit.DisableWebPagePreview = true
	if _, err := b.api.Send(edit); err != nil {
		slog.Warn("failed to edit message", "error", err)
	}
}
