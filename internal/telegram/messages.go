package telegram

import (
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"tonnewsbot/internal/news"
	"tonnewsbot/internal/price"
)

// Message texts come in exactly two languages; "ru" is the default and the
// feed's native language.

func formatNewsMessage(item news.Item, analysis, lang string, sentAt time.Time) string {
	if lang == "en" {
		msg := fmt.Sprintf(`📰 <b>TON NEWS</b>

<b>%s</b>

%s

<b>Analysis:</b>
%s

🔗 <a href='%s'>Read full article</a>`, item.Title, item.Content, analysis, item.Link)
		if !sentAt.IsZero() {
			msg += fmt.Sprintf("\n\n⏰ %s", sentAt.Format("02.01 15:04"))
		}
		return msg
	}

	msg := fmt.Sprintf(`📰 <b>НОВОСТЬ О TON</b>

<b>%s</b>

%s

<b>📊 АНАЛИЗ:</b>
%s

🔗 <a href='%s'>Читать полностью</a>`, item.Title, item.Content, analysis, item.Link)
	if !sentAt.IsZero() {
		msg += fmt.Sprintf("\n\n⏰ %s", sentAt.Format("02.01 15:04"))
	}
	return msg
}

func formatPriceMessage(info price.Info, lang string) string {
	if lang == "en" {
		return fmt.Sprintf(`💰 <b>TON PRICE (Binance)</b>

💵 <b>USD:</b> $%.4f
₽ <b>RUB:</b> %.2f₽

%s <b>24h:</b> %.2f%%`, info.USD, info.RUB, info.Emoji(), info.Change24h)
	}

	return fmt.Sprintf(`💰 <b>КУРС TON (Binance)</b>

💵 <b>USD:</b> $%.4f
₽ <b>RUB:</b> %.2f₽

%s <b>24ч:</b> %.2f%%`, info.USD, info.RUB, info.Emoji(), info.Change24h)
}

func formatImpactMessage(impact, lang string) string {
	if lang == "en" {
		return fmt.Sprintf(`💹 <b>TON PRICE IMPACT ANALYSIS</b>

📈 <b>News Impact:</b>
%s

<b>How this affects TON:</b>
This analysis predicts the potential short-term price movement based on the news sentiment and market relevance.`, impact)
	}

	return fmt.Sprintf(`💹 <b>АНАЛИЗ ВЛИЯНИЯ НА ЦЕНУ TON</b>

📈 <b>Влияние новости:</b>
%s

<b>Как это влияет на TON:</b>
Этот анализ предсказывает возможное краткосрочное движение цены на основе тональности новости и её значимости для рынка.`, impact)
}

func menuText(lang string) string {
	if lang == "en" {
		return `🚀 <b>TON NEWS BOT</b>

All news in English now!

<b>What I do:</b>
📰 Monitor TON news
💰 Show real-time price
📊 Analyze market impact
🔔 No duplicates!`
	}

	return `🚀 <b>TON NEWS BOT</b>

Все новости теперь на русском!

<b>Что я делаю:</b>
📰 Мониторю новости о TON
💰 Показываю курс в реальном времени
📊 Анализирую влияние на цену
🔔 Без дубликатов!`
}

func helpText(lang string) string {
	if lang == "en" {
		return `❓ <b>HELP</b>

/start - Menu
/lastnews - Latest news
/ton - TON price`
	}

	return `❓ <b>СПРАВКА</b>

/start - Меню
/lastnews - Последняя новость
/ton - Курс TON`
}

func noNewsText(lang string) string {
	if lang == "en" {
		return "😴 <b>No news yet</b>\n\nBot monitors 24/7!"
	}
	return "😴 <b>Новостей пока нет</b>\n\nБот мониторит 24/7!"
}

func priceErrorText(lang string) string {
	if lang == "en" {
		return "❌ Price error"
	}
	return "❌ Ошибка получения цены"
}

func startText() string {
	return `🚀 <b>TON NEWS BOT</b>

Выберите язык / Choose language:`
}

func languageKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🇷🇺 Русский", "set_lang_ru"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🇬🇧 English", "set_lang_en"),
		),
	)
}

func menuKeyboard(lang string) tgbotapi.InlineKeyboardMarkup {
	if lang == "en" {
		return tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("📰 Latest news", "lastnews")),
			tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("💰 TON Price", "price")),
			tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("❓ Help", "help")),
		)
	}
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("📰 Последняя новость", "lastnews")),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("💰 Курс TON", "price")),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("❓ Помощь", "help")),
	)
}

func newsKeyboard(lang string) tgbotapi.InlineKeyboardMarkup {
	impactLabel := "📊 Анализ цены"
	if lang == "en" {
		impactLabel = "📊 Price Analysis"
	}
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(impactLabel, "price_impact"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🇬🇧 English", "lang_en"),
			tgbotapi.NewInlineKeyboardButtonData("🇷🇺 Русский", "lang_ru"),
		),
	)
}

func langSwitchKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🇬🇧 English", "lang_en"),
			tgbotapi.NewInlineKeyboardButtonData("🇷🇺 Русский", "lang_ru"),
		),
	)
}

func priceKeyboard(lang string) tgbotapi.InlineKeyboardMarkup {
	refreshLabel, newsLabel := "🔄 Обновить", "📰 Новости"
	if lang == "en" {
		refreshLabel, newsLabel = "🔄 Update", "📰 News"
	}
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(refreshLabel, "price_refresh")),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(newsLabel, "lastnews")),
	)
}
