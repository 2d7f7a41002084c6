// Package ai produces short sentiment and price-impact analysis for news
// items. Strategies are tried in order: OpenAI, then Gemini, then a keyword
// classifier. The last strategy is total, so analysis never fails outright.
package ai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/generative-ai-go/genai"
	openai "github.com/sashabaranov/go-openai"
	"google.golang.org/api/option"

	"tonnewsbot/internal/ratelimit"
)

const geminiModel = "gemini-1.5-flash"

// Analyzer holds the configured providers. Either client may be nil when its
// credential is absent.
type Analyzer struct {
	openai  *openai.Client
	gemini  *genai.Client
	limiter *ratelimit.Limiter
}

func NewAnalyzer(ctx context.Context, openaiKey, geminiKey string, limiter *ratelimit.Limiter) (*Analyzer, error) {
	a := &Analyzer{limiter: limiter}

	if openaiKey != "" {
		a.openai = openai.NewClient(openaiKey)
	}
	if geminiKey != "" {
		client, err := genai.NewClient(ctx, option.WithAPIKey(geminiKey))
		if err != nil {
			return nil, fmt.Errorf("failed to create Gemini client: %w", err)
		}
		a.gemini = client
	}

	return a, nil
}

func (a *Analyzer) Close() {
	if a.gemini != nil {
		a.gemini.Close()
	}
}

// Analyze returns a 1-2 sentence trend analysis in the given language.
func (a *Analyzer) Analyze(ctx context.Context, title, content, lang string) string {
	langName := "Russian"
	if lang == "en" {
		langName = "English"
	}
	prompt := fmt.Sprintf("Analyze TON news (%s, 2 sentences): %s", langName, title)

	if text, err := a.complete(ctx, prompt, 100); err == nil {
		return text
	} else {
		slog.Debug("AI analysis fell back to classifier", "error", err)
	}

	return FallbackTrend(title, lang)
}

// PriceImpact returns the growth/decline/neutral prediction used by the
// price-impact button.
func (a *Analyzer) PriceImpact(ctx context.Context, title, content, lang string) string {
	langName := "Russian"
	if lang == "en" {
		langName = "English"
	}
	prompt := fmt.Sprintf(`Analyze this TON/crypto news and predict price impact in %s:
Title: %s
Content: %s

Respond with ONLY one of these formats:
📈 **[Growth/Рост]** - Brief explanation (max 15 words)
📉 **[Decline/Спад]** - Brief explanation (max 15 words)
↔️ **[Neutral/Нейтральное]** - Brief explanation (max 15 words)`, langName, title, content)

	if text, err := a.complete(ctx, prompt, 80); err == nil {
		return text
	} else {
		slog.Debug("price impact fell back to classifier", "error", err)
	}

	return FallbackImpact(title, lang)
}

// complete runs the provider chain and returns the first answer.
func (a *Analyzer) complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	var lastErr = fmt.Errorf("no AI provider configured")

	if a.openai != nil && a.limiter.AllowOpenAI() {
		text, err := a.completeOpenAI(ctx, prompt, maxTokens)
		if err == nil && text != "" {
			return text, nil
		}
		lastErr = err
		slog.Warn("openai completion failed", "error", err)
	}

	if a.gemini != nil && a.limiter.AllowGemini() {
		text, err := a.completeGemini(ctx, prompt)
		if err == nil && text != "" {
			return text, nil
		}
		lastErr = err
		slog.Warn("gemini completion failed", "error", err)
	}

	return "", lastErr
}

func (a *Analyzer) completeOpenAI(ctx context.Context, prompt string, maxTokens int) (string, error) {
	resp, err := a.openai.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: openai.GPT3Dot5Turbo,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   maxTokens,
		Temperature: 0.7,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from OpenAI")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func (a *Analyzer) completeGemini(ctx context.Context, prompt string) (string, error) {
	model := a.gemini.GenerativeModel(geminiModel)
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no response from Gemini")
	}
	return strings.TrimSpace(fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0])), nil
}

// FallbackTrend classifies the headline by keywords when no AI provider is
// available: down/fall is negative, up/rise is positive, anything else is
// neutral.
func FallbackTrend(title, lang string) string {
	lower := strings.ToLower(title)
	switch {
	case strings.Contains(lower, "down") || strings.Contains(lower, "fall"):
		if lang == "en" {
			return "📉 Trend: Negative"
		}
		return "📉 Тренд: Отрицательный"
	case strings.Contains(lower, "up") || strings.Contains(lower, "rise"):
		if lang == "en" {
			return "📈 Trend: Positive"
		}
		return "📈 Тренд: Положительный"
	default:
		if lang == "en" {
			return "📊 Trend: Neutral"
		}
		return "📊 Тренд: Нейтральный"
	}
}

// FallbackImpact is the keyword version of the price-impact prediction.
func FallbackImpact(title, lang string) string {
	lower := strings.ToLower(title)
	switch {
	case strings.Contains(lower, "down") || strings.Contains(lower, "negative"):
		if lang == "en" {
			return "📉 **Likely Decline** - This news may cause TON price to fall"
		}
		return "📉 **Вероятный спад** - Эта новость может привести к падению цены TON"
	case strings.Contains(lower, "up") || strings.Contains(lower, "positive"):
		if lang == "en" {
			return "📈 **Likely Growth** - This news may cause TON price to rise"
		}
		return "📈 **Вероятный рост** - Эта новость может привести к росту цены TON"
	default:
		if lang == "en" {
			return "↔️ **Neutral Impact** - Minimal effect on TON price"
		}
		return "↔️ **Нейтральное влияние** - Минимальное влияние на цену TON"
	}
}
