// Package ratelimit caps daily AI provider usage so a noisy news day cannot
// burn through the completion quota.
package ratelimit

import (
	"log/slog"
	"sync"
	"time"
)

type Limiter struct {
	mu          sync.Mutex
	openaiCount int
	geminiCount int
	maxOpenAI   int
	maxGemini   int
	resetTime   time.Time
}

// New creates a limiter; a zero limit means unlimited for that provider.
func New(maxOpenAI, maxGemini int) *Limiter {
	return &Limiter{
		maxOpenAI: maxOpenAI,
		maxGemini: maxGemini,
		resetTime: time.Now().Add(24 * time.Hour),
	}
}

// AllowOpenAI reserves one OpenAI request if the daily budget permits.
func (l *Limiter) AllowOpenAI() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.checkReset()
	if l.maxOpenAI > 0 && l.openaiCount >= l.maxOpenAI {
		slog.Warn("openai daily limit reached", "used", l.openaiCount, "limit", l.maxOpenAI)
		return false
	}
	l.openaiCount++
	return true
}

// AllowGemini reserves one Gemini request if the daily budget permits.
func (l *Limiter) AllowGemini() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.checkReset()
	if l.maxGemini > 0 && l.geminiCount >= l.maxGemini {
		slog.Warn("gemini daily limit reached", "used", l.geminiCount, "limit", l.maxGemini)
		return false
	}
	l.geminiCount++
	return true
}

func (l *Limiter) checkReset() {
	if time.Now().After(l.resetTime) {
		l.openaiCount = 0
		l.geminiCount = 0
		l.resetTime = time.Now().Add(24 * time.Hour)
	}
}
