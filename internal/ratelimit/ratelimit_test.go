package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAllowOpenAI_Budget(t *testing.T) {
	l := New(2, 0)

	assert.True(t, l.AllowOpenAI())
	assert.True(t, l.AllowOpenAI())
	assert.False(t, l.AllowOpenAI())
}

func TestAllowGemini_Unlimited(t *testing.T) {
	l := New(1, 0)
	for i := 0; i < 10; i++ {
		assert.True(t, l.AllowGemini())
	}
}

func TestReset(t *testing.T) {
	l := New(1, 1)
	assert.True(t, l.AllowOpenAI())
	assert.False(t, l.AllowOpenAI())

	l.resetTime = time.Now().Add(-time.Second)
	assert.True(t, l.AllowOpenAI())
}
