package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEvaluateWindow(t *testing.T) {
	now := time.Now()

	t.Run("under limit", func(t *testing.T) {
		result := evaluateWindow(3, 10, now.Add(-time.Second), now, time.Minute)
		assert.True(t, result.Allowed)
		assert.Equal(t, 7, result.Remaining)
		assert.Zero(t, result.RetryAfter)
	})

	t.Run("at limit", func(t *testing.T) {
		result := evaluateWindow(10, 10, now, now, time.Minute)
		assert.True(t, result.Allowed)
		assert.Zero(t, result.Remaining)
	})

	t.Run("over limit", func(t *testing.T) {
		result := evaluateWindow(11, 10, now.Add(-40*time.Second), now, time.Minute)
		assert.False(t, result.Allowed)
		assert.Zero(t, result.Remaining)
		assert.Equal(t, 20*time.Second, result.RetryAfter)
	})

	t.Run("over limit without oldest entry", func(t *testing.T) {
		result := evaluateWindow(11, 10, time.Time{}, now, time.Minute)
		assert.False(t, result.Allowed)
		assert.Equal(t, time.Second, result.RetryAfter)
	})
}
