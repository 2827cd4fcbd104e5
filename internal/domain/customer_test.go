package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsSubscriber(t *testing.T) {
	regular := Customer{ID: "cust-1", Discount: 0}
	subscriber := Customer{ID: "cust-2", Discount: 10}

	assert.False(t, regular.IsSubscriber())
	assert.True(t, subscriber.IsSubscriber())
}

func TestTouchSessionExtendsWindow(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c := Customer{ID: "cust-1"}

	c.TouchSession(now)

	assert.Equal(t, now, c.LastLoginAt)
	assert.Equal(t, now.Add(SessionDuration), c.SessionExpiresAt)
}

func TestValidScore(t *testing.T) {
	assert.False(t, ValidScore(0))
	assert.True(t, ValidScore(1))
	assert.True(t, ValidScore(5))
	assert.False(t, ValidScore(6))
	assert.False(t, ValidScore(-3))
}
