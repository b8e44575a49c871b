package http

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClientLimiter_prune(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l := NewClientLimiter(10, time.Minute)
	l.now = func() time.Time { return now }

	for i := 0; i <= cleanupThreshold; i++ {
		l.Allow(fmt.Sprintf("10.0.0.%d", i))
	}
	assert.Equal(t, cleanupThreshold+1, l.Len())

	now = now.Add(2 * time.Minute)
	l.Allow("fresh")

	assert.Equal(t, 1, l.Len())
}

func TestClientLimiter_refill(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l := NewClientLimiter(10, time.Minute)
	l.now = func() time.Time { return now }

	for i := 0; i < 10; i++ {
		l.Allow("client")
	}
	assert.False(t, l.Allow("client"))

	now = now.Add(7 * time.Second)
	assert.True(t, l.Allow("client"))
	assert.False(t, l.Allow("client"))
}
