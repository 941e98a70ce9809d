package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreRoundTrip(t *testing.T) {
	s := New()
	s.Set("report_AAPL", "payload", 300*time.Second)

	v, ok := s.Get("report_AAPL")
	require.True(t, ok)
	assert.Equal(t, "payload", v)
}

func TestStoreExpiry(t *testing.T) {
	s := New()

	current := time.Now()
	s.now = func() time.Time { return current }

	s.Set("report_AAPL", "payload", 300*time.Second)

	current = current.Add(299 * time.Second)
	_, ok := s.Get("report_AAPL")
	assert.True(t, ok, "entry should survive within TTL")

	current = current.Add(2 * time.Second)
	_, ok = s.Get("report_AAPL")
	assert.False(t, ok, "entry should expire after TTL")

	// Expired entry was removed on read.
	_, ok = s.entries["report_AAPL"]
	assert.False(t, ok)
}

func TestStoreDeleteAndClear(t *testing.T) {
	s := New()
	s.Set("a", 1, time.Minute)
	s.Set("b", 2, time.Minute)

	assert.True(t, s.Delete("a"))
	assert.False(t, s.Delete("a"))

	s.Clear()
	_, ok := s.Get("b")
	assert.False(t, ok)
}

func TestCleanExpired(t *testing.T) {
	s := New()
	current := time.Now()
	s.now = func() time.Time { return current }

	s.Set("old", 1, time.Second)
	s.Set("fresh", 2, time.Hour)

	current = current.Add(2 * time.Second)
	assert.Equal(t, 1, s.CleanExpired())

	_, ok := s.Get("fresh")
	assert.True(t, ok)
}
