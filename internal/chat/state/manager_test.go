package state

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMemoryManagerRoundTrip(t *testing.T) {
	m := NewMemoryManager()

	_, ok := m.GetContext(1, 1)
	assert.False(t, ok)

	m.SetContext(1, 1, "user: hi\nassistant: hello")
	got, ok := m.GetContext(1, 1)
	assert.True(t, ok)
	assert.Equal(t, "user: hi\nassistant: hello", got)

	// A different chat of the same user is a separate session.
	_, ok = m.GetContext(1, 2)
	assert.False(t, ok)

	m.ClearContext(1, 1)
	_, ok = m.GetContext(1, 1)
	assert.False(t, ok)
}

func TestMemoryManagerExpiry(t *testing.T) {
	m := NewMemoryManager()
	m.entries[[2]uint{1, 1}] = entry{value: "stale", expiresAt: time.Now().Add(-time.Minute)}

	_, ok := m.GetContext(1, 1)
	assert.False(t, ok)
}
