// Package state tracks short-lived conversation context for the chat
// assistant, keyed by user and chat. Context expires on its own so stale
// sessions never leak into new conversations.
package state

import (
	"sync"
	"time"
)

const contextTTL = 24 * time.Hour

// Manager stores and retrieves rolling conversation context.
type Manager interface {
	SetContext(userID, chatID uint, context string)
	GetContext(userID, chatID uint) (string, bool)
	ClearContext(userID, chatID uint)
	Close() error
}

type entry struct {
	value     string
	expiresAt time.Time
}

// MemoryManager is the in-process fallback used when Redis is not
// configured. Entries expire lazily on read.
type MemoryManager struct {
	entries map[[2]uint]entry
	mu      sync.RWMutex
}

func NewMemoryManager() *MemoryManager {
	return &MemoryManager{entries: make(map[[2]uint]entry)}
}

func (m *MemoryManager) SetContext(userID, chatID uint, context string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[[2]uint{userID, chatID}] = entry{
		value:     context,
		expiresAt: time.Now().Add(contextTTL),
	}
}

func (m *MemoryManager) GetContext(userID, chatID uint) (string, bool) {
	m.mu.RLock()
	e, ok := m.entries[[2]uint{userID, chatID}]
	m.mu.RUnlock()
	if !ok {
		return "", false
	}
	if time.Now().After(e.expiresAt) {
		m.ClearContext(userID, chatID)
		return "", false
	}
	return e.value, true
}

func (m *MemoryManager) ClearContext(userID, chatID uint) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, [2]uint{userID, chatID})
}

func (m *MemoryManager) Close() error {
	return nil
}
