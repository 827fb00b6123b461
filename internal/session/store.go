// Package session keeps one conversation record per chat identity in memory.
// Nothing survives a process restart.
package session

import (
	"sync"
	"time"

	"github.com/feldmaus/wabot/core/gateway"
	"github.com/feldmaus/wabot/internal/workflow"
)

// Session is the conversation state for a single chat.
type Session struct {
	State     workflow.State
	Form      workflow.Form
	UpdatedAt time.Time
}

// Store is an in-memory keyed session store. Keyed isolation is the core
// guarantee: interleaved access for different chats never cross-contaminates.
type Store struct {
	mu       sync.RWMutex
	sessions map[gateway.ChatID]Session
}

// NewStore constructs an empty in-memory store.
func NewStore() *Store {
	return &Store{
		sessions: make(map[gateway.ChatID]Session),
	}
}

// Get returns the session for a chat. A chat seen for the first time gets a
// fresh session in the welcome state with an empty form.
func (s *Store) Get(chat gateway.ChatID) Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if sess, ok := s.sessions[chat]; ok {
		return sess
	}
	return Session{State: workflow.StateWelcome}
}

// Put overwrites the session for a chat.
func (s *Store) Put(chat gateway.ChatID, sess Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[chat] = sess
}

// Reset returns the chat to the welcome state with an empty form.
func (s *Store) Reset(chat gateway.ChatID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[chat] = Session{State: workflow.StateWelcome, UpdatedAt: time.Now()}
}

// Len reports the number of stored sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Sweep removes sessions idle longer than ttl and reports how many were
// dropped. A non-positive ttl disables eviction entirely, matching the
// keep-forever behaviour the bot historically had.
func (s *Store) Sweep(now time.Time, ttl time.Duration) int {
	if ttl <= 0 {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for chat, sess := range s.sessions {
		if now.Sub(sess.UpdatedAt) > ttl {
			delete(s.sessions, chat)
			removed++
		}
	}
	return removed
}
