package session

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/feldmaus/wabot/core/gateway"
	"github.com/feldmaus/wabot/internal/workflow"
)

func TestGetReturnsFreshSessionForUnknownChat(t *testing.T) {
	s := NewStore()
	sess := s.Get("41790000000@s.whatsapp.net")
	assert.Equal(t, workflow.StateWelcome, sess.State)
	assert.Equal(t, workflow.Form{}, sess.Form)
	// Reading must not create an entry.
	assert.Zero(t, s.Len())
}

func TestPutAndGetRoundTrip(t *testing.T) {
	s := NewStore()
	chat := gateway.ChatID("chat-a")
	s.Put(chat, Session{
		State: workflow.StateModifyPage,
		Form:  workflow.Form{Intent: workflow.IntentModify, Version: workflow.VersionFR},
	})

	sess := s.Get(chat)
	assert.Equal(t, workflow.StateModifyPage, sess.State)
	assert.Equal(t, workflow.VersionFR, sess.Form.Version)
}

func TestKeyedIsolation(t *testing.T) {
	s := NewStore()
	s.Put("chat-a", Session{State: workflow.StateModifyPage, Form: workflow.Form{Page: "Home"}})
	s.Put("chat-b", Session{State: workflow.StateDeleteConfirm, Form: workflow.Form{DeleteTarget: "x"}})

	a := s.Get("chat-a")
	b := s.Get("chat-b")
	assert.Equal(t, "Home", a.Form.Page)
	assert.Empty(t, a.Form.DeleteTarget)
	assert.Equal(t, "x", b.Form.DeleteTarget)
}

func TestReset(t *testing.T) {
	s := NewStore()
	s.Put("chat-a", Session{State: workflow.StateAddConfirm, Form: workflow.Form{JobTitle: "Engineer"}})
	s.Reset("chat-a")

	sess := s.Get("chat-a")
	assert.Equal(t, workflow.StateWelcome, sess.State)
	assert.Equal(t, workflow.Form{}, sess.Form)
}

func TestSweepRespectsTTL(t *testing.T) {
	s := NewStore()
	now := time.Now()
	s.Put("old", Session{State: workflow.StateWelcome, UpdatedAt: now.Add(-8 * 24 * time.Hour)})
	s.Put("fresh", Session{State: workflow.StateWelcome, UpdatedAt: now.Add(-time.Hour)})

	removed := s.Sweep(now, 7*24*time.Hour)
	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, s.Len())

	// TTL zero means keep forever.
	assert.Zero(t, s.Sweep(now, 0))
	assert.Equal(t, 1, s.Len())
}

func TestConcurrentAccessAcrossChats(t *testing.T) {
	s := NewStore()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			chat := gateway.ChatID(fmt.Sprintf("chat-%d", n))
			s.Put(chat, Session{State: workflow.StateModifyPage, Form: workflow.Form{Page: chat.String()}})
			got := s.Get(chat)
			assert.Equal(t, chat.String(), got.Form.Page)
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 50, s.Len())
}
