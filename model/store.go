package model

import (
	"errors"
	"strings"
	"sync"
	"time"
)

var ErrEmptyContent = errors.New("message content is empty")

// Store is the append-only message log of one chat session plus its busy
// flag. Version increases on every append so views can tell when to scroll.
type Store struct {
	mu       sync.RWMutex
	messages []Message
	busy     bool
	version  uint64
	now      func() time.Time
}

func NewStore() *Store {
	return &Store{now: time.Now}
}

// Append adds a turn at the end of the log. CreatedAt never goes backwards:
// if the clock reads earlier than the last turn, the last timestamp is reused.
func (s *Store) Append(kind Kind, content string) (Message, error) {
	if kind != KindSystem && strings.TrimSpace(content) == "" {
		return Message{}, ErrEmptyContent
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	created := s.now()
	if n := len(s.messages); n > 0 && created.Before(s.messages[n-1].CreatedAt) {
		created = s.messages[n-1].CreatedAt
	}

	msg := Message{Kind: kind, Content: content, CreatedAt: created}
	s.messages = append(s.messages, msg)
	s.version++
	return msg, nil
}

// Messages returns a copy of the log.
func (s *Store) Messages() []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.messages)
}

func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

func (s *Store) IsBusy() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.busy
}

func (s *Store) SetBusy(busy bool) {
	s.mu.Lock()
	s.busy = busy
	s.mu.Unlock()
}

// tryAcquire sets busy if it was clear and reports whether it did.
func (s *Store) tryAcquire() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return false
	}
	s.busy = true
	return true
}
