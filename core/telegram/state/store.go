package state

import "sync"

// Store keeps at most one session of type T per chat. It is safe for concurrent
// use across chats; messages from a single chat are assumed to arrive serially,
// so per-session mutation needs no further locking.
type Store[T any] struct {
	mu       sync.RWMutex
	sessions map[int64]*T
}

// NewStore constructs an empty in-memory session store.
func NewStore[T any]() *Store[T] {
	return &Store[T]{
		sessions: make(map[int64]*T),
	}
}

// Get returns the session for a chat if it exists.
func (s *Store[T]) Get(chatID int64) (*T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[chatID]
	return sess, ok
}

// Put stores the session for a chat, replacing any existing one.
func (s *Store[T]) Put(chatID int64, sess *T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[chatID] = sess
}

// Delete removes the session for a chat.
func (s *Store[T]) Delete(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, chatID)
}

// Has reports whether a session exists for the chat.
func (s *Store[T]) Has(chatID int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.sessions[chatID]
	return ok
}

// Len reports the number of active sessions.
func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
