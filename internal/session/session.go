package session

import "sync"

// State is the pending interaction for one conversation, e.g. which input
// the bot is waiting for after an /analyze command.
type State struct {
	Awaiting string
	Command  string
	Payload  string
}

// Store holds per-conversation state in memory, keyed by the conversation
// identity. Last writer wins; nothing survives a restart.
type Store struct {
	mu     sync.RWMutex
	states map[string]State
}

func NewStore() *Store {
	return &Store{
		states: make(map[string]State),
	}
}

func (s *Store) Get(key string) (State, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, ok := s.states[key]
	return state, ok
}

func (s *Store) Set(key string, state State) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.states[key] = state
}

func (s *Store) Clear(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.states, key)
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.states)
}
