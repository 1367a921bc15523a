// Package authstore holds the signed-in user for a client process.
package authstore

import (
	"sync"

	"learnflow-be/internal/dto"
)

type State struct {
	User        *dto.UserDTO
	Loading     bool
	Error       string
	Initialized bool
}

func (s State) SignedIn() bool { return s.User != nil }

// Store is an observable State. Create one per process and share the
// pointer; subscribers are called synchronously after every change.
type Store struct {
	mu     sync.Mutex
	state  State
	nextID int
	subs   map[int]func(State)
}

func New() *Store {
	return &Store{subs: make(map[int]func(State))}
}

func (s *Store) Get() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Set records the session outcome. A nil user means signed out.
func (s *Store) Set(user *dto.UserDTO) {
	s.update(func(st *State) {
		st.User = user
		st.Loading = false
		st.Initialized = true
	})
}

func (s *Store) SetLoading(loading bool) {
	s.update(func(st *State) {
		st.Loading = loading
		if loading {
			st.Error = ""
		}
	})
}

func (s *Store) SetError(msg string) {
	s.update(func(st *State) {
		st.Error = msg
		st.Loading = false
	})
}

// Subscribe calls fn with the current state and on every change until
// the returned function is called.
func (s *Store) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	current := s.state
	s.mu.Unlock()

	fn(current)

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Store) update(mutate func(*State)) {
	s.mu.Lock()
	mutate(&s.state)
	next := s.state
	subs := make([]func(State), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(next)
	}
}
