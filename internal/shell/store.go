package shell

import "sync"

// Store persists small string preferences per browser.
type Store interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
}

// MapStore is an in-memory Store, used by the terminal client.
type MapStore struct {
	mu sync.Mutex
	m  map[string]string
}

func NewMapStore() *MapStore { return &MapStore{m: map[string]string{}} }

func (s *MapStore) Get(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.m[key]
	return v, ok, nil
}

func (s *MapStore) Set(key, value string) error {
	s.mu.Lock()
	s.m[key] = value
	s.mu.Unlock()
	return nil
}

func (s *MapStore) Delete(key string) error {
	s.mu.Lock()
	delete(s.m, key)
	s.mu.Unlock()
	return nil
}
