package credstore

import (
	"encoding/json"
	"fmt"
	"sync"
)

// MemoryStore keeps OAuth configs and credentials in memory.
// Used in tests and by embedders that supply their own persistence.
type MemoryStore struct {
	mu      sync.RWMutex
	configs map[string]*OAuthConfig
	creds   map[string][]byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		configs: make(map[string]*OAuthConfig),
		creds:   make(map[string][]byte),
	}
}

// SetOAuthConfig registers the client configuration for a service.
func (s *MemoryStore) SetOAuthConfig(service string, cfg *OAuthConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.configs[service] = cfg
}

// GetOAuthConfig returns the registered configuration for a service.
func (s *MemoryStore) GetOAuthConfig(service string) (*OAuthConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cfg, ok := s.configs[service]
	if !ok {
		return nil, fmt.Errorf("OAuth config for %s: %w", service, ErrNotFound)
	}
	cp := *cfg
	return &cp, nil
}

// GetCredentials returns the stored record for (service, user).
func (s *MemoryStore) GetCredentials(service, user string) (*Credentials, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.creds[service+"/"+user]
	if !ok {
		return nil, ErrNotFound
	}
	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, err
	}
	return &creds, nil
}

// SaveCredentials stores a deep copy of the record via its JSON form,
// matching the serialization round trip of the file-backed store.
func (s *MemoryStore) SaveCredentials(service, user string, creds *Credentials) error {
	data, err := json.Marshal(creds)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds[service+"/"+user] = data
	return nil
}
