package session

import (
	"fmt"
	"strings"
	"sync"

	"sareeapi/models"
	"sareeapi/services"
)

const MaxCredentials = 15

const (
	MsgTooManyCredentials = "Maximum 15 keys allowed."
	MsgEmptyCredential    = "API key cannot be empty."
)

// CredentialStore is the ordered list of provider keys of a session. Only the first key is used.
type CredentialStore struct {
	mu   sync.RWMutex
	keys []string
}

func NewCredentialStore(seed ...string) *CredentialStore {
	s := &CredentialStore{}
	for _, key := range seed {
		if key = strings.TrimSpace(key); key != "" && len(s.keys) < MaxCredentials {
			s.keys = append(s.keys, key)
		}
	}
	return s
}

func (s *CredentialStore) Add(key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return services.NewValidationError(MsgEmptyCredential)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.keys) >= MaxCredentials {
		return services.NewValidationError(MsgTooManyCredentials)
	}
	s.keys = append(s.keys, key)
	return nil
}

func (s *CredentialStore) Remove(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.keys) {
		return fmt.Errorf("%w: %d", ErrCredentialNotFound, index)
	}
	s.keys = append(s.keys[:index:index], s.keys[index+1:]...)
	return nil
}

// Active returns the first key.
func (s *CredentialStore) Active() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.keys) == 0 {
		return "", false
	}
	return s.keys[0], true
}

func (s *CredentialStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.keys)
}

func (s *CredentialStore) List() []models.CredentialOut {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.CredentialOut, 0, len(s.keys))
	for i, key := range s.keys {
		out = append(out, models.CredentialOut{
			Index:  i,
			Masked: services.MaskCredential(key),
			Active: i == 0,
		})
	}
	return out
}
