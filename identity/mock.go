package identity

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MockResolver is the test/development variant of Resolver. It checks
// credentials against a fixed allowlist and mints a fresh uuid token per
// resolve, so every login yields a distinct session key just like the
// real provider.
type MockResolver struct {
	mu    sync.RWMutex
	users map[string]string
}

// NewMock creates a MockResolver from an email → password allowlist.
func NewMock(users map[string]string) *MockResolver {
	copied := make(map[string]string, len(users))
	for email, password := range users {
		copied[email] = password
	}
	return &MockResolver{users: copied}
}

// PutUser adds or replaces one allowlisted credential pair.
func (m *MockResolver) PutUser(email, password string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[email] = password
}

// Resolve implements Resolver.
func (m *MockResolver) Resolve(_ context.Context, email, password string) (Token, error) {
	m.mu.RLock()
	want, ok := m.users[email]
	m.mu.RUnlock()

	if !ok || want != password {
		return Token{}, ErrInvalidCredentials
	}

	return Token{
		Value:   uuid.NewString(),
		Subject: email,
	}, nil
}
