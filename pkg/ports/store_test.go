package ports_test

import (
	"context"
	"sync"
	"testing"

	"github.com/posterman/orderbot/pkg/domain"
	"github.com/posterman/orderbot/pkg/ports"
)

// MockStore is an in-memory implementation of ConversationStore for testing purposes.
type MockStore struct {
	mu   sync.Mutex
	data map[string]*domain.Conversation
}

func NewMockStore() *MockStore {
	return &MockStore{
		data: make(map[string]*domain.Conversation),
	}
}

func (m *MockStore) Save(ctx context.Context, sessionID string, conv *domain.Conversation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[sessionID] = conv.Snapshot()
	return nil
}

func (m *MockStore) Load(ctx context.Context, sessionID string) (*domain.Conversation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	conv, ok := m.data[sessionID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return conv.Snapshot(), nil
}

func (m *MockStore) Delete(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, sessionID)
	return nil
}

func (m *MockStore) List(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.data))
	for id := range m.data {
		ids = append(ids, id)
	}
	return ids, nil
}

func TestConversationStore_Contract(t *testing.T) {
	ports.RunConversationStoreContract(t, NewMockStore())
}
