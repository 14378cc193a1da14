package testhelpers

import (
	"context"
	"sync"

	"guildbot/domain/entities"
	"guildbot/events"
	"guildbot/storage"

	"github.com/stretchr/testify/mock"
)

// MockNotifier is a mock implementation of Notifier for testing
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) ResolveChannel(ctx context.Context, channelID string) error {
	args := m.Called(ctx, channelID)
	return args.Error(0)
}

func (m *MockNotifier) SendMessage(ctx context.Context, channelID string, msg entities.Message) error {
	args := m.Called(ctx, channelID, msg)
	return args.Error(0)
}

// MockMemberModerator is a mock implementation of MemberModerator for testing
type MockMemberModerator struct {
	mock.Mock
}

func (m *MockMemberModerator) RemoveMuteRole(ctx context.Context, guildID, userID string) error {
	args := m.Called(ctx, guildID, userID)
	return args.Error(0)
}

// MockEventPublisher is a mock implementation of EventPublisher for testing
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) error {
	args := m.Called(event)
	return args.Error(0)
}

// MemoryStore is an in-memory storage.Store for tests
type MemoryStore struct {
	mu   sync.Mutex
	docs map[string][]byte
}

// NewMemoryStore creates an empty MemoryStore
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string][]byte)}
}

func (s *MemoryStore) Load(ctx context.Context, name string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.docs[name]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return append([]byte(nil), data...), nil
}

func (s *MemoryStore) Save(ctx context.Context, name string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[name] = append([]byte(nil), data...)
	return nil
}

// Saved returns the last body saved under name
func (s *MemoryStore) Saved(name string) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.docs[name]
}
