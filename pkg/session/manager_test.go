package session_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/posterman/orderbot/pkg/adapters/memory"
	"github.com/posterman/orderbot/pkg/domain"
	"github.com/posterman/orderbot/pkg/ports"
	"github.com/posterman/orderbot/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// SlowStore simulates latency to provoke race conditions if locking is missing.
type SlowStore struct {
	mu    sync.Mutex
	data  map[string]*domain.Conversation
	saves int
}

func (s *SlowStore) Save(ctx context.Context, sessionID string, conv *domain.Conversation) error {
	time.Sleep(5 * time.Millisecond) // Simulate IO
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.data == nil {
		s.data = make(map[string]*domain.Conversation)
	}
	s.data[sessionID] = conv.Snapshot()
	s.saves++
	return nil
}

func (s *SlowStore) Load(ctx context.Context, sessionID string) (*domain.Conversation, error) {
	time.Sleep(5 * time.Millisecond) // Simulate IO
	s.mu.Lock()
	defer s.mu.Unlock()

	if conv, ok := s.data[sessionID]; ok {
		return conv.Snapshot(), nil
	}
	return nil, domain.ErrSessionNotFound
}

func (s *SlowStore) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, sessionID)
	return nil
}

func (s *SlowStore) List(ctx context.Context) ([]string, error) {
	return nil, nil
}

func TestManager_UpdateIsSerialized(t *testing.T) {
	store := &SlowStore{}
	manager := session.NewManager(store)
	ctx := context.Background()
	id := "race-test"

	var wg sync.WaitGroup
	writers := 10
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := manager.Update(ctx, id, func(ctx context.Context, conv *domain.Conversation) (bool, error) {
				conv.FallbackStreak++
				return true, nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	conv, err := manager.Load(ctx, id)
	require.NoError(t, err)
	// Without serialization the read-modify-write cycles would lose increments.
	assert.Equal(t, writers, conv.FallbackStreak)
}

func TestManager_LoadOrStart(t *testing.T) {
	store := &SlowStore{}
	manager := session.NewManager(store)
	ctx := context.Background()
	id := "atomic-init"

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			conv, err := manager.LoadOrStart(ctx, id)
			assert.NoError(t, err)
			assert.NotNil(t, conv)
		}()
	}
	wg.Wait()

	conv, err := manager.Load(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.StateIdle, conv.State)
	assert.Equal(t, id, conv.SessionID)
	assert.Equal(t, 1, store.saves, "only the first caller should create the session")
}

func TestManager_UpdateWithoutChange(t *testing.T) {
	store := &SlowStore{}
	manager := session.NewManager(store)

	err := manager.Update(context.Background(), "quiet", func(ctx context.Context, conv *domain.Conversation) (bool, error) {
		assert.Equal(t, domain.StateIdle, conv.State)
		return false, nil
	})
	require.NoError(t, err)
	assert.Zero(t, store.saves)

	_, err = manager.Load(context.Background(), "quiet")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestManager_UpdatePropagatesErrors(t *testing.T) {
	manager := session.NewManager(memory.NewStore())
	boom := errors.New("boom")

	err := manager.Update(context.Background(), "s1", func(ctx context.Context, conv *domain.Conversation) (bool, error) {
		return true, boom
	})
	assert.ErrorIs(t, err, boom)
}

func TestManager_ResetKeepsDraft(t *testing.T) {
	ctx := context.Background()
	manager := session.NewManager(memory.NewStore())

	conv := domain.NewConversation("s1")
	conv.State = domain.StateAskPhone
	conv.FallbackStreak = 2
	conv.Draft.Name = "Jane Doe"
	require.NoError(t, manager.Save(ctx, "s1", conv))

	require.NoError(t, manager.Reset(ctx, "s1"))

	got, err := manager.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, domain.StateIdle, got.State)
	assert.Zero(t, got.FallbackStreak)
	assert.Equal(t, "Jane Doe", got.Draft.Name)
}

type recordingLocker struct {
	mu       sync.Mutex
	ttls     []time.Duration
	unlocked int
	err      error
}

func (l *recordingLocker) Lock(ctx context.Context, key string, ttl time.Duration) (ports.UnlockFunc, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return nil, l.err
	}
	l.ttls = append(l.ttls, ttl)
	return func(ctx context.Context) error {
		l.mu.Lock()
		defer l.mu.Unlock()
		l.unlocked++
		return nil
	}, nil
}

func TestManager_DistributedLock(t *testing.T) {
	t.Run("Acquires With Configured TTL", func(t *testing.T) {
		locker := &recordingLocker{}
		manager := session.NewManager(memory.NewStore(), session.WithLocker(locker), session.WithLockTTL(5*time.Second))

		_, err := manager.LoadOrStart(context.Background(), "s1")
		require.NoError(t, err)

		assert.Equal(t, []time.Duration{5 * time.Second}, locker.ttls)
		assert.Equal(t, 1, locker.unlocked)
	})

	t.Run("Default TTL", func(t *testing.T) {
		locker := &recordingLocker{}
		manager := session.NewManager(memory.NewStore(), session.WithLocker(locker), session.WithLockTTL(0))

		require.NoError(t, manager.Delete(context.Background(), "s1"))
		assert.Equal(t, []time.Duration{session.DefaultLockTTL}, locker.ttls)
	})

	t.Run("Lock Failure", func(t *testing.T) {
		locker := &recordingLocker{err: errors.New("redis down")}
		manager := session.NewManager(memory.NewStore(), session.WithLocker(locker))

		called := false
		err := manager.WithLock(context.Background(), "s1", func(ctx context.Context) error {
			called = true
			return nil
		})
		assert.Error(t, err)
		assert.False(t, called)
	})
}
