package ports

import (
	"context"
	"testing"
	"time"

	"github.com/posterman/orderbot/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunConversationStoreContract runs a suite of tests to verify that a ConversationStore
// implementation adheres to the defined interface contract.
func RunConversationStoreContract(t *testing.T, store ConversationStore) {
	ctx := context.Background()
	sessionID := "contract-test-session-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		conv := domain.NewConversation(sessionID)
		conv.State = domain.StateAskAddMore
		conv.FallbackStreak = 1
		conv.Draft.Name = "Jane Doe"
		conv.Draft.Cart = []domain.CartItem{{Type: domain.ItemWebsite, ProductName: "Poster A", Qty: "2"}}

		err := store.Save(ctx, sessionID, conv)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, domain.StateAskAddMore, loaded.State)
		assert.Equal(t, 1, loaded.FallbackStreak)
		assert.Equal(t, "Jane Doe", loaded.Draft.Name)
		require.Len(t, loaded.Draft.Cart, 1)
		assert.Equal(t, "Poster A", loaded.Draft.Cart[0].ProductName)
	})

	t.Run("Load Is Isolated From Caller Mutation", func(t *testing.T) {
		conv := domain.NewConversation(sessionID)
		require.NoError(t, store.Save(ctx, sessionID, conv))

		conv.State = domain.StateAskPhone

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, domain.StateIdle, loaded.State)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, sessionID, domain.NewConversation(sessionID))
		require.NoError(t, err)

		err = store.Delete(ctx, sessionID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		_ = store.Save(ctx, id1, domain.NewConversation(id1))
		_ = store.Save(ctx, id2, domain.NewConversation(id2))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		sessions, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, sessions, id1)
		assert.Contains(t, sessions, id2)
	})
}
