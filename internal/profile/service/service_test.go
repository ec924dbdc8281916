package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"confhub/internal/profile"
	dErrors "confhub/pkg/domain-errors"
)

func TestGetOrCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("creates lazily on first access", func(t *testing.T) {
		svc := NewService(profile.NewInMemoryStore())

		p, err := svc.GetOrCreate(ctx, "user-1", "ada.lovelace@example.com")
		require.NoError(t, err)
		assert.Equal(t, "user-1", p.UserID)
		assert.Equal(t, "Ada Lovelace", p.DisplayName)
		assert.Equal(t, profile.SizeNotSpecified, p.TeeShirtSize)
		assert.Empty(t, p.ConferenceIDs)
	})

	t.Run("returns existing profile unchanged", func(t *testing.T) {
		store := profile.NewInMemoryStore()
		svc := NewService(store)

		first, err := svc.GetOrCreate(ctx, "user-1", "ada@example.com")
		require.NoError(t, err)
		first.DisplayName = "Countess"
		require.NoError(t, store.Put(ctx, first))

		again, err := svc.GetOrCreate(ctx, "user-1", "other@example.com")
		require.NoError(t, err)
		assert.Equal(t, "Countess", again.DisplayName)
		assert.Equal(t, "ada@example.com", again.MainEmail)
	})

	t.Run("missing identity is unauthorized", func(t *testing.T) {
		svc := NewService(profile.NewInMemoryStore())
		_, err := svc.GetOrCreate(ctx, "", "x@example.com")
		assert.True(t, dErrors.Is(err, dErrors.CodeUnauthorized))
	})
}

func TestSave(t *testing.T) {
	ctx := context.Background()

	t.Run("updates display name and size", func(t *testing.T) {
		svc := NewService(profile.NewInMemoryStore())

		p, err := svc.Save(ctx, "user-1", "ada@example.com", SaveInput{
			DisplayName:  "Ada L.",
			TeeShirtSize: "M",
		})
		require.NoError(t, err)
		assert.Equal(t, "Ada L.", p.DisplayName)
		assert.Equal(t, profile.SizeM, p.TeeShirtSize)
	})

	t.Run("empty fields leave profile unchanged", func(t *testing.T) {
		svc := NewService(profile.NewInMemoryStore())
		created, err := svc.GetOrCreate(ctx, "user-1", "grace@example.com")
		require.NoError(t, err)

		p, err := svc.Save(ctx, "user-1", "grace@example.com", SaveInput{})
		require.NoError(t, err)
		assert.Equal(t, created.DisplayName, p.DisplayName)
		assert.Equal(t, created.TeeShirtSize, p.TeeShirtSize)
	})

	t.Run("invalid size is rejected", func(t *testing.T) {
		svc := NewService(profile.NewInMemoryStore())
		_, err := svc.Save(ctx, "user-1", "g@example.com", SaveInput{TeeShirtSize: "HUGE"})
		assert.True(t, dErrors.Is(err, dErrors.CodeBadRequest))
	})
}
