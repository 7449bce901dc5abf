package onboarding

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreSaveAndGet(t *testing.T) {
	store := NewMemoryStore()
	store.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	ctx := context.Background()

	saved, err := store.Save(ctx, Profile{UserID: " u1 ", Name: "민지", GuardianEmail: " mom@example.com "})
	require.NoError(t, err)
	assert.Equal(t, "u1", saved.UserID)
	assert.Equal(t, DefaultGuardianPhone, saved.GuardianPhone)
	assert.Equal(t, "mom@example.com", saved.GuardianEmail)
	assert.Equal(t, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC), saved.UpdatedAt)

	got, err := store.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, saved, got)

	_, err = store.Save(ctx, Profile{UserID: "u1", Name: "민지", GuardianPhone: "010-1234-5678"})
	require.NoError(t, err)
	got, err = store.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "010-1234-5678", got.GuardianPhone)
	assert.Empty(t, got.GuardianEmail)
}

func TestMemoryStoreErrors(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_, err := store.Save(ctx, Profile{Name: "x"})
	assert.ErrorIs(t, err, ErrUserIDRequired)
	_, err = store.Save(ctx, Profile{UserID: "u1"})
	assert.ErrorIs(t, err, ErrNameRequired)
	_, err = store.Get(ctx, "")
	assert.ErrorIs(t, err, ErrUserIDRequired)
	_, err = store.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGuardianContactDefaults(t *testing.T) {
	name, phone := Profile{}.GuardianContact()
	assert.Equal(t, DefaultGuardianName, name)
	assert.Equal(t, DefaultGuardianPhone, phone)

	name, phone = Profile{GuardianName: "엄마", GuardianPhone: "010"}.GuardianContact()
	assert.Equal(t, "엄마", name)
	assert.Equal(t, "010", phone)
}
