package application_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/adspanel/internal/application"
)

func TestCredentialCache_LoadAndGet(t *testing.T) {
	store := &mockCredentialStore{creds: validCreds(), found: true}
	cache := application.NewCredentialCache(store)

	assert.False(t, cache.IsPresent(), "empty until loaded")

	require.NoError(t, cache.Load(context.Background()))
	got, ok := cache.Get()
	require.True(t, ok)
	assert.Equal(t, validCreds(), got)
}

func TestCredentialCache_LoadNothingStored(t *testing.T) {
	cache := application.NewCredentialCache(&mockCredentialStore{})

	require.NoError(t, cache.Load(context.Background()))
	assert.False(t, cache.IsPresent())
}

func TestCredentialCache_LoadError(t *testing.T) {
	cache := application.NewCredentialCache(&mockCredentialStore{loadErr: errors.New("disk")})

	err := cache.Load(context.Background())
	require.Error(t, err)
	assert.False(t, cache.IsPresent())
}

func TestCredentialCache_SetOverwrites(t *testing.T) {
	store := &mockCredentialStore{}
	cache := application.NewCredentialCache(store)

	require.NoError(t, cache.Set(context.Background(), validCreds()))
	second := validCreds()
	second.CustomerID = "999"
	require.NoError(t, cache.Set(context.Background(), second))

	got, _ := cache.Get()
	assert.Equal(t, "999", got.CustomerID)
	stored, found := store.stored()
	assert.True(t, found)
	assert.Equal(t, "999", stored.CustomerID)
}

func TestCredentialCache_SetFailureKeepsPrevious(t *testing.T) {
	store := &mockCredentialStore{saveErr: errors.New("readonly")}
	cache := application.NewCredentialCache(store)

	err := cache.Set(context.Background(), validCreds())
	require.Error(t, err)
	assert.False(t, cache.IsPresent())
}

func TestCredentialCache_Clear(t *testing.T) {
	store := &mockCredentialStore{creds: validCreds(), found: true}
	cache := application.NewCredentialCache(store)
	require.NoError(t, cache.Load(context.Background()))

	require.NoError(t, cache.Clear(context.Background()))
	assert.False(t, cache.IsPresent())
	_, found := store.stored()
	assert.False(t, found)
}

func TestCredentialCache_ClearForgetsMemoryEvenWhenDeleteFails(t *testing.T) {
	store := &mockCredentialStore{creds: validCreds(), found: true, deleteErr: errors.New("locked")}
	cache := application.NewCredentialCache(store)
	require.NoError(t, cache.Load(context.Background()))

	err := cache.Clear(context.Background())
	require.Error(t, err)
	assert.False(t, cache.IsPresent())
}
