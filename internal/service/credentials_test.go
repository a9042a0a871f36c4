package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wifimon/internal/domain"
	"wifimon/internal/logger"
)

type fakeStore struct {
	secrets map[domain.NetworkID]string
	err     error
	lookups int
}

func (s *fakeStore) Lookup(_ context.Context, id domain.NetworkID) (domain.Secret, error) {
	s.lookups++
	if s.err != nil {
		return domain.Secret{}, s.err
	}
	v, ok := s.secrets[id]
	if !ok {
		return domain.Secret{}, &domain.NotFoundError{Kind: domain.NotFoundCredential, ID: id}
	}
	return domain.NewSecret(id, v), nil
}

type accessEntry struct {
	id          domain.NetworkID
	fingerprint string
	found       bool
}

type fakeRecorder struct {
	entries []accessEntry
}

func (r *fakeRecorder) RecordCredentialAccess(_ context.Context, id domain.NetworkID, fingerprint string, found bool) error {
	r.entries = append(r.entries, accessEntry{id, fingerprint, found})
	return nil
}

func TestGetCredential(t *testing.T) {
	store := &fakeStore{secrets: map[domain.NetworkID]string{"NetA": "hunter22"}}
	rec := &fakeRecorder{}
	bus := NewEventBus()
	events := make(chan Event, 4)
	bus.Subscribe(events)

	svc := NewCredentialService(store, rec, bus, logger.NewTestLogger())

	secret, err := svc.GetCredential(context.Background(), "  NetA ")
	require.NoError(t, err)
	assert.Equal(t, "hunter22", secret.Reveal())

	// repeated access is looked up again
	_, err = svc.GetCredential(context.Background(), "NetA")
	require.NoError(t, err)
	assert.Equal(t, 2, store.lookups)

	require.Len(t, rec.entries, 2)
	assert.Equal(t, domain.NetworkID("NetA"), rec.entries[0].id)
	assert.True(t, rec.entries[0].found)
	assert.Equal(t, secret.Fingerprint(), rec.entries[0].fingerprint)
	assert.NotContains(t, rec.entries[0].fingerprint, "hunter22")

	ev := <-events
	assert.Equal(t, EventCredentialAccessed, ev.Type)
	access, ok := ev.Payload.(CredentialAccess)
	require.True(t, ok)
	assert.True(t, access.Found)
}

func TestGetCredentialNotFound(t *testing.T) {
	rec := &fakeRecorder{}
	svc := NewCredentialService(&fakeStore{}, rec, nil, logger.NewTestLogger())

	secret, err := svc.GetCredential(context.Background(), "NetC")
	require.Error(t, err)
	assert.True(t, domain.IsNotFound(err))
	assert.True(t, secret.Empty())

	require.Len(t, rec.entries, 1)
	assert.False(t, rec.entries[0].found)
	assert.Empty(t, rec.entries[0].fingerprint)
}

func TestGetCredentialInvalidID(t *testing.T) {
	store := &fakeStore{}
	svc := NewCredentialService(store, nil, nil, logger.NewTestLogger())

	_, err := svc.GetCredential(context.Background(), "   ")
	assert.ErrorIs(t, err, domain.ErrEmptyNetworkID)
	assert.Zero(t, store.lookups)
}

func TestGetCredentialStoreError(t *testing.T) {
	cause := &domain.ExecutionError{Command: "security", Kind: domain.ExecutionLaunch, Err: errors.New("not found in $PATH")}
	svc := NewCredentialService(&fakeStore{err: cause}, nil, nil, logger.NewTestLogger())

	_, err := svc.GetCredential(context.Background(), "NetA")
	require.Error(t, err)
	assert.False(t, domain.IsNotFound(err))
	var execErr *domain.ExecutionError
	assert.ErrorAs(t, err, &execErr)
}
