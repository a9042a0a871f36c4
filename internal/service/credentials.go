package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"wifimon/internal/adapter"
	"wifimon/internal/domain"
)

// AccessRecorder persists credential access audit entries
type AccessRecorder interface {
	RecordCredentialAccess(ctx context.Context, id domain.NetworkID, fingerprint string, found bool) error
}

// CredentialAccess is the payload of EventCredentialAccessed. It never carries
// the secret.
type CredentialAccess struct {
	Network     domain.NetworkID `json:"network"`
	Found       bool             `json:"found"`
	Fingerprint string           `json:"fingerprint,omitempty"`
}

// CredentialService provides audited, on-demand access to stored passwords
type CredentialService struct {
	store    adapter.CredentialStore
	recorder AccessRecorder
	eventBus *EventBus
	logger   zerolog.Logger
}

// NewCredentialService creates a credential service. recorder and eventBus may
// be nil.
func NewCredentialService(store adapter.CredentialStore, recorder AccessRecorder, eventBus *EventBus, logger zerolog.Logger) *CredentialService {
	return &CredentialService{
		store:    store,
		recorder: recorder,
		eventBus: eventBus,
		logger:   logger,
	}
}

// GetCredential looks up the stored password of a network. Lookups are never
// cached. A network without a stored password yields a domain.NotFoundError.
func (s *CredentialService) GetCredential(ctx context.Context, network string) (domain.Secret, error) {
	id, err := domain.NewNetworkID(network)
	if err != nil {
		return domain.Secret{}, fmt.Errorf("get credential: %w", err)
	}

	secret, err := s.store.Lookup(ctx, id)
	switch {
	case domain.IsNotFound(err):
		s.logger.Debug().Str("network", string(id)).Msg("No stored credential")
		s.audit(ctx, CredentialAccess{Network: id})
		return domain.Secret{}, err
	case err != nil:
		s.logger.Warn().Err(err).Str("network", string(id)).Msg("Credential lookup failed")
		return domain.Secret{}, fmt.Errorf("get credential %q: %w", id, err)
	}

	access := CredentialAccess{Network: id, Found: true, Fingerprint: secret.Fingerprint()}
	s.logger.Info().
		Str("network", string(id)).
		Str("fingerprint", access.Fingerprint).
		Msg("Credential accessed")
	s.audit(ctx, access)

	return secret, nil
}

func (s *CredentialService) audit(ctx context.Context, access CredentialAccess) {
	if s.recorder != nil {
		if err := s.recorder.RecordCredentialAccess(ctx, access.Network, access.Fingerprint, access.Found); err != nil {
			s.logger.Error().Err(err).Str("network", string(access.Network)).Msg("Failed to record credential access")
		}
	}
	if s.eventBus != nil {
		s.eventBus.Publish(Event{Type: EventCredentialAccessed, Payload: access})
	}
}
