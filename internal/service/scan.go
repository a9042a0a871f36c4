package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"wifimon/internal/adapter"
	"wifimon/internal/domain"
)

// Collector runs the configured sources. *adapter.Registry implements it.
type Collector interface {
	Collect(ctx context.Context, iface string) []adapter.Outcome
	Enabled() int
}

// ScanOptions configures a ScanService
type ScanOptions struct {
	// Interface is the WiFi device passed to sources, e.g. en0
	Interface string
	// Now and NewID default to time.Now and random UUIDs
	Now   func() time.Time
	NewID func() string
}

// ScanService orchestrates scans and answers queries about the latest one
type ScanService struct {
	collector Collector
	eventBus  *EventBus
	logger    zerolog.Logger
	iface     string
	now       func() time.Time
	newID     func() string

	latest atomic.Pointer[domain.ScanResult]

	mu      sync.Mutex
	pending *PendingScan
}

// NewScanService creates a scan service. It fails with domain.ErrNoSources when
// the collector has no enabled source.
func NewScanService(collector Collector, eventBus *EventBus, opts ScanOptions, logger zerolog.Logger) (*ScanService, error) {
	if collector == nil || collector.Enabled() == 0 {
		return nil, domain.ErrNoSources
	}
	if eventBus == nil {
		eventBus = NewEventBus()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	return &ScanService{
		collector: collector,
		eventBus:  eventBus,
		logger:    logger,
		iface:     opts.Interface,
		now:       opts.Now,
		newID:     opts.NewID,
	}, nil
}

// Interface returns the WiFi device scans run against
func (s *ScanService) Interface() string {
	return s.iface
}

// Scan runs every enabled source, merges their output and makes the result the
// latest scan.
//
// Source failures never fail the scan; they are recorded in the result. When ctx
// is canceled mid-flight, Scan returns the partial result, built only from the
// sources that completed, together with ctx.Err(). A canceled scan does not
// replace the latest result.
func (s *ScanService) Scan(ctx context.Context) (*domain.ScanResult, error) {
	started := s.now()
	id := s.newID()
	log := s.logger.With().Str("scan_id", id).Logger()

	log.Debug().Str("interface", s.iface).Msg("Scan started")

	outcomes := s.collector.Collect(ctx, s.iface)

	var (
		partials []domain.PartialNetworkRecord
		warnings []domain.ParseError
		complete []domain.SourceTag
		failures = make(map[domain.SourceTag]error)
	)
	for _, o := range outcomes {
		if o.Err != nil {
			failures[o.Source] = o.Err
			continue
		}
		partials = append(partials, o.Records...)
		warnings = append(warnings, o.Warnings...)
		complete = append(complete, o.Source)
	}

	result := domain.NewScanResult(id, started, s.now(), Merge(partials, complete...), failures, warnings)

	if err := ctx.Err(); err != nil {
		log.Warn().Int("failed_sources", len(failures)).Msg("Scan canceled")
		s.eventBus.Publish(Event{Type: EventScanFailed, Payload: result.Summary()})
		return result, err
	}

	if !s.swap(result) {
		log.Debug().Msg("Newer scan already stored, result not kept")
	}

	log.Info().
		Int("networks", result.Len()).
		Int("failed_sources", len(failures)).
		Int("warnings", len(warnings)).
		Dur("duration", result.FinishedAt().Sub(started)).
		Msg("Scan completed")

	s.eventBus.Publish(Event{Type: EventScanCompleted, Payload: result.Summary()})

	return result, nil
}

// swap stores result unless a scan that started later is already stored
func (s *ScanService) swap(result *domain.ScanResult) bool {
	for {
		cur := s.latest.Load()
		if cur != nil && cur.StartedAt().After(result.StartedAt()) {
			return false
		}
		if s.latest.CompareAndSwap(cur, result) {
			return true
		}
	}
}

// PendingScan is a scan running in the background
type PendingScan struct {
	done   chan struct{}
	result *domain.ScanResult
	err    error
}

// Done is closed when the scan has finished
func (p *PendingScan) Done() <-chan struct{} {
	return p.done
}

// Wait blocks until the scan finishes and returns its outcome
func (p *PendingScan) Wait() (*domain.ScanResult, error) {
	<-p.done
	return p.result, p.err
}

// StartScan runs Scan in the background. While a scan started this way is still
// running, further calls return the same PendingScan.
func (s *ScanService) StartScan(ctx context.Context) *PendingScan {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p := s.pending; p != nil {
		select {
		case <-p.done:
		default:
			return p
		}
	}

	p := &PendingScan{done: make(chan struct{})}
	s.pending = p
	go func() {
		defer close(p.done)
		p.result, p.err = s.Scan(ctx)
	}()
	return p
}

// Latest returns the most recent completed scan, or nil before the first one
func (s *ScanService) Latest() *domain.ScanResult {
	return s.latest.Load()
}

// ListNetworks returns the networks of the latest scan sorted by ID
func (s *ScanService) ListNetworks() []domain.NetworkRecord {
	latest := s.latest.Load()
	if latest == nil {
		return []domain.NetworkRecord{}
	}
	return latest.Records()
}

// GetNetwork returns one network of the latest scan, or a domain.NotFoundError
func (s *ScanService) GetNetwork(id domain.NetworkID) (domain.NetworkRecord, error) {
	if latest := s.latest.Load(); latest != nil {
		if rec, ok := latest.Record(id); ok {
			return rec, nil
		}
	}
	return domain.NetworkRecord{}, &domain.NotFoundError{Kind: domain.NotFoundNetwork, ID: id}
}

// Subscribe registers ch for scan events. Slow subscribers miss events.
func (s *ScanService) Subscribe(ch chan<- Event) {
	s.eventBus.Subscribe(ch)
}

// Unsubscribe removes a channel registered with Subscribe
func (s *ScanService) Unsubscribe(ch chan<- Event) {
	s.eventBus.Unsubscribe(ch)
}
