package adapter

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"wifimon/internal/domain"
	"wifimon/internal/runner"
)

// DefaultSourceTimeout bounds a source command when neither the source nor the
// registry configures one
const DefaultSourceTimeout = 10 * time.Second

// RegistryOptions tunes collection
type RegistryOptions struct {
	// DefaultTimeout applies to sources without their own timeout
	DefaultTimeout time.Duration
	// MaxConcurrent limits parallel source commands; zero runs all at once
	MaxConcurrent int
}

// Outcome is the result of querying one source
type Outcome struct {
	Source   domain.SourceTag
	Records  []domain.PartialNetworkRecord
	Warnings []domain.ParseError
	Err      error
	Duration time.Duration
}

// Completed returns true when the source ran and its output was parsed
func (o Outcome) Completed() bool {
	return o.Err == nil
}

// SourceInfo provides read-only information about a registered source
type SourceInfo struct {
	Name    domain.SourceTag `json:"name"`
	Enabled bool             `json:"enabled"`
	Timeout time.Duration    `json:"timeout"`
	Rank    int              `json:"rank"`
}

type entry struct {
	source Source
	config SourceConfig
}

// Registry manages the registered sources and collects from them
type Registry struct {
	mu      sync.RWMutex
	entries map[domain.SourceTag]entry
	runner  runner.Runner
	opts    RegistryOptions
	logger  zerolog.Logger
}

// NewRegistry creates a registry that runs source commands with run
func NewRegistry(run runner.Runner, opts RegistryOptions, logger zerolog.Logger) *Registry {
	if opts.DefaultTimeout <= 0 {
		opts.DefaultTimeout = DefaultSourceTimeout
	}
	return &Registry{
		entries: make(map[domain.SourceTag]entry),
		runner:  run,
		opts:    opts,
		logger:  logger,
	}
}

// Register adds a source to the registry
func (r *Registry) Register(src Source, config SourceConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := src.Name()
	if _, exists := r.entries[name]; exists {
		return fmt.Errorf("source %s already registered", name)
	}
	if p := src.Parser(); p == nil || p.Source() != name {
		return fmt.Errorf("source %s has no matching parser", name)
	}

	r.entries[name] = entry{source: src, config: config}
	r.logger.Debug().
		Str("source", string(name)).
		Bool("enabled", config.Enabled).
		Dur("timeout", r.timeout(config)).
		Msg("Registered source")

	return nil
}

// Sources returns information about registered sources in priority order
func (r *Registry) Sources() []SourceInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	infos := make([]SourceInfo, 0, len(r.entries))
	for name, e := range r.entries {
		infos = append(infos, SourceInfo{
			Name:    name,
			Enabled: e.config.Enabled,
			Timeout: r.timeout(e.config),
			Rank:    name.Rank(),
		})
	}
	sort.Slice(infos, func(i, j int) bool { return lessSource(infos[i].Name, infos[j].Name) })
	return infos
}

// Enabled returns the number of enabled sources
func (r *Registry) Enabled() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, e := range r.entries {
		if e.config.Enabled {
			n++
		}
	}
	return n
}

// Collect queries every enabled source for iface and returns one outcome per
// source in priority order. It never fails as a whole: errors are carried in the
// outcomes. Sources that had not finished when ctx was canceled report a
// domain.CancellationError.
func (r *Registry) Collect(ctx context.Context, iface string) []Outcome {
	active := r.active()
	outcomes := make([]Outcome, len(active))

	var g errgroup.Group
	if r.opts.MaxConcurrent > 0 {
		g.SetLimit(r.opts.MaxConcurrent)
	}

	for i, e := range active {
		outcomes[i].Source = e.source.Name()
		if err := ctx.Err(); err != nil {
			outcomes[i].Err = domain.NewCancellationError(e.source.Name(), err)
			continue
		}
		// each task owns outcomes[i]; nothing else is shared
		g.Go(func() error {
			outcomes[i] = r.collectOne(ctx, e, iface)
			return nil
		})
	}
	_ = g.Wait()

	return outcomes
}

func (r *Registry) collectOne(ctx context.Context, e entry, iface string) Outcome {
	name := e.source.Name()
	out := Outcome{Source: name}

	if err := ctx.Err(); err != nil {
		out.Err = domain.NewCancellationError(name, err)
		return out
	}

	cmd := e.source.Command(iface)
	cmd.Timeout = r.timeout(e.config)

	log := r.logger.With().Str("source", string(name)).Logger()

	start := time.Now()
	stdout, err := r.run(ctx, name, cmd)
	if err != nil && ctx.Err() == nil && fallbackAllowed(err) {
		if fs, ok := e.source.(FallbackSource); ok {
			if fb, ok := fs.Fallback(iface); ok {
				fb.Timeout = cmd.Timeout
				log.Debug().Err(err).Str("fallback", fb.String()).Msg("Primary command failed, trying fallback")
				stdout, err = r.run(ctx, name, fb)
			}
		}
	}
	out.Duration = time.Since(start)

	if err != nil {
		out.Err = err
		log.Warn().Err(err).Dur("duration", out.Duration).Msg("Source failed")
		return out
	}

	parsed := e.source.Parser().Parse(stdout)
	out.Records = parsed.Records
	out.Warnings = parsed.Warnings

	log.Debug().
		Int("records", len(out.Records)).
		Int("warnings", len(out.Warnings)).
		Dur("duration", out.Duration).
		Msg("Source collected")

	return out
}

// run executes one command. A nonzero exit becomes a domain.ExitError and a
// runner cancellation is attributed to the source.
func (r *Registry) run(ctx context.Context, name domain.SourceTag, cmd runner.Command) (string, error) {
	res, err := r.runner.Run(ctx, cmd)
	if err != nil {
		var cancelErr *domain.CancellationError
		if errors.As(err, &cancelErr) {
			err = domain.NewCancellationError(name, cancelErr.Err)
		}
		return "", err
	}
	if !res.Success() {
		return "", &domain.ExitError{
			Command: cmd.String(),
			Code:    res.ExitCode,
			Stderr:  strings.TrimSpace(res.Stderr),
		}
	}
	return res.Stdout, nil
}

// fallbackAllowed is true for launch failures and error exits. Timeouts and
// cancellations are final.
func fallbackAllowed(err error) bool {
	var execErr *domain.ExecutionError
	if errors.As(err, &execErr) {
		return !execErr.Timeout()
	}
	var exitErr *domain.ExitError
	return errors.As(err, &exitErr)
}

// active returns the enabled entries in priority order
func (r *Registry) active() []entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var list []entry
	for _, e := range r.entries {
		if e.config.Enabled {
			list = append(list, e)
		}
	}
	sort.Slice(list, func(i, j int) bool { return lessSource(list[i].source.Name(), list[j].source.Name()) })
	return list
}

func (r *Registry) timeout(config SourceConfig) time.Duration {
	if config.Timeout > 0 {
		return config.Timeout
	}
	return r.opts.DefaultTimeout
}

// lessSource orders by priority rank, then by name for unknown sources
func lessSource(a, b domain.SourceTag) bool {
	if ra, rb := a.Rank(), b.Rank(); ra != rb {
		return ra < rb
	}
	return a < b
}
