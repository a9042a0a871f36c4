package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"wifimon/internal/adapter"
	"wifimon/internal/domain"
	"wifimon/internal/handler"
	"wifimon/internal/hub"
	"wifimon/internal/logger"
	"wifimon/internal/service"
	"wifimon/internal/watcher"
)

const shutdownTimeout = 5 * time.Second

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API with periodic background scans",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "HTTP listen address (default is server.addr)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.openHistory(); err != nil {
		return err
	}

	addr := a.cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	sseHub := hub.New(logger.WithComponent("hub"))
	go sseHub.Run(ctx)

	// Connect event bus to SSE hub and history
	events := make(chan service.Event, 100)
	a.bus.Subscribe(events)
	defer a.bus.Unsubscribe(events)
	go a.forwardEvents(ctx, events, sseHub)

	h := handler.NewScanHandler(ctx, a.scans, a.credentials(), logger.WithComponent("api"))
	h.SetRouter(func(ctx context.Context) (adapter.RouterInfo, error) {
		return adapter.LookupRouter(ctx, a.run)
	})
	h.SetInterfaceInfo(func(ctx context.Context) (adapter.InterfaceReport, error) {
		return adapter.InterfaceInfo(ctx, a.run, a.scans.Interface())
	})
	if a.history != nil {
		h.SetHistory(a.history)
	}

	mux := http.NewServeMux()
	h.Register(mux, sseHub)

	httpLog := logger.WithComponent("http")
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler.Chain(mux, handler.Recover(httpLog), handler.Logger(httpLog)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	a.scans.StartScan(ctx)
	if poll := a.cfg.Server.PollInterval.Duration(); poll > 0 {
		go a.poll(ctx, poll)
	}
	if a.cfg.Watch.Enabled {
		go a.watch(ctx)
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info().Str("addr", addr).Str("interface", a.scans.Interface()).Msg("Server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	a.log.Info().Msg("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// forwardEvents saves completed scans and relays every event to SSE clients
func (a *app) forwardEvents(ctx context.Context, events <-chan service.Event, sseHub *hub.Hub) {
	for {
		select {
		case <-ctx.Done():
			return
		case event := <-events:
			if event.Type == service.EventScanCompleted {
				if sum, ok := event.Payload.(domain.ScanSummary); ok {
					a.record(ctx, sum.ID)
				}
			}
			sseHub.Broadcast(event)
		}
	}
}

func (a *app) poll(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.scans.StartScan(ctx)
		}
	}
}

// watch rescans when the saved network preferences change
func (a *app) watch(ctx context.Context) {
	w := watcher.New(a.cfg.Watch.Paths, func(path string) {
		a.log.Info().Str("path", path).Msg("Preferences changed, rescanning")
		a.scans.StartScan(ctx)
	}, logger.WithComponent("watcher")).WithDebounce(a.cfg.Watch.Debounce.Duration())

	if err := w.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
		a.log.Warn().Err(err).Msg("Preference watcher stopped")
	}
}
