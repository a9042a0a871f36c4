package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"wifimon/internal/adapter"
	"wifimon/internal/domain"
	"wifimon/internal/logger"
	"wifimon/internal/runner"
)

// stubCollector returns fixed outcomes; collect, when set, replaces them
type stubCollector struct {
	outcomes []adapter.Outcome
	enabled  int
	collect  func(ctx context.Context) []adapter.Outcome
	calls    atomic.Int32
}

func (c *stubCollector) Collect(ctx context.Context, _ string) []adapter.Outcome {
	c.calls.Add(1)
	if c.collect != nil {
		return c.collect(ctx)
	}
	return c.outcomes
}

func (c *stubCollector) Enabled() int {
	return c.enabled
}

// stepClock advances one second per call
type stepClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

func newTestService(t *testing.T, collector Collector, bus *EventBus) *ScanService {
	t.Helper()
	clock := &stepClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	svc, err := NewScanService(collector, bus, ScanOptions{Interface: "en0", Now: clock.Now}, logger.NewTestLogger())
	require.NoError(t, err)
	return svc
}

func TestNewScanServiceNoSources(t *testing.T) {
	_, err := NewScanService(&stubCollector{}, nil, ScanOptions{}, logger.NewTestLogger())
	assert.ErrorIs(t, err, domain.ErrNoSources)

	_, err = NewScanService(nil, nil, ScanOptions{}, logger.NewTestLogger())
	assert.ErrorIs(t, err, domain.ErrNoSources)
}

func newMockRegistry(t *testing.T, run runner.Runner) *adapter.Registry {
	t.Helper()
	reg := adapter.NewRegistry(run, adapter.RegistryOptions{}, logger.NewTestLogger())
	require.NoError(t, reg.Register(adapter.NewScanListSource("airport"), adapter.SourceConfig{Enabled: true}))
	require.NoError(t, reg.Register(adapter.NewPreferredSource(), adapter.SourceConfig{Enabled: true}))
	return reg
}

func TestScanServiceListNetworks(t *testing.T) {
	ctrl := gomock.NewController(t)
	run := runner.NewMockRunner(ctrl)

	run.EXPECT().Run(gomock.Any(), runner.Command{Name: "airport", Args: []string{"-s"}, Timeout: adapter.DefaultSourceTimeout}).
		Return(runner.Result{Stdout: "NetA 50 6 WPA2\nNetB 70 11 Open\n"}, nil)
	run.EXPECT().Run(gomock.Any(), runner.Command{Name: "networksetup", Args: []string{"-listpreferredwirelessnetworks", "en0"}, Timeout: adapter.DefaultSourceTimeout}).
		Return(runner.Result{Stdout: "Preferred networks on en0:\n\tNetA\n"}, nil)

	svc := newTestService(t, newMockRegistry(t, run), nil)
	assert.Empty(t, svc.ListNetworks())
	assert.Nil(t, svc.Latest())

	result, err := svc.Scan(context.Background())
	require.NoError(t, err)
	assert.Empty(t, result.Failures())

	networks := svc.ListNetworks()
	require.Len(t, networks, 2)
	assert.Equal(t, domain.NetworkID("NetA"), networks[0].ID)
	assert.Equal(t, domain.NetworkID("NetB"), networks[1].ID)
	assert.True(t, networks[0].IsSaved())
	require.NotNil(t, networks[1].Saved)
	assert.False(t, networks[1].Saved.Value)
	assert.Equal(t, -50, networks[0].SignalDBM.Value)

	netB, err := svc.GetNetwork("NetB")
	require.NoError(t, err)
	assert.Equal(t, "Open", netB.Security.Value)

	_, err = svc.GetNetwork("NetC")
	assert.True(t, domain.IsNotFound(err))
	var nf *domain.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, domain.NotFoundNetwork, nf.Kind)
}

func TestScanServiceSourceTimeout(t *testing.T) {
	ctrl := gomock.NewController(t)
	run := runner.NewMockRunner(ctrl)

	run.EXPECT().Run(gomock.Any(), runner.Command{Name: "airport", Args: []string{"-s"}, Timeout: adapter.DefaultSourceTimeout}).
		Return(runner.Result{}, &domain.ExecutionError{Command: "airport -s", Kind: domain.ExecutionTimeout, Err: context.DeadlineExceeded})
	run.EXPECT().Run(gomock.Any(), gomock.Any()).
		Return(runner.Result{Stdout: "Preferred networks on en0:\n\tNetA\n\tNetC\n"}, nil)

	svc := newTestService(t, newMockRegistry(t, run), nil)
	result, err := svc.Scan(context.Background())
	require.NoError(t, err)

	assert.True(t, result.Failed(domain.SourceScanList))
	assert.False(t, result.Failed(domain.SourcePreferred))

	records := result.Records()
	require.Len(t, records, 2)
	for _, r := range records {
		assert.Nil(t, r.SignalDBM)
		assert.Equal(t, []domain.SourceTag{domain.SourcePreferred}, r.Sources)
		assert.True(t, r.IsSaved())
	}
}

func TestScanServiceConnectedWithoutAirport(t *testing.T) {
	ctrl := gomock.NewController(t)
	run := runner.NewMockRunner(ctrl)

	missing := func(cmd string) error {
		return &domain.ExecutionError{Command: cmd, Kind: domain.ExecutionLaunch, Err: errors.New("no such file or directory")}
	}
	run.EXPECT().Run(gomock.Any(), runner.Command{Name: "airport", Args: []string{"-s"}, Timeout: adapter.DefaultSourceTimeout}).
		Return(runner.Result{}, missing("airport -s"))
	run.EXPECT().Run(gomock.Any(), runner.Command{Name: "airport", Args: []string{"-I"}, Timeout: adapter.DefaultSourceTimeout}).
		Return(runner.Result{}, missing("airport -I"))
	run.EXPECT().Run(gomock.Any(), runner.Command{Name: "networksetup", Args: []string{"-getairportnetwork", "en0"}, Timeout: adapter.DefaultSourceTimeout}).
		Return(runner.Result{Stdout: "Current Wi-Fi Network: NetA\n"}, nil)
	run.EXPECT().Run(gomock.Any(), runner.Command{Name: "networksetup", Args: []string{"-listpreferredwirelessnetworks", "en0"}, Timeout: adapter.DefaultSourceTimeout}).
		Return(runner.Result{Stdout: "Preferred networks on en0:\n\tNetA\n\tNetB\n"}, nil)

	reg := newMockRegistry(t, run)
	require.NoError(t, reg.Register(adapter.NewConnectionSource("airport"), adapter.SourceConfig{Enabled: true}))

	svc := newTestService(t, reg, nil)
	result, err := svc.Scan(context.Background())
	require.NoError(t, err)
	assert.True(t, result.Failed(domain.SourceScanList))
	assert.False(t, result.Failed(domain.SourceConnection))

	netA, err := svc.GetNetwork("NetA")
	require.NoError(t, err)
	assert.True(t, netA.IsConnected())
	assert.Equal(t, domain.SourceConnection, netA.Connected.Source)
	assert.True(t, netA.IsSaved())

	netB, err := svc.GetNetwork("NetB")
	require.NoError(t, err)
	require.NotNil(t, netB.Connected)
	assert.False(t, netB.Connected.Value)
}

func TestScanServiceCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	collector := &stubCollector{
		enabled: 3,
		collect: func(ctx context.Context) []adapter.Outcome {
			cancel()
			return []adapter.Outcome{
				{Source: domain.SourceConnection, Err: domain.NewCancellationError(domain.SourceConnection, ctx.Err())},
				{Source: domain.SourceScanList, Records: []domain.PartialNetworkRecord{
					{ID: "NetA", Source: domain.SourceScanList, SignalDBM: domain.Ptr(-50)},
				}},
				{Source: domain.SourcePreferred, Err: domain.NewCancellationError(domain.SourcePreferred, ctx.Err())},
			}
		},
	}

	bus := NewEventBus()
	events := make(chan Event, 4)
	bus.Subscribe(events)

	svc := newTestService(t, collector, bus)
	result, err := svc.Scan(ctx)

	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, result)
	assert.ErrorIs(t, result.Failures()[domain.SourceConnection], domain.ErrCanceled)
	assert.ErrorIs(t, result.Failures()[domain.SourcePreferred], domain.ErrCanceled)
	assert.False(t, result.Failed(domain.SourceScanList))

	require.Equal(t, 1, result.Len())
	netA := result.Records()[0]
	assert.Equal(t, []domain.SourceTag{domain.SourceScanList}, netA.Sources)
	assert.Nil(t, netA.Saved, "preferred did not complete")

	assert.Nil(t, svc.Latest())
	ev := <-events
	assert.Equal(t, EventScanFailed, ev.Type)
}

func TestScanServiceDeterministic(t *testing.T) {
	collector := &stubCollector{
		enabled: 2,
		outcomes: []adapter.Outcome{
			{Source: domain.SourceScanList, Records: []domain.PartialNetworkRecord{
				{ID: "b", Source: domain.SourceScanList, SignalDBM: domain.Ptr(-60)},
				{ID: "a", Source: domain.SourceScanList, SignalDBM: domain.Ptr(-70)},
			}},
			{Source: domain.SourcePreferred, Err: &domain.ExitError{Command: "networksetup", Code: 1}},
		},
	}
	svc := newTestService(t, collector, nil)

	first, err := svc.Scan(context.Background())
	require.NoError(t, err)
	second, err := svc.Scan(context.Background())
	require.NoError(t, err)

	assert.NotEqual(t, first.ID(), second.ID())
	assert.True(t, first.Equal(second))
	assert.Same(t, second, svc.Latest())
}

func TestScanServiceNewerStartWins(t *testing.T) {
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	older := domain.NewScanResult("older", base, base.Add(time.Second), nil, nil, nil)
	newer := domain.NewScanResult("newer", base.Add(time.Minute), base.Add(2*time.Minute), nil, nil, nil)

	svc := newTestService(t, &stubCollector{enabled: 1}, nil)

	assert.True(t, svc.swap(newer))
	assert.False(t, svc.swap(older))
	assert.Equal(t, "newer", svc.Latest().ID())
}

func TestScanServiceSubscribe(t *testing.T) {
	svc := newTestService(t, &stubCollector{enabled: 1, outcomes: []adapter.Outcome{{Source: domain.SourceScanList}}}, nil)

	events := make(chan Event, 1)
	svc.Subscribe(events)

	result, err := svc.Scan(context.Background())
	require.NoError(t, err)

	select {
	case ev := <-events:
		assert.Equal(t, EventScanCompleted, ev.Type)
		summary, ok := ev.Payload.(domain.ScanSummary)
		require.True(t, ok)
		assert.Equal(t, result.ID(), summary.ID)
	case <-time.After(time.Second):
		t.Fatal("no scan completed event")
	}

	svc.Unsubscribe(events)
	_, err = svc.Scan(context.Background())
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestScanServiceStartScan(t *testing.T) {
	release := make(chan struct{})
	collector := &stubCollector{
		enabled: 1,
		collect: func(ctx context.Context) []adapter.Outcome {
			<-release
			return []adapter.Outcome{{Source: domain.SourceScanList, Records: []domain.PartialNetworkRecord{
				{ID: "NetA", Source: domain.SourceScanList},
			}}}
		},
	}
	svc := newTestService(t, collector, nil)

	first := svc.StartScan(context.Background())
	second := svc.StartScan(context.Background())
	assert.Same(t, first, second, "scan in flight is shared")

	select {
	case <-first.Done():
		t.Fatal("scan finished before release")
	default:
	}

	close(release)
	result, err := first.Wait()
	require.NoError(t, err)
	assert.Equal(t, 1, result.Len())
	assert.Equal(t, int32(1), collector.calls.Load())

	third := svc.StartScan(context.Background())
	assert.NotSame(t, first, third)
	_, err = third.Wait()
	require.NoError(t, err)
	assert.Equal(t, int32(2), collector.calls.Load())
}
