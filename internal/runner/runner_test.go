package runner

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wifimon/internal/domain"
	"wifimon/internal/logger"
)

func newTestRunner() *ExecRunner {
	return NewExecRunner(logger.NewTestLogger()).WithWaitDelay(500 * time.Millisecond)
}

func TestRunCapturesOutput(t *testing.T) {
	r := newTestRunner()

	res, err := r.Run(context.Background(), Command{
		Name: "sh",
		Args: []string{"-c", "echo out; echo err >&2"},
	})
	require.NoError(t, err)
	assert.Equal(t, "out\n", res.Stdout)
	assert.Equal(t, "err\n", res.Stderr)
	assert.Equal(t, 0, res.ExitCode)
	assert.True(t, res.Success())
}

func TestRunNonzeroExitIsNotAnError(t *testing.T) {
	r := newTestRunner()

	res, err := r.Run(context.Background(), Command{
		Name: "sh",
		Args: []string{"-c", "echo partial; exit 44"},
	})
	require.NoError(t, err)
	assert.Equal(t, 44, res.ExitCode)
	assert.Equal(t, "partial\n", res.Stdout)
	assert.False(t, res.Success())
}

func TestRunCommandNotFound(t *testing.T) {
	r := newTestRunner()

	_, err := r.Run(context.Background(), Command{Name: "wifimon-definitely-missing-binary"})
	require.Error(t, err)

	var execErr *domain.ExecutionError
	require.ErrorAs(t, err, &execErr)
	assert.Equal(t, domain.ExecutionLaunch, execErr.Kind)
}

func TestRunTimeoutKillsProcess(t *testing.T) {
	r := newTestRunner()

	start := time.Now()
	res, err := r.Run(context.Background(), Command{
		Name:    "sh",
		Args:    []string{"-c", "echo started; sleep 10"},
		Timeout: 100 * time.Millisecond,
	})
	elapsed := time.Since(start)

	var execErr *domain.ExecutionError
	require.ErrorAs(t, err, &execErr)
	assert.True(t, execErr.Timeout())
	assert.Empty(t, res.Stdout, "partial output is discarded on timeout")
	assert.Less(t, elapsed, 5*time.Second)
}

func TestRunCallerCancellation(t *testing.T) {
	r := newTestRunner()
	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		time.Sleep(100 * time.Millisecond)
		cancel()
	}()

	_, err := r.Run(ctx, Command{Name: "sleep", Args: []string{"10"}, Timeout: time.Minute})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrCanceled))
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestRunAlreadyCanceled(t *testing.T) {
	r := newTestRunner()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Run(ctx, Command{Name: "sh", Args: []string{"-c", "true"}})
	assert.ErrorIs(t, err, domain.ErrCanceled)
}

func TestCommandString(t *testing.T) {
	assert.Equal(t, "networksetup -listpreferredwirelessnetworks en0",
		Command{Name: "networksetup", Args: []string{"-listpreferredwirelessnetworks", "en0"}}.String())
	assert.Equal(t, "airport", Command{Name: "airport"}.String())
}
