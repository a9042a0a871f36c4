package adapter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"wifimon/internal/domain"
	"wifimon/internal/runner"
)

func TestKeychainLookup(t *testing.T) {
	keychainCmd := func(id string) runner.Command {
		return runner.Command{
			Name:    "security",
			Args:    []string{"find-generic-password", "-D", "AirPort network password", "-a", id, "-w"},
			Timeout: DefaultCredentialTimeout,
		}
	}

	tests := []struct {
		name      string
		result    runner.Result
		wantValue string
		notFound  bool
		wantErr   bool
	}{
		{name: "found", result: runner.Result{Stdout: "hunter22\n"}, wantValue: "hunter22"},
		{name: "exit 44", result: runner.Result{ExitCode: 44, Stderr: "security: SecKeychainSearchCopyNext: The specified item could not be found in the keychain.\n"}, notFound: true},
		{name: "empty output", result: runner.Result{Stdout: "\n"}, notFound: true},
		{name: "user denied", result: runner.Result{ExitCode: 128, Stderr: "User interaction is not allowed.\n"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			run := runner.NewMockRunner(ctrl)
			run.EXPECT().Run(gomock.Any(), keychainCmd("Home Net")).Return(tt.result, nil)

			secret, err := NewKeychain(run, 0).Lookup(context.Background(), "Home Net")

			switch {
			case tt.notFound:
				require.Error(t, err)
				assert.True(t, domain.IsNotFound(err))
				assert.True(t, secret.Empty())
			case tt.wantErr:
				var exitErr *domain.ExitError
				require.ErrorAs(t, err, &exitErr)
				assert.Equal(t, 128, exitErr.Code)
				assert.NotContains(t, err.Error(), "hunter22")
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.wantValue, secret.Reveal())
				assert.Equal(t, domain.NetworkID("Home Net"), secret.Network())
			}
		})
	}
}

func TestKeychainLookupRunnerError(t *testing.T) {
	ctrl := gomock.NewController(t)
	run := runner.NewMockRunner(ctrl)
	run.EXPECT().Run(gomock.Any(), gomock.Any()).Return(runner.Result{}, domain.NewCancellationError("", context.Canceled))

	_, err := NewKeychain(run, 0).Lookup(context.Background(), "NetA")
	assert.ErrorIs(t, err, domain.ErrCanceled)
}
