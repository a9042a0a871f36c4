package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wifimon/internal/adapter"
	"wifimon/internal/domain"
	"wifimon/internal/parser"
)

func TestExitCode(t *testing.T) {
	notFound := &domain.NotFoundError{Kind: domain.NotFoundCredential, ID: "Home"}

	assert.Equal(t, exitNotFound, exitCode(notFound))
	assert.Equal(t, exitNotFound, exitCode(fmt.Errorf("get credential: %w", notFound)))
	assert.Equal(t, exitCanceled, exitCode(domain.NewCancellationError("", context.Canceled)))
	assert.Equal(t, exitFailure, exitCode(errors.New("boom")))
}

func TestCommandsRegistered(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"serve", "scan", "show", "password", "gateway", "sources", "history", "info"} {
		assert.True(t, names[want], "missing command %s", want)
	}
}

func TestHistoryLimitValidation(t *testing.T) {
	assert.NoError(t, validateLimit(1))
	assert.Error(t, validateLimit(0))
	assert.Error(t, validateLimit(-5))

	old := historyLimit
	t.Cleanup(func() { historyLimit = old })

	historyLimit = 0
	err := historyCmd.RunE(historyCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--limit")
}

func TestPrintInterfaceReport(t *testing.T) {
	var buf bytes.Buffer
	printInterfaceReport(&buf, adapter.InterfaceReport{
		Device: "en0",
		Port:   "Wi-Fi",
		Info:   parser.InterfaceInfo{IPAddress: "192.168.1.23", Router: "192.168.1.1"},
		Ports:  []parser.HardwarePort{{Name: "Wi-Fi", Device: "en0", Address: "3a:1f:00:00:00:02"}},
	})

	out := buf.String()
	assert.Contains(t, out, "192.168.1.23")
	assert.Contains(t, out, "192.168.1.1")
	assert.Contains(t, out, "3a:1f:00:00:00:02")
}
