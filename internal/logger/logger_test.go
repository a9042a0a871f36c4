package logger

import (
	"testing"

	"github.com/rs/zerolog"
)

func TestInit(t *testing.T) {
	if err := Init(Config{Level: "debug", Output: "stderr"}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if got := GetLogger().GetLevel(); got != zerolog.DebugLevel {
		t.Errorf("level = %v, want debug", got)
	}

	if err := Init(Config{Level: "warn"}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if got := GetLogger().GetLevel(); got != zerolog.WarnLevel {
		t.Errorf("level = %v, want warn", got)
	}
}

func TestInitDebugOverridesLevel(t *testing.T) {
	if err := Init(Config{Level: "error", Debug: true}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if got := GetLogger().GetLevel(); got != zerolog.DebugLevel {
		t.Errorf("level = %v, want debug", got)
	}
}

func TestInitRejectsBadConfig(t *testing.T) {
	if err := Init(Config{Level: "loud"}); err == nil {
		t.Error("expected error for unknown level")
	}
	if err := Init(Config{Output: "syslog"}); err == nil {
		t.Error("expected error for unknown output")
	}
}

func TestWithComponent(t *testing.T) {
	SetLevel(zerolog.InfoLevel)
	l := WithComponent("scanner")
	if l.GetLevel() == zerolog.Disabled {
		t.Error("component logger should not be disabled")
	}
	if NewTestLogger().GetLevel() != zerolog.Disabled {
		t.Error("test logger should be disabled")
	}
}
