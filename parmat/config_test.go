// Copyright 2025 The go-parmat Authors. SPDX-License-Identifier: Apache-2.0

package parmat

import (
	"log/slog"
	"testing"
	"time"
)

func TestWorkers(t *testing.T) {
	tests := []struct {
		env  string
		want int
	}{
		{"", DefaultWorkers},
		{"8", 8},
		{" 2 ", 2},
		{"0", DefaultWorkers},
		{"-3", DefaultWorkers},
		{"many", DefaultWorkers},
	}
	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			t.Setenv(EnvWorkers, tt.env)
			if got := Workers(); got != tt.want {
				t.Errorf("Workers() with %s=%q = %d, want %d", EnvWorkers, tt.env, got, tt.want)
			}
		})
	}
}

func TestQueueDepth(t *testing.T) {
	t.Setenv(EnvQueueDepth, "")
	if got := QueueDepth(); got != DefaultQueueDepth {
		t.Errorf("QueueDepth() = %d, want %d", got, DefaultQueueDepth)
	}
	t.Setenv(EnvQueueDepth, "0")
	if got := QueueDepth(); got != 0 {
		t.Errorf("QueueDepth() = %d, want 0", got)
	}
	t.Setenv(EnvQueueDepth, "-1")
	if got := QueueDepth(); got != DefaultQueueDepth {
		t.Errorf("QueueDepth() = %d, want %d", got, DefaultQueueDepth)
	}
}

func TestReplyTimeout(t *testing.T) {
	t.Setenv(EnvReplyTimeout, "250ms")
	if got := ReplyTimeout(); got != 250*time.Millisecond {
		t.Errorf("ReplyTimeout() = %v, want 250ms", got)
	}
	t.Setenv(EnvReplyTimeout, "soon")
	if got := ReplyTimeout(); got != 0 {
		t.Errorf("ReplyTimeout() = %v, want 0", got)
	}
}

func TestLogLevel(t *testing.T) {
	t.Setenv(EnvLogLevel, "debug")
	if got := LogLevel(); got != slog.LevelDebug {
		t.Errorf("LogLevel() = %v, want DEBUG", got)
	}
	t.Setenv(EnvLogLevel, "loud")
	if got := LogLevel(); got != slog.LevelInfo {
		t.Errorf("LogLevel() = %v, want INFO", got)
	}
}

func TestCPUFeatures(t *testing.T) {
	for _, f := range CPUFeatures() {
		if f.Name == "" {
			t.Error("feature with empty name")
		}
	}
	if CacheLineSize <= 0 {
		t.Errorf("CacheLineSize = %d, want > 0", CacheLineSize)
	}
}
