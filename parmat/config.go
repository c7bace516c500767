// Copyright 2025 The go-parmat Authors. SPDX-License-Identifier: Apache-2.0

package parmat

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultWorkers is the pool size used when PARMAT_WORKERS is unset.
	DefaultWorkers = 4

	// DefaultQueueDepth is the per-worker queue capacity used when
	// PARMAT_QUEUE_DEPTH is unset.
	DefaultQueueDepth = 64
)

// Environment variables read by the configuration helpers. They are read on
// every call, so tests can change them with t.Setenv.
const (
	EnvWorkers      = "PARMAT_WORKERS"
	EnvQueueDepth   = "PARMAT_QUEUE_DEPTH"
	EnvReplyTimeout = "PARMAT_REPLY_TIMEOUT"
	EnvLogLevel     = "PARMAT_LOG_LEVEL"
)

// Workers returns the default number of workers for a new pool.
// PARMAT_WORKERS overrides DefaultWorkers; values that are not positive
// integers are ignored.
func Workers() int {
	return envPositiveInt(EnvWorkers, DefaultWorkers)
}

// QueueDepth returns the default per-worker queue capacity.
// PARMAT_QUEUE_DEPTH overrides DefaultQueueDepth; 0 means unbuffered.
func QueueDepth() int {
	val := os.Getenv(EnvQueueDepth)
	if val == "" {
		return DefaultQueueDepth
	}
	n, err := strconv.Atoi(strings.TrimSpace(val))
	if err != nil || n < 0 {
		return DefaultQueueDepth
	}
	return n
}

// ReplyTimeout returns the default deadline applied to each reply wait,
// parsed from PARMAT_REPLY_TIMEOUT with time.ParseDuration.
// Zero means wait without a deadline.
func ReplyTimeout() time.Duration {
	val := os.Getenv(EnvReplyTimeout)
	if val == "" {
		return 0
	}
	d, err := time.ParseDuration(strings.TrimSpace(val))
	if err != nil || d < 0 {
		return 0
	}
	return d
}

// LogLevel returns the level named by PARMAT_LOG_LEVEL ("debug", "info",
// "warn", "error"), or slog.LevelInfo.
func LogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(os.Getenv(EnvLogLevel))); err != nil {
		return slog.LevelInfo
	}
	return level
}

func envPositiveInt(name string, def int) int {
	val := os.Getenv(name)
	if val == "" {
		return def
	}
	n, err := strconv.Atoi(strings.TrimSpace(val))
	if err != nil || n <= 0 {
		return def
	}
	return n
}
