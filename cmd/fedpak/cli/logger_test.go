// Copyright 2026 The Fedpak Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"context"
	"log/slog"
	"testing"
)

func TestSetVerbose(t *testing.T) {
	t.Cleanup(func() { logLevel.Set(slog.LevelInfo) })

	// The level var is shared, so loggers created before the flip
	// pick up the new level too.
	logger := NewCommandLogger()
	ctx := context.Background()
	if logger.Enabled(ctx, slog.LevelDebug) {
		t.Fatal("debug enabled before SetVerbose")
	}
	if !logger.Enabled(ctx, slog.LevelInfo) {
		t.Fatal("info disabled by default")
	}

	SetVerbose()
	if !logger.Enabled(ctx, slog.LevelDebug) {
		t.Fatal("debug still disabled after SetVerbose")
	}
}
