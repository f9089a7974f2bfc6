// Copyright (c) 2024-2026 Multitech Systems, Inc.
// Author: Jason Reiss
// SPDX-License-Identifier: MIT

package bitfield

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestSetLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	SetLogger(zap.New(core))
	defer SetLogger(nil)

	l, err := ParseLayout(pinsV1)
	if err != nil {
		t.Fatalf("ParseLayout() error = %v", err)
	}
	if _, err := l.Decode([]byte{0x01}); err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	if n := logs.FilterMessage("parsed layout").Len(); n != 1 {
		t.Errorf("got %d parsed layout entries, want 1", n)
	}
	decoded := logs.FilterMessage("decoded payload").All()
	if len(decoded) != 1 {
		t.Fatalf("got %d decoded payload entries, want 1", len(decoded))
	}
	if got := decoded[0].ContextMap()["layout"]; got != "pins" {
		t.Errorf("layout field = %v, want pins", got)
	}
}

func TestLoggerDefaultsToNop(t *testing.T) {
	SetLogger(nil)
	if Logger() == nil {
		t.Fatal("Logger() returned nil")
	}
	if Logger().Core().Enabled(zapcore.ErrorLevel) {
		t.Error("default logger should discard everything")
	}
}
