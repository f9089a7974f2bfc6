// Copyright (c) 2024-2026 Multitech Systems, Inc.
// Author: Jason Reiss
// SPDX-License-Identifier: MIT

package bitfield

import (
	"errors"
	"testing"

	"github.com/kylelemons/godebug/pretty"
)

func TestAccumulatorFeed(t *testing.T) {
	g, err := NewGroup(Table{"00": "mode0", "01": "mode1", "10": "mode2", "11": "mode3"})
	if err != nil {
		t.Fatalf("NewGroup() error = %v", err)
	}
	acc := g.NewAccumulator()

	if acc.Pending() != 2 {
		t.Fatalf("Pending() = %d, want 2", acc.Pending())
	}

	label, resolved, err := acc.Feed('1')
	if err != nil || resolved || label != "" {
		t.Fatalf("Feed('1') = (%q, %v, %v), want no resolution", label, resolved, err)
	}
	if acc.Pending() != 1 || acc.Bits() != "1" {
		t.Fatalf("after one feed: Pending() = %d, Bits() = %q", acc.Pending(), acc.Bits())
	}

	label, resolved, err = acc.Feed('0')
	if err != nil || !resolved || label != "mode2" {
		t.Fatalf("Feed('0') = (%q, %v, %v), want (mode2, true, nil)", label, resolved, err)
	}
	if acc.Pending() != 2 || acc.Bits() != "" {
		t.Fatalf("after resolution: Pending() = %d, Bits() = %q, want reset", acc.Pending(), acc.Bits())
	}

	// Exactly one resolution per Width() bits.
	var got []string
	for _, b := range []byte("011100") {
		label, resolved, err := acc.Feed(b)
		if err != nil {
			t.Fatalf("Feed(%q) error = %v", b, err)
		}
		if resolved {
			got = append(got, label)
		}
	}
	if diff := pretty.Compare([]string{"mode1", "mode3", "mode0"}, got); diff != "" {
		t.Errorf("resolutions diff (-want +got):\n%s", diff)
	}
}

func TestAccumulatorErrors(t *testing.T) {
	g, err := NewGroup(Table{"00": "a", "01": "b"})
	if err != nil {
		t.Fatalf("NewGroup() error = %v", err)
	}
	acc := g.NewAccumulator()

	if _, _, err := acc.Feed('2'); !errors.Is(err, ErrInvalidBit) {
		t.Errorf("Feed('2') error = %v, want %v", err, ErrInvalidBit)
	}

	acc.Feed('1')
	if _, _, err := acc.Feed('0'); !errors.Is(err, ErrUnknownBitPattern) {
		t.Fatalf("Feed() of unknown pattern error = %v, want %v", err, ErrUnknownBitPattern)
	}
	// A failed resolution leaves nothing behind.
	if acc.Pending() != 2 {
		t.Errorf("Pending() after failure = %d, want 2", acc.Pending())
	}

	acc.Feed('0')
	acc.Reset()
	if acc.Pending() != 2 {
		t.Errorf("Pending() after Reset = %d, want 2", acc.Pending())
	}
}

func TestGroupIdentity(t *testing.T) {
	table := Table{"0": "off", "1": "on"}
	a, _ := NewGroup(table)
	b, _ := NewGroup(table)

	d := append(Slots(a), Slots(b)...)
	d = append(d, Flags("f2", "f3", "f4", "f5", "f6", "f7")...)
	l := mustLayout(t, d)
	if l.Groups() != 2 {
		t.Errorf("Groups() = %d, want 2 distinct fields for equal tables", l.Groups())
	}
}

func TestGroupValuesSorted(t *testing.T) {
	g, err := NewNamedGroup("mode",
		Table{"11": "three", "00": "zero"},
		RangeSpec{Start: 1, End: 2, Bits: 2, Label: "RFU"},
	)
	if err != nil {
		t.Fatalf("NewNamedGroup() error = %v", err)
	}

	want := []GroupValue{
		{Value: 0, RawBits: "00", Label: "zero"},
		{Value: 1, RawBits: "01", Label: "RFU"},
		{Value: 2, RawBits: "10", Label: "RFU"},
		{Value: 3, RawBits: "11", Label: "three"},
	}
	if diff := pretty.Compare(want, g.Values()); diff != "" {
		t.Errorf("Values() diff (-want +got):\n%s", diff)
	}
	if g.Name() != "mode" {
		t.Errorf("Name() = %q, want %q", g.Name(), "mode")
	}
	if key, _ := g.keyFor("RFU"); key != "01" {
		t.Errorf("keyFor(RFU) = %q, want lowest key 01", key)
	}
}

func TestMustGroupPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("MustGroup() with empty table did not panic")
		}
	}()
	MustGroup(Table{})
}

func TestInferFieldName(t *testing.T) {
	tests := []struct {
		name   string
		labels []string
		want   string
	}{
		{
			name:   "common valued prefix",
			labels: []string{"sensor ID: 0", "sensor ID: 1", "sensor ID: 2"},
			want:   "sensor ID",
		},
		{
			name: "digits and off with reserved values",
			labels: []string{
				"heating mode off", "heating mode 1", "heating mode 2", "heating mode 3",
				"RFU", "RFU", "RFU",
			},
			want: "heating mode",
		},
		{
			name:   "on and off",
			labels: []string{"LED is OFF", "LED is ON"},
			want:   "LED is",
		},
		{
			name:   "trailing digits without space",
			labels: []string{"mode0", "mode1", "mode2", "mode3"},
			want:   "mode",
		},
		{
			name:   "nothing to strip",
			labels: []string{"temperature OK", "temperature too low", "broken sensor"},
			want:   "",
		},
		{
			name:   "tie",
			labels: []string{"a 1", "a 2", "b 1", "b 2"},
			want:   "",
		},
		{
			name:   "single occurrence",
			labels: []string{"x 1", "y"},
			want:   "",
		},
		{
			name:   "different valued prefixes",
			labels: []string{"a: 1", "b: 2"},
			want:   "",
		},
		{
			name:   "empty",
			labels: nil,
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := inferFieldName(tt.labels); got != tt.want {
				t.Errorf("inferFieldName(%q) = %q, want %q", tt.labels, got, tt.want)
			}
		})
	}
}
