// Copyright (c) 2024-2026 Multitech Systems, Inc.
// Author: Jason Reiss
// SPDX-License-Identifier: MIT

package bitfield

import "testing"

// ioPins is a one byte layout of eight standalone flags, bit 7 first.
var ioPins = Flags(
	"I/O pin Nr7 high level",
	"I/O pin Nr6 high level",
	"I/O pin Nr5 high level",
	"I/O pin Nr4 high level",
	"I/O pin Nr3 high level",
	"I/O pin Nr2 high level",
	"I/O pin Nr1 high level",
	"I/O pin Nr0 high level",
)

// alarmPanel is a three byte layout with a label repeated at two positions.
var alarmPanel = Flags(
	// Byte 0
	"led Nr 1 on", "led Nr 2 on", "led Nr 3 on", "led Nr 4 on",
	"led Nr 5 on", "led Nr 6 on", "led Nr 7 on", "led Nr 8 on",
	// Byte 1
	"front door opened", "back door opened", "zone 1 alarm", "zone 2 alarm",
	"zone 3 alarm", "zone 4 alarm", "zone 5 alarm", "zone 6 alarm",
	// Byte 2
	"zone 7 alarm", "zone 1 fire", "zone 2 fire", "zone 3 fire",
	"zone 4 fire", "zone 5 fire", "flood sensor active", "flood sensor active",
)

const peopleLabel = "Number of people in the building"

func counterLayout(t testing.TB) []Descriptor {
	t.Helper()

	people, err := NewGroup(RangeSpec{Start: 0, End: 15, Bits: 4, Label: peopleLabel, RenderWithValue: true})
	if err != nil {
		t.Fatalf("NewGroup() error = %v", err)
	}

	var d []Descriptor
	d = append(d, Flags(
		"front door opened", "back door opened", "zone 1 alarm", "zone 2 alarm",
		"zone 3 alarm", "zone 4 alarm", "zone 5 alarm", "zone 6 alarm",
		"zone 7 alarm", "zone 1 fire", "zone 2 fire", "zone 3 fire",
		"zone 4 fire", "zone 5 fire", "flood sensor 1 alarm", "flood sensor 2 alarm",
		"RFU", "RFU",
	)...)
	d = append(d, Slots(people)...)
	d = append(d, Flags("RFU", "RFU")...)
	return d
}

// heatingController returns the two byte layout of a heating controller:
//
//	byte 0: sensor ID (3) | temperature status (2) | LED (1) | heating mode (2 of 4)
//	byte 1: heating mode (2 of 4) | heating module 1..4 on | RFU | RFU
func heatingController(t testing.TB) []Descriptor {
	t.Helper()

	heatingMode, err := NewGroup(
		Table{
			"0000": "heating mode off",
			"0001": "heating mode 1",
			"0010": "heating mode 2",
			"0011": "heating mode 3",
			"0100": "heating mode 4",
			"0101": "heating mode 5",
			"0110": "heating mode 6",
			"0111": "heating mode 7",
			"1000": "heating mode 8",
		},
		RangeSpec{Start: 0b1001, End: 0b1111, Bits: 4, Label: "RFU"},
	)
	if err != nil {
		t.Fatalf("NewGroup(heating mode) error = %v", err)
	}
	status, err := NewGroup(Table{
		"00": "temperature OK",
		"01": "temperature too low",
		"10": "temperature too high",
		"11": "broken sensor",
	})
	if err != nil {
		t.Fatalf("NewGroup(status) error = %v", err)
	}
	led, err := NewGroup(Table{"0": "LED is OFF", "1": "LED is ON"})
	if err != nil {
		t.Fatalf("NewGroup(led) error = %v", err)
	}
	sensorID, err := NewGroup(RangeSpec{Start: 0b000, End: 0b111, Bits: 3, Label: "sensor ID", RenderWithValue: true})
	if err != nil {
		t.Fatalf("NewGroup(sensor ID) error = %v", err)
	}

	var d []Descriptor
	d = append(d, Slots(sensorID)...)
	d = append(d, Slots(status)...)
	d = append(d, Slots(led)...)
	d = append(d, Slots(heatingMode)...)
	d = append(d, Flags(
		"heating module 1 on",
		"heating module 2 on",
		"heating module 3 on",
		"heating module 4 on",
		"RFU",
		"RFU",
	)...)
	return d
}

// modeLayout is a 2-bit group in bits 0-1 followed by six flags.
func modeLayout(t testing.TB) []Descriptor {
	t.Helper()

	mode, err := NewGroup(Table{"00": "mode0", "01": "mode1", "10": "mode2", "11": "mode3"})
	if err != nil {
		t.Fatalf("NewGroup() error = %v", err)
	}
	return append(Slots(mode), Flags("flag a", "flag b", "flag c", "flag d", "flag e", "flag f")...)
}

func mustLayout(t testing.TB, d []Descriptor) *Layout {
	t.Helper()

	l, err := NewLayout(d)
	if err != nil {
		t.Fatalf("NewLayout() error = %v", err)
	}
	return l
}
