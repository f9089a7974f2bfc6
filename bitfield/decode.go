// Copyright (c) 2024-2026 Multitech Systems, Inc.
// Author: Jason Reiss
// SPDX-License-Identifier: MIT

package bitfield

import (
	"encoding/json"
	"errors"

	"go.uber.org/zap"
)

// EntryKind distinguishes per-bit records from group summaries.
type EntryKind string

const (
	EntryBit      EntryKind = "bit"
	EntryMultiBit EntryKind = "multi_bit"
)

// Entry is one record of a full-detail decode. Every bit of the layout gets
// an EntryBit record; each group additionally gets an EntryMultiBit summary
// right after its last bit.
type Entry struct {
	Kind      EntryKind `json:"kind"`
	Index     int       `json:"index"`
	ByteIndex int       `json:"byte_index"`
	BitIndex  int       `json:"bit_index"`
	Bit       uint8     `json:"bit"`
	Enabled   bool      `json:"enabled"`
	Label     string    `json:"label,omitempty"`
	// GroupID is 1-based in order of appearance, 0 for standalone flags.
	GroupID    int    `json:"group_id,omitempty"`
	GroupBit   int    `json:"group_bit"`
	GroupLabel string `json:"group_label,omitempty"`

	// Summary only.
	FieldName string `json:"field_name,omitempty"`
	Width     int    `json:"width,omitempty"`
	RawBits   string `json:"raw_bits,omitempty"`
	ValueInt  int    `json:"value_int"`
}

// MarshalJSON writes group_bit on the bit records of a group only and
// value_int on summaries only, so a zero in either is always meaningful.
func (e Entry) MarshalJSON() ([]byte, error) {
	type plain Entry
	out := struct {
		plain
		GroupBit *int `json:"group_bit,omitempty"`
		ValueInt *int `json:"value_int,omitempty"`
	}{plain: plain(e)}

	switch {
	case e.Kind == EntryMultiBit:
		out.ValueInt = &e.ValueInt
	case e.GroupID != 0:
		out.GroupBit = &e.GroupBit
	}
	return json.Marshal(out)
}

// bitEvent is what the walk reports for every bit of the input.
type bitEvent struct {
	index     int
	byteIndex int
	bitIndex  int
	bit       uint8
	desc      Descriptor
	field     *field
	groupBit  int

	// Set on the bit that completes a group.
	resolved bool
	label    string
	rawBits  string
}

// walk visits every bit of data in layout order: bytes in input order, bits
// 0..7 of each byte in LittleEndian order. Group bits are accumulated in
// state owned by this call, so no Group carries anything between calls.
func (l *Layout) walk(data []byte, visit func(ev *bitEvent)) error {
	if len(data) != l.ByteLength() {
		return newError(KindLengthMismatch, "got %d bytes, layout describes %d", len(data), l.ByteLength())
	}

	accs := make(map[*Group]*Accumulator, len(l.fields))
	var ev bitEvent

	for bi, b := range data {
		for pos := uint8(0); pos < 8; pos++ {
			idx := bi*8 + int(pos)
			ev = bitEvent{
				index:     idx,
				byteIndex: bi,
				bitIndex:  int(pos),
				bit:       GetBit(b, pos, LittleEndian),
				desc:      l.descriptors[idx],
			}

			if f := l.fieldOf(idx); f != nil {
				acc, ok := accs[f.group]
				if !ok {
					acc = f.group.NewAccumulator()
					accs[f.group] = acc
				}
				ev.field = f
				ev.groupBit = idx - f.start

				pending := acc.Bits()
				label, resolved, err := acc.Feed('0' + ev.bit)
				if err != nil {
					var e *Error
					if errors.As(err, &e) {
						e.Index = f.start
					}
					return err
				}
				if resolved {
					ev.resolved = true
					ev.label = label
					ev.rawBits = pending + string('0'+ev.bit)
				}
			}

			visit(&ev)
		}
	}
	return nil
}

// Decode returns, in layout order, the label of every set standalone flag and
// the resolved label of every group (once, at the group's last bit).
func (l *Layout) Decode(data []byte) ([]string, error) {
	out := []string{}
	err := l.walk(data, func(ev *bitEvent) {
		switch {
		case ev.field == nil && ev.bit == 1:
			out = append(out, ev.desc.label)
		case ev.resolved:
			out = append(out, ev.label)
		}
	})
	if err != nil {
		return nil, err
	}

	Logger().Debug("decoded payload",
		zap.String("layout", l.name),
		zap.Int("bytes", len(data)),
		zap.Int("labels", len(out)))
	return out, nil
}

// DecodeHex is Decode for a hexadecimal capture.
func (l *Layout) DecodeHex(s string) ([]string, error) {
	data, err := ParseHex(s)
	if err != nil {
		return nil, err
	}
	return l.Decode(data)
}

// DecodeFull returns a record for every bit of the layout, set or not, plus a
// summary record after each group.
func (l *Layout) DecodeFull(data []byte) ([]Entry, error) {
	out := make([]Entry, 0, len(l.descriptors)+len(l.fields))
	err := l.walk(data, func(ev *bitEvent) {
		e := Entry{
			Kind:      EntryBit,
			Index:     ev.index,
			ByteIndex: ev.byteIndex,
			BitIndex:  ev.bitIndex,
			Bit:       ev.bit,
			Enabled:   ev.bit == 1,
		}
		if ev.field == nil {
			e.Label = ev.desc.label
			out = append(out, e)
			return
		}

		e.GroupID = ev.field.id
		e.GroupBit = ev.groupBit
		out = append(out, e)
		if !ev.resolved {
			return
		}

		// A field's slots are consecutive, so its bit records are the last Width() entries.
		w := ev.field.group.width
		for i := len(out) - w; i < len(out); i++ {
			out[i].GroupLabel = ev.label
		}
		first := out[len(out)-w]
		out = append(out, Entry{
			Kind:       EntryMultiBit,
			Index:      first.Index,
			ByteIndex:  first.ByteIndex,
			BitIndex:   first.BitIndex,
			Enabled:    true,
			Label:      ev.label,
			GroupID:    ev.field.id,
			GroupLabel: ev.label,
			FieldName:  ev.field.group.name,
			Width:      w,
			RawBits:    ev.rawBits,
			ValueInt:   parseBits(ev.rawBits),
		})
	})
	if err != nil {
		return nil, err
	}

	Logger().Debug("decoded payload in full",
		zap.String("layout", l.name),
		zap.Int("bytes", len(data)),
		zap.Int("entries", len(out)))
	return out, nil
}

// DecodeFullHex is DecodeFull for a hexadecimal capture.
func (l *Layout) DecodeFullHex(s string) ([]Entry, error) {
	data, err := ParseHex(s)
	if err != nil {
		return nil, err
	}
	return l.DecodeFull(data)
}

// ParseBits compiles descriptors and decodes data with them.
func ParseBits(data []byte, descriptors []Descriptor) ([]string, error) {
	l, err := NewLayout(descriptors)
	if err != nil {
		return nil, err
	}
	return l.Decode(data)
}

// ParseBitsHex is ParseBits for a hexadecimal capture.
func ParseBitsHex(s string, descriptors []Descriptor) ([]string, error) {
	l, err := NewLayout(descriptors)
	if err != nil {
		return nil, err
	}
	return l.DecodeHex(s)
}

// ParseBitsFull compiles descriptors and returns the full-detail decode of data.
func ParseBitsFull(data []byte, descriptors []Descriptor) ([]Entry, error) {
	l, err := NewLayout(descriptors)
	if err != nil {
		return nil, err
	}
	return l.DecodeFull(data)
}
