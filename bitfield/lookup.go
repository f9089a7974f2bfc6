// Copyright (c) 2024-2026 Multitech Systems, Inc.
// Author: Jason Reiss
// SPDX-License-Identifier: MIT

package bitfield

import "strconv"

// MaxGroupBits is the widest multi-bit field a Group can describe.
const MaxGroupBits = 8

// LookupSource contributes bit-string keys and their labels to a Group.
// It is implemented by Table and RangeSpec.
type LookupSource interface {
	entries() (map[string]string, error)
}

// Table is a literal mapping from fixed-width bit-strings to labels.
type Table map[string]string

func (t Table) entries() (map[string]string, error) {
	for k := range t {
		if !isBitString(k) {
			return nil, newError(KindInvalidLookupKey, "key must be a non-empty string of 0 and 1").withLabel(k)
		}
		if len(k) > MaxGroupBits {
			return nil, newError(KindInvalidWidth, "key %q is %d bits wide, max %d", k, len(k), MaxGroupBits)
		}
	}
	return t, nil
}

// RangeSpec describes a contiguous integer range that shares one label, for
// reserved ranges and counters.
type RangeSpec struct {
	Label string
	Start int
	End   int // inclusive
	Bits  int
	// RenderWithValue renders each key as "Label: N" instead of the bare label.
	RenderWithValue bool
}

// Expand produces the lookup entries of the range: one Bits-wide key for
// every integer in [Start, End].
func (r RangeSpec) Expand() (map[string]string, error) {
	if r.Bits < 1 || r.Bits > MaxGroupBits {
		return nil, newError(KindInvalidWidth, "range width %d outside 1..%d", r.Bits, MaxGroupBits).withLabel(r.Label)
	}
	if r.Start < 0 || r.Start > r.End || r.End >= 1<<r.Bits {
		return nil, newError(KindInvalidRange, "range [%d, %d] does not fit %d bits", r.Start, r.End, r.Bits).withLabel(r.Label)
	}

	out := make(map[string]string, r.End-r.Start+1)
	for v := r.Start; v <= r.End; v++ {
		out[FormatBits(v, r.Bits)] = r.render(v)
	}
	return out, nil
}

func (r RangeSpec) render(v int) string {
	if r.RenderWithValue {
		return r.Label + ": " + strconv.Itoa(v)
	}
	return r.Label
}

func (r RangeSpec) entries() (map[string]string, error) {
	return r.Expand()
}

// mergeLookups combines sources in order. Re-defining a key with the same
// label is allowed; a different label is a LookupConflict. All keys must
// share one width, which is returned.
func mergeLookups(sources []LookupSource) (map[string]string, int, error) {
	merged := make(map[string]string)
	width := 0

	for _, src := range sources {
		if src == nil {
			continue
		}
		entries, err := src.entries()
		if err != nil {
			return nil, 0, err
		}
		for key, label := range entries {
			if width == 0 {
				width = len(key)
			} else if len(key) != width {
				return nil, 0, newError(KindInvalidWidth, "key %q is %d bits wide, group is %d", key, len(key), width).withLabel(label)
			}
			if prev, ok := merged[key]; ok && prev != label {
				return nil, 0, newError(KindLookupConflict, "key %s already maps to %q", key, prev).withLabel(label)
			}
			merged[key] = label
		}
	}

	if width == 0 {
		return nil, 0, newError(KindInvalidWidth, "lookup is empty, cannot infer width")
	}
	return merged, width, nil
}
