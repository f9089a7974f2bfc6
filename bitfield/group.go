// Copyright (c) 2024-2026 Multitech Systems, Inc.
// Author: Jason Reiss
// SPDX-License-Identifier: MIT

package bitfield

import "sort"

// GroupValue is one legal value of a multi-bit field.
type GroupValue struct {
	Value   int    `json:"value" yaml:"value"`
	RawBits string `json:"raw_bits" yaml:"raw_bits"`
	Label   string `json:"label" yaml:"label"`
}

// Group describes a multi-bit field: a bit width and a lookup from the
// field's bit-string to a label. A Group is immutable once built and is
// identified by its pointer, so two Groups with equal tables are still two
// distinct fields. Decoding state lives in an Accumulator, never in the Group,
// which makes a Group safe to share between layouts and goroutines.
type Group struct {
	name    string
	width   int
	lookup  map[string]string
	values  []GroupValue
	byLabel map[string]string // label -> lowest key carrying it
}

// NewGroup builds an unnamed Group from one or more lookup sources. The field
// name is inferred from the labels, see Group.Name.
func NewGroup(sources ...LookupSource) (*Group, error) {
	return newGroup("", false, sources)
}

// NewNamedGroup builds a Group with an explicit field name.
func NewNamedGroup(name string, sources ...LookupSource) (*Group, error) {
	return newGroup(name, true, sources)
}

func newGroup(name string, explicit bool, sources []LookupSource) (*Group, error) {
	lookup, width, err := mergeLookups(sources)
	if err != nil {
		return nil, err
	}

	g := &Group{
		width:   width,
		lookup:  lookup,
		values:  make([]GroupValue, 0, len(lookup)),
		byLabel: make(map[string]string, len(lookup)),
	}
	for key, label := range lookup {
		g.values = append(g.values, GroupValue{Value: parseBits(key), RawBits: key, Label: label})
	}
	sort.Slice(g.values, func(i, j int) bool { return g.values[i].Value < g.values[j].Value })
	for _, v := range g.values {
		if _, ok := g.byLabel[v.Label]; !ok {
			g.byLabel[v.Label] = v.RawBits
		}
	}

	if explicit {
		g.name = name
	} else {
		labels := make([]string, len(g.values))
		for i, v := range g.values {
			labels[i] = v.Label
		}
		g.name = inferFieldName(labels)
	}
	return g, nil
}

// MustGroup is like NewGroup but panics on error. It is meant for layouts
// declared as package-level variables.
func MustGroup(sources ...LookupSource) *Group {
	g, err := NewGroup(sources...)
	if err != nil {
		panic(err)
	}
	return g
}

// Width returns the number of bits the field occupies.
func (g *Group) Width() int { return g.width }

// Name returns the explicit field name, or the inferred one. The inferred
// name is best effort and may be empty even for a nameable field.
func (g *Group) Name() string { return g.name }

// Values returns every legal value sorted by integer value.
func (g *Group) Values() []GroupValue {
	out := make([]GroupValue, len(g.values))
	copy(out, g.values)
	return out
}

// Lookup resolves a Width()-bit key to its label.
func (g *Group) Lookup(key string) (string, error) {
	label, ok := g.lookup[key]
	if !ok {
		return "", newError(KindUnknownBitPattern, "no label for bits %s", key).withField(g.name)
	}
	return label, nil
}

// keyFor returns the lowest key that resolves to label.
func (g *Group) keyFor(label string) (string, bool) {
	key, ok := g.byLabel[label]
	return key, ok
}

func (g *Group) hasKey(key string) bool {
	_, ok := g.lookup[key]
	return ok
}

// NewAccumulator returns fresh per-decode state for this Group.
func (g *Group) NewAccumulator() *Accumulator {
	return &Accumulator{group: g, buf: make([]byte, 0, g.width)}
}

// Accumulator collects the bits of one occurrence of a Group's field. It
// starts with Width() bits pending; each Feed consumes one, and the feed that
// completes the field resolves it and resets the accumulator.
type Accumulator struct {
	group *Group
	buf   []byte
}

// Feed adds one bit, given as '0' or '1'. It reports resolved once Width()
// bits have been fed since the last resolution, together with the label.
func (a *Accumulator) Feed(bit byte) (label string, resolved bool, err error) {
	if bit != '0' && bit != '1' {
		return "", false, newError(KindInvalidBit, "bit must be '0' or '1', got %q", bit).withField(a.group.name)
	}
	a.buf = append(a.buf, bit)
	if len(a.buf) < a.group.width {
		return "", false, nil
	}

	key := string(a.buf)
	a.buf = a.buf[:0]
	label, err = a.group.Lookup(key)
	if err != nil {
		return "", false, err
	}
	return label, true, nil
}

// Pending returns how many bits are still needed to resolve the field.
func (a *Accumulator) Pending() int {
	return a.group.width - len(a.buf)
}

// Bits returns the bits accumulated since the last resolution.
func (a *Accumulator) Bits() string {
	return string(a.buf)
}

// Reset discards any partially accumulated bits.
func (a *Accumulator) Reset() {
	a.buf = a.buf[:0]
}
