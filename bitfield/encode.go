// Copyright (c) 2024-2026 Multitech Systems, Inc.
// Author: Jason Reiss
// SPDX-License-Identifier: MIT

package bitfield

import (
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// Address points at one bit of a layout. Its text form is
// "<name>:<byte_index>:<bit_index>", with bit_index in LittleEndian order.
type Address struct {
	Name      string
	ByteIndex int
	BitIndex  int
}

// Index returns the flat descriptor index of the address.
func (a Address) Index() int { return a.ByteIndex*8 + a.BitIndex }

// String implements fmt.Stringer.
func (a Address) String() string {
	return a.Name + ":" + strconv.Itoa(a.ByteIndex) + ":" + strconv.Itoa(a.BitIndex)
}

// looksAddressed reports whether s has the two separators of an address.
func looksAddressed(s string) bool {
	return strings.Count(s, ":") >= 2
}

// parseAddress splits s from the right so that names containing ':' survive.
func (l *Layout) parseAddress(s string) (Address, error) {
	i := strings.LastIndexByte(s, ':')
	j := strings.LastIndexByte(s[:i], ':')
	name, byteStr, bitStr := s[:j], s[j+1:i], s[i+1:]

	bi, err := strconv.Atoi(byteStr)
	if err != nil || bi < 0 {
		return Address{}, newError(KindInvalidAddress, "bad byte index %q", byteStr).withLabel(s)
	}
	if bi >= l.ByteLength() {
		return Address{}, newError(KindInvalidAddress, "byte index %d outside layout of %d bytes", bi, l.ByteLength()).withLabel(s)
	}
	bit, err := strconv.Atoi(bitStr)
	if err != nil || bit < 0 || bit > 7 {
		return Address{}, newError(KindInvalidAddress, "bad bit index %q", bitStr).withLabel(s)
	}
	return Address{Name: name, ByteIndex: bi, BitIndex: bit}, nil
}

// encodeState is the per-call state of an encode.
type encodeState struct {
	l        *Layout
	flags    []bool
	assigned map[*field]string // field -> key
	by       map[*field]string // field -> what assigned it
}

func (st *encodeState) assign(f *field, key, source string) error {
	if prev, ok := st.assigned[f]; ok && prev != key {
		return newError(KindValueAlreadySet, "already set to %s by %q, %q wants %s", prev, st.by[f], source, key).
			at(f.start).withField(f.group.name)
	}
	st.assigned[f] = key
	st.by[f] = source
	return nil
}

// resolveField finds the field a field-value key refers to.
func (st *encodeState) resolveField(name string) (*field, error) {
	l := st.l
	switch fs := l.fieldsByName[name]; {
	case len(fs) == 1:
		return fs[0], nil
	case len(fs) > 1:
		return nil, newError(KindAmbiguousFieldName, "name matches %d groups, use name:byte:bit", len(fs)).withField(name)
	}

	if !looksAddressed(name) {
		return nil, newError(KindUnknownFieldName, "no group has this name").withField(name)
	}
	addr, err := l.parseAddress(name)
	if err != nil {
		return nil, err
	}
	f := l.fieldOf(addr.Index())
	if f == nil {
		return nil, newError(KindInvalidAddress, "%s is not a group slot", addr).at(addr.Index()).withField(name)
	}
	if f.group.name != "" && f.group.name != addr.Name {
		return nil, newError(KindInvalidAddress, "slot belongs to group %q", f.group.name).at(addr.Index()).withField(name)
	}
	return f, nil
}

func (st *encodeState) setValue(name string, v int) error {
	f, err := st.resolveField(name)
	if err != nil {
		return err
	}
	w := f.group.width
	if v < 0 || v >= 1<<w {
		return newError(KindUnknownFieldValue, "value %d does not fit %d bits", v, w).at(f.start).withField(name)
	}
	key := FormatBits(v, w)
	if !f.group.hasKey(key) {
		return newError(KindUnknownFieldValue, "value %d (%s) is not a legal value", v, key).at(f.start).withField(name)
	}
	return st.assign(f, key, name)
}

func (st *encodeState) enable(label string) error {
	l := st.l
	positions := l.flagPositions[label]
	fields := l.fieldsByLabel[label]

	switch n := len(positions) + len(fields); {
	case n > 1:
		return newError(KindAmbiguousLabel, "label matches %d flags and %d groups, use name:byte:bit", len(positions), len(fields)).
			withLabel(label)
	case n == 1 && len(positions) == 1:
		st.flags[positions[0]] = true
		return nil
	case n == 1:
		return st.selectLabel(fields[0], label, label)
	}

	if !looksAddressed(label) {
		return newError(KindUnknownLabel, "label is not part of the layout").withLabel(label)
	}
	addr, err := l.parseAddress(label)
	if err != nil {
		return err
	}
	idx := addr.Index()
	d := l.descriptors[idx]
	if d.group == nil {
		if d.label != addr.Name {
			return newError(KindInvalidAddress, "slot holds flag %q", d.label).at(idx).withLabel(label)
		}
		st.flags[idx] = true
		return nil
	}
	if _, ok := d.group.keyFor(addr.Name); !ok {
		return newError(KindInvalidAddress, "group at slot has no label %q", addr.Name).at(idx).withLabel(label)
	}
	return st.selectLabel(l.fieldOf(idx), addr.Name, label)
}

// selectLabel assigns f the value named by label. A label shared by several
// keys agrees with whichever of them f already holds; otherwise the lowest
// key is used.
func (st *encodeState) selectLabel(f *field, label, source string) error {
	if key, ok := st.assigned[f]; ok && f.group.lookup[key] == label {
		return nil
	}
	key, _ := f.group.keyFor(label)
	return st.assign(f, key, source)
}

// Encode builds the payload in which exactly the enabled flags are set and
// every group carries the value given by values or selected by an enabled
// group label. Every group must receive exactly one value.
//
// Field values are resolved first, in sorted key order, then enabled labels
// in the order given. Names and labels may use the addressed form
// "name:byte:bit" to pick one position when the plain text is ambiguous.
func (l *Layout) Encode(enabled []string, values map[string]int) ([]byte, error) {
	st := &encodeState{
		l:        l,
		flags:    make([]bool, len(l.descriptors)),
		assigned: make(map[*field]string, len(l.fields)),
		by:       make(map[*field]string, len(l.fields)),
	}

	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := st.setValue(name, values[name]); err != nil {
			return nil, err
		}
	}

	for _, label := range enabled {
		if err := st.enable(label); err != nil {
			return nil, err
		}
	}

	for _, f := range l.fields {
		if _, ok := st.assigned[f]; !ok {
			return nil, newError(KindMissingFieldValue, "group %d has no value", f.id).at(f.start).withField(f.group.name)
		}
	}

	out := make([]byte, l.ByteLength())
	for i, on := range st.flags {
		if on {
			out[i/8] = SetBit(out[i/8], uint8(i%8), LittleEndian, true)
		}
	}
	for f, key := range st.assigned {
		for j := 0; j < len(key); j++ {
			if key[j] == '1' {
				i := f.start + j
				out[i/8] = SetBit(out[i/8], uint8(i%8), LittleEndian, true)
			}
		}
	}

	Logger().Debug("encoded payload",
		zap.String("layout", l.name),
		zap.Int("labels", len(enabled)),
		zap.Int("values", len(values)),
		zap.Int("bytes", len(out)))
	return out, nil
}

// EncodeHex is Encode rendered as uppercase hex.
func (l *Layout) EncodeHex(enabled []string, values map[string]int) (string, error) {
	data, err := l.Encode(enabled, values)
	if err != nil {
		return "", err
	}
	return FormatHex(data), nil
}

// EncodeBits compiles descriptors and encodes enabled and values with them,
// returning uppercase hex.
func EncodeBits(enabled []string, descriptors []Descriptor, values map[string]int) (string, error) {
	l, err := NewLayout(descriptors)
	if err != nil {
		return "", err
	}
	return l.EncodeHex(enabled, values)
}
