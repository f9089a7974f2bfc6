// Copyright (c) 2024-2026 Multitech Systems, Inc.
// Author: Jason Reiss
// SPDX-License-Identifier: MIT

package bitfield

import "strconv"

// Descriptor is one bit slot of a layout: either a standalone flag with a
// label, or one slot of a multi-bit Group. Build them with Flag and Slot.
type Descriptor struct {
	label string
	group *Group
}

// Flag returns a standalone flag descriptor. The label is emitted when the bit is set.
func Flag(label string) Descriptor {
	return Descriptor{label: label}
}

// Slot returns a descriptor for one bit of g. A field of g needs g.Width()
// consecutive slots; see Slots.
func Slot(g *Group) Descriptor {
	return Descriptor{group: g}
}

// Flags returns one flag descriptor per label, in order.
func Flags(labels ...string) []Descriptor {
	out := make([]Descriptor, len(labels))
	for i, l := range labels {
		out[i] = Flag(l)
	}
	return out
}

// Slots returns the g.Width() consecutive slots of one field of g.
func Slots(g *Group) []Descriptor {
	out := make([]Descriptor, g.Width())
	for i := range out {
		out[i] = Slot(g)
	}
	return out
}

// IsGroup reports whether d is a group slot.
func (d Descriptor) IsGroup() bool { return d.group != nil }

// Label returns the flag label, or "" for a group slot.
func (d Descriptor) Label() string { return d.label }

// Group returns the group of a slot, or nil for a flag.
func (d Descriptor) Group() *Group { return d.group }

// String implements fmt.Stringer.
func (d Descriptor) String() string {
	if d.group != nil {
		if d.group.name != "" {
			return "slot(" + d.group.name + ")"
		}
		return "slot(" + strconv.Itoa(d.group.width) + " bits)"
	}
	return strconv.Quote(d.label)
}

// field is one occurrence of a Group in a layout: Width() consecutive slots.
type field struct {
	id    int // 1-based, in order of appearance
	group *Group
	start int
}

func (f *field) indices() []int {
	out := make([]int, f.group.width)
	for i := range out {
		out[i] = f.start + i
	}
	return out
}

// Layout is a validated descriptor list. It is immutable and can be used by
// any number of goroutines at once.
type Layout struct {
	name        string
	descriptors []Descriptor
	fields      []*field
	fieldAt     []int // slot index -> index into fields, or -1

	flagPositions map[string][]int    // flag label -> slot indices
	fieldsByName  map[string][]*field // group field name -> fields
	fieldsByLabel map[string][]*field // group label -> fields able to produce it
}

// NewLayout validates descriptors and compiles them into a Layout. The list
// length must be a positive multiple of 8, and every run of consecutive
// slots of one Group must be exactly that group's width.
func NewLayout(descriptors []Descriptor) (*Layout, error) {
	n := len(descriptors)
	if n == 0 || n%8 != 0 {
		return nil, newError(KindInvalidLayout, "descriptor length %d is not a positive multiple of 8", n)
	}

	l := &Layout{
		descriptors:   make([]Descriptor, n),
		fieldAt:       make([]int, n),
		flagPositions: make(map[string][]int),
		fieldsByName:  make(map[string][]*field),
		fieldsByLabel: make(map[string][]*field),
	}
	copy(l.descriptors, descriptors)

	for i := 0; i < n; {
		d := l.descriptors[i]
		if d.group == nil {
			if d.label == "" {
				return nil, newError(KindInvalidLayout, "flag descriptor has an empty label").at(i)
			}
			l.fieldAt[i] = -1
			l.flagPositions[d.label] = append(l.flagPositions[d.label], i)
			i++
			continue
		}

		end := i
		for end < n && l.descriptors[end].group == d.group {
			end++
		}
		if run := end - i; run != d.group.width {
			return nil, newError(KindGroupWidthMismatch, "group occupies %d slots, declared width is %d", run, d.group.width).
				at(i).withField(d.group.name)
		}

		f := &field{id: len(l.fields) + 1, group: d.group, start: i}
		for j := i; j < end; j++ {
			l.fieldAt[j] = len(l.fields)
		}
		l.fields = append(l.fields, f)
		if d.group.name != "" {
			l.fieldsByName[d.group.name] = append(l.fieldsByName[d.group.name], f)
		}
		seen := make(map[string]bool)
		for _, v := range d.group.values {
			if !seen[v.Label] {
				seen[v.Label] = true
				l.fieldsByLabel[v.Label] = append(l.fieldsByLabel[v.Label], f)
			}
		}
		i = end
	}

	return l, nil
}

// MustLayout is like NewLayout but panics on error.
func MustLayout(descriptors []Descriptor) *Layout {
	l, err := NewLayout(descriptors)
	if err != nil {
		panic(err)
	}
	return l
}

// Name returns the layout name given by its definition file, if any.
func (l *Layout) Name() string { return l.name }

// ByteLength returns the number of bytes the layout describes.
func (l *Layout) ByteLength() int { return len(l.descriptors) / 8 }

// Descriptors returns a copy of the descriptor list.
func (l *Layout) Descriptors() []Descriptor {
	out := make([]Descriptor, len(l.descriptors))
	copy(out, l.descriptors)
	return out
}

// Groups returns the number of multi-bit fields in the layout.
func (l *Layout) Groups() int { return len(l.fields) }

func (l *Layout) fieldOf(index int) *field {
	if fi := l.fieldAt[index]; fi >= 0 {
		return l.fields[fi]
	}
	return nil
}
