// Copyright (c) 2024-2026 Multitech Systems, Inc.
// Author: Jason Reiss
// SPDX-License-Identifier: MIT

package bitfield

import (
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// LayoutDef is the declarative form of a layout.
//
//	name: heating_controller
//	groups:
//	  status:
//	    bits: 2
//	    lookup: {0: temperature OK, 1: temperature too low}
//	bits:
//	  - group: status      # occupies the group's width unless count is set
//	  - LED is ON          # a plain scalar is a flag
//	  - {flag: RFU, count: 2}
type LayoutDef struct {
	Name        string              `json:"name,omitempty" yaml:"name,omitempty"`
	Description string              `json:"description,omitempty" yaml:"description,omitempty"`
	Groups      map[string]GroupDef `json:"groups,omitempty" yaml:"groups,omitempty"`
	Bits        []SlotDef           `json:"bits" yaml:"bits"`
}

// GroupDef declares a multi-bit field. Lookup keys may be decimal, prefixed
// literals such as 0b1010 or 0x0a, or a Bits-wide bit-string. Keys are kept
// as strings so that JSON layouts, whose object keys are always quoted,
// load the same as YAML ones.
type GroupDef struct {
	Name   string            `json:"name,omitempty" yaml:"name,omitempty"`
	Bits   int               `json:"bits" yaml:"bits"`
	Lookup map[string]string `json:"lookup,omitempty" yaml:"lookup,omitempty"`
	Ranges []RangeDef        `json:"ranges,omitempty" yaml:"ranges,omitempty"`
}

// RangeDef is a RangeSpec whose width comes from the enclosing group.
type RangeDef struct {
	Start     int    `json:"start" yaml:"start"`
	End       int    `json:"end" yaml:"end"`
	Label     string `json:"label" yaml:"label"`
	WithValue bool   `json:"with_value,omitempty" yaml:"with_value,omitempty"`
}

// SlotDef is one entry of the bits list: a flag or a reference to a group.
type SlotDef struct {
	Flag  string `json:"flag,omitempty" yaml:"flag,omitempty"`
	Group string `json:"group,omitempty" yaml:"group,omitempty"`
	Count int    `json:"count,omitempty" yaml:"count,omitempty"`
}

// UnmarshalYAML accepts a plain scalar as a flag label.
func (s *SlotDef) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		*s = SlotDef{Flag: node.Value}
		return nil
	}
	type plain SlotDef
	return node.Decode((*plain)(s))
}

// lookupValue interprets a lookup key of a bits-wide group. A string of
// exactly bits 0s and 1s is read in base 2; as a decimal it could never fit.
func lookupValue(key string, bits int) (int, bool) {
	key = strings.TrimSpace(key)
	if len(key) == bits && isBitString(key) {
		return parseBits(key), true
	}

	base := 10
	lower := strings.ToLower(key)
	if strings.HasPrefix(lower, "0b") || strings.HasPrefix(lower, "0o") || strings.HasPrefix(lower, "0x") {
		base = 0
	}
	v, err := strconv.ParseInt(key, base, 0)
	if err != nil {
		return 0, false
	}
	return int(v), true
}

func (g GroupDef) build(key string) (*Group, error) {
	if g.Bits < 1 || g.Bits > MaxGroupBits {
		return nil, newError(KindInvalidWidth, "group declares %d bits, want 1..%d", g.Bits, MaxGroupBits).withField(key)
	}

	sources := make([]LookupSource, 0, len(g.Ranges)+1)
	if len(g.Lookup) > 0 {
		t := make(Table, len(g.Lookup))
		for k, label := range g.Lookup {
			v, ok := lookupValue(k, g.Bits)
			if !ok {
				return nil, newError(KindInvalidLookupKey, "key %q is neither an integer nor a %d-bit string", k, g.Bits).withField(key).withLabel(label)
			}
			if v < 0 || v >= 1<<g.Bits {
				return nil, newError(KindInvalidRange, "lookup value %d does not fit %d bits", v, g.Bits).withField(key).withLabel(label)
			}
			bits := FormatBits(v, g.Bits)
			if prev, ok := t[bits]; ok && prev != label {
				return nil, newError(KindLookupConflict, "keys for value %d map to %q and %q", v, prev, label).withField(key).withLabel(label)
			}
			t[bits] = label
		}
		sources = append(sources, t)
	}
	for _, r := range g.Ranges {
		sources = append(sources, RangeSpec{
			Start:           r.Start,
			End:             r.End,
			Bits:            g.Bits,
			Label:           r.Label,
			RenderWithValue: r.WithValue,
		})
	}

	var (
		grp *Group
		err error
	)
	if g.Name != "" {
		grp, err = NewNamedGroup(g.Name, sources...)
	} else {
		grp, err = NewGroup(sources...)
	}
	if err != nil {
		var e *Error
		if errors.As(err, &e) && e.Field == "" {
			e.Field = key
		}
		return nil, err
	}
	return grp, nil
}

// Build compiles the definition into a Layout.
func (def *LayoutDef) Build() (*Layout, error) {
	keys := make([]string, 0, len(def.Groups))
	for k := range def.Groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	groups := make(map[string]*Group, len(keys))
	for _, k := range keys {
		g, err := def.Groups[k].build(k)
		if err != nil {
			return nil, err
		}
		groups[k] = g
	}

	var descriptors []Descriptor
	for i, s := range def.Bits {
		if (s.Flag == "") == (s.Group == "") {
			return nil, newError(KindInvalidLayout, "bits entry %d must set exactly one of flag and group", i)
		}
		if s.Count < 0 {
			return nil, newError(KindInvalidLayout, "bits entry %d has negative count %d", i, s.Count)
		}

		if s.Flag != "" {
			n := max(s.Count, 1)
			for j := 0; j < n; j++ {
				descriptors = append(descriptors, Flag(s.Flag))
			}
			continue
		}

		g, ok := groups[s.Group]
		if !ok {
			return nil, newError(KindInvalidLayout, "bits entry %d references unknown group", i).withField(s.Group)
		}
		n := s.Count
		if n == 0 {
			n = g.Width()
		}
		for j := 0; j < n; j++ {
			descriptors = append(descriptors, Slot(g))
		}
	}

	l, err := NewLayout(descriptors)
	if err != nil {
		return nil, err
	}
	l.name = def.Name
	return l, nil
}

// ParseLayout parses a layout definition from YAML or JSON.
func ParseLayout(data string) (*Layout, error) {
	var def LayoutDef
	if err := yaml.Unmarshal([]byte(data), &def); err != nil {
		return nil, errors.Wrap(err, "failed to parse layout")
	}
	l, err := def.Build()
	if err != nil {
		return nil, err
	}

	Logger().Debug("parsed layout",
		zap.String("layout", l.name),
		zap.Int("bytes", l.ByteLength()),
		zap.Int("groups", l.Groups()))
	return l, nil
}

// LoadLayout reads and parses a layout definition file.
func LoadLayout(path string) (*Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read layout %s", path)
	}
	l, err := ParseLayout(string(data))
	if err != nil {
		return nil, errors.Wrapf(err, "layout %s", path)
	}
	return l, nil
}
