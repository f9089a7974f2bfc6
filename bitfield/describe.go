// Copyright (c) 2024-2026 Multitech Systems, Inc.
// Author: Jason Reiss
// SPDX-License-Identifier: MIT

package bitfield

import (
	"regexp"
	"strings"
)

// Schema is a static description of a layout, independent of any payload.
type Schema struct {
	Name       string        `json:"name,omitempty" yaml:"name,omitempty"`
	ByteLength int           `json:"byte_length" yaml:"byte_length"`
	Bits       []SchemaBit   `json:"bits" yaml:"bits"`
	Groups     []SchemaGroup `json:"groups" yaml:"groups"`
}

// SchemaBit describes one bit slot.
type SchemaBit struct {
	Index     int       `json:"index" yaml:"index"`
	ByteIndex int       `json:"byte_index" yaml:"byte_index"`
	BitIndex  int       `json:"bit_index" yaml:"bit_index"`
	Kind      EntryKind `json:"kind" yaml:"kind"`
	GroupID   int       `json:"group_id,omitempty" yaml:"group_id,omitempty"`
	GroupBit  *int      `json:"group_bit,omitempty" yaml:"group_bit,omitempty"` // nil for flags
	Label     string    `json:"label,omitempty" yaml:"label,omitempty"`
}

// SchemaGroup describes one multi-bit field.
type SchemaGroup struct {
	ID      int          `json:"id" yaml:"id"`
	Name    string       `json:"name" yaml:"name"`
	Bits    int          `json:"bits" yaml:"bits"`
	Indices []int        `json:"indices" yaml:"indices"`
	Values  []GroupValue `json:"values" yaml:"values"`
}

// Describe returns the schema of the layout. Group slots are reported with
// kind multi_bit.
func (l *Layout) Describe() *Schema {
	s := &Schema{
		Name:       l.name,
		ByteLength: l.ByteLength(),
		Bits:       make([]SchemaBit, len(l.descriptors)),
		Groups:     make([]SchemaGroup, 0, len(l.fields)),
	}

	for i, d := range l.descriptors {
		b := SchemaBit{Index: i, ByteIndex: i / 8, BitIndex: i % 8, Kind: EntryBit}
		if f := l.fieldOf(i); f != nil {
			b.Kind = EntryMultiBit
			b.GroupID = f.id
			gb := i - f.start
			b.GroupBit = &gb
		} else {
			b.Label = d.label
		}
		s.Bits[i] = b
	}

	for _, f := range l.fields {
		s.Groups = append(s.Groups, SchemaGroup{
			ID:      f.id,
			Name:    f.group.name,
			Bits:    f.group.width,
			Indices: f.indices(),
			Values:  f.group.Values(),
		})
	}
	return s
}

// DescribeLayout compiles descriptors and returns their schema.
func DescribeLayout(descriptors []Descriptor) (*Schema, error) {
	l, err := NewLayout(descriptors)
	if err != nil {
		return nil, err
	}
	return l.Describe(), nil
}

var (
	valuedLabel  = regexp.MustCompile(`^(.+): (\d+)$`)
	onOffSuffix  = regexp.MustCompile(`(?i)\s+(on|off)$`)
	digitsSuffix = regexp.MustCompile(`\s*\d+$`)
)

// inferFieldName guesses a field name from the labels of a group. This is a
// heuristic and may return "" for a field a human would name.
//
// If every label reads "<name>: <n>" with one common name, that name is used.
// Otherwise each label that ends in on/off or in a number yields a candidate
// with that suffix removed, and the most frequent candidate wins if it occurs
// at least twice and is not tied.
func inferFieldName(labels []string) string {
	if len(labels) == 0 {
		return ""
	}

	common := ""
	for i, l := range labels {
		m := valuedLabel.FindStringSubmatch(l)
		if m == nil || (i > 0 && m[1] != common) {
			common = ""
			break
		}
		common = m[1]
	}
	if common != "" {
		return common
	}

	counts := make(map[string]int)
	for _, l := range labels {
		base := onOffSuffix.ReplaceAllString(l, "")
		if base == l {
			base = digitsSuffix.ReplaceAllString(l, "")
		}
		base = strings.TrimSpace(base)
		if base == l || base == "" {
			continue
		}
		counts[base]++
	}

	best, bestN, tied := "", 0, false
	for name, n := range counts {
		switch {
		case n > bestN:
			best, bestN, tied = name, n, false
		case n == bestN:
			tied = true
		}
	}
	if bestN < 2 || tied {
		return ""
	}
	return best
}
