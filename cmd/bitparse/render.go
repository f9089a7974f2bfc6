// Copyright (c) 2024-2026 Multitech Systems, Inc.
// Author: Jason Reiss
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/MultiTechSystems/bit-parser/bitfield"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#87CEEB"))

	onStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#90EE90"))

	offStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	groupStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#98FB98"))
)

func title(l *bitfield.Layout) string {
	name := l.Name()
	if name == "" {
		name = "layout"
	}
	return titleStyle.Render(fmt.Sprintf("%s (%d bytes)", name, l.ByteLength()))
}

func renderLabels(w io.Writer, l *bitfield.Layout, labels []string) {
	fmt.Fprintln(w, title(l))
	if len(labels) == 0 {
		fmt.Fprintln(w, offStyle.Render("  (no flags set)"))
		return
	}
	for _, label := range labels {
		fmt.Fprintln(w, "  "+onStyle.Render(label))
	}
}

// renderEntries prints one row per bit and one per resolved group.
func renderEntries(w io.Writer, l *bitfield.Layout, entries []bitfield.Entry) {
	fmt.Fprintln(w, title(l))
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%-5s %-4s %-3s %-3s  %s", "INDEX", "BYTE", "BIT", "VAL", "LABEL")))

	for _, e := range entries {
		if e.Kind == bitfield.EntryMultiBit {
			name := e.FieldName
			if name == "" {
				name = fmt.Sprintf("group %d", e.GroupID)
			}
			row := fmt.Sprintf("%-5d %-4d %-3d %-3s  %s = %s (%d) -> %s",
				e.Index, e.ByteIndex, e.BitIndex, "", name, e.RawBits, e.ValueInt, e.Label)
			fmt.Fprintln(w, groupStyle.Render(row))
			continue
		}

		label := e.Label
		if e.GroupID != 0 {
			label = fmt.Sprintf("  group %d bit %d", e.GroupID, e.GroupBit)
		}
		row := fmt.Sprintf("%-5d %-4d %-3d %-3d  %s", e.Index, e.ByteIndex, e.BitIndex, e.Bit, label)
		if e.Enabled {
			fmt.Fprintln(w, onStyle.Render(row))
		} else {
			fmt.Fprintln(w, offStyle.Render(row))
		}
	}
}
