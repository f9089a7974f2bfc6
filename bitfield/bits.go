// Copyright (c) 2024-2026 Multitech Systems, Inc.
// Author: Jason Reiss
// SPDX-License-Identifier: MIT

package bitfield

import (
	"fmt"
	"math/bits"
	"strconv"

	"golang.org/x/exp/constraints"
)

// BitOrder selects how a bit position is mapped onto a stored value.
type BitOrder int

const (
	// LittleEndian addresses the most significant bit as position 0. Every
	// decode and encode path in this package walks bytes in this order.
	LittleEndian BitOrder = iota
	// BigEndian addresses the least significant bit as position 0.
	BigEndian
)

// String implements fmt.Stringer.
func (o BitOrder) String() string {
	switch o {
	case LittleEndian:
		return "little"
	case BigEndian:
		return "big"
	}
	return "BitOrder(" + strconv.Itoa(int(o)) + ")"
}

func widthOf[U constraints.Unsigned]() uint8 {
	return uint8(bits.Len64(uint64(^U(0))))
}

func shiftFor[U constraints.Unsigned](pos uint8, order BitOrder) uint8 {
	w := widthOf[U]()
	if pos >= w {
		panic(fmt.Sprintf("bit position %d out of range for a %d-bit value", pos, w))
	}
	if order == LittleEndian {
		return w - 1 - pos
	}
	return pos
}

// GetBit returns the bit (0 or 1) of store at pos under the given order.
// It panics if pos is not smaller than the bit width of U.
func GetBit[U constraints.Unsigned](store U, pos uint8, order BitOrder) uint8 {
	return uint8((store >> shiftFor[U](pos, order)) & 1)
}

// SetBit sets (val true) or clears the bit of store at pos under the given order.
func SetBit[U constraints.Unsigned](store U, pos uint8, order BitOrder, val bool) U {
	m := U(1) << shiftFor[U](pos, order)
	if val {
		return store | m
	}
	return store &^ m
}

// FormatBits renders v as a zero-padded binary string of the given width.
func FormatBits(v, width int) string {
	s := strconv.FormatUint(uint64(v), 2)
	for len(s) < width {
		s = "0" + s
	}
	return s
}

// parseBits interprets a bit-string key as a base-2 integer.
func parseBits(key string) int {
	n := 0
	for i := 0; i < len(key); i++ {
		n = n<<1 | int(key[i]-'0')
	}
	return n
}

func isBitString(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] != '0' && s[i] != '1' {
			return false
		}
	}
	return true
}
