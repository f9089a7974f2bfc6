// Copyright (c) 2024-2026 Multitech Systems, Inc.
// Author: Jason Reiss
// SPDX-License-Identifier: MIT

package bitfield

import (
	"encoding/hex"
	"strings"
)

// ParseHex decodes a hexadecimal capture such as "48 f0" or "48F0".
// Whitespace anywhere in the string is ignored and case does not matter.
func ParseHex(s string) ([]byte, error) {
	s = strings.Join(strings.Fields(s), "")
	if len(s)%2 != 0 {
		return nil, newError(KindInvalidHex, "hex string has odd length %d", len(s))
	}
	data, err := hex.DecodeString(s)
	if err != nil {
		return nil, newError(KindInvalidHex, "malformed hex string").because(err)
	}
	return data, nil
}

// FormatHex renders data as uppercase hex, two characters per byte.
func FormatHex(data []byte) string {
	return strings.ToUpper(hex.EncodeToString(data))
}
