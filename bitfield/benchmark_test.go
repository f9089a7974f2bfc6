// Copyright (c) 2024-2026 Multitech Systems, Inc.
// Author: Jason Reiss
// SPDX-License-Identifier: MIT

package bitfield

import "testing"

func BenchmarkDecode(b *testing.B) {
	l := mustLayout(b, heatingController(b))
	payload := []byte{0x48, 0xF0}

	// Warmup and verify
	got, err := l.Decode(payload)
	if err != nil {
		b.Fatalf("Failed to decode: %v", err)
	}
	if got[0] != "sensor ID: 2" {
		b.Fatalf("Unexpected first label: %v", got[0])
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = l.Decode(payload)
	}
}

func BenchmarkDecodeFull(b *testing.B) {
	l := mustLayout(b, heatingController(b))
	payload := []byte{0x48, 0xF0}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = l.DecodeFull(payload)
	}
}

func BenchmarkDecodeWithCompile(b *testing.B) {
	d := heatingController(b)
	payload := []byte{0x48, 0xF0}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = ParseBits(payload, d)
	}
}

func BenchmarkEncode(b *testing.B) {
	l := mustLayout(b, heatingController(b))
	enabled := []string{"temperature too low", "LED is OFF", "heating module 1 on", "heating module 2 on"}
	values := map[string]int{"heating mode": 3, "sensor ID": 2}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = l.Encode(enabled, values)
	}
}

func BenchmarkParseLayout(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = ParseLayout(heatingControllerYAML)
	}
}
