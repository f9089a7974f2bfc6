// Copyright (c) 2024-2026 Multitech Systems, Inc.
// Author: Jason Reiss
// SPDX-License-Identifier: MIT

// Package bitfield provides a decoder and encoder for fixed-length status
// payloads whose bits are described by an ordered list of descriptors.
//
// Each descriptor is either a standalone flag, whose label is reported when
// its bit is set, or one slot of a multi-bit Group, whose consecutive bits
// are looked up together to produce one label. Bits are walked byte by byte,
// most significant bit first.
//
// A descriptor list is compiled once into a Layout with NewLayout, or loaded
// from a YAML or JSON definition with ParseLayout and LoadLayout. A Layout
// supports labels-only decoding (Decode), full per-bit decoding
// (DecodeFull), a payload-independent description (Describe) and encoding
// from labels and field values (Encode). Layouts and Groups are immutable and
// may be shared between goroutines; a Registry holds named layouts that can
// be replaced while in use.
//
// Every failure is reported as an *Error whose Kind can be tested with
// errors.Is against the Err sentinels.
package bitfield
