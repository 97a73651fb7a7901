// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package taa

import "github.com/cespare/xxhash/v2"

// ObjectIDMax is the number of distinct object tags. Tags are written to
// a 16-bit history channel as id/ObjectIDMax.
const ObjectIDMax = 65535

// NormalizeObjectID maps an integer object id into [0, 1).
func NormalizeObjectID(id uint32) float32 {
	return float32(id%ObjectIDMax) / ObjectIDMax
}

// ObjectIDFromHash maps a 64-bit hash into [0, 1).
func ObjectIDFromHash(h uint64) float32 {
	return float32(h%ObjectIDMax) / ObjectIDMax
}

// ObjectIDFromName returns a tag that is stable across runs for the same
// object name.
func ObjectIDFromName(name string) float32 {
	return ObjectIDFromHash(xxhash.Sum64String(name))
}
