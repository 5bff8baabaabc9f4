// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package textutil provides UTF-8 boundary-safe text helpers shared by the
// patch engine and the user-facing loggers.
package textutil

import "unicode/utf8"

// ✂️ Truncate returns the longest prefix of s that is at most maxBytes bytes
// long and ends on a rune boundary. If s already fits, s is returned as-is.
//
// If even the first rune of s is longer than maxBytes, the first rune is
// returned in full: the result may then exceed maxBytes, but it is never a
// malformed fragment.
func Truncate(s string, maxBytes int) string {
	if len(s) <= maxBytes {
		return s
	}

	// Walk back from the byte budget to the nearest rune boundary.
	index := maxBytes
	for index > 0 && !utf8.RuneStart(s[index]) {
		index--
	}

	if index == 0 {
		// The first rune alone is over budget. Return it whole rather than
		// a truncated byte sequence.
		_, size := utf8.DecodeRuneInString(s)
		return s[:size]
	}

	return s[:index]
}

// ✂️ TruncateBytes is Truncate for raw buffers.
func TruncateBytes(b []byte, maxBytes int) []byte {
	if len(b) <= maxBytes {
		return b
	}

	index := maxBytes
	for index > 0 && !utf8.RuneStart(b[index]) {
		index--
	}

	if index == 0 {
		_, size := utf8.DecodeRune(b)
		return b[:size]
	}

	return b[:index]
}
