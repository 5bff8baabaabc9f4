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

package patch

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/walteh/patchrc/pkg/textutil"
)

// 📊 Outcome is the result of applying one spec to one buffer.
type Outcome int

const (
	OutcomeUnknown  Outcome = iota
	OutcomeApplied          // the buffer was changed
	OutcomeSkipped          // guard satisfied, change already present
	OutcomeNotFound         // anchor absent from the buffer
)

// String returns a string representation of Outcome
func (o Outcome) String() string {
	switch o {
	case OutcomeApplied:
		return "applied"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// payload previews in debug logs are capped to this many bytes
const previewBytes = 64

// 🏃 Apply interprets spec against buf and returns the resulting buffer and
// outcome. The input buffer is never mutated; on Skipped and NotFound the
// returned buffer is the input, byte-for-byte.
//
// Re-running Apply on its own output always yields Skipped for insert kinds
// (the guard sees the payload) and NotFound for replace/delete kinds whose
// anchor was consumed.
func Apply(ctx context.Context, buf []byte, spec *Spec) ([]byte, Outcome) {
	logger := zerolog.Ctx(ctx)

	if spec.Guard.Satisfied(buf) {
		logger.Debug().Str("patch", spec.Name).Msg("guard satisfied, skipping")
		return buf, OutcomeSkipped
	}

	matches := spec.Anchor.Find(buf)
	if len(matches) == 0 {
		logger.Debug().Str("patch", spec.Name).Str("anchor", textutil.Truncate(spec.Anchor.String(), previewBytes)).Msg("anchor not found")
		return buf, OutcomeNotFound
	}

	// First match, leftmost. Additional occurrences are a configuration
	// concern, not an error: the run must stay deterministic.
	m := matches[0]
	if len(matches) > 1 {
		logger.Debug().
			Str("patch", spec.Name).
			Int("occurrences", len(matches)).
			Msg("anchor matched more than once, using first occurrence")
	}

	out := splice(buf, m, spec.Kind, spec.Payload)

	logger.Debug().
		Str("patch", spec.Name).
		Str("kind", spec.Kind.String()).
		Int("at", m.Start).
		Str("payload", textutil.Truncate(spec.Payload, previewBytes)).
		Msg("patch applied")

	return out, OutcomeApplied
}

// splice builds the new buffer for a single match. Everything outside the
// spliced span is preserved byte-for-byte, which is what keeps mixed line
// endings and encodings intact.
func splice(buf []byte, m Match, kind Kind, payload string) []byte {
	var insertAt, resumeAt int
	switch kind {
	case KindInsertBefore:
		insertAt, resumeAt = m.Start, m.Start
	case KindInsertAfter:
		insertAt, resumeAt = m.End, m.End
	case KindReplace, KindDelete:
		insertAt, resumeAt = m.Start, m.End
	}

	out := make([]byte, 0, len(buf)+len(payload))
	out = append(out, buf[:insertAt]...)
	if kind != KindDelete {
		out = append(out, payload...)
	}
	out = append(out, buf[resumeAt:]...)
	return out
}
