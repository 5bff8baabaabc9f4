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
	"bytes"
	"regexp"

	"gitlab.com/tozd/go/errors"
)

// 🔧 Kind is the transformation a patch performs at its anchor.
type Kind int

const (
	KindUnknown Kind = iota
	KindInsertBefore
	KindInsertAfter
	KindReplace
	KindDelete
)

// String returns a string representation of Kind
func (k Kind) String() string {
	switch k {
	case KindInsertBefore:
		return "insert_before"
	case KindInsertAfter:
		return "insert_after"
	case KindReplace:
		return "replace"
	case KindDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// ParseKind parses a config-level kind name
func ParseKind(s string) (Kind, error) {
	switch s {
	case "insert_before":
		return KindInsertBefore, nil
	case "insert_after":
		return KindInsertAfter, nil
	case "replace":
		return KindReplace, nil
	case "delete":
		return KindDelete, nil
	default:
		return KindUnknown, errors.Errorf("unknown patch kind %q", s)
	}
}

// 🛡️ Guard is a predicate over a buffer. A satisfied guard means the patch
// has already taken effect and must be skipped. Guards are decidable from the
// buffer alone; they never consult external state.
type Guard struct {
	Contains string         // satisfied when the buffer contains this literal
	Pattern  *regexp.Regexp // satisfied when the buffer matches this pattern
}

// IsZero reports whether no guard condition is set.
func (g Guard) IsZero() bool {
	return g.Contains == "" && g.Pattern == nil
}

// Satisfied evaluates the guard against buf.
func (g Guard) Satisfied(buf []byte) bool {
	if g.Contains != "" && bytes.Contains(buf, []byte(g.Contains)) {
		return true
	}
	if g.Pattern != nil && g.Pattern.Match(buf) {
		return true
	}
	return false
}

// 📋 Spec is one declarative edit: where (Anchor), whether (Guard), what
// (Kind + Payload). Specs are authored once per refactor and are immutable
// for the duration of a run.
type Spec struct {
	Name    string // identifier used in logs and error messages
	Anchor  Anchor
	Guard   Guard
	Kind    Kind
	Payload string
}

// 🔍 Validate checks that the spec is well formed. A failure here is a
// programming error in the refactor definition and is fatal to the whole run.
func (s *Spec) Validate() error {
	if err := s.Anchor.validate(); err != nil {
		return errors.Errorf("patch %q: %w", s.Name, err)
	}

	switch s.Kind {
	case KindInsertBefore, KindInsertAfter:
		if s.Payload == "" {
			return errors.Errorf("patch %q: %s requires a payload", s.Name, s.Kind)
		}
		if s.Guard.IsZero() {
			// Without a guard an insert would re-apply on every run. Default
			// to "payload already present", the common marker idiom.
			s.Guard = Guard{Contains: s.Payload}
		}
	case KindReplace:
		if s.Payload == "" {
			return errors.Errorf("patch %q: replace requires a payload (use delete to remove)", s.Name)
		}
	case KindDelete:
		if s.Payload != "" {
			return errors.Errorf("patch %q: delete must not carry a payload", s.Name)
		}
	default:
		return errors.Errorf("patch %q: unknown kind", s.Name)
	}

	return nil
}
