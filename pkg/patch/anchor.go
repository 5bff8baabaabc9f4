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

// 📍 Match is a located anchor span, in byte offsets into the buffer.
type Match struct {
	Start int
	End   int
}

// 🎯 Anchor locates the reference span for an edit. Exactly one of Literal
// or Pattern is set. Replace and delete consume the whole matched span, so a
// pattern anchor should match exactly the text to change; the insert kinds
// leave the span itself intact.
type Anchor struct {
	Literal string
	Pattern *regexp.Regexp
}

// LiteralAnchor builds an anchor that matches an exact substring.
func LiteralAnchor(s string) Anchor {
	return Anchor{Literal: s}
}

// PatternAnchor builds an anchor from a regular expression source.
func PatternAnchor(expr string) (Anchor, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return Anchor{}, errors.Errorf("compiling anchor pattern: %w", err)
	}
	return Anchor{Pattern: re}, nil
}

func (a Anchor) validate() error {
	if a.Literal == "" && a.Pattern == nil {
		return errors.Errorf("anchor is required")
	}
	if a.Literal != "" && a.Pattern != nil {
		return errors.Errorf("anchor must be either a literal or a pattern, not both")
	}
	return nil
}

// String returns the anchor source for logs.
func (a Anchor) String() string {
	if a.Pattern != nil {
		return a.Pattern.String()
	}
	return a.Literal
}

// 🔍 Find returns every occurrence of the anchor in buf, leftmost first and
// non-overlapping: scanning resumes after the end of each match. An empty
// result means the anchor is absent.
func (a Anchor) Find(buf []byte) []Match {
	if a.Pattern != nil {
		locs := a.Pattern.FindAllIndex(buf, -1)
		matches := make([]Match, 0, len(locs))
		for _, loc := range locs {
			matches = append(matches, Match{Start: loc[0], End: loc[1]})
		}
		return matches
	}

	needle := []byte(a.Literal)
	if len(needle) == 0 {
		return nil
	}

	var matches []Match
	offset := 0
	for {
		i := bytes.Index(buf[offset:], needle)
		if i < 0 {
			return matches
		}
		start := offset + i
		end := start + len(needle)
		matches = append(matches, Match{Start: start, End: end})
		offset = end
	}
}
