package textutil

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxBytes int
		want     string
	}{
		{
			name:     "fits_exactly",
			input:    "hello",
			maxBytes: 5,
			want:     "hello",
		},
		{
			name:     "fits_with_room",
			input:    "hello",
			maxBytes: 10,
			want:     "hello",
		},
		{
			name:     "ascii_cut",
			input:    "hello",
			maxBytes: 3,
			want:     "hel",
		},
		{
			name:     "empty_input",
			input:    "",
			maxBytes: 0,
			want:     "",
		},
		{
			name:     "zero_budget_ascii",
			input:    "a",
			maxBytes: 0,
			want:     "a", // first rune returned whole
		},
		{
			name:     "cut_inside_emoji",
			input:    "a😀b",
			maxBytes: 2,
			want:     "a",
		},
		{
			name:     "cut_at_emoji_end",
			input:    "a😀b",
			maxBytes: 5,
			want:     "a😀",
		},
		{
			name:     "first_rune_over_budget",
			input:    "😀",
			maxBytes: 1,
			want:     "😀",
		},
		{
			name:     "multibyte_sequence",
			input:    "日本語",
			maxBytes: 7,
			want:     "日本",
		},
		{
			name:     "mixed_cut_before_multibyte",
			input:    "ab日本",
			maxBytes: 4,
			want:     "ab", // boundary scan from offset 4 lands at 2
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Truncate(tt.input, tt.maxBytes)
			assert.True(t, utf8.ValidString(got), "result must be valid UTF-8")
			assert.True(t, strings.HasPrefix(tt.input, got), "result must be a prefix")
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTruncate_Identity(t *testing.T) {
	// The fast path must return the input itself, not a copy-equal value.
	s := "unchanged"
	require.Equal(t, s, Truncate(s, len(s)))
	require.Equal(t, s, Truncate(s, len(s)+1))
}

func TestTruncate_BudgetRespected(t *testing.T) {
	inputs := []string{"", "a", "ab", "héllo", "a😀b", "日本語テキスト", "é́combining"}
	for _, in := range inputs {
		for max := 0; max <= len(in)+1; max++ {
			got := Truncate(in, max)
			require.True(t, utf8.ValidString(got))
			require.True(t, strings.HasPrefix(in, got))
			if len(got) > max {
				// Only permitted when the first rune alone is over budget.
				_, size := utf8.DecodeRuneInString(in)
				require.Equal(t, in[:size], got, "over-budget result must be exactly the first rune")
			}
		}
	}
}

func TestTruncateBytes(t *testing.T) {
	got := TruncateBytes([]byte("a😀b"), 2)
	assert.Equal(t, []byte("a"), got)

	got = TruncateBytes([]byte("😀"), 1)
	assert.Equal(t, []byte("😀"), got)

	b := []byte("short")
	assert.Equal(t, b, TruncateBytes(b, 100))
}
