package patch

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApply(t *testing.T) {
	tests := []struct {
		name        string
		buf         string
		spec        Spec
		want        string
		wantOutcome Outcome
	}{
		{
			name: "insert_after_import",
			buf:  "use a::b;\nfn f() {}",
			spec: Spec{
				Name:    "add-import",
				Anchor:  LiteralAnchor("use a::b;\n"),
				Guard:   Guard{Contains: "use a::c;"},
				Kind:    KindInsertAfter,
				Payload: "use a::c;\n",
			},
			want:        "use a::b;\nuse a::c;\nfn f() {}",
			wantOutcome: OutcomeApplied,
		},
		{
			name: "insert_after_guard_already_satisfied",
			buf:  "use a::b;\nuse a::c;\nfn f() {}",
			spec: Spec{
				Name:    "add-import",
				Anchor:  LiteralAnchor("use a::b;\n"),
				Guard:   Guard{Contains: "use a::c;"},
				Kind:    KindInsertAfter,
				Payload: "use a::c;\n",
			},
			want:        "use a::b;\nuse a::c;\nfn f() {}",
			wantOutcome: OutcomeSkipped,
		},
		{
			name: "insert_before",
			buf:  "fn main() {}\n",
			spec: Spec{
				Name:    "add-header",
				Anchor:  LiteralAnchor("fn main"),
				Guard:   Guard{Contains: "// entry point"},
				Kind:    KindInsertBefore,
				Payload: "// entry point\n",
			},
			want:        "// entry point\nfn main() {}\n",
			wantOutcome: OutcomeApplied,
		},
		{
			name: "replace_call_site",
			buf:  "let x = old_helper(program);\n",
			spec: Spec{
				Name:    "swap-helper",
				Anchor:  LiteralAnchor("old_helper(program)"),
				Kind:    KindReplace,
				Payload: "platform::new_helper(program)",
			},
			want:        "let x = platform::new_helper(program);\n",
			wantOutcome: OutcomeApplied,
		},
		{
			name: "delete_span",
			buf:  "keep\nremove me\nkeep\n",
			spec: Spec{
				Name:   "drop-line",
				Anchor: LiteralAnchor("remove me\n"),
				Kind:   KindDelete,
			},
			want:        "keep\nkeep\n",
			wantOutcome: OutcomeApplied,
		},
		{
			name: "anchor_not_found",
			buf:  "fn f() {}",
			spec: Spec{
				Name:    "add-import",
				Anchor:  LiteralAnchor("use a::b;\n"),
				Guard:   Guard{Contains: "use a::c;"},
				Kind:    KindInsertAfter,
				Payload: "use a::c;\n",
			},
			want:        "fn f() {}",
			wantOutcome: OutcomeNotFound,
		},
		{
			name: "multiple_anchors_first_occurrence_wins",
			buf:  "mark here\nmark here\n",
			spec: Spec{
				Name:    "first-only",
				Anchor:  LiteralAnchor("mark"),
				Guard:   Guard{Contains: "noted"},
				Kind:    KindInsertBefore,
				Payload: "noted ",
			},
			want:        "noted mark here\nmark here\n",
			wantOutcome: OutcomeApplied,
		},
		{
			name: "crlf_preserved_outside_splice",
			buf:  "line1\r\nuse a::b;\nline3\r\n",
			spec: Spec{
				Name:    "add-import",
				Anchor:  LiteralAnchor("use a::b;\n"),
				Guard:   Guard{Contains: "use a::c;"},
				Kind:    KindInsertAfter,
				Payload: "use a::c;\n",
			},
			want:        "line1\r\nuse a::b;\nuse a::c;\nline3\r\n",
			wantOutcome: OutcomeApplied,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := tt.spec
			require.NoError(t, spec.Validate())

			got, outcome := Apply(context.Background(), []byte(tt.buf), &spec)
			assert.Equal(t, tt.want, string(got))
			assert.Equal(t, tt.wantOutcome, outcome)
		})
	}
}

func TestApply_Idempotent(t *testing.T) {
	spec := Spec{
		Name:    "add-import",
		Anchor:  LiteralAnchor("use a::b;\n"),
		Guard:   Guard{Contains: "use a::c;"},
		Kind:    KindInsertAfter,
		Payload: "use a::c;\n",
	}
	require.NoError(t, spec.Validate())

	ctx := context.Background()
	buf := []byte("use a::b;\nfn f() {}")

	once, outcome := Apply(ctx, buf, &spec)
	require.Equal(t, OutcomeApplied, outcome)

	twice, outcome := Apply(ctx, once, &spec)
	require.Equal(t, OutcomeSkipped, outcome)
	assert.Equal(t, string(once), string(twice), "second pass must be a byte-for-byte no-op")
}

func TestApply_ReplaceIdempotentViaConsumedAnchor(t *testing.T) {
	spec := Spec{
		Name:    "swap",
		Anchor:  LiteralAnchor("old()"),
		Kind:    KindReplace,
		Payload: "new()",
	}
	require.NoError(t, spec.Validate())

	ctx := context.Background()
	once, outcome := Apply(ctx, []byte("call old()\n"), &spec)
	require.Equal(t, OutcomeApplied, outcome)

	twice, outcome := Apply(ctx, once, &spec)
	require.Equal(t, OutcomeNotFound, outcome)
	assert.Equal(t, string(once), string(twice))
}

func TestApply_OrderingDeterminism(t *testing.T) {
	// Applying [p1, p2] in sequence must equal two single applications, and
	// p2's guard may depend on p1's payload being present.
	p1 := Spec{
		Name:    "first",
		Anchor:  LiteralAnchor("base\n"),
		Guard:   Guard{Contains: "stage-one"},
		Kind:    KindInsertAfter,
		Payload: "stage-one\n",
	}
	p2 := Spec{
		Name:    "second",
		Anchor:  LiteralAnchor("stage-one\n"),
		Guard:   Guard{Contains: "stage-two"},
		Kind:    KindInsertAfter,
		Payload: "stage-two\n",
	}
	require.NoError(t, p1.Validate())
	require.NoError(t, p2.Validate())

	ctx := context.Background()
	buf := []byte("base\n")

	// p2 alone cannot apply: its anchor is p1's payload.
	_, outcome := Apply(ctx, buf, &p2)
	require.Equal(t, OutcomeNotFound, outcome)

	mid, outcome := Apply(ctx, buf, &p1)
	require.Equal(t, OutcomeApplied, outcome)

	final, outcome := Apply(ctx, mid, &p2)
	require.Equal(t, OutcomeApplied, outcome)
	assert.Equal(t, "base\nstage-one\nstage-two\n", string(final))
}

func TestApply_PatternAnchorWithGuard(t *testing.T) {
	anchor, err := PatternAnchor(`cmd\.creation_flags\(0x08000000\);[^\n]*\n`)
	require.NoError(t, err)

	spec := Spec{
		Name:    "platform-no-window",
		Anchor:  anchor,
		Kind:    KindReplace,
		Payload: "platform::apply_no_window(&mut cmd);\n",
	}
	require.NoError(t, spec.Validate())

	buf := []byte("    cmd.creation_flags(0x08000000); // CREATE_NO_WINDOW\n")
	got, outcome := Apply(context.Background(), buf, &spec)
	require.Equal(t, OutcomeApplied, outcome)
	assert.Equal(t, "    platform::apply_no_window(&mut cmd);\n", string(got))
}
