package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/patchrc/pkg/patch"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

const yamlConfig = `root: src
jobs:
  - file: cli_runner.rs
    patches:
      - name: add-platform-import
        kind: insert_after
        anchor:
          literal: "use super::config;\n"
        guard:
          contains: "use super::platform;"
        payload: "use super::platform;\n"
      - name: swap-call
        kind: replace
        anchor:
          literal: "resolve_cmd_wrapper_tokio(program)"
        payload: "platform::resolve_cmd_wrapper(program)"
`

const hclConfig = `root = "src"

job {
  file = "cli_runner.rs"

  patch "add-platform-import" {
    kind    = "insert_after"
    payload = "use super::platform;\n"

    anchor {
      literal = "use super::config;\n"
    }

    guard {
      contains = "use super::platform;"
    }
  }
}
`

const jsonConfig = `{
  "root": "src",
  "jobs": [
    {
      "file": "cli_runner.rs",
      "patches": [
        {
          "name": "add-platform-import",
          "kind": "insert_after",
          "anchor": {"literal": "use super::config;\n"},
          "guard": {"contains": "use super::platform;"},
          "payload": "use super::platform;\n"
        }
      ]
    }
  ]
}`

func TestLoad(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		content  string
	}{
		{name: "yaml", filename: "patchrc.yaml", content: yamlConfig},
		{name: "hcl", filename: "patchrc.hcl", content: hclConfig},
		{name: "json", filename: "patchrc.json", content: jsonConfig},
		{name: "patchrc_yaml_fallback", filename: ".patchrc", content: yamlConfig},
		{name: "patchrc_hcl_fallback", filename: ".patchrc", content: hclConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.filename, tt.content)

			cfg, err := Load(context.Background(), path)
			require.NoError(t, err)
			require.Len(t, cfg.Jobs, 1)

			assert.Equal(t, "src", cfg.Root)
			assert.Equal(t, "cli_runner.rs", cfg.Jobs[0].File)
			assert.Equal(t, path, cfg.Location())

			p := cfg.Jobs[0].Patches[0]
			assert.Equal(t, "add-platform-import", p.Name)
			assert.Equal(t, "insert_after", p.Kind)
			assert.Equal(t, "use super::config;\n", p.Anchor.Literal)
			require.NotNil(t, p.Guard)
			assert.Equal(t, "use super::platform;", p.Guard.Contains)
			assert.Equal(t, "use super::platform;\n", p.Payload)
		})
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name      string
		filename  string
		content   string
		wantError string
	}{
		{
			name:      "unsupported_extension",
			filename:  "patchrc.toml",
			content:   "root = 'src'",
			wantError: "unsupported file extension",
		},
		{
			name:      "invalid_yaml",
			filename:  "patchrc.yaml",
			content:   "jobs: [unclosed",
			wantError: "parsing YAML",
		},
		{
			name:      "no_jobs",
			filename:  "patchrc.yaml",
			content:   "root: src\njobs: []\n",
			wantError: "at least one job is required",
		},
		{
			name:     "job_without_target",
			filename: "patchrc.yaml",
			content: `jobs:
  - patches:
      - name: p
        kind: delete
        anchor: {literal: x}
`,
			wantError: "file or glob is required",
		},
		{
			name:     "patch_without_kind",
			filename: "patchrc.yaml",
			content: `jobs:
  - file: a.rs
    patches:
      - name: p
        anchor: {literal: x}
`,
			wantError: "kind is required",
		},
		{
			name:     "patch_without_anchor",
			filename: "patchrc.yaml",
			content: `jobs:
  - file: a.rs
    patches:
      - name: p
        kind: delete
`,
			wantError: "anchor is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.filename, tt.content)

			_, err := Load(context.Background(), path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantError)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config file")
}

func TestConfig_Compile(t *testing.T) {
	path := writeConfig(t, "patchrc.yaml", yamlConfig)

	cfg, err := Load(context.Background(), path)
	require.NoError(t, err)

	jobs, err := cfg.Compile()
	require.NoError(t, err)
	require.Len(t, jobs, 1)

	assert.Equal(t, filepath.Join("src", "cli_runner.rs"), jobs[0].Path)
	require.Len(t, jobs[0].Patches, 2)
	assert.Equal(t, patch.KindInsertAfter, jobs[0].Patches[0].Kind)
	assert.Equal(t, patch.KindReplace, jobs[0].Patches[1].Kind)
	assert.Equal(t, "use super::platform;", jobs[0].Patches[0].Guard.Contains)
}

func TestConfig_Compile_Glob(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0755))
	for _, name := range []string{"b.rs", "a.rs", filepath.Join("sub", "c.rs"), "skip.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("anchor\n"), 0644))
	}

	cfg := &Config{
		Root: dir,
		Jobs: []JobConfig{{
			Glob: "**/*.rs",
			Patches: []PatchConfig{{
				Name:    "p",
				Kind:    "insert_after",
				Anchor:  AnchorConfig{Literal: "anchor\n"},
				Payload: "patched\n",
			}},
		}},
	}
	require.NoError(t, cfg.Validate())

	jobs, err := cfg.Compile()
	require.NoError(t, err)
	require.Len(t, jobs, 3)

	// Deterministic order regardless of filesystem order.
	assert.Equal(t, filepath.Join(dir, "a.rs"), jobs[0].Path)
	assert.Equal(t, filepath.Join(dir, "b.rs"), jobs[1].Path)
	assert.Equal(t, filepath.Join(dir, "sub", "c.rs"), jobs[2].Path)
}

func TestConfig_Compile_Errors(t *testing.T) {
	tests := []struct {
		name      string
		patch     PatchConfig
		wantError string
	}{
		{
			name:      "unknown_kind",
			patch:     PatchConfig{Name: "p", Kind: "rename", Anchor: AnchorConfig{Literal: "x"}},
			wantError: "unknown patch kind",
		},
		{
			name:      "both_anchor_forms",
			patch:     PatchConfig{Name: "p", Kind: "delete", Anchor: AnchorConfig{Literal: "x", Pattern: "y"}},
			wantError: "mutually exclusive",
		},
		{
			name:      "bad_anchor_pattern",
			patch:     PatchConfig{Name: "p", Kind: "delete", Anchor: AnchorConfig{Pattern: "(unclosed"}},
			wantError: "compiling anchor pattern",
		},
		{
			name: "bad_guard_pattern",
			patch: PatchConfig{
				Name: "p", Kind: "delete",
				Anchor: AnchorConfig{Literal: "x"},
				Guard:  &GuardConfig{Pattern: "(unclosed"},
			},
			wantError: "compiling guard pattern",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Jobs: []JobConfig{{File: "a.rs", Patches: []PatchConfig{tt.patch}}}}

			_, err := cfg.Compile()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantError)
		})
	}
}
