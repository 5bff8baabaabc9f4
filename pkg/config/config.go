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

// Package config loads and validates .patchrc files and compiles them into
// runnable patch jobs.
package config

import (
	"path/filepath"
	"regexp"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/walteh/patchrc/pkg/patch"
	"github.com/walteh/patchrc/pkg/runner"
	"gitlab.com/tozd/go/errors"
)

// 📚 Config is the complete declaration of one patch run: a root directory
// and the ordered jobs to execute beneath it.
type Config struct {
	Root string      `json:"root,omitempty" yaml:"root,omitempty" hcl:"root,optional"`
	Jobs []JobConfig `json:"jobs" yaml:"jobs" hcl:"job,block"`

	location string
}

// Location returns the path the config was loaded from.
func (cfg *Config) Location() string {
	return cfg.location
}

// 📋 JobConfig names one target (a single file, or a glob over the root) and
// its ordered patches.
type JobConfig struct {
	File    string        `json:"file,omitempty" yaml:"file,omitempty" hcl:"file,optional"`
	Glob    string        `json:"glob,omitempty" yaml:"glob,omitempty" hcl:"glob,optional"`
	Patches []PatchConfig `json:"patches" yaml:"patches" hcl:"patch,block"`
}

// 🩹 PatchConfig is the config-level form of one patch spec.
type PatchConfig struct {
	Name    string       `json:"name" yaml:"name" hcl:"name,label"`
	Kind    string       `json:"kind" yaml:"kind" hcl:"kind"`
	Anchor  AnchorConfig `json:"anchor" yaml:"anchor" hcl:"anchor,block"`
	Guard   *GuardConfig `json:"guard,omitempty" yaml:"guard,omitempty" hcl:"guard,block"`
	Payload string       `json:"payload,omitempty" yaml:"payload,omitempty" hcl:"payload,optional"`
}

// 🎯 AnchorConfig holds exactly one anchor form.
type AnchorConfig struct {
	Literal string `json:"literal,omitempty" yaml:"literal,omitempty" hcl:"literal,optional"`
	Pattern string `json:"pattern,omitempty" yaml:"pattern,omitempty" hcl:"pattern,optional"`
}

// 🛡️ GuardConfig holds the idempotency predicate for one patch.
type GuardConfig struct {
	Contains string `json:"contains,omitempty" yaml:"contains,omitempty" hcl:"contains,optional"`
	Pattern  string `json:"pattern,omitempty" yaml:"pattern,omitempty" hcl:"pattern,optional"`
}

// 🔍 Validate checks structural requirements that every format shares.
func (cfg *Config) Validate() error {
	if len(cfg.Jobs) == 0 {
		return errors.Errorf("at least one job is required")
	}

	for i, job := range cfg.Jobs {
		if job.File == "" && job.Glob == "" {
			return errors.Errorf("job %d: file or glob is required", i)
		}
		if job.File != "" && job.Glob != "" {
			return errors.Errorf("job %d: file and glob are mutually exclusive", i)
		}
		if len(job.Patches) == 0 {
			return errors.Errorf("job %d (%s): at least one patch is required", i, job.target())
		}
		for j, p := range job.Patches {
			if p.Name == "" {
				return errors.Errorf("job %d (%s): patch %d: name is required", i, job.target(), j)
			}
			if p.Kind == "" {
				return errors.Errorf("job %d (%s): patch %q: kind is required", i, job.target(), p.Name)
			}
			if p.Anchor.Literal == "" && p.Anchor.Pattern == "" {
				return errors.Errorf("job %d (%s): patch %q: anchor is required", i, job.target(), p.Name)
			}
		}
	}

	if cfg.Root != "" {
		cfg.Root = filepath.Clean(cfg.Root)
	}

	return nil
}

func (j JobConfig) target() string {
	if j.File != "" {
		return j.File
	}
	return j.Glob
}

// 🏗️ Compile resolves the config into ordered runner jobs: globs are
// expanded (sorted, so runs are deterministic), anchors and guards are
// compiled, and patch kinds are parsed. Compile errors mean the refactor
// definition itself is broken and are fatal to the run.
func (cfg *Config) Compile() ([]runner.Job, error) {
	var jobs []runner.Job

	for _, jc := range cfg.Jobs {
		specs, err := compilePatches(jc.Patches)
		if err != nil {
			return nil, errors.Errorf("job %s: %w", jc.target(), err)
		}

		paths, err := cfg.resolveTargets(jc)
		if err != nil {
			return nil, errors.Errorf("job %s: %w", jc.target(), err)
		}

		for _, path := range paths {
			jobs = append(jobs, runner.Job{Path: path, Patches: specs})
		}
	}

	return jobs, nil
}

func (cfg *Config) resolveTargets(jc JobConfig) ([]string, error) {
	if jc.File != "" {
		// A missing file is an I/O concern for the transaction layer, not a
		// compile error: the job is emitted as-is.
		return []string{filepath.Join(cfg.Root, filepath.Clean(jc.File))}, nil
	}

	pattern := jc.Glob
	if cfg.Root != "" {
		pattern = filepath.Join(cfg.Root, pattern)
	}

	paths, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, errors.Errorf("expanding glob %q: %w", jc.Glob, err)
	}

	sort.Strings(paths)
	return paths, nil
}

func compilePatches(pcs []PatchConfig) ([]*patch.Spec, error) {
	specs := make([]*patch.Spec, 0, len(pcs))
	for _, pc := range pcs {
		spec, err := pc.compile()
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

func (pc PatchConfig) compile() (*patch.Spec, error) {
	kind, err := patch.ParseKind(pc.Kind)
	if err != nil {
		return nil, errors.Errorf("patch %q: %w", pc.Name, err)
	}

	var anchor patch.Anchor
	switch {
	case pc.Anchor.Literal != "" && pc.Anchor.Pattern != "":
		return nil, errors.Errorf("patch %q: anchor literal and pattern are mutually exclusive", pc.Name)
	case pc.Anchor.Pattern != "":
		anchor, err = patch.PatternAnchor(pc.Anchor.Pattern)
		if err != nil {
			return nil, errors.Errorf("patch %q: %w", pc.Name, err)
		}
	default:
		anchor = patch.LiteralAnchor(pc.Anchor.Literal)
	}

	var guard patch.Guard
	if pc.Guard != nil {
		guard.Contains = pc.Guard.Contains
		if pc.Guard.Pattern != "" {
			re, err := regexp.Compile(pc.Guard.Pattern)
			if err != nil {
				return nil, errors.Errorf("patch %q: compiling guard pattern: %w", pc.Name, err)
			}
			guard.Pattern = re
		}
	}

	return &patch.Spec{
		Name:    pc.Name,
		Anchor:  anchor,
		Guard:   guard,
		Kind:    kind,
		Payload: pc.Payload,
	}, nil
}
