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

// Package report implements read-only source tree reports: duplicate file
// names, import path usage, and unused symbol candidates. Reports never
// modify files; they feed humans (and patch authoring), not the engine.
package report

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

// scanConcurrency bounds parallel file reads during a report scan
const scanConcurrency = 8

// 🔍 collectFiles walks root and returns the relative paths (slash-separated)
// that match any include pattern and no exclude pattern. The result is sorted
// so reports are deterministic.
func collectFiles(root string, include, exclude []string) ([]string, error) {
	if len(include) == 0 {
		include = []string{"**/*"}
	}

	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == ".git" || d.Name() == "node_modules" {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if !matchesAny(include, rel) || matchesAny(exclude, rel) {
			return nil
		}

		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, errors.Errorf("walking %s: %w", root, err)
	}

	sort.Strings(files)
	return files, nil
}

func matchesAny(patterns []string, rel string) bool {
	for _, pattern := range patterns {
		ok, err := doublestar.Match(pattern, rel)
		if err == nil && ok {
			return true
		}
	}
	return false
}

// 📖 scanFiles reads every file concurrently and hands its content to fn.
// fn must be safe for concurrent use; scan order is unspecified, so callers
// sort their own output.
func scanFiles(ctx context.Context, root string, files []string, fn func(rel string, content []byte)) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(scanConcurrency)

	for _, rel := range files {
		rel := rel
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			content, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
			if err != nil {
				return errors.Errorf("reading %s: %w", rel, err)
			}
			fn(rel, content)
			return nil
		})
	}

	return g.Wait()
}

// counter is a mutex-guarded string counter shared by scan callbacks.
type counter struct {
	mu     sync.Mutex
	counts map[string]int
}

func newCounter() *counter {
	return &counter{counts: make(map[string]int)}
}

func (c *counter) add(key string, n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counts[key] += n
}

// sorted returns entries by descending count, then name.
func (c *counter) sorted() []Count {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Count, 0, len(c.counts))
	for name, n := range c.counts {
		out = append(out, Count{Name: name, N: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].N != out[j].N {
			return out[i].N > out[j].N
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// 📊 Count is one named tally in a report.
type Count struct {
	Name string
	N    int
}
