package report

import (
	"context"
	"path"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// a symbol referenced in at most this many files is flagged as low-use
const lowUseThreshold = 2

// 📄 SymbolUsage reports how often one candidate symbol is referenced.
type SymbolUsage struct {
	Name   string
	Refs   int      // number of referencing files, definition files excluded
	Files  []string // referencing files (sorted)
	Unused bool
	LowUse bool
}

// 🔍 Unused counts, for each candidate symbol, the files that reference it.
// Files whose own name contains the symbol are treated as its definition and
// excluded, so a symbol only referenced by itself comes out as unused.
func Unused(ctx context.Context, root string, symbols, include, exclude []string) ([]SymbolUsage, error) {
	logger := zerolog.Ctx(ctx)

	if len(symbols) == 0 {
		return nil, errors.Errorf("at least one symbol is required")
	}

	type candidate struct {
		name string
		re   *regexp.Regexp
	}
	candidates := make([]candidate, 0, len(symbols))
	for _, s := range symbols {
		re, err := regexp.Compile(`\b` + regexp.QuoteMeta(s) + `\b`)
		if err != nil {
			return nil, errors.Errorf("compiling symbol %q: %w", s, err)
		}
		candidates = append(candidates, candidate{name: s, re: re})
	}

	files, err := collectFiles(root, include, exclude)
	if err != nil {
		return nil, err
	}

	var mu sync.Mutex
	refs := make(map[string][]string)

	err = scanFiles(ctx, root, files, func(rel string, content []byte) {
		base := path.Base(rel)
		for _, c := range candidates {
			if strings.Contains(base, c.name) {
				continue // definition file
			}
			if c.re.Match(content) {
				mu.Lock()
				refs[c.name] = append(refs[c.name], rel)
				mu.Unlock()
			}
		}
	})
	if err != nil {
		return nil, err
	}

	usages := make([]SymbolUsage, 0, len(symbols))
	for _, s := range symbols {
		referencing := refs[s]
		sort.Strings(referencing)
		usages = append(usages, SymbolUsage{
			Name:   s,
			Refs:   len(referencing),
			Files:  referencing,
			Unused: len(referencing) == 0,
			LowUse: len(referencing) > 0 && len(referencing) <= lowUseThreshold,
		})
	}

	logger.Debug().
		Int("files", len(files)).
		Int("symbols", len(symbols)).
		Msg("usage scan complete")

	return usages, nil
}
