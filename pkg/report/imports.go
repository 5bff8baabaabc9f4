package report

import (
	"context"
	"regexp"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 📊 ImportReport tallies import path usage across a tree.
type ImportReport struct {
	Total      int
	BySegment  []Count // leading path segment of the first capture group
	ByFullPath []Count // full first capture group
}

// 🔍 Imports scans every matched file for pattern and counts the usage of
// the imported path it captures. pattern must carry at least one capture
// group: group 1 is the counted import path. Files are read concurrently;
// the tallies are order-independent and the output is sorted.
func Imports(ctx context.Context, root, pattern string, include, exclude []string) (*ImportReport, error) {
	logger := zerolog.Ctx(ctx)

	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, errors.Errorf("compiling import pattern: %w", err)
	}
	if re.NumSubexp() < 1 {
		return nil, errors.Errorf("import pattern needs a capture group for the path")
	}

	files, err := collectFiles(root, include, exclude)
	if err != nil {
		return nil, err
	}

	segments := newCounter()
	fullPaths := newCounter()

	err = scanFiles(ctx, root, files, func(rel string, content []byte) {
		for _, m := range re.FindAllSubmatch(content, -1) {
			captured := string(m[1])
			fullPaths.add(captured, 1)
			segment, _, _ := strings.Cut(captured, "/")
			segments.add(segment, 1)
		}
	})
	if err != nil {
		return nil, err
	}

	report := &ImportReport{
		BySegment:  segments.sorted(),
		ByFullPath: fullPaths.sorted(),
	}
	for _, c := range report.ByFullPath {
		report.Total += c.N
	}

	logger.Debug().
		Int("files", len(files)).
		Int("imports", report.Total).
		Msg("import scan complete")

	return report, nil
}
