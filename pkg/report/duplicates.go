package report

import (
	"context"
	"path"
	"sort"
	"strings"

	"github.com/rs/zerolog"
)

// 📄 DuplicateGroup is one file name that appears in more than one directory.
type DuplicateGroup struct {
	Name  string
	Paths []string
}

// 📊 DuplicateReport lists every duplicated file name under a root.
type DuplicateReport struct {
	Groups      []DuplicateGroup
	TotalCopies int
}

// 🔍 Duplicates groups files under root by base name and reports the names
// with more than one copy. Index files are excluded: they are duplicated by
// convention, not by accident.
func Duplicates(ctx context.Context, root string, include, exclude []string) (*DuplicateReport, error) {
	logger := zerolog.Ctx(ctx)

	files, err := collectFiles(root, include, exclude)
	if err != nil {
		return nil, err
	}

	byName := make(map[string][]string)
	for _, rel := range files {
		name := path.Base(rel)
		if strings.HasPrefix(name, "index.") {
			continue
		}
		byName[name] = append(byName[name], rel)
	}

	report := &DuplicateReport{}
	for name, paths := range byName {
		if len(paths) < 2 {
			continue
		}
		sort.Strings(paths)
		report.Groups = append(report.Groups, DuplicateGroup{Name: name, Paths: paths})
		report.TotalCopies += len(paths)
	}
	sort.Slice(report.Groups, func(i, j int) bool {
		return report.Groups[i].Name < report.Groups[j].Name
	})

	logger.Debug().
		Int("files", len(files)).
		Int("duplicate_names", len(report.Groups)).
		Msg("duplicate scan complete")

	return report, nil
}
