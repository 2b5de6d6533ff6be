package files

import (
	"context"
	"fmt"
	"os"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/pankaj-dahiya-devops/secops-toolkit/internal/models"
)

// DefaultWebWorkers bounds concurrent reads in LoadWebFiles.
const DefaultWebWorkers = 8

// WebFileKindOf dispatches on the exact, case-sensitive suffix of path.
func WebFileKindOf(path string) (models.WebFileKind, bool) {
	switch {
	case strings.HasSuffix(path, ".html"):
		return models.WebFileHTML, true
	case strings.HasSuffix(path, ".js"):
		return models.WebFileJS, true
	}
	return "", false
}

// LoadWebFiles reads every path with a supported suffix, in argument order.
// Paths with other suffixes are returned in skipped and never opened. Any
// read failure is returned as an error.
func LoadWebFiles(ctx context.Context, paths []string, workers int) (loaded []models.WebFile, skipped []string, err error) {
	if workers < 1 {
		workers = DefaultWebWorkers
	}

	type slot struct {
		path string
		kind models.WebFileKind
	}
	var slots []slot
	for _, p := range paths {
		kind, ok := WebFileKindOf(p)
		if !ok {
			skipped = append(skipped, p)
			continue
		}
		slots = append(slots, slot{path: p, kind: kind})
	}

	loaded = make([]models.WebFile, len(slots))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, s := range slots {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			data, err := os.ReadFile(s.path)
			if err != nil {
				return fmt.Errorf("read %s: %w", s.path, err)
			}
			loaded[i] = models.WebFile{Path: s.path, Kind: s.kind, Content: string(data)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return loaded, skipped, nil
}
