// Package batch converts every bitmap in a directory into a map file.
package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/udisondev/mapgen/internal/bitmap"
	"github.com/udisondev/mapgen/internal/generator"
	"github.com/udisondev/mapgen/internal/spawn"
)

// ErrNoBitmaps is returned when the input directory holds no .bmp files.
var ErrNoBitmaps = errors.New("no bitmaps found")

// Options configures a batch run.
type Options struct {
	Dir    string
	OutDir string

	CountZ int
	CountP int

	// Workers bounds concurrent conversions (<= 0 means 1).
	Workers int

	// Seed 0 gives every file an independent random seed. Otherwise file i
	// (in name order) is sampled with Seed+i.
	Seed uint64

	// Archiver is optional.
	Archiver generator.Archiver
}

// Summary describes one converted file.
type Summary struct {
	Name       string
	OutputPath string
	Width      int
	Height     int
	Digest     string
}

// List returns the base names (without extension) of all bitmaps in dir,
// sorted.
func List(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading bitmap dir %s: %w", dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.EqualFold(filepath.Ext(name), bitmap.Extension) {
			continue
		}
		names = append(names, strings.TrimSuffix(name, filepath.Ext(name)))
	}
	sort.Strings(names)
	return names, nil
}

// Run converts all bitmaps of opts.Dir into opts.OutDir/<name>.txt.
// Each file gets its own sampler so no random source is shared between
// goroutines. The first failure cancels the remaining conversions.
func Run(ctx context.Context, opts Options) ([]Summary, error) {
	names, err := List(opts.Dir)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoBitmaps, opts.Dir)
	}

	if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output dir %s: %w", opts.OutDir, err)
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = 1
	}

	start := time.Now()
	summaries := make([]Summary, len(names))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, name := range names {
		g.Go(func() error {
			var seed uint64
			if opts.Seed != 0 {
				seed = opts.Seed + uint64(i)
			}

			gen := generator.New(spawn.NewSampler(spawn.NewSeededSource(seed)), generator.Options{
				BitmapDir:  opts.Dir,
				OutputPath: filepath.Join(opts.OutDir, name+".txt"),
				Archiver:   opts.Archiver,
			})

			res, err := gen.Generate(gctx, generator.Request{Name: name, CountZ: opts.CountZ, CountP: opts.CountP})
			if err != nil {
				return fmt.Errorf("converting %s: %w", name, err)
			}

			summaries[i] = Summary{
				Name:       name,
				OutputPath: gen.OutputPath(),
				Width:      res.Width,
				Height:     res.Height,
				Digest:     res.DigestHex(),
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	slog.Info("batch done", "files", len(names), "workers", workers, "elapsed", time.Since(start).Round(time.Millisecond))
	return summaries, nil
}
