// Package generator turns a bitmap into a level map with spawn points.
package generator

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"

	"golang.org/x/crypto/blake2b"

	"github.com/udisondev/mapgen/internal/bitmap"
	"github.com/udisondev/mapgen/internal/spawn"
	"github.com/udisondev/mapgen/internal/tilemap"
)

// Request names the bitmap and how many spawns of each kind to place.
type Request struct {
	Name   string
	CountZ int
	CountP int
}

// Result is a fully rendered map.
type Result struct {
	Name   string
	Width  int
	Height int
	Spawns spawn.Spawns
	Text   string
	Digest [blake2b.Size256]byte
}

// DigestHex returns the hex encoded content digest.
func (r *Result) DigestHex() string {
	return hex.EncodeToString(r.Digest[:])
}

// Archiver persists finished maps.
type Archiver interface {
	Save(ctx context.Context, res *Result) error
}

// Options configures a Generator. Zero values fall back to the defaults of
// the bitmap and tilemap packages.
type Options struct {
	BitmapDir  string
	OutputPath string

	// Out receives a copy of the map text. Nil disables echoing.
	Out io.Writer

	// Archiver is optional.
	Archiver Archiver
}

// Generator runs load -> sample -> render -> write.
// It is not safe for concurrent use: the sampler's source is not locked.
type Generator struct {
	sampler *spawn.Sampler
	opts    Options
}

// New creates a generator.
func New(sampler *spawn.Sampler, opts Options) *Generator {
	if opts.BitmapDir == "" {
		opts.BitmapDir = bitmap.DefaultDir
	}
	if opts.OutputPath == "" {
		opts.OutputPath = tilemap.DefaultOutputPath
	}
	return &Generator{sampler: sampler, opts: opts}
}

// OutputPath returns where Generate writes the map.
func (g *Generator) OutputPath() string {
	return g.opts.OutputPath
}

// Build loads the bitmap and renders the map without touching the output.
func (g *Generator) Build(ctx context.Context, req Request) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	grid, err := bitmap.Load(g.opts.BitmapDir, req.Name)
	if err != nil {
		return nil, fmt.Errorf("loading bitmap %q: %w", req.Name, err)
	}

	if req.CountZ == 0 && req.CountP == 0 {
		slog.Warn("no spawn points requested, map will have no zombie or pickup spawns", "name", req.Name)
	}

	spawns, err := g.sampler.Sample(grid, req.CountZ, req.CountP)
	if err != nil {
		return nil, fmt.Errorf("placing spawns on %q: %w", req.Name, err)
	}

	text := tilemap.Render(grid, spawns)
	return &Result{
		Name:   req.Name,
		Width:  grid.Width(),
		Height: grid.Height(),
		Spawns: spawns,
		Text:   text,
		Digest: blake2b.Sum256([]byte(text)),
	}, nil
}

// Generate builds the map, hands it to the archiver, writes it to the
// output path and echoes it to Out. Nothing is written unless the map was
// built and archived.
func (g *Generator) Generate(ctx context.Context, req Request) (*Result, error) {
	res, err := g.Build(ctx, req)
	if err != nil {
		return nil, err
	}

	// Archive first: a failed save must not leave a map behind.
	if g.opts.Archiver != nil {
		if err := g.opts.Archiver.Save(ctx, res); err != nil {
			return nil, fmt.Errorf("archiving map %q: %w", res.Name, err)
		}
		slog.Debug("map archived", "name", res.Name, "digest", res.DigestHex())
	}

	if err := tilemap.WriteFile(g.opts.OutputPath, res.Text); err != nil {
		return nil, fmt.Errorf("writing map: %w", err)
	}
	slog.Info("map written",
		"name", res.Name,
		"path", g.opts.OutputPath,
		"width", res.Width,
		"height", res.Height,
		"zombie_spawns", len(res.Spawns.Z),
		"pickup_spawns", len(res.Spawns.P),
	)

	if g.opts.Out != nil {
		if _, err := fmt.Fprintln(g.opts.Out, res.Text); err != nil {
			return nil, fmt.Errorf("printing map: %w", err)
		}
	}

	return res, nil
}
