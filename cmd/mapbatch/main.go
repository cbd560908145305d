// Command mapbatch converts every bitmap in a directory into a level map.
//
// Usage:
//
//	mapbatch [flags] [countAll | countZ countP]
//	mapbatch -bitmaps assets/bitmaps -out maps -workers 8 3 5
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/udisondev/mapgen/internal/batch"
	"github.com/udisondev/mapgen/internal/cli"
	"github.com/udisondev/mapgen/internal/config"
	"github.com/udisondev/mapgen/internal/db"
)

const ConfigPath = "config/mapgen.yaml"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, argv []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("mapbatch", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: mapbatch [flags] [countAll | countZ countP]")
		fmt.Fprintln(stderr, "\nFlags:")
		fs.PrintDefaults()
	}

	cfgPath := fs.String("config", ConfigPath, "YAML config file (env MAPGEN_CONFIG)")
	bitmapDir := fs.String("bitmaps", "", "directory of .bmp files")
	outDir := fs.String("out", "", "directory for generated maps")
	workers := fs.Int("workers", 0, "concurrent conversions")
	seed := fs.Uint64("seed", 0, "base random seed (0 = random)")
	archive := fs.Bool("archive", false, "store generated maps in PostgreSQL")
	if err := fs.Parse(argv); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	// Counts use the same positional rules as mapgen, minus the filename.
	req, err := cli.Resolve(append([]string{"*"}, fs.Args()...))
	if err != nil {
		if errors.Is(err, cli.ErrArgumentCount) {
			fs.Usage()
		}
		return fmt.Errorf("resolving arguments: %w", err)
	}

	path := *cfgPath
	if p := os.Getenv("MAPGEN_CONFIG"); p != "" && !flagSet(fs, "config") {
		path = p
	}
	cfg, err := config.LoadMapGen(path)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "bitmaps":
			cfg.BitmapDir = *bitmapDir
		case "out":
			cfg.Batch.OutputDir = *outDir
		case "workers":
			cfg.Batch.Workers = *workers
		case "seed":
			cfg.Seed = *seed
		case "archive":
			cfg.Archive.Enabled = *archive
		}
	})

	level, err := cfg.SlogLevel()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{
		Level: level,
	})))

	opts := batch.Options{
		Dir:     cfg.BitmapDir,
		OutDir:  cfg.Batch.OutputDir,
		CountZ:  req.CountZ,
		CountP:  req.CountP,
		Workers: cfg.Batch.Workers,
		Seed:    cfg.Seed,
	}

	if cfg.Archive.Enabled {
		dsn := cfg.Archive.Database.DSN()
		database, err := db.New(ctx, dsn)
		if err != nil {
			return fmt.Errorf("connecting to archive: %w", err)
		}
		defer database.Close()

		if err := db.RunMigrations(ctx, dsn); err != nil {
			return fmt.Errorf("running archive migrations: %w", err)
		}
		opts.Archiver = db.NewMapRepository(database.Pool())
	}

	slog.Info("mapbatch starting", "bitmaps", opts.Dir, "out", opts.OutDir, "workers", opts.Workers)

	summaries, err := batch.Run(ctx, opts)
	if err != nil {
		return fmt.Errorf("batch: %w", err)
	}

	for _, s := range summaries {
		fmt.Fprintf(stdout, "%-24s %4dx%-4d %s  %s\n", s.Name, s.Width, s.Height, s.Digest[:12], s.OutputPath)
	}
	return nil
}

func flagSet(fs *flag.FlagSet, name string) bool {
	set := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}
