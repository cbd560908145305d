// Command mapgen converts a black/white bitmap into a text level map and
// scatters zombie (Z) and pickup (P) spawn points on its floor tiles.
//
// Usage:
//
//	mapgen [flags] [filename] [countAll | countZ countP]
//
// The bitmap is read from ./bitmaps/<filename>.bmp. The map is printed to
// stdout and written to ./output.txt.
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

	"github.com/udisondev/mapgen/internal/cli"
	"github.com/udisondev/mapgen/internal/config"
	"github.com/udisondev/mapgen/internal/db"
	"github.com/udisondev/mapgen/internal/generator"
	"github.com/udisondev/mapgen/internal/spawn"
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
	fs := flag.NewFlagSet("mapgen", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: mapgen [flags] [filename] [countAll | countZ countP]")
		fmt.Fprintln(stderr, "\nFlags:")
		fs.PrintDefaults()
	}

	cfgPath := fs.String("config", ConfigPath, "YAML config file (env MAPGEN_CONFIG)")
	seed := fs.Uint64("seed", 0, "random seed for spawn placement (0 = random)")
	bitmapDir := fs.String("bitmaps", "", "directory holding <filename>.bmp")
	output := fs.String("o", "", "output map file")
	archive := fs.Bool("archive", false, "store the generated map in PostgreSQL")
	if err := fs.Parse(argv); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	// Arguments are resolved before any file is touched.
	req, err := cli.Resolve(fs.Args())
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

	// Flags override the config file.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "seed":
			cfg.Seed = *seed
		case "bitmaps":
			cfg.BitmapDir = *bitmapDir
		case "o":
			cfg.OutputPath = *output
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

	slog.Debug("config loaded", "path", path, "bitmaps", cfg.BitmapDir, "output", cfg.OutputPath, "archive", cfg.Archive.Enabled)

	opts := generator.Options{
		BitmapDir:  cfg.BitmapDir,
		OutputPath: cfg.OutputPath,
		Out:        stdout,
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
		slog.Info("archive enabled", "host", cfg.Archive.Database.Host, "db", cfg.Archive.Database.DBName)
	}

	gen := generator.New(spawn.NewSampler(spawn.NewSeededSource(cfg.Seed)), opts)
	if _, err := gen.Generate(ctx, req); err != nil {
		return err
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
