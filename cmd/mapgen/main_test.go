package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/mapgen/internal/bitmap"
	"github.com/udisondev/mapgen/internal/cli"
	"github.com/udisondev/mapgen/internal/spawn"
	"github.com/udisondev/mapgen/internal/testutil"
)

// workdir switches into a fresh directory holding bitmaps/test.bmp.
func workdir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "bitmaps"), 0o755))
	testutil.WriteBMP(t, filepath.Join(dir, "bitmaps"), "test", testutil.Image(
		"######",
		"#....#",
		"#.##.#",
		"#....#",
		"######",
	))
	t.Chdir(dir)
	t.Setenv("MAPGEN_CONFIG", "")
	return dir
}

func TestRunWritesAndPrints(t *testing.T) {
	dir := workdir(t)
	var stdout, stderr bytes.Buffer

	err := run(context.Background(), []string{"-seed", "3", "test", "2", "3"}, &stdout, &stderr)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "output.txt"))
	require.NoError(t, err)
	text := string(data)

	assert.Equal(t, text+"\n", stdout.String())
	assert.Equal(t, 2, strings.Count(text, "Z"))
	assert.Equal(t, 3, strings.Count(text, "P"))
	assert.Equal(t, 4, strings.Count(text, "\n"))
}

func TestRunSeedFlagIsReproducible(t *testing.T) {
	workdir(t)

	var first, second bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"-seed", "42", "test", "3"}, &first, &bytes.Buffer{}))
	require.NoError(t, run(context.Background(), []string{"-seed", "42", "test", "3"}, &second, &bytes.Buffer{}))
	assert.Equal(t, first.String(), second.String())
}

func TestRunConfigFile(t *testing.T) {
	dir := workdir(t)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "config"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config", "mapgen.yaml"), []byte("output_path: level.txt\nlog_level: error\n"), 0o644))

	require.NoError(t, run(context.Background(), []string{"test", "1"}, &bytes.Buffer{}, &bytes.Buffer{}))

	assert.FileExists(t, filepath.Join(dir, "level.txt"))
	assert.NoFileExists(t, filepath.Join(dir, "output.txt"))
}

func TestRunErrorsLeaveNoOutput(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{"too few", []string{"test"}, cli.ErrTooFewArguments},
		{"too many", []string{"test", "1", "2", "3"}, cli.ErrTooManyArguments},
		{"bad count", []string{"test", "x"}, cli.ErrInvalidCount},
		{"missing bitmap", []string{"nope", "1"}, bitmap.ErrImageLoad},
		{"over capacity", []string{"test", "100", "0"}, spawn.ErrCapacityExceeded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := workdir(t)
			var stdout bytes.Buffer

			err := run(context.Background(), tt.args, &stdout, &bytes.Buffer{})
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.NoFileExists(t, filepath.Join(dir, "output.txt"))
			assert.Empty(t, stdout.String())
		})
	}
}

func TestRunHelp(t *testing.T) {
	dir := workdir(t)
	var stdout, stderr bytes.Buffer

	require.NoError(t, run(context.Background(), []string{"-h"}, &stdout, &stderr))
	assert.Empty(t, stdout.String())
	assert.Contains(t, stderr.String(), "Usage: mapgen")
	assert.NoFileExists(t, filepath.Join(dir, "output.txt"))
}
