package bitmap

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/image/bmp"
)

// Extension is the file suffix of source bitmaps.
const Extension = ".bmp"

// DefaultDir is where bitmaps are looked up, relative to the working directory.
const DefaultDir = "bitmaps"

// ErrImageLoad is returned when a bitmap is missing, unreadable or not a BMP.
var ErrImageLoad = errors.New("image load failed")

// Path returns the location of the bitmap called name inside dir.
func Path(dir, name string) string {
	if dir == "" {
		dir = DefaultDir
	}
	return filepath.Join(dir, name+Extension)
}

// Load opens <dir>/<name>.bmp and classifies its pixels.
// The file is closed before Load returns.
func Load(dir, name string) (*Grid, error) {
	path := Path(dir, name)

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %w", ErrImageLoad, path, err)
	}
	defer f.Close()

	g, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	slog.Debug("bitmap loaded", "path", path, "width", g.Width(), "height", g.Height(), "floor", g.FloorCount())
	return g, nil
}

// Decode reads a BMP stream. Indexed images below 8 bits per pixel, which
// bmp.Decode reports as unsupported, go through decodeIndexed.
func Decode(r io.Reader) (*Grid, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: reading bmp: %w", ErrImageLoad, err)
	}

	var img image.Image
	img, err = bmp.Decode(bytes.NewReader(data))
	if errors.Is(err, bmp.ErrUnsupported) {
		img, err = decodeIndexed(data)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: decoding bmp: %w", ErrImageLoad, err)
	}
	return FromImage(img), nil
}
