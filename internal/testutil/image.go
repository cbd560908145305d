package testutil

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/bmp"
)

// Pixel colours used by Image.
var (
	Black = color.RGBA{A: 0xFF}
	White = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
)

// Image строит RGBA-картинку из текстовой схемы: '#' — чёрный пиксель,
// любой другой символ — белый. Все строки должны быть одной длины.
//
//	testutil.Image(
//		"#.",
//		"..",
//	)
func Image(rows ...string) *image.RGBA {
	h := len(rows)
	w := 0
	if h > 0 {
		w = len(rows[0])
	}

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y, row := range rows {
		if len(row) != w {
			panic(fmt.Sprintf("testutil.Image: row %d has length %d, want %d", y, len(row), w))
		}
		for x := range w {
			if row[x] == '#' {
				img.Set(x, y, Black)
			} else {
				img.Set(x, y, White)
			}
		}
	}
	return img
}

// WriteBMP кодирует img в <dir>/<name>.bmp и возвращает путь к файлу.
func WriteBMP(tb testing.TB, dir, name string, img image.Image) string {
	tb.Helper()

	path := filepath.Join(dir, name+".bmp")
	f, err := os.Create(path)
	if err != nil {
		tb.Fatalf("creating %s: %v", path, err)
	}
	defer f.Close()

	if err := bmp.Encode(f, img); err != nil {
		tb.Fatalf("encoding %s: %v", path, err)
	}
	return path
}
