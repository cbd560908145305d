package bitmap

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/color"
)

var (
	errIndexedFormat      = errors.New("bmp: invalid indexed image")
	errIndexedUnsupported = errors.New("bmp: unsupported indexed image")
)

// BITMAPFILEHEADER + BITMAPINFOHEADER.
const (
	fileHeaderLen = 14
	infoHeaderLen = 40
)

// decodeIndexed reads an uncompressed 1, 4 or 8-bit paletted BMP.
// x/image/bmp stops at 8 bits, so monochrome files end up here.
func decodeIndexed(data []byte) (*image.Paletted, error) {
	if len(data) < fileHeaderLen+infoHeaderLen || data[0] != 'B' || data[1] != 'M' {
		return nil, errIndexedFormat
	}
	le := binary.LittleEndian

	offset := int(le.Uint32(data[10:14]))
	headerLen := int(le.Uint32(data[14:18]))
	width := int(int32(le.Uint32(data[18:22])))
	height := int(int32(le.Uint32(data[22:26])))
	bpp := int(le.Uint16(data[28:30]))
	compression := le.Uint32(data[30:34])
	colors := int(le.Uint32(data[46:50]))

	if headerLen < infoHeaderLen || compression != 0 {
		return nil, fmt.Errorf("%w: header %d bytes, compression %d", errIndexedUnsupported, headerLen, compression)
	}
	switch bpp {
	case 1, 4, 8:
	default:
		return nil, fmt.Errorf("%w: %d bits per pixel", errIndexedUnsupported, bpp)
	}

	// Negative height means rows are stored top-down.
	topDown := height < 0
	if topDown {
		height = -height
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", errIndexedFormat, width, height)
	}

	if colors == 0 {
		colors = 1 << bpp
	}
	if colors > 1<<bpp {
		return nil, fmt.Errorf("%w: %d palette entries for %d bits", errIndexedFormat, colors, bpp)
	}
	palStart := fileHeaderLen + headerLen
	if palStart+4*colors > len(data) {
		return nil, fmt.Errorf("%w: truncated palette", errIndexedFormat)
	}
	palette := make(color.Palette, colors)
	for i := range palette {
		p := data[palStart+4*i:]
		palette[i] = color.RGBA{R: p[2], G: p[1], B: p[0], A: 0xff}
	}

	stride := (width*bpp + 31) / 32 * 4
	if offset < palStart || offset+stride*height > len(data) {
		return nil, fmt.Errorf("%w: truncated pixel data", errIndexedFormat)
	}

	img := image.NewPaletted(image.Rect(0, 0, width, height), palette)
	mask := byte(1<<bpp - 1)
	for row := range height {
		y := height - 1 - row
		if topDown {
			y = row
		}
		src := data[offset+row*stride:]
		for x := range width {
			bit := x * bpp
			idx := src[bit/8] >> (8 - bpp - bit%8) & mask
			if int(idx) >= colors {
				return nil, fmt.Errorf("%w: palette index %d at (%d,%d)", errIndexedFormat, idx, x, y)
			}
			img.SetColorIndex(x, y, idx)
		}
	}

	return img, nil
}
