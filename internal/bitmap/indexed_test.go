package bitmap

import (
	"bytes"
	"encoding/binary"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	black = color.RGBA{A: 0xff}
	white = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	red   = color.RGBA{R: 0xff, A: 0xff}
)

// encodeIndexed builds an uncompressed paletted BMP. pix holds palette
// indices, top row first.
func encodeIndexed(bpp int, palette []color.RGBA, pix [][]uint8, topDown bool) []byte {
	width, height := len(pix[0]), len(pix)
	stride := (width*bpp + 31) / 32 * 4
	offset := fileHeaderLen + infoHeaderLen + 4*len(palette)
	size := offset + stride*height

	buf := make([]byte, size)
	le := binary.LittleEndian
	buf[0], buf[1] = 'B', 'M'
	le.PutUint32(buf[2:], uint32(size))
	le.PutUint32(buf[10:], uint32(offset))
	le.PutUint32(buf[14:], infoHeaderLen)
	le.PutUint32(buf[18:], uint32(width))
	h := int32(height)
	if topDown {
		h = -h
	}
	le.PutUint32(buf[22:], uint32(h))
	le.PutUint16(buf[26:], 1)
	le.PutUint16(buf[28:], uint16(bpp))
	le.PutUint32(buf[46:], uint32(len(palette)))

	for i, c := range palette {
		p := buf[fileHeaderLen+infoHeaderLen+4*i:]
		p[0], p[1], p[2] = c.B, c.G, c.R
	}

	for y, row := range pix {
		line := y
		if !topDown {
			line = height - 1 - y
		}
		dst := buf[offset+line*stride:]
		for x, v := range row {
			bit := x * bpp
			dst[bit/8] |= v << (8 - bpp - bit%8)
		}
	}
	return buf
}

func TestDecodeIndexed(t *testing.T) {
	tests := []struct {
		name    string
		bpp     int
		palette []color.RGBA
		pix     [][]uint8
		topDown bool
	}{
		{
			name:    "1-bit monochrome",
			bpp:     1,
			palette: []color.RGBA{black, white},
			pix: [][]uint8{
				{0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
				{0, 1, 1, 1, 1, 1, 1, 1, 1, 0},
				{0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
			},
		},
		{
			name:    "1-bit inverted palette",
			bpp:     1,
			palette: []color.RGBA{white, black},
			pix: [][]uint8{
				{1, 0},
				{0, 0},
			},
		},
		{
			name:    "1-bit top-down",
			bpp:     1,
			palette: []color.RGBA{black, white},
			pix: [][]uint8{
				{0, 1},
				{1, 1},
			},
			topDown: true,
		},
		{
			name:    "4-bit three colours",
			bpp:     4,
			palette: []color.RGBA{white, black, red},
			pix: [][]uint8{
				{1, 1, 1},
				{1, 0, 2},
				{1, 1, 1},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := Decode(bytes.NewReader(encodeIndexed(tt.bpp, tt.palette, tt.pix, tt.topDown)))
			require.NoError(t, err)
			require.Equal(t, len(tt.pix[0]), g.Width())
			require.Equal(t, len(tt.pix), g.Height())

			floor := 0
			for y, row := range tt.pix {
				for x, idx := range row {
					wall := tt.palette[idx] == black
					if !wall {
						floor++
					}
					assert.Equal(t, wall, g.IsWall(Coord{X: x, Y: y}), "(%d,%d)", x, y)
				}
			}
			assert.Equal(t, floor, g.FloorCount())
		})
	}
}

func TestDecodeIndexedRejects(t *testing.T) {
	valid := func() []byte {
		return encodeIndexed(4, []color.RGBA{black, white}, [][]uint8{{0, 1}, {1, 0}}, false)
	}

	tests := []struct {
		name   string
		mutate func([]byte) []byte
	}{
		{"palette index out of range", func(b []byte) []byte {
			b[len(b)-4] = 0x50
			return b
		}},
		{"rle compression", func(b []byte) []byte {
			binary.LittleEndian.PutUint32(b[30:], 2)
			return b
		}},
		{"truncated pixels", func(b []byte) []byte {
			return b[:len(b)-3]
		}},
		{"2 bits per pixel", func(b []byte) []byte {
			binary.LittleEndian.PutUint16(b[28:], 2)
			return b
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(bytes.NewReader(tt.mutate(valid())))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrImageLoad)
		})
	}
}
