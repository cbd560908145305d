package bitmap

import (
	"image"
	"image/color"
)

// Coord is a pixel position. X grows to the right, Y grows downwards.
type Coord struct {
	X, Y int
}

// RGB holds the 8-bit colour channels of one pixel.
type RGB struct {
	R, G, B uint8
}

// IsBlack reports whether all three channels are zero.
func (c RGB) IsBlack() bool {
	return c.R == 0 && c.G == 0 && c.B == 0
}

// IsWall reports whether a pixel classifies as a wall tile.
// Alpha is ignored: only the straight (non-premultiplied) R, G and B
// channels are inspected, so paletted, gray, RGB and RGBA sources agree.
func IsWall(c color.Color) bool {
	return toRGB(c).IsBlack()
}

func toRGB(c color.Color) RGB {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return RGB{R: n.R, G: n.G, B: n.B}
}

// Grid is an immutable, classified copy of a source image.
//
// Linear indices are row-major: index i addresses x = i % width,
// y = i / width. Every consumer (spawn sampling, rendering) goes through
// Coord and Index so the convention cannot drift.
type Grid struct {
	width  int
	height int
	pixels []RGB
	walls  []bool
	floors int
}

// FromImage copies and classifies every pixel of img.
func FromImage(img image.Image) *Grid {
	b := img.Bounds()
	g := &Grid{
		width:  b.Dx(),
		height: b.Dy(),
	}
	n := g.width * g.height
	g.pixels = make([]RGB, n)
	g.walls = make([]bool, n)

	for y := range g.height {
		for x := range g.width {
			px := toRGB(img.At(b.Min.X+x, b.Min.Y+y))
			i := y*g.width + x
			g.pixels[i] = px
			g.walls[i] = px.IsBlack()
			if !g.walls[i] {
				g.floors++
			}
		}
	}

	return g
}

// Width returns the number of columns.
func (g *Grid) Width() int { return g.width }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.height }

// Len returns width*height.
func (g *Grid) Len() int { return len(g.walls) }

// FloorCount returns the number of non-wall pixels.
func (g *Grid) FloorCount() int { return g.floors }

// Coord converts a linear index to a coordinate.
func (g *Grid) Coord(i int) Coord {
	return Coord{X: i % g.width, Y: i / g.width}
}

// Index converts a coordinate to a linear index.
func (g *Grid) Index(c Coord) int {
	return c.Y*g.width + c.X
}

// Contains reports whether c lies inside the grid.
func (g *Grid) Contains(c Coord) bool {
	return c.X >= 0 && c.X < g.width && c.Y >= 0 && c.Y < g.height
}

// IsWall reports whether the pixel at c is a wall. Out of range
// coordinates count as walls.
func (g *Grid) IsWall(c Coord) bool {
	if !g.Contains(c) {
		return true
	}
	return g.walls[g.Index(c)]
}

// RGB returns the colour of the pixel at c.
func (g *Grid) RGB(c Coord) RGB {
	if !g.Contains(c) {
		return RGB{}
	}
	return g.pixels[g.Index(c)]
}
