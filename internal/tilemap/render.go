// Package tilemap converts classified bitmaps into the text level format
// read by the game: one character per tile, one line per row.
//
//	#  wall
//	.  floor
//	Z  zombie spawn
//	P  pickup spawn
package tilemap

import (
	"strings"

	"github.com/udisondev/mapgen/internal/bitmap"
	"github.com/udisondev/mapgen/internal/spawn"
)

// Tile symbols.
const (
	Wall   byte = '#'
	Floor  byte = '.'
	Zombie byte = 'Z'
	Pickup byte = 'P'
)

// RowSeparator ends every row except the last.
const RowSeparator = '\n'

// Symbol returns the tile at c. Spawns take precedence over the base
// classification, zombie over pickup.
func Symbol(g *bitmap.Grid, s spawn.Spawns, c bitmap.Coord) byte {
	if k, ok := s.Kind(c); ok {
		return k.Symbol()
	}
	if g.IsWall(c) {
		return Wall
	}
	return Floor
}

// Render serializes g with spawns overlaid, row-major, x varying fastest.
// Rows are joined by RowSeparator with no trailing separator.
func Render(g *bitmap.Grid, s spawn.Spawns) string {
	var b strings.Builder
	b.Grow(g.Len() + g.Height())

	for i := range g.Len() {
		c := g.Coord(i)
		if c.X == 0 && i > 0 {
			b.WriteByte(RowSeparator)
		}
		b.WriteByte(Symbol(g, s, c))
	}

	return b.String()
}
