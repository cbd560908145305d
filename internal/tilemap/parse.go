package tilemap

import (
	"errors"
	"fmt"
	"strings"

	"github.com/udisondev/mapgen/internal/bitmap"
)

var (
	ErrRaggedRows  = errors.New("map rows differ in length")
	ErrUnknownTile = errors.New("unknown map tile")
)

// Map is a parsed level. Only walls block movement; spawns sit on floor.
type Map struct {
	Width  int
	Height int
	Z      []bitmap.Coord
	P      []bitmap.Coord

	solid []bool
}

// IsSolid reports whether the tile at c is a wall. Out of range is solid.
func (m *Map) IsSolid(c bitmap.Coord) bool {
	if c.X < 0 || c.X >= m.Width || c.Y < 0 || c.Y >= m.Height {
		return true
	}
	return m.solid[c.Y*m.Width+c.X]
}

// FloorCount returns the number of walkable tiles, spawns included.
func (m *Map) FloorCount() int {
	n := 0
	for _, s := range m.solid {
		if !s {
			n++
		}
	}
	return n
}

// Parse reads a rendered map. A single trailing newline and CRLF line
// endings are accepted.
func Parse(text string) (*Map, error) {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return &Map{}, nil
	}

	rows := strings.Split(text, "\n")
	m := &Map{
		Width:  len(rows[0]),
		Height: len(rows),
	}
	m.solid = make([]bool, 0, m.Width*m.Height)

	for y, row := range rows {
		if len(row) != m.Width {
			return nil, fmt.Errorf("%w: row %d has %d tiles, want %d", ErrRaggedRows, y, len(row), m.Width)
		}
		for x := range len(row) {
			c := bitmap.Coord{X: x, Y: y}
			switch row[x] {
			case Wall:
				m.solid = append(m.solid, true)
			case Floor:
				m.solid = append(m.solid, false)
			case Zombie:
				m.solid = append(m.solid, false)
				m.Z = append(m.Z, c)
			case Pickup:
				m.solid = append(m.solid, false)
				m.P = append(m.P, c)
			default:
				return nil, fmt.Errorf("%w %q at (%d,%d)", ErrUnknownTile, row[x], x, y)
			}
		}
	}

	return m, nil
}
