package spawn

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/udisondev/mapgen/internal/bitmap"
)

var (
	ErrCapacityExceeded = errors.New("not enough floor tiles for spawns")
	ErrNegativeCount    = errors.New("negative spawn count")
)

// Kind is a spawn category.
type Kind uint8

const (
	KindZombie Kind = iota + 1
	KindPickup
)

// Symbol returns the map tile used for the kind.
func (k Kind) Symbol() byte {
	switch k {
	case KindZombie:
		return 'Z'
	case KindPickup:
		return 'P'
	default:
		return '?'
	}
}

func (k Kind) String() string {
	switch k {
	case KindZombie:
		return "zombie"
	case KindPickup:
		return "pickup"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Source is the randomness a Sampler draws from.
// *rand.Rand from math/rand/v2 satisfies it.
type Source interface {
	// IntN returns a uniform value in [0, n). n is always > 0.
	IntN(n int) int
}

// NewSeededSource returns a PCG-backed source.
// Seed 0 picks a random seed.
func NewSeededSource(seed uint64) *rand.Rand {
	if seed == 0 {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return rand.New(rand.NewPCG(seed, seed^0x9E3779B97F4A7C15))
}

// CapacityError reports a spawn request that cannot fit on the floor tiles
// left over after earlier categories were placed.
type CapacityError struct {
	Kind      Kind
	Requested int
	Available int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("%s spawns: requested %d, only %d floor tiles available", e.Kind, e.Requested, e.Available)
}

func (e *CapacityError) Unwrap() error {
	return ErrCapacityExceeded
}

// Spawns holds the sampled coordinates of both categories.
// A coordinate appears at most once across Z and P.
type Spawns struct {
	Z []bitmap.Coord
	P []bitmap.Coord

	index map[bitmap.Coord]Kind
}

// NewSpawns builds Spawns from explicit lists. Later duplicates keep the
// kind of the first occurrence, Z winning over P.
func NewSpawns(z, p []bitmap.Coord) Spawns {
	s := Spawns{Z: z, P: p, index: make(map[bitmap.Coord]Kind, len(z)+len(p))}
	for _, c := range z {
		if _, ok := s.index[c]; !ok {
			s.index[c] = KindZombie
		}
	}
	for _, c := range p {
		if _, ok := s.index[c]; !ok {
			s.index[c] = KindPickup
		}
	}
	return s
}

// Kind returns the spawn kind at c, if any.
func (s Spawns) Kind(c bitmap.Coord) (Kind, bool) {
	k, ok := s.index[c]
	return k, ok
}

// Len returns the total number of spawns.
func (s Spawns) Len() int {
	return len(s.Z) + len(s.P)
}

// Sampler places spawns by rejection sampling.
type Sampler struct {
	src Source
}

// NewSampler creates a sampler drawing from src.
func NewSampler(src Source) *Sampler {
	return &Sampler{src: src}
}

// Sample picks countZ zombie spawns and then countP pickup spawns on floor
// tiles of g. Both sets are disjoint and free of repeats.
//
// Capacity is checked before drawing, so a request that cannot be satisfied
// fails with a *CapacityError instead of looping forever.
func (s *Sampler) Sample(g *bitmap.Grid, countZ, countP int) (Spawns, error) {
	if countZ < 0 || countP < 0 {
		return Spawns{}, fmt.Errorf("%w: z=%d p=%d", ErrNegativeCount, countZ, countP)
	}

	floor := g.FloorCount()
	if countZ > floor {
		return Spawns{}, &CapacityError{Kind: KindZombie, Requested: countZ, Available: floor}
	}
	if countP > floor-countZ {
		return Spawns{}, &CapacityError{Kind: KindPickup, Requested: countP, Available: floor - countZ}
	}

	taken := make(map[bitmap.Coord]Kind, countZ+countP)
	z := s.fill(g, KindZombie, countZ, taken)
	p := s.fill(g, KindPickup, countP, taken)

	slog.Debug("spawns sampled", "zombie", len(z), "pickup", len(p), "floor", floor)
	return Spawns{Z: z, P: p, index: taken}, nil
}

// fill draws until count new coordinates of kind are accepted.
// The caller guarantees enough free floor tiles exist.
func (s *Sampler) fill(g *bitmap.Grid, kind Kind, count int, taken map[bitmap.Coord]Kind) []bitmap.Coord {
	out := make([]bitmap.Coord, 0, count)
	total := g.Len()

	for len(out) < count {
		c := g.Coord(s.src.IntN(total))
		if g.IsWall(c) {
			continue
		}
		if _, ok := taken[c]; ok {
			continue
		}
		taken[c] = kind
		out = append(out, c)
	}

	return out
}
