// Package vectorize builds the bijection between density-matrix element
// coordinates and flat state-vector indices used by a downstream time
// integrator. Four independent flags configure the encoding; for any fixed
// configuration Mu and IJ are exact two-sided inverses.
package vectorize

import (
	"errors"
	"fmt"
)

// ErrInvalidCoordinate is returned for coordinates excluded by the active
// configuration, e.g. the suppressed anchor population when normalized, or
// an upper-triangle pair when only the lower triangle is stored.
var ErrInvalidCoordinate = errors.New("vectorize: invalid coordinate")

// ErrInvalidIndex is returned when IJ receives an index outside the
// configured domain.
var ErrInvalidIndex = errors.New("vectorize: index out of range")

// Options selects the encoding.
//
// Real splits every degree of freedom into two real ones tagged with an
// explicit sign; LowerTriangular stores only i > j coherences, relying on
// hermiticity for the rest; Normalized drops the first population, fixed by
// the trace; Nv repeats the whole scheme for that many velocity groups laid
// out as complete blocks. Nv zero means one group.
type Options struct {
	Real            bool
	LowerTriangular bool
	Normalized      bool
	Nv              int
}

// Coord addresses one stored degree of freedom. Sign must be 0 in the
// complex encoding; +1 or -1 in the real encoding (+1 only, for
// populations). K is the velocity group.
type Coord struct {
	Sign int
	I, J int
	K    int
}

type Indexer struct {
	ne      int
	opts    Options
	forward map[Coord]int
	inverse []Coord
}

// New enumerates the configured domain. Assignment order per group:
// populations first (skipping (0, 0) when normalized), then for each j and
// each i > j the coherences at (i, j), then at (j, i) when both triangles
// are stored, with the real encoding expanding each into consecutive
// +1/-1 entries.
func New(ne int, opts Options) (*Indexer, error) {
	if ne < 1 {
		return nil, fmt.Errorf("vectorize: need at least one state, got %d", ne)
	}
	if opts.Nv < 0 {
		return nil, fmt.Errorf("vectorize: negative velocity group count %d", opts.Nv)
	}
	if opts.Nv == 0 {
		opts.Nv = 1
	}

	x := &Indexer{ne: ne, opts: opts, forward: make(map[Coord]int)}

	add := func(c Coord) {
		x.forward[c] = len(x.inverse)
		x.inverse = append(x.inverse, c)
	}

	for k := 0; k < opts.Nv; k++ {
		start := 0
		if opts.Normalized {
			start = 1
		}
		for i := start; i < ne; i++ {
			if opts.Real {
				add(Coord{Sign: 1, I: i, J: i, K: k})
			} else {
				add(Coord{I: i, J: i, K: k})
			}
		}
		for j := 0; j < ne; j++ {
			for i := j + 1; i < ne; i++ {
				if opts.Real {
					add(Coord{Sign: 1, I: i, J: j, K: k})
					add(Coord{Sign: -1, I: i, J: j, K: k})
				} else {
					add(Coord{I: i, J: j, K: k})
				}
				if !opts.LowerTriangular {
					if opts.Real {
						add(Coord{Sign: 1, I: j, J: i, K: k})
						add(Coord{Sign: -1, I: j, J: i, K: k})
					} else {
						add(Coord{I: j, J: i, K: k})
					}
				}
			}
		}
	}

	return x, nil
}

// Size is the number of stored degrees of freedom across all groups.
func (x *Indexer) Size() int { return len(x.inverse) }

// Mu maps a coordinate to its flat index.
func (x *Indexer) Mu(c Coord) (int, error) {
	mu, ok := x.forward[c]
	if !ok {
		return 0, fmt.Errorf("%w: %+v", ErrInvalidCoordinate, c)
	}
	return mu, nil
}

// IJ maps a flat index back to its coordinate.
func (x *Indexer) IJ(mu int) (Coord, error) {
	if mu < 0 || mu >= len(x.inverse) {
		return Coord{}, fmt.Errorf("%w: %d of %d", ErrInvalidIndex, mu, len(x.inverse))
	}
	return x.inverse[mu], nil
}
