// Package atom holds the static description of a multilevel atomic system
// driven by laser fields: bare level energies, the field-to-transition
// coupling tensor xi, and the electric-dipole tensor rm. These are produced
// upstream (state enumeration, angular-momentum bookkeeping) and consumed
// here as plain arrays.
package atom

import (
	"errors"
	"fmt"
)

// ErrUnsorted is returned when level energies are not in non-decreasing
// order. Degeneracy classes are scanned in one pass, so sorted input is a
// hard requirement rather than a silent precondition.
var ErrUnsorted = errors.New("atom: level energies not sorted ascending")

// ErrDimensionMismatch is returned when tensor shapes disagree with the
// declared number of levels or fields.
var ErrDimensionMismatch = errors.New("atom: dimension mismatch")

// Model describes one atomic system and the fields driving it.
//
// OmegaLevel lists the Ne bare level angular frequencies, sorted ascending.
// Xi[l][i][j] is 1 when field l drives the i <-> j transition, 0 otherwise,
// and must be symmetric in (i, j). Rm[p][i][j] are the cartesian components
// (p = x, y, z) of the position operator below the diagonal; the upper
// triangle is implied by hermiticity and must be left zero.
type Model struct {
	OmegaLevel []float64
	Xi         [][][]float64
	Rm         [][][]complex128
}

func (m *Model) Ne() int { return len(m.OmegaLevel) }
func (m *Model) Nl() int { return len(m.Xi) }

// Validate checks shapes and the documented conventions.
func (m *Model) Validate() error {
	ne := m.Ne()
	if ne == 0 {
		return fmt.Errorf("%w: no levels", ErrDimensionMismatch)
	}
	for i := 1; i < ne; i++ {
		if m.OmegaLevel[i] < m.OmegaLevel[i-1] {
			return fmt.Errorf("%w: omega_level[%d] < omega_level[%d]", ErrUnsorted, i, i-1)
		}
	}

	if err := ValidateXi(m.Xi, len(m.Xi), ne); err != nil {
		return err
	}
	return ValidateRm(m.Rm, ne)
}

// ValidateXi checks that xi has shape (nl, ne, ne), entries in {0, 1} and
// symmetry in the level indices.
func ValidateXi(xi [][][]float64, nl, ne int) error {
	if len(xi) != nl {
		return fmt.Errorf("%w: xi has %d fields, want %d", ErrDimensionMismatch, len(xi), nl)
	}
	for l := range xi {
		if len(xi[l]) != ne {
			return fmt.Errorf("%w: xi[%d] has %d rows, want %d", ErrDimensionMismatch, l, len(xi[l]), ne)
		}
		for i := range xi[l] {
			if len(xi[l][i]) != ne {
				return fmt.Errorf("%w: xi[%d][%d] has %d columns, want %d",
					ErrDimensionMismatch, l, i, len(xi[l][i]), ne)
			}
		}
		for i := 0; i < ne; i++ {
			for j := 0; j < ne; j++ {
				v := xi[l][i][j]
				if v != 0 && v != 1 {
					return fmt.Errorf("%w: xi[%d][%d][%d] = %g, want 0 or 1",
						ErrDimensionMismatch, l, i, j, v)
				}
				if v != xi[l][j][i] {
					return fmt.Errorf("%w: xi[%d] not symmetric at (%d, %d)",
						ErrDimensionMismatch, l, i, j)
				}
			}
		}
	}
	return nil
}

// ValidateRm checks that rm has shape (3, ne, ne) and is strictly
// lower-triangular with a zero diagonal.
func ValidateRm(rm [][][]complex128, ne int) error {
	if len(rm) != 3 {
		return fmt.Errorf("%w: rm has %d components, want 3", ErrDimensionMismatch, len(rm))
	}
	for p := range rm {
		if len(rm[p]) != ne {
			return fmt.Errorf("%w: rm[%d] has %d rows, want %d", ErrDimensionMismatch, p, len(rm[p]), ne)
		}
		for i := range rm[p] {
			if len(rm[p][i]) != ne {
				return fmt.Errorf("%w: rm[%d][%d] has %d columns, want %d",
					ErrDimensionMismatch, p, i, len(rm[p][i]), ne)
			}
			for j := i; j < ne; j++ {
				if rm[p][i][j] != 0 {
					return fmt.Errorf("%w: rm[%d][%d][%d] above the diagonal is not zero",
						ErrDimensionMismatch, p, i, j)
				}
			}
		}
	}
	return nil
}

// Coupled reports whether levels i and j share a nonzero dipole element.
func (m *Model) Coupled(i, j int) bool {
	if i < j {
		i, j = j, i
	}
	return m.Rm[0][i][j] != 0 || m.Rm[1][i][j] != 0 || m.Rm[2][i][j] != 0
}

// NewXi builds a coupling tensor from per-field lists of (upper, lower)
// level pairs.
func NewXi(nl, ne int, pairs [][][2]int) [][][]float64 {
	xi := make([][][]float64, nl)
	for l := 0; l < nl; l++ {
		xi[l] = make([][]float64, ne)
		for i := 0; i < ne; i++ {
			xi[l][i] = make([]float64, ne)
		}
	}
	for l := range pairs {
		for _, p := range pairs[l] {
			xi[l][p[0]][p[1]] = 1
			xi[l][p[1]][p[0]] = 1
		}
	}
	return xi
}
