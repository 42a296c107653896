// Package matrix wraps the sparse LU solver behind the small real-valued
// linear systems this library needs (the rotating-frame phase constraints).
// The matrix is factored once and solved against many right-hand sides, one
// per symbolic column.
package matrix

import (
	"fmt"

	"github.com/edp1096/sparse"
)

type System struct {
	Size     int
	matrix   *sparse.Matrix
	factored bool
	config   *sparse.Configuration
}

func NewSystem(size int) (*System, error) {
	config := &sparse.Configuration{
		Real:                    true,
		Complex:                 false,
		SeparatedComplexVectors: false,
		Expandable:              true,
		Translate:               false,
		ModifiedNodal:           false,
		TiesMultiplier:          5,
		PrinterWidth:            140,
		Annotate:                0,
	}

	mat, err := sparse.Create(int64(size), config)
	if err != nil {
		return nil, fmt.Errorf("creating sparse system: %v", err)
	}

	return &System{
		Size:   size,
		matrix: mat,
		config: config,
	}, nil
}

// Add accumulates value at the zero-based (i, j) coefficient.
func (s *System) Add(i, j int, value float64) error {
	if i < 0 || j < 0 || i >= s.Size || j >= s.Size {
		return fmt.Errorf("coefficient index out of bounds (i=%d, j=%d, size=%d)", i, j, s.Size)
	}
	s.matrix.GetElement(int64(i+1), int64(j+1)).Real += value
	return nil
}

func (s *System) Factor() error {
	if err := s.matrix.Factor(); err != nil {
		return fmt.Errorf("matrix factorization failed: %v", err)
	}
	s.factored = true
	return nil
}

// Solve solves the factored system for one zero-based right-hand side.
func (s *System) Solve(rhs []float64) ([]float64, error) {
	if !s.factored {
		return nil, fmt.Errorf("system not factored")
	}
	if len(rhs) != s.Size {
		return nil, fmt.Errorf("rhs length %d does not match system size %d", len(rhs), s.Size)
	}

	b := make([]float64, s.Size+1) // 1-based indexing
	copy(b[1:], rhs)

	x, err := s.matrix.Solve(b)
	if err != nil {
		return nil, fmt.Errorf("matrix solve failed: %v", err)
	}

	out := make([]float64, s.Size)
	copy(out, x[1:s.Size+1])
	return out, nil
}

func (s *System) Destroy() {
	if s.matrix != nil {
		s.matrix.Destroy()
	}
}
