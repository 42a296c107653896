// Package phase solves for the rotating-frame phase transformation that
// removes explicit time dependence from the Hamiltonian. Each coupled level
// pair (i, j) with i > j driven by field l contributes one constraint
//
//	theta_j - theta_i = varpi_l
//
// and the solution anchors theta_1 + omega_1 = 0 for the lowest level.
package phase

import (
	"errors"
	"fmt"
	"math"

	"optical-bloch/pkg/atom"
	"optical-bloch/pkg/matrix"
	"optical-bloch/pkg/symbolic"
)

// ErrInconsistent is returned when the coupling graph carries conflicting
// constraints, e.g. a cycle that would force one field to have two
// different frequencies.
var ErrInconsistent = errors.New("phase: inconsistent constraint system")

// Constraint is one phase equation theta[J] - theta[I] = varpi[Field],
// with I > J.
type Constraint struct {
	I, J  int
	Field int
}

// Constraints lists the equations the phase transformation must satisfy,
// in the deterministic pair-major order they are solved in.
func Constraints(m *atom.Model) []Constraint {
	var cs []Constraint
	for i := 0; i < m.Ne(); i++ {
		for j := 0; j < i; j++ {
			if !m.Coupled(i, j) {
				continue
			}
			for l := 0; l < m.Nl(); l++ {
				if m.Xi[l][i][j] == 1 {
					cs = append(cs, Constraint{I: i, J: j, Field: l})
				}
			}
		}
	}
	return cs
}

// Transform returns one closed-form phase per level, as a linear expression
// in the laser frequencies, the class-0 energy symbol and any phases left
// free by disconnected levels.
func Transform(m *atom.Model) ([]symbolic.Expr, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	ne := m.Ne()
	cs := Constraints(m)

	// Spanning forest over the constraint graph. The level-0 component is
	// rooted at 0 so the anchor theta_1 = -omega_1 lands there; roots of
	// other components keep their phase as a free symbol.
	adj := make([][]Constraint, ne)
	for _, c := range cs {
		adj[c.I] = append(adj[c.I], c)
		adj[c.J] = append(adj[c.J], c)
	}

	visited := make([]bool, ne)
	var roots []int
	var tree []Constraint
	for start := 0; start < ne; start++ {
		if visited[start] {
			continue
		}
		roots = append(roots, start)
		visited[start] = true
		queue := []int{start}
		for len(queue) > 0 {
			n := queue[0]
			queue = queue[1:]
			for _, c := range adj[n] {
				other := c.I
				if other == n {
					other = c.J
				}
				if visited[other] {
					continue
				}
				visited[other] = true
				tree = append(tree, c)
				queue = append(queue, other)
			}
		}
	}

	// Square system: one row per tree edge plus one anchor row per
	// component root. Right-hand sides are solved per symbol column, the
	// way an AC sweep factors once and back-substitutes per frequency.
	sys, err := matrix.NewSystem(ne)
	if err != nil {
		return nil, err
	}
	defer sys.Destroy()

	rhsSyms := make([]symbolic.Symbol, 0, m.Nl()+len(roots))
	for l := 0; l < m.Nl(); l++ {
		rhsSyms = append(rhsSyms, symbolic.LaserSym(l))
	}
	rhsSyms = append(rhsSyms, symbolic.EnergySym(0))
	for _, r := range roots {
		if r != 0 {
			rhsSyms = append(rhsSyms, symbolic.PhaseSym(r))
		}
	}
	columns := make([][]float64, len(rhsSyms))
	for k := range columns {
		columns[k] = make([]float64, ne)
	}
	colOf := make(map[symbolic.Symbol]int, len(rhsSyms))
	for k, s := range rhsSyms {
		colOf[s] = k
	}

	row := 0
	for _, c := range tree {
		// theta[J] - theta[I] = varpi[Field]
		if err := sys.Add(row, c.J, 1); err != nil {
			return nil, err
		}
		if err := sys.Add(row, c.I, -1); err != nil {
			return nil, err
		}
		columns[colOf[symbolic.LaserSym(c.Field)]][row] = 1
		row++
	}
	for _, r := range roots {
		if err := sys.Add(row, r, 1); err != nil {
			return nil, err
		}
		if r == 0 {
			columns[colOf[symbolic.EnergySym(0)]][row] = -1
		} else {
			columns[colOf[symbolic.PhaseSym(r)]][row] = 1
		}
		row++
	}
	if row != ne {
		return nil, fmt.Errorf("phase: system has %d rows for %d levels", row, ne)
	}

	if err := sys.Factor(); err != nil {
		return nil, fmt.Errorf("phase: %v", err)
	}

	theta := make([]symbolic.Expr, ne)
	for k, sym := range rhsSyms {
		x, err := sys.Solve(columns[k])
		if err != nil {
			return nil, fmt.Errorf("phase: %v", err)
		}
		for i := 0; i < ne; i++ {
			if c := snap(x[i]); c != 0 {
				theta[i] = theta[i].Add(symbolic.Term(sym, c))
			}
		}
	}

	// Every constraint, tree edge or not, must hold in the solution.
	for _, c := range cs {
		residual := theta[c.J].Sub(theta[c.I]).Sub(symbolic.Term(symbolic.LaserSym(c.Field), 1))
		if !residual.IsZero() {
			return nil, fmt.Errorf("%w: levels (%d, %d) driven by field %d",
				ErrInconsistent, c.I, c.J, c.Field)
		}
	}

	return theta, nil
}

// snap rounds away the floating-point fuzz of the LU back-substitution; the
// tree system is unimodular so true coefficients are small integers.
func snap(x float64) float64 {
	r := math.Round(x)
	if math.Abs(x-r) < 1e-9 {
		return r
	}
	return x
}
