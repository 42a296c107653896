// Package detuning reduces the transition frequencies of a simplified
// atomic system to one independent detuning knob per field, and rewrites
// diagonal Hamiltonian entries in terms of those knobs.
package detuning

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"optical-bloch/pkg/atom"
)

// ErrNoCoupling is returned when a field drives no transition at all, which
// leaves it without a reference detuning.
var ErrNoCoupling = errors.New("detuning: field couples no transition")

// Pair is a coupled pair of simplified level classes, upper above lower.
type Pair struct {
	U, L int
}

func (p Pair) String() string { return fmt.Sprintf("(%d, %d)", p.U, p.L) }

// Indices lists, per field, every coupled (upper, lower) class pair.
func Indices(simp *atom.Simplification) [][]Pair {
	pairs := make([][]Pair, simp.Nl())
	for l := range pairs {
		for iu := 0; iu < simp.Neu; iu++ {
			for ju := 0; ju < iu; ju++ {
				if simp.XiU[l][iu][ju] == 1 {
					pairs[l] = append(pairs[l], Pair{iu, ju})
				}
			}
		}
	}
	return pairs
}

// Reference holds, per field, the coupled pair with the smallest transition
// frequency. That pair's detuning is the field's independent knob.
type Reference struct {
	OmegaMin []float64
	Iu0      []int
	Ju0      []int
}

// FindReference selects each field's reference transition. Ties on the
// transition frequency break lexicographically on (energy, upper, lower).
func FindReference(simp *atom.Simplification, pairs [][]Pair) (*Reference, error) {
	nl := simp.Nl()
	ref := &Reference{
		OmegaMin: make([]float64, nl),
		Iu0:      make([]int, nl),
		Ju0:      make([]int, nl),
	}
	for l := 0; l < nl; l++ {
		if len(pairs[l]) == 0 {
			return nil, fmt.Errorf("%w: field %d", ErrNoCoupling, l)
		}
		cand := make([]Pair, len(pairs[l]))
		copy(cand, pairs[l])
		sort.SliceStable(cand, func(a, b int) bool {
			wa := simp.OmegaLevelU[cand[a].U] - simp.OmegaLevelU[cand[a].L]
			wb := simp.OmegaLevelU[cand[b].U] - simp.OmegaLevelU[cand[b].L]
			if wa != wb {
				return wa < wb
			}
			if cand[a].U != cand[b].U {
				return cand[a].U < cand[b].U
			}
			return cand[a].L < cand[b].L
		})
		ref.OmegaMin[l] = simp.OmegaLevelU[cand[0].U] - simp.OmegaLevelU[cand[0].L]
		ref.Iu0[l] = cand[0].U
		ref.Ju0[l] = cand[0].L
	}
	return ref, nil
}

// Assignment defines one derived detuning as an affine function of its
// field's knob: delta = detuning_knob[Field] + Correction.
type Assignment struct {
	Field      int
	Pair       Pair
	Correction float64
}

// Delta evaluates the assignment against knob values.
func (a Assignment) Delta(knob []float64) float64 {
	return knob[a.Field] + a.Correction
}

// Name renders the derived detuning symbol with one-based indices:
// delta<field>_<upper>_<lower>.
func (a Assignment) Name() string {
	return fmt.Sprintf("delta%d_%d_%d", a.Field+1, a.Pair.U+1, a.Pair.L+1)
}

func (a Assignment) String() string {
	s := fmt.Sprintf("%s = detuning_knob[%d]", a.Name(), a.Field)
	if a.Correction != 0 {
		s += fmt.Sprintf(" + (%g)", a.Correction)
	}
	return s
}

// Assignments emits one assignment per coupled pair of every field. The
// correction is a compile-time constant relating the pair's transition
// frequency to the field's reference transition.
func Assignments(simp *atom.Simplification, pairs [][]Pair, ref *Reference) []Assignment {
	var out []Assignment
	for l := range pairs {
		for _, p := range pairs[l] {
			corr := simp.OmegaLevelU[ref.Iu0[l]] - simp.OmegaLevelU[p.U]
			corr -= simp.OmegaLevelU[ref.Ju0[l]] - simp.OmegaLevelU[p.L]
			out = append(out, Assignment{Field: l, Pair: p, Correction: corr})
		}
	}
	return out
}

// Code renders the assignments one per line, for inspection.
func Code(assignments []Assignment) string {
	var b strings.Builder
	for _, a := range assignments {
		b.WriteString(a.String())
		b.WriteByte('\n')
	}
	return b.String()
}

// Combinations builds the cartesian product, across fields, of each field's
// coupled-pair list. Each combination assigns one candidate reference pair
// per field. The enumeration order is field-major and deterministic; it is
// also the rewrite search order.
func Combinations(pairs [][]Pair) [][]Pair {
	if len(pairs) == 0 || len(pairs[0]) == 0 {
		return nil
	}
	combs := make([][]Pair, 0, len(pairs[0]))
	for _, p := range pairs[0] {
		combs = append(combs, []Pair{p})
	}
	for l := 1; l < len(pairs); l++ {
		next := make([][]Pair, 0, len(combs)*len(pairs[l]))
		for _, c := range combs {
			for _, p := range pairs[l] {
				cc := make([]Pair, len(c), len(c)+1)
				copy(cc, c)
				next = append(next, append(cc, p))
			}
		}
		combs = next
	}
	return combs
}
