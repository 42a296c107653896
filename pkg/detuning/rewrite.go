package detuning

import (
	"fmt"
	"strings"

	"optical-bloch/pkg/atom"
	"optical-bloch/pkg/symbolic"
)

// DeltaTerm is one derived-detuning contribution to a rewritten diagonal
// entry.
type DeltaTerm struct {
	Coeff float64
	Field int
	Pair  Pair
}

// KnobTerm is one raw-knob contribution used by the fallback path.
type KnobTerm struct {
	Coeff float64
	Field int
}

// Rewrite is a diagonal Hamiltonian entry expressed through detunings. When
// Exact is true the entry is a combination of derived deltas with no
// constant part. Otherwise it is a combination of the raw knobs plus a
// numeric remainder, which is always expressible even when no enumerated
// combination matches.
type Rewrite struct {
	Exact     bool
	Deltas    []DeltaTerm
	Knobs     []KnobTerm
	Remainder float64
}

// Eval computes the entry's value for given knob values, using the
// assignment corrections for the derived deltas.
func (r Rewrite) Eval(knob []float64, assignments []Assignment) float64 {
	if r.Exact {
		v := 0.0
		for _, t := range r.Deltas {
			for _, a := range assignments {
				if a.Field == t.Field && a.Pair == t.Pair {
					v += t.Coeff * a.Delta(knob)
					break
				}
			}
		}
		return v
	}
	v := r.Remainder
	for _, t := range r.Knobs {
		v += t.Coeff * knob[t.Field]
	}
	return v
}

// String renders the rewrite with unit coefficients as bare sign
// characters.
func (r Rewrite) String() string {
	var b strings.Builder
	if r.Exact {
		for _, t := range r.Deltas {
			writeSign(&b, t.Coeff)
			fmt.Fprintf(&b, "delta%d_%d_%d", t.Field+1, t.Pair.U+1, t.Pair.L+1)
		}
		return b.String()
	}
	for _, t := range r.Knobs {
		writeSign(&b, t.Coeff)
		fmt.Fprintf(&b, "detuning_knob[%d]", t.Field)
	}
	if r.Remainder != 0 {
		fmt.Fprintf(&b, " + (%g)", r.Remainder)
	}
	return b.String()
}

func writeSign(b *strings.Builder, c float64) {
	switch c {
	case 1:
		b.WriteByte('+')
	case -1:
		b.WriteByte('-')
	default:
		fmt.Fprintf(b, "%+g*", c)
	}
}

// RewriteDiagonal expresses expr, a rotating-frame diagonal entry linear in
// laser frequencies and simplified level energies, through detunings.
//
// The search tries every enumerated combination in order and stops at the
// first whose signed sum of detunings reproduces expr exactly. The first-fit
// choice among equally valid combinations is arbitrary but deterministic;
// the numeric value is the same for all of them. When nothing matches, the
// laser coefficients fall back to the raw knobs and the level-energy part is
// evaluated numerically into a remainder folded with the reference
// transition frequencies.
func RewriteDiagonal(expr symbolic.Expr, combs [][]Pair, simp *atom.Simplification, ref *Reference) Rewrite {
	nl := simp.Nl()

	a := make([]float64, nl)
	for l := 0; l < nl; l++ {
		a[l] = expr.Coeff(symbolic.LaserSym(l))
	}

	for _, comb := range combs {
		try := symbolic.Zero()
		for l := 0; l < nl; l++ {
			if a[l] == 0 {
				continue
			}
			term := symbolic.Term(symbolic.LaserSym(l), 1).
				Sub(symbolic.Term(symbolic.EnergySym(comb[l].U), 1)).
				Add(symbolic.Term(symbolic.EnergySym(comb[l].L), 1))
			try = try.Add(term.Scale(a[l]))
		}
		if expr.Equal(try) {
			rw := Rewrite{Exact: true}
			for l := 0; l < nl; l++ {
				if a[l] != 0 {
					rw.Deltas = append(rw.Deltas, DeltaTerm{Coeff: a[l], Field: l, Pair: comb[l]})
				}
			}
			return rw
		}
	}

	// No combination matches. Strip the laser terms and evaluate what is
	// left against the numeric class energies; free phase symbols of
	// disconnected levels contribute nothing.
	remainderExpr := expr
	for l := 0; l < nl; l++ {
		remainderExpr = remainderExpr.Sub(symbolic.Term(symbolic.LaserSym(l), a[l]))
	}
	remainder := remainderExpr.Constant()
	for j := 0; j < simp.Neu; j++ {
		remainder += remainderExpr.Coeff(symbolic.EnergySym(j)) * simp.OmegaLevelU[j]
	}
	for l := 0; l < nl; l++ {
		remainder += a[l] * (simp.OmegaLevelU[ref.Iu0[l]] - simp.OmegaLevelU[ref.Ju0[l]])
	}

	rw := Rewrite{Remainder: remainder}
	for l := 0; l < nl; l++ {
		if a[l] != 0 {
			rw.Knobs = append(rw.Knobs, KnobTerm{Coeff: a[l], Field: l})
		}
	}
	return rw
}
