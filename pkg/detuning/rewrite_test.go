package detuning_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"optical-bloch/pkg/atom"
	"optical-bloch/pkg/detuning"
	"optical-bloch/pkg/symbolic"
)

// doctestSetup returns the six-level fixtures the rewriter examples use.
func doctestSetup(t *testing.T) (*atom.Simplification, [][]detuning.Pair, *detuning.Reference, [][]detuning.Pair, []detuning.Assignment) {
	t.Helper()
	simp := sixLevelSimp(t)
	pairs := detuning.Indices(simp)
	ref, err := detuning.FindReference(simp, pairs)
	require.NoError(t, err)
	return simp, pairs, ref, detuning.Combinations(pairs), detuning.Assignments(simp, pairs, ref)
}

// transition builds varpi_l - (omega_u - omega_l'), the rotating-frame
// residual of one driven transition.
func transition(l, iu, ju int) symbolic.Expr {
	return symbolic.Term(symbolic.LaserSym(l), 1).
		Sub(symbolic.Term(symbolic.EnergySym(iu), 1)).
		Add(symbolic.Term(symbolic.EnergySym(ju), 1))
}

func TestRewriteExact(t *testing.T) {
	simp, _, ref, combs, as := doctestSetup(t)

	// (varpi_1 - omega_2 + omega_1) - (varpi_2 - omega_4 + omega_1)
	expr := transition(0, 1, 0).Sub(transition(1, 3, 0))

	rw := detuning.RewriteDiagonal(expr, combs, simp, ref)
	require.True(t, rw.Exact)
	require.Equal(t, []detuning.DeltaTerm{
		{Coeff: 1, Field: 0, Pair: detuning.Pair{U: 1, L: 0}},
		{Coeff: -1, Field: 1, Pair: detuning.Pair{U: 3, L: 0}},
	}, rw.Deltas)
	require.Equal(t, "+delta1_2_1-delta2_4_1", rw.String())

	// Numeric agreement with direct substitution varpi_l = knob_l + omega_min_l.
	knob := []float64{10, 20}
	varpi1 := knob[0] + ref.OmegaMin[0]
	varpi2 := knob[1] + ref.OmegaMin[1]
	want := (varpi1 - 100 + 0) - (varpi2 - 300 + 0)
	require.InDelta(t, want, rw.Eval(knob, as), 1e-12)
}

func TestRewriteFallback(t *testing.T) {
	simp, _, ref, combs, as := doctestSetup(t)

	// The fields swapped: no enumerated combination can match.
	expr := transition(1, 1, 0).Sub(transition(0, 3, 0))

	rw := detuning.RewriteDiagonal(expr, combs, simp, ref)
	require.False(t, rw.Exact)
	require.Equal(t, []detuning.KnobTerm{
		{Coeff: -1, Field: 0},
		{Coeff: 1, Field: 1},
	}, rw.Knobs)
	require.InDelta(t, 300.0, rw.Remainder, 1e-12)
	require.Equal(t, "-detuning_knob[0]+detuning_knob[1] + (300)", rw.String())

	knob := []float64{10, 20}
	varpi1 := knob[0] + ref.OmegaMin[0]
	varpi2 := knob[1] + ref.OmegaMin[1]
	want := (varpi2 - 100 + 0) - (varpi1 - 300 + 0)
	require.InDelta(t, want, rw.Eval(knob, as), 1e-12)
}

func TestRewriteZero(t *testing.T) {
	simp, _, ref, combs, _ := doctestSetup(t)

	rw := detuning.RewriteDiagonal(symbolic.Zero(), combs, simp, ref)
	require.True(t, rw.Exact)
	require.Empty(t, rw.Deltas)
	require.Equal(t, "", rw.String())
	require.Equal(t, 0.0, rw.Eval([]float64{1, 2}, nil))
}

func TestRewriteFallbackPhaseSymbolsIgnored(t *testing.T) {
	simp, _, ref, combs, _ := doctestSetup(t)

	// A free phase of a disconnected level contributes nothing to the
	// numeric remainder.
	expr := symbolic.Term(symbolic.PhaseSym(4), 1).Add(symbolic.Term(symbolic.EnergySym(1), 1))
	rw := detuning.RewriteDiagonal(expr, combs, simp, ref)
	require.False(t, rw.Exact)
	require.Empty(t, rw.Knobs)
	require.InDelta(t, 100.0, rw.Remainder, 1e-12)
}
