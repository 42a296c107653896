package detuning_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"optical-bloch/pkg/atom"
	"optical-bloch/pkg/detuning"
)

// sixLevelSimp is the coupled six-level, two-field system with two
// degenerate pairs, simplified to four energy classes.
func sixLevelSimp(t *testing.T) *atom.Simplification {
	t.Helper()
	xi := atom.NewXi(2, 6, [][][2]int{
		{{1, 0}, {2, 0}},
		{{3, 0}, {4, 0}, {5, 0}},
	})
	simp, err := atom.Simplify([]float64{0, 100, 100, 200, 200, 300}, xi)
	require.NoError(t, err)
	return simp
}

func TestIndicesSixLevels(t *testing.T) {
	pairs := detuning.Indices(sixLevelSimp(t))
	require.Equal(t, [][]detuning.Pair{
		{{U: 1, L: 0}},
		{{U: 2, L: 0}, {U: 3, L: 0}},
	}, pairs)
}

func TestFindReferenceSixLevels(t *testing.T) {
	simp := sixLevelSimp(t)
	pairs := detuning.Indices(simp)
	ref, err := detuning.FindReference(simp, pairs)
	require.NoError(t, err)
	require.Equal(t, []float64{100, 200}, ref.OmegaMin)
	require.Equal(t, []int{1, 2}, ref.Iu0)
	require.Equal(t, []int{0, 0}, ref.Ju0)
}

func TestFindReferenceNoCoupling(t *testing.T) {
	xi := atom.NewXi(2, 3, [][][2]int{{{1, 0}}, nil})
	simp, err := atom.Simplify([]float64{0, 10, 20}, xi)
	require.NoError(t, err)
	_, err = detuning.FindReference(simp, detuning.Indices(simp))
	require.ErrorIs(t, err, detuning.ErrNoCoupling)
}

func TestFindReferenceTieBreak(t *testing.T) {
	// Two pairs share the minimal transition frequency; the lower (upper,
	// lower) class pair wins.
	xi := atom.NewXi(1, 4, [][][2]int{{{2, 0}, {3, 1}}})
	simp, err := atom.Simplify([]float64{0, 10, 100, 110}, xi)
	require.NoError(t, err)
	ref, err := detuning.FindReference(simp, detuning.Indices(simp))
	require.NoError(t, err)
	require.Equal(t, 100.0, ref.OmegaMin[0])
	require.Equal(t, 2, ref.Iu0[0])
	require.Equal(t, 0, ref.Ju0[0])
}

func TestAssignmentsSixLevels(t *testing.T) {
	simp := sixLevelSimp(t)
	pairs := detuning.Indices(simp)
	ref, err := detuning.FindReference(simp, pairs)
	require.NoError(t, err)

	as := detuning.Assignments(simp, pairs, ref)
	require.Len(t, as, 3)

	require.Equal(t, "delta1_2_1 = detuning_knob[0]", as[0].String())
	require.Equal(t, "delta2_3_1 = detuning_knob[1]", as[1].String())
	require.Equal(t, "delta2_4_1 = detuning_knob[1] + (-100)", as[2].String())

	require.Equal(t,
		"delta1_2_1 = detuning_knob[0]\n"+
			"delta2_3_1 = detuning_knob[1]\n"+
			"delta2_4_1 = detuning_knob[1] + (-100)\n",
		detuning.Code(as))

	// Zero knobs put each reference transition exactly on resonance and the
	// off-reference pair at its bare offset.
	knob := []float64{0, 0}
	require.Equal(t, 0.0, as[0].Delta(knob))
	require.Equal(t, 0.0, as[1].Delta(knob))
	require.Equal(t, -100.0, as[2].Delta(knob))
}

func TestCombinationsSixLevels(t *testing.T) {
	pairs := detuning.Indices(sixLevelSimp(t))
	require.Equal(t, [][]detuning.Pair{
		{{U: 1, L: 0}, {U: 2, L: 0}},
		{{U: 1, L: 0}, {U: 3, L: 0}},
	}, detuning.Combinations(pairs))
}

func TestCombinationsCartesianProduct(t *testing.T) {
	pairs := [][]detuning.Pair{
		{{U: 1, L: 0}, {U: 2, L: 0}},
		{{U: 3, L: 0}, {U: 4, L: 0}},
		{{U: 5, L: 0}},
	}
	combs := detuning.Combinations(pairs)
	require.Len(t, combs, 4)
	// Field-major order: the last field varies fastest.
	require.Equal(t, []detuning.Pair{{U: 1, L: 0}, {U: 3, L: 0}, {U: 5, L: 0}}, combs[0])
	require.Equal(t, []detuning.Pair{{U: 1, L: 0}, {U: 4, L: 0}, {U: 5, L: 0}}, combs[1])
	require.Equal(t, []detuning.Pair{{U: 2, L: 0}, {U: 3, L: 0}, {U: 5, L: 0}}, combs[2])
	require.Equal(t, []detuning.Pair{{U: 2, L: 0}, {U: 4, L: 0}, {U: 5, L: 0}}, combs[3])
}

func TestCombinationsEmpty(t *testing.T) {
	require.Nil(t, detuning.Combinations(nil))
	require.Nil(t, detuning.Combinations([][]detuning.Pair{nil}))
}
