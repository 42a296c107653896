package scan_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"optical-bloch/internal/consts"
	"optical-bloch/pkg/atom"
	"optical-bloch/pkg/hamiltonian"
	"optical-bloch/pkg/phase"
	"optical-bloch/pkg/scan"
)

const mhz = 2 * math.Pi * 1e6

// twoLevelHamiltonian fixes amplitude and polarization and leaves only the
// detuning knob free, the shape a detuning scan needs.
func twoLevelHamiltonian(t *testing.T, ep complex128) *hamiltonian.Hamiltonian {
	t.Helper()
	rm := make([][][]complex128, 3)
	for p := range rm {
		rm[p] = make([][]complex128, 2)
		for i := range rm[p] {
			rm[p][i] = make([]complex128, 2)
		}
	}
	rm[2][1][0] = complex(consts.BOHR, 0)
	m := &atom.Model{
		OmegaLevel: []float64{0, 100 * mhz},
		Xi:         atom.NewXi(1, 2, [][][2]int{{{1, 0}}}),
		Rm:         rm,
	}
	theta, err := phase.Transform(m)
	require.NoError(t, err)

	h, err := hamiltonian.New(hamiltonian.Config{
		Rm: m.Rm, OmegaLevel: m.OmegaLevel, Xi: m.Xi, Theta: theta,
		Ep:       []complex128{ep},
		Epsilonp: [][3]complex128{{0, 0, 1}},
	})
	require.NoError(t, err)
	return h
}

func TestNewDetuningRequiresDetuningOnlySignature(t *testing.T) {
	m := twoLevelHamiltonian(t, 0)
	_, err := scan.NewDetuning(m, []float64{0}, []float64{1}, 5)
	require.NoError(t, err)

	// A fully free evaluator is not scannable.
	freeRm := make([][][]complex128, 3)
	for p := range freeRm {
		freeRm[p] = make([][]complex128, 2)
		for i := range freeRm[p] {
			freeRm[p][i] = make([]complex128, 2)
		}
	}
	freeRm[2][1][0] = 1
	model := &atom.Model{
		OmegaLevel: []float64{0, 100 * mhz},
		Xi:         atom.NewXi(1, 2, [][][2]int{{{1, 0}}}),
		Rm:         freeRm,
	}
	theta, err := phase.Transform(model)
	require.NoError(t, err)
	free, err := hamiltonian.New(hamiltonian.Config{
		Rm: model.Rm, OmegaLevel: model.OmegaLevel, Xi: model.Xi, Theta: theta,
	})
	require.NoError(t, err)
	_, err = scan.NewDetuning(free, []float64{0}, []float64{1}, 5)
	require.Error(t, err)
}

func TestNewDetuningValidation(t *testing.T) {
	h := twoLevelHamiltonian(t, 0)

	_, err := scan.NewDetuning(h, []float64{0, 0}, []float64{1}, 5)
	require.Error(t, err)
	_, err = scan.NewDetuning(h, []float64{0}, []float64{1}, 1)
	require.Error(t, err)
}

func TestExecuteUncoupled(t *testing.T) {
	// Zero amplitude leaves a diagonal Hamiltonian with energies 0 and
	// -hbar*knob; eigenvalues come back sorted ascending.
	h := twoLevelHamiltonian(t, 0)
	d, err := scan.NewDetuning(h, []float64{-10 * mhz}, []float64{10 * mhz}, 3)
	require.NoError(t, err)

	res, err := d.Execute()
	require.NoError(t, err)
	require.Len(t, res.Knobs, 3)
	require.Len(t, res.Energies, 3)

	require.InDelta(t, -10*mhz, res.Knobs[0][0], 1e-3)
	require.InDelta(t, 0, res.Knobs[1][0], 1e-3)
	require.InDelta(t, 10*mhz, res.Knobs[2][0], 1e-3)

	tol := consts.HBAR * mhz * 1e-6
	require.InDelta(t, 0, res.Energies[0][0], tol)
	require.InDelta(t, consts.HBAR*10*mhz, res.Energies[0][1], tol)
	require.InDelta(t, 0, res.Energies[1][0], tol)
	require.InDelta(t, 0, res.Energies[1][1], tol)
	require.InDelta(t, -consts.HBAR*10*mhz, res.Energies[2][0], tol)
	require.InDelta(t, 0, res.Energies[2][1], tol)
}

func TestExecuteAvoidedCrossing(t *testing.T) {
	// On resonance a driven two-level system splits by the full coupling,
	// 2 * |0.5 * Ep * e * r|.
	ep := 1000.0
	h := twoLevelHamiltonian(t, complex(ep, 0))
	d, err := scan.NewDetuning(h, []float64{0}, []float64{1}, 2)
	require.NoError(t, err)

	res, err := d.Execute()
	require.NoError(t, err)

	v := 0.5 * ep * consts.CHARGE * consts.BOHR
	require.InDelta(t, -v, res.Energies[0][0], v*1e-9)
	require.InDelta(t, v, res.Energies[0][1], v*1e-9)
}
