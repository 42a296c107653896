// Package scan sweeps the detuning knobs of a built Hamiltonian across a
// range and reports the dressed-state energies at every step, the way a
// probe-laser spectrum is computed.
package scan

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"optical-bloch/pkg/hamiltonian"
)

// Detuning sweeps every knob linearly from Start to Stop (per field, in
// rad/s) over Points steps, inclusive on both ends.
type Detuning struct {
	hamiltonian *hamiltonian.Hamiltonian
	startVals   []float64
	stopVals    []float64
	points      int
}

func NewDetuning(h *hamiltonian.Hamiltonian, starts, stops []float64, points int) (*Detuning, error) {
	sig := h.Signature()
	if !sig.FreeDetuning || sig.FreeEp || sig.FreeEpsilonp {
		return nil, fmt.Errorf("scan: need %s with only detuning_knob free, have %s",
			hamiltonian.Signature{FreeDetuning: true}, sig)
	}
	if len(starts) != h.Nl() || len(stops) != h.Nl() {
		return nil, fmt.Errorf("scan: %d/%d sweep bounds for %d fields", len(starts), len(stops), h.Nl())
	}
	if points < 2 {
		return nil, fmt.Errorf("scan: need at least 2 points, got %d", points)
	}
	return &Detuning{
		hamiltonian: h,
		startVals:   starts,
		stopVals:    stops,
		points:      points,
	}, nil
}

// Result holds one sweep: Knobs[p] are the knob values at step p and
// Energies[p] the sorted dressed-state energies (eigenvalues of H, in
// joules) at that step.
type Result struct {
	Knobs    [][]float64
	Energies [][]float64
}

func (d *Detuning) Execute() (*Result, error) {
	nl := d.hamiltonian.Nl()
	res := &Result{
		Knobs:    make([][]float64, d.points),
		Energies: make([][]float64, d.points),
	}

	knob := make([]float64, nl)
	for p := 0; p < d.points; p++ {
		frac := float64(p) / float64(d.points-1)
		for l := 0; l < nl; l++ {
			knob[l] = d.startVals[l] + frac*(d.stopVals[l]-d.startVals[l])
		}

		h, err := d.hamiltonian.Evaluate(hamiltonian.Args{DetuningKnob: knob})
		if err != nil {
			return nil, fmt.Errorf("scan: step %d: %v", p, err)
		}

		energies, err := hermitianEigenvalues(h)
		if err != nil {
			return nil, fmt.Errorf("scan: step %d: %v", p, err)
		}

		res.Knobs[p] = append([]float64(nil), knob...)
		res.Energies[p] = energies
	}
	return res, nil
}

// hermitianEigenvalues diagonalizes a Hermitian matrix through its real
// symmetric embedding [[X, -Y], [Y, X]], whose spectrum is that of X + iY
// with every eigenvalue doubled.
func hermitianEigenvalues(h *mat.CDense) ([]float64, error) {
	n, _ := h.Dims()
	emb := mat.NewSymDense(2*n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			x := real(h.At(i, j))
			y := imag(h.At(i, j))
			emb.SetSym(i, j, x)
			emb.SetSym(i, n+j, -y)
			emb.SetSym(n+i, n+j, x)
		}
	}

	var eig mat.EigenSym
	if !eig.Factorize(emb, false) {
		return nil, fmt.Errorf("eigendecomposition failed")
	}
	vals := eig.Values(nil)

	// Eigenvalues come back sorted ascending with each one duplicated.
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = vals[2*i]
	}
	return out, nil
}
