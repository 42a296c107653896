package atom

import "fmt"

// Simplification collapses degenerate levels into energy classes. U maps an
// original level index to its class, InvU picks the first original level of
// each class, and XiU is the coupling tensor restricted to representatives.
type Simplification struct {
	U           []int
	InvU        []int
	OmegaLevelU []float64
	Neu         int
	XiU         [][][]float64
}

func (s *Simplification) Nl() int { return len(s.XiU) }

// Simplify groups equal energies into classes. Energies must be sorted
// ascending; grouping uses exact equality, so degenerate manifolds have to
// carry bit-identical energies.
func Simplify(omegaLevel []float64, xi [][][]float64) (*Simplification, error) {
	ne := len(omegaLevel)
	if ne == 0 {
		return nil, fmt.Errorf("%w: no levels", ErrDimensionMismatch)
	}
	nl := len(xi)
	if err := ValidateXi(xi, nl, ne); err != nil {
		return nil, err
	}

	u := make([]int, ne)
	invu := []int{0}
	omegaLevelU := []float64{omegaLevel[0]}

	class := 0
	for i := 1; i < ne; i++ {
		if omegaLevel[i] < omegaLevel[i-1] {
			return nil, fmt.Errorf("%w: omega_level[%d] < omega_level[%d]", ErrUnsorted, i, i-1)
		}
		if omegaLevel[i] != omegaLevelU[class] {
			class++
			invu = append(invu, i)
			omegaLevelU = append(omegaLevelU, omegaLevel[i])
		}
		u[i] = class
	}
	neu := class + 1

	xiu := make([][][]float64, nl)
	for l := 0; l < nl; l++ {
		xiu[l] = make([][]float64, neu)
		for iu := 0; iu < neu; iu++ {
			xiu[l][iu] = make([]float64, neu)
			for ju := 0; ju < neu; ju++ {
				xiu[l][iu][ju] = xi[l][invu[iu]][invu[ju]]
			}
		}
	}

	return &Simplification{
		U:           u,
		InvU:        invu,
		OmegaLevelU: omegaLevelU,
		Neu:         neu,
		XiU:         xiu,
	}, nil
}
