// Package hamiltonian assembles the rotating-frame Hamiltonian of a
// multilevel atomic system into a specialized evaluator. Construction does
// the expensive work once (degeneracy simplification, detuning rewriting,
// folding of every fixed input) so that evaluation is pure arithmetic and
// safe to call inside a hot simulation loop.
package hamiltonian

import (
	"errors"
	"fmt"
	"math/cmplx"
	"strings"

	"gonum.org/v1/gonum/mat"

	"optical-bloch/internal/consts"
	"optical-bloch/pkg/atom"
	"optical-bloch/pkg/detuning"
	"optical-bloch/pkg/polarization"
	"optical-bloch/pkg/symbolic"
)

// ErrBadArgs is returned when Evaluate receives a fixed group, misses a
// free one, or gets wrong lengths.
var ErrBadArgs = errors.New("hamiltonian: arguments do not match signature")

// Signature says which input groups the evaluator takes at call time.
// The three groups are independent, giving eight calling conventions.
type Signature struct {
	FreeEp       bool
	FreeEpsilonp bool
	FreeDetuning bool
}

func (s Signature) String() string {
	args := make([]string, 0, 3)
	if s.FreeEp {
		args = append(args, "Ep")
	}
	if s.FreeEpsilonp {
		args = append(args, "epsilonp")
	}
	if s.FreeDetuning {
		args = append(args, "detuning_knob")
	}
	return "hamiltonian(" + strings.Join(args, ", ") + ")"
}

// Config carries the atomic model and the build-time inputs. A nil Ep,
// Epsilonp or DetuningKnob leaves that group as a runtime parameter of the
// evaluator; a non-nil one is folded into constants at build time.
//
// All quantities are in SI units. Hbar and Charge default to the CODATA
// values when left zero.
type Config struct {
	Ep           []complex128
	Epsilonp     [][3]complex128
	DetuningKnob []float64

	Rm         [][][]complex128
	OmegaLevel []float64
	Xi         [][][]float64
	Theta      []symbolic.Expr

	Hbar   float64
	Charge float64
}

// offTerm is one below-diagonal dipole contribution. rme already carries
// the elementary charge; coeff carries 0.5 and, when the amplitudes are
// fixed, Ep as well; dot is the folded polarization dot product when the
// polarizations are fixed.
type offTerm struct {
	i, j, l int
	coeff   complex128
	rme     [3]complex128
	dot     complex128
}

// Hamiltonian is the specialized evaluator.
type Hamiltonian struct {
	ne, nl int
	sig    Signature
	hbar   float64

	ep       []complex128
	epsilonp [][3]complex128
	knob     []float64

	offDiag     []offTerm
	diag        []detuning.Rewrite
	assignments []detuning.Assignment

	fixedDiag []float64 // precomputed when the detunings are fixed
}

// New builds the evaluator. The expensive symbolic work happens here;
// memoize the result per atomic-model configuration.
func New(cfg Config) (*Hamiltonian, error) {
	ne := len(cfg.OmegaLevel)
	nl := len(cfg.Xi)

	m := &atom.Model{OmegaLevel: cfg.OmegaLevel, Xi: cfg.Xi, Rm: cfg.Rm}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	if len(cfg.Theta) != ne {
		return nil, fmt.Errorf("%w: %d phases for %d levels", atom.ErrDimensionMismatch, len(cfg.Theta), ne)
	}
	if cfg.Ep != nil && len(cfg.Ep) != nl {
		return nil, fmt.Errorf("%w: %d amplitudes for %d fields", atom.ErrDimensionMismatch, len(cfg.Ep), nl)
	}
	if cfg.Epsilonp != nil && len(cfg.Epsilonp) != nl {
		return nil, fmt.Errorf("%w: %d polarizations for %d fields", atom.ErrDimensionMismatch, len(cfg.Epsilonp), nl)
	}
	if cfg.DetuningKnob != nil && len(cfg.DetuningKnob) != nl {
		return nil, fmt.Errorf("%w: %d detunings for %d fields", atom.ErrDimensionMismatch, len(cfg.DetuningKnob), nl)
	}

	h := &Hamiltonian{
		ne: ne,
		nl: nl,
		sig: Signature{
			FreeEp:       cfg.Ep == nil,
			FreeEpsilonp: cfg.Epsilonp == nil,
			FreeDetuning: cfg.DetuningKnob == nil,
		},
		hbar:     cfg.Hbar,
		ep:       cfg.Ep,
		epsilonp: cfg.Epsilonp,
		knob:     cfg.DetuningKnob,
	}
	if h.hbar == 0 {
		h.hbar = consts.HBAR
	}
	charge := cfg.Charge
	if charge == 0 {
		charge = consts.CHARGE
	}

	// Below-diagonal dipole terms, one per (pair, driving field), with
	// every fixed factor folded in.
	for i := 0; i < ne; i++ {
		for j := 0; j < i; j++ {
			for l := 0; l < nl; l++ {
				if cfg.Xi[l][i][j] != 1 {
					continue
				}
				t := offTerm{
					i: i, j: j, l: l,
					coeff: complex(0.5, 0),
					rme: [3]complex128{
						cfg.Rm[0][i][j] * complex(charge, 0),
						cfg.Rm[1][i][j] * complex(charge, 0),
						cfg.Rm[2][i][j] * complex(charge, 0),
					},
				}
				if !h.sig.FreeEp {
					t.coeff *= cfg.Ep[l]
				}
				if !h.sig.FreeEpsilonp {
					t.dot = polarization.CartesianDot(cfg.Epsilonp[l], t.rme)
				}
				h.offDiag = append(h.offDiag, t)
			}
		}
	}

	// Diagonal terms: run theta_i + omega_u(i) through the detuning
	// rewriter against the simplified system.
	simp, err := atom.Simplify(cfg.OmegaLevel, cfg.Xi)
	if err != nil {
		return nil, err
	}
	pairs := detuning.Indices(simp)
	ref, err := detuning.FindReference(simp, pairs)
	if err != nil {
		return nil, err
	}
	h.assignments = detuning.Assignments(simp, pairs, ref)
	combs := detuning.Combinations(pairs)

	h.diag = make([]detuning.Rewrite, ne)
	for i := 0; i < ne; i++ {
		hii := cfg.Theta[i].Add(symbolic.Term(symbolic.EnergySym(simp.U[i]), 1))
		h.diag[i] = detuning.RewriteDiagonal(hii, combs, simp, ref)
	}

	if !h.sig.FreeDetuning {
		h.fixedDiag = make([]float64, ne)
		for i := 0; i < ne; i++ {
			h.fixedDiag[i] = h.diag[i].Eval(cfg.DetuningKnob, h.assignments)
		}
	}

	return h, nil
}

func (h *Hamiltonian) Ne() int              { return h.ne }
func (h *Hamiltonian) Nl() int              { return h.nl }
func (h *Hamiltonian) Signature() Signature { return h.sig }

// Args carries the runtime parameters of one evaluation. Exactly the
// groups left free at build time must be non-nil.
type Args struct {
	Ep           []complex128
	Epsilonp     [][3]complex128
	DetuningKnob []float64
}

// Evaluate returns the Ne x Ne Hamiltonian in SI units (joules). The
// matrix is Hermitian by construction: the upper triangle is conjugated
// from the computed lower triangle.
func (h *Hamiltonian) Evaluate(args Args) (*mat.CDense, error) {
	if err := h.checkArgs(args); err != nil {
		return nil, err
	}

	out := mat.NewCDense(h.ne, h.ne, nil)

	for _, t := range h.offDiag {
		v := t.coeff
		if h.sig.FreeEp {
			v *= args.Ep[t.l]
		}
		d := t.dot
		if h.sig.FreeEpsilonp {
			d = polarization.CartesianDot(args.Epsilonp[t.l], t.rme)
		}
		v *= d
		out.Set(t.i, t.j, out.At(t.i, t.j)+v)
	}
	for i := 0; i < h.ne; i++ {
		for j := i + 1; j < h.ne; j++ {
			out.Set(i, j, cmplx.Conj(out.At(j, i)))
		}
	}

	if h.sig.FreeDetuning {
		for i := 0; i < h.ne; i++ {
			out.Set(i, i, complex(h.hbar*h.diag[i].Eval(args.DetuningKnob, h.assignments), 0))
		}
	} else {
		for i := 0; i < h.ne; i++ {
			out.Set(i, i, complex(h.hbar*h.fixedDiag[i], 0))
		}
	}

	return out, nil
}

func (h *Hamiltonian) checkArgs(args Args) error {
	if h.sig.FreeEp != (args.Ep != nil) {
		return fmt.Errorf("%w: Ep", ErrBadArgs)
	}
	if h.sig.FreeEpsilonp != (args.Epsilonp != nil) {
		return fmt.Errorf("%w: epsilonp", ErrBadArgs)
	}
	if h.sig.FreeDetuning != (args.DetuningKnob != nil) {
		return fmt.Errorf("%w: detuning_knob", ErrBadArgs)
	}
	if args.Ep != nil && len(args.Ep) != h.nl {
		return fmt.Errorf("%w: %d amplitudes for %d fields", ErrBadArgs, len(args.Ep), h.nl)
	}
	if args.Epsilonp != nil && len(args.Epsilonp) != h.nl {
		return fmt.Errorf("%w: %d polarizations for %d fields", ErrBadArgs, len(args.Epsilonp), h.nl)
	}
	if args.DetuningKnob != nil && len(args.DetuningKnob) != h.nl {
		return fmt.Errorf("%w: %d detunings for %d fields", ErrBadArgs, len(args.DetuningKnob), h.nl)
	}
	return nil
}

// Code renders the evaluator's detuning assignments and diagonal formulas.
// It is an inspection aid, not part of the numeric contract.
func (h *Hamiltonian) Code() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", h.sig)
	b.WriteString(detuning.Code(h.assignments))
	for i, rw := range h.diag {
		s := rw.String()
		if s == "" {
			continue
		}
		fmt.Fprintf(&b, "H[%d, %d] = %s\n", i, i, s)
	}
	return b.String()
}
