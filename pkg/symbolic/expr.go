// Package symbolic provides the small linear-expression service used to
// bookkeep rotating-frame phases and diagonal Hamiltonian entries. Every
// expression in this system is linear in a fixed set of symbols (laser
// frequencies, simplified level energies, free phases), so expressions are
// sparse coefficient maps plus a constant rather than a general tree.
package symbolic

import (
	"fmt"
	"sort"
	"strings"
)

type Kind int

const (
	Laser  Kind = iota // varpi_l, angular frequency of field l
	Energy             // omega_k, energy of simplified level class k
	Phase              // theta_i, free rotating-frame phase of level i
)

// Symbol identifies one scalar symbol. Index is zero-based; rendering is
// one-based to match the usual spectroscopy notation.
type Symbol struct {
	Kind  Kind
	Index int
}

func LaserSym(l int) Symbol  { return Symbol{Laser, l} }
func EnergySym(k int) Symbol { return Symbol{Energy, k} }
func PhaseSym(i int) Symbol  { return Symbol{Phase, i} }

func (s Symbol) String() string {
	switch s.Kind {
	case Laser:
		return fmt.Sprintf("varpi_%d", s.Index+1)
	case Energy:
		return fmt.Sprintf("omega_%d", s.Index+1)
	default:
		return fmt.Sprintf("theta_%d", s.Index+1)
	}
}

// Expr is an immutable linear combination of symbols plus a constant.
// The zero value is the zero expression.
type Expr struct {
	terms    map[Symbol]float64
	constant float64
}

func Zero() Expr { return Expr{} }

func Const(c float64) Expr { return Expr{constant: c} }

// Term returns c*s.
func Term(s Symbol, c float64) Expr {
	if c == 0 {
		return Expr{}
	}
	return Expr{terms: map[Symbol]float64{s: c}}
}

func (e Expr) clone() Expr {
	t := make(map[Symbol]float64, len(e.terms))
	for s, c := range e.terms {
		t[s] = c
	}
	return Expr{terms: t, constant: e.constant}
}

func (e Expr) Add(o Expr) Expr {
	r := e.clone()
	r.constant += o.constant
	for s, c := range o.terms {
		v := r.terms[s] + c
		if v == 0 {
			delete(r.terms, s)
		} else {
			r.terms[s] = v
		}
	}
	return r
}

func (e Expr) Sub(o Expr) Expr { return e.Add(o.Scale(-1)) }

func (e Expr) Scale(c float64) Expr {
	if c == 0 {
		return Expr{}
	}
	r := Expr{terms: make(map[Symbol]float64, len(e.terms)), constant: e.constant * c}
	for s, v := range e.terms {
		r.terms[s] = v * c
	}
	return r
}

// Coeff returns the coefficient of s, the linear analogue of
// differentiating with respect to s.
func (e Expr) Coeff(s Symbol) float64 { return e.terms[s] }

func (e Expr) Constant() float64 { return e.constant }

// IsZero reports structural equality to zero. Coefficients in this system
// are small integers carried exactly by float64, so the test is exact.
func (e Expr) IsZero() bool {
	if e.constant != 0 {
		return false
	}
	for _, c := range e.terms {
		if c != 0 {
			return false
		}
	}
	return true
}

func (e Expr) Equal(o Expr) bool { return e.Sub(o).IsZero() }

// Symbols returns the symbols with nonzero coefficient, in a deterministic
// order (kind, then index).
func (e Expr) Symbols() []Symbol {
	syms := make([]Symbol, 0, len(e.terms))
	for s, c := range e.terms {
		if c != 0 {
			syms = append(syms, s)
		}
	}
	sort.Slice(syms, func(a, b int) bool {
		if syms[a].Kind != syms[b].Kind {
			return syms[a].Kind < syms[b].Kind
		}
		return syms[a].Index < syms[b].Index
	})
	return syms
}

// Eval substitutes numeric values for symbols. Symbols missing from values
// contribute nothing, which is how leftover free phases of disconnected
// levels are treated.
func (e Expr) Eval(values map[Symbol]float64) float64 {
	v := e.constant
	for s, c := range e.terms {
		v += c * values[s]
	}
	return v
}

func (e Expr) String() string {
	syms := e.Symbols()
	if len(syms) == 0 && e.constant == 0 {
		return "0"
	}
	var b strings.Builder
	for n, s := range syms {
		c := e.terms[s]
		switch {
		case c == 1:
			if n > 0 {
				b.WriteString(" + ")
			}
		case c == -1:
			if n > 0 {
				b.WriteString(" - ")
			} else {
				b.WriteString("-")
			}
		case c < 0 && n > 0:
			fmt.Fprintf(&b, " - %g*", -c)
		default:
			if n > 0 {
				b.WriteString(" + ")
			}
			fmt.Fprintf(&b, "%g*", c)
		}
		b.WriteString(s.String())
	}
	if e.constant != 0 {
		if len(syms) == 0 {
			fmt.Fprintf(&b, "%g", e.constant)
		} else if e.constant < 0 {
			fmt.Fprintf(&b, " - %g", -e.constant)
		} else {
			fmt.Fprintf(&b, " + %g", e.constant)
		}
	}
	return b.String()
}
