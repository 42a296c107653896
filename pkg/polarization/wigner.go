package polarization

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/combin"
)

// DSmall returns the small Wigner d matrix for angular momentum J = twoJ/2,
// following Edmonds eq. 4.1.15. Rows and columns run over M = J, J-1, ..., -J.
// Half-integer momenta are passed as their doubled value, so twoJ = 1 is
// J = 1/2.
func DSmall(twoJ int, beta float64) *mat.Dense {
	n := twoJ + 1
	c := math.Cos(beta / 2)
	s := math.Sin(beta / 2)

	d := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		twoMi := twoJ - 2*i
		for j := 0; j < n; j++ {
			twoMj := twoJ - 2*j

			jpmi := (twoJ + twoMi) / 2
			jmmi := (twoJ - twoMi) / 2
			jpmj := (twoJ + twoMj) / 2
			jmmj := (twoJ - twoMj) / 2

			pref := math.Sqrt(factorialRatio(jpmi, jpmj) * factorialRatio(jmmi, jmmj))

			sum := 0.0
			for sig := 0; sig <= jmmj; sig++ {
				k1 := jmmi - sig
				if k1 < 0 || k1 > jpmj {
					continue
				}
				b1 := float64(combin.Binomial(jpmj, k1))
				b2 := float64(combin.Binomial(jmmj, sig))
				sign := 1.0
				if (jmmi-sig)%2 != 0 {
					sign = -1.0
				}
				cosExp := 2*sig + (twoMi+twoMj)/2
				sinExp := twoJ - 2*sig - (twoMi+twoMj)/2
				sum += sign * b1 * b2 * math.Pow(c, float64(cosExp)) * math.Pow(s, float64(sinExp))
			}
			d.Set(i, j, pref*sum)
		}
	}
	return d
}

// factorialRatio returns a!/b! without overflowing intermediate factorials.
func factorialRatio(a, b int) float64 {
	r := 1.0
	for a > b {
		r *= float64(a)
		a--
	}
	for b > a {
		r /= float64(b)
		b--
	}
	return r
}

// D returns the full Wigner D matrix for the Euler angles (alpha, beta,
// gamma), Edmonds eq. 4.1.12.
func D(twoJ int, alpha, beta, gamma float64) *mat.CDense {
	n := twoJ + 1
	d := DSmall(twoJ, beta)
	out := mat.NewCDense(n, n, nil)
	for i := 0; i < n; i++ {
		mi := float64(twoJ-2*i) / 2
		for j := 0; j < n; j++ {
			mj := float64(twoJ-2*j) / 2
			ph := cmplx.Exp(complex(0, mi*alpha)) * cmplx.Exp(complex(0, mj*gamma))
			out.Set(i, j, ph*complex(d.At(i, j), 0))
		}
	}
	return out
}

// DensityMatrixRotation returns the block-diagonal rotation for an ensemble
// of particles in the definite angular-momentum states listed in twoJs.
func DensityMatrixRotation(twoJs []int, alpha, beta, gamma float64) *mat.CDense {
	size := 0
	for _, twoJ := range twoJs {
		size += twoJ + 1
	}
	out := mat.NewCDense(size, size, nil)
	ind := 0
	for _, twoJ := range twoJs {
		dj := D(twoJ, alpha, beta, gamma)
		n := twoJ + 1
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				out.Set(ind+i, ind+j, dj.At(i, j))
			}
		}
		ind += n
	}
	return out
}
