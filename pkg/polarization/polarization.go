// Package polarization provides the numeric basis helpers for laser
// polarization vectors and spherical position-operator components: the
// wave-plate construction of plane-wave polarizations, transforms between
// the cartesian and helicity bases, and the matching dot products.
package polarization

import (
	"math"
	"math/cmplx"
)

// Vector returns the unit polarization vector of a plane wave.
//
// phi and theta are the spherical angles of the wave vector, alpha and beta
// the rotations of a half- and quarter-wave plate measured from the fast
// axis, and p selects epsilon^(+) (p = +1) or epsilon^(-) (p = -1).
func Vector(phi, theta, alpha, beta float64, p int) [3]complex128 {
	eps := [3]complex128{
		complex(math.Cos(2*beta), 0),
		complex(0, float64(p)) * complex(math.Sin(2*beta), 0),
		0,
	}

	eps = rotZ(2*alpha, eps)
	eps = rotY(theta, eps)
	return rotZ(phi, eps)
}

func rotZ(angle float64, v [3]complex128) [3]complex128 {
	c := complex(math.Cos(angle), 0)
	s := complex(math.Sin(angle), 0)
	return [3]complex128{c*v[0] - s*v[1], s*v[0] + c*v[1], v[2]}
}

func rotY(angle float64, v [3]complex128) [3]complex128 {
	c := complex(math.Cos(angle), 0)
	s := complex(math.Sin(angle), 0)
	return [3]complex128{c*v[0] + s*v[2], v[1], -s*v[0] + c*v[2]}
}

// CartesianToHelicity maps a cartesian vector (x, y, z) to helicity
// components ordered (-1, 0, +1).
func CartesianToHelicity(v [3]complex128) [3]complex128 {
	s := complex(math.Sqrt2, 0)
	return [3]complex128{
		(v[0] - 1i*v[1]) / s,
		v[2],
		-(v[0] + 1i*v[1]) / s,
	}
}

// HelicityToCartesian maps helicity components (-1, 0, +1) back to
// cartesian (x, y, z).
func HelicityToCartesian(v [3]complex128) [3]complex128 {
	s := complex(math.Sqrt2, 0)
	return [3]complex128{
		(v[0] - v[2]) / s,
		1i * (v[0] + v[2]) / s,
		v[1],
	}
}

// TensorToHelicity applies CartesianToHelicity componentwise to a
// position-operator tensor r[p][i][j].
func TensorToHelicity(r [][][]complex128) [][][]complex128 {
	return tensorTransform(r, CartesianToHelicity)
}

// TensorToCartesian applies HelicityToCartesian componentwise to a
// position-operator tensor r[p][i][j].
func TensorToCartesian(r [][][]complex128) [][][]complex128 {
	return tensorTransform(r, HelicityToCartesian)
}

func tensorTransform(r [][][]complex128, f func([3]complex128) [3]complex128) [][][]complex128 {
	ne := len(r[0])
	out := make([][][]complex128, 3)
	for p := range out {
		out[p] = make([][]complex128, ne)
		for i := range out[p] {
			out[p][i] = make([]complex128, ne)
		}
	}
	for i := 0; i < ne; i++ {
		for j := 0; j < ne; j++ {
			v := f([3]complex128{r[0][i][j], r[1][i][j], r[2][i][j]})
			out[0][i][j], out[1][i][j], out[2][i][j] = v[0], v[1], v[2]
		}
	}
	return out
}

// CartesianDot is the plain bilinear dot product, without conjugation.
func CartesianDot(a, b [3]complex128) complex128 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

// HelicityDot is the dot product in the helicity basis,
// -a[+1]b[-1] + a[0]b[0] - a[-1]b[+1], equal to the cartesian dot product
// of the corresponding cartesian vectors.
func HelicityDot(a, b [3]complex128) complex128 {
	return -a[2]*b[0] + a[1]*b[1] - a[0]*b[2]
}

// Conj conjugates a vector componentwise.
func Conj(v [3]complex128) [3]complex128 {
	return [3]complex128{cmplx.Conj(v[0]), cmplx.Conj(v[1]), cmplx.Conj(v[2])}
}
