// Package complexnum implements the value-type complex arithmetic kernel
// used by every other core package: Formula evaluates over it, Linear
// vectors and matrices are built from it, and SimulationEngine promotes
// real eigenvalues/eigenvectors into it.
package complexnum

import "math"

// Complex is an immutable pair of 32-bit components. All operations are
// value receivers; there is no in-place mutation.
type Complex struct {
	Real float32
	Imag float32
}

// Zero is the additive identity.
var Zero = Complex{Real: 0, Imag: 0}

// New constructs a+bi.
func New(real, imag float32) Complex {
	return Complex{Real: real, Imag: imag}
}

// FromReal promotes a real literal to Complex (imag=0).
func FromReal(r float32) Complex {
	return Complex{Real: r, Imag: 0}
}

// FromPolar builds r·(cos θ + i sin θ).
func FromPolar(modulus, angle float32) Complex {
	return Complex{
		Real: modulus * float32(math.Cos(float64(angle))),
		Imag: modulus * float32(math.Sin(float64(angle))),
	}
}

// IUnit is the imaginary unit (0, 1), bound to the variable `i` when
// evaluating wavefunction formulas over the simulation grid.
var IUnit = Complex{Real: 0, Imag: 1}

// IsZero reports whether both components are (positive or negative) zero.
func (z Complex) IsZero() bool {
	return z.Real == 0 && z.Imag == 0
}

// Add returns z+w.
func (z Complex) Add(w Complex) Complex {
	return Complex{Real: z.Real + w.Real, Imag: z.Imag + w.Imag}
}

// Sub returns z-w.
func (z Complex) Sub(w Complex) Complex {
	return Complex{Real: z.Real - w.Real, Imag: z.Imag - w.Imag}
}

// Mul returns z·w = (ac-bd) + (ad+bc)i.
func (z Complex) Mul(w Complex) Complex {
	return Complex{
		Real: z.Real*w.Real - z.Imag*w.Imag,
		Imag: z.Real*w.Imag + z.Imag*w.Real,
	}
}

// Div returns z/w = z·conj(w) / |w|². Callers must check w.IsZero()
// themselves when zero division needs to surface as a domain error
// (see formula's applyOperator, which returns ErrDivisionByZero); Complex itself
// produces IEEE non-finite values rather than panicking.
func (z Complex) Div(w Complex) Complex {
	conj := w.Conjugate()
	numerator := z.Mul(conj)
	denom := w.ModulusSquared()
	return numerator.ScaleReal(1 / denom)
}

// ScaleReal multiplies both components by a real scalar. The original
// Rust implementation this was ported from only scaled the real
// component for `Complex * f32` / `Complex / f32` (a bug the spec calls
// out); this implements the clearly-intended componentwise scaling.
func (z Complex) ScaleReal(r float32) Complex {
	return Complex{Real: z.Real * r, Imag: z.Imag * r}
}

// DivReal divides both components by a real scalar.
func (z Complex) DivReal(r float32) Complex {
	return Complex{Real: z.Real / r, Imag: z.Imag / r}
}

// Conjugate returns a-bi.
func (z Complex) Conjugate() Complex {
	return Complex{Real: z.Real, Imag: -z.Imag}
}

// ModulusSquared returns a²+b².
func (z Complex) ModulusSquared() float32 {
	return z.Real*z.Real + z.Imag*z.Imag
}

// Modulus returns √(a²+b²).
func (z Complex) Modulus() float32 {
	return float32(math.Sqrt(float64(z.ModulusSquared())))
}

// Angle returns atan2(b, a), the principal argument in (-π, π].
func (z Complex) Angle() float32 {
	return float32(math.Atan2(float64(z.Imag), float64(z.Real)))
}

// Inverse returns conj(z)/|z|².
func (z Complex) Inverse() Complex {
	return z.Conjugate().ScaleReal(1 / z.ModulusSquared())
}

// TimesI returns z·i = (-b, a).
func (z Complex) TimesI() Complex {
	return Complex{Real: -z.Imag, Imag: z.Real}
}

// Exp returns e^z = e^a·(cos b, sin b), implemented as E.Powf(z).
func (z Complex) Exp() Complex {
	return e.Powf(z)
}

// Ln returns the principal-branch natural log: (ln|z|, arg z).
func (z Complex) Ln() Complex {
	return Complex{
		Real: float32(math.Log(float64(z.Modulus()))),
		Imag: z.Angle(),
	}
}

// e is Euler's number as a Complex, used by Exp. Time evolution in
// package simulation keeps its own copy of this constant for the same
// e.Powf((-E*i)*t) construction.
var e = FromReal(float32(math.E))

// Powf returns z^w on the principal branch. If |z|=0 the result is 0;
// otherwise, with r=|z| and θ=arg z, the result has modulus
// r^Re(w)·e^(-θ·Im(w)) and argument θ·Re(w) + ln(r)·Im(w).
func (z Complex) Powf(w Complex) Complex {
	if z.ModulusSquared() == 0 {
		return Zero
	}
	r := z.Modulus()
	theta := z.Angle()
	angle := theta*w.Real + float32(math.Log(float64(r)))*w.Imag
	modulus := float32(math.Pow(float64(r), float64(w.Real))) *
		float32(math.Exp(float64(-theta*w.Imag)))
	return FromPolar(modulus, angle)
}

// Sqrt returns z^0.5.
func (z Complex) Sqrt() Complex {
	return z.Powf(FromReal(0.5))
}

// Cos returns cos a·cosh b − i sin a·sinh b.
func (z Complex) Cos() Complex {
	a, b := float64(z.Real), float64(z.Imag)
	return Complex{
		Real: float32(math.Cos(a) * math.Cosh(b)),
		Imag: float32(-math.Sin(a) * math.Sinh(b)),
	}
}

// Sin returns sin a·cosh b + i cos a·sinh b.
func (z Complex) Sin() Complex {
	a, b := float64(z.Real), float64(z.Imag)
	return Complex{
		Real: float32(math.Sin(a) * math.Cosh(b)),
		Imag: float32(math.Cos(a) * math.Sinh(b)),
	}
}

// Tan returns sin(z)/cos(z).
func (z Complex) Tan() Complex {
	return z.Sin().Div(z.Cos())
}

// Step is the componentwise Heaviside function, 0.0 at zero input.
func (z Complex) Step() Complex {
	return Complex{Real: step(z.Real), Imag: step(z.Imag)}
}

func step(x float32) float32 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return 0
	default:
		return 0
	}
}

// Sum folds Add over a slice, starting from Zero. Mirrors the
// `impl Sum for Complex` fold in the original source and backs
// Vector.InnerProduct.
func Sum(values []Complex) Complex {
	acc := Zero
	for _, v := range values {
		acc = acc.Add(v)
	}
	return acc
}
