package tpsa

import (
	"math"
	"math/cmplx"

	"github.com/san-kum/gtpsa/internal/num"
)

// Num is the coefficient type of a series.
type Num interface {
	float64 | complex128
}

func isReal[T Num]() bool {
	var z T
	_, ok := any(z).(float64)
	return ok
}

func fromFloat[T Num](x float64) T {
	var z T
	switch any(z).(type) {
	case float64:
		return any(x).(T)
	default:
		return any(complex(x, 0)).(T)
	}
}

func fromComplex[T Num](x complex128) T {
	var z T
	switch any(z).(type) {
	case float64:
		return any(real(x)).(T)
	default:
		return any(x).(T)
	}
}

func toComplex[T Num](x T) complex128 {
	switch v := any(x).(type) {
	case float64:
		return complex(v, 0)
	case complex128:
		return v
	}
	return 0
}

func realOf[T Num](x T) float64 {
	switch v := any(x).(type) {
	case float64:
		return v
	case complex128:
		return real(v)
	}
	return 0
}

func absOf[T Num](x T) float64 {
	switch v := any(x).(type) {
	case float64:
		return math.Abs(v)
	case complex128:
		return cmplx.Abs(v)
	}
	return 0
}

func finite[T Num](x T) bool {
	switch v := any(x).(type) {
	case float64:
		return !math.IsNaN(v) && !math.IsInf(v, 0)
	case complex128:
		return !cmplx.IsNaN(v) && !cmplx.IsInf(v)
	}
	return false
}

func apply[T Num](x T, fr func(float64) float64, fc func(complex128) complex128) T {
	switch v := any(x).(type) {
	case float64:
		return any(fr(v)).(T)
	case complex128:
		return any(fc(v)).(T)
	}
	panic("tpsa: unsupported coefficient type")
}

func sqrtOf[T Num](x T) T { return apply(x, math.Sqrt, cmplx.Sqrt) }
func expOf[T Num](x T) T  { return apply(x, math.Exp, cmplx.Exp) }
func logOf[T Num](x T) T  { return apply(x, math.Log, cmplx.Log) }
func sinOf[T Num](x T) T  { return apply(x, math.Sin, cmplx.Sin) }
func cosOf[T Num](x T) T  { return apply(x, math.Cos, cmplx.Cos) }
func tanOf[T Num](x T) T  { return apply(x, math.Tan, cmplx.Tan) }
func sinhOf[T Num](x T) T { return apply(x, math.Sinh, cmplx.Sinh) }
func coshOf[T Num](x T) T { return apply(x, math.Cosh, cmplx.Cosh) }
func tanhOf[T Num](x T) T { return apply(x, math.Tanh, cmplx.Tanh) }
func asinOf[T Num](x T) T { return apply(x, math.Asin, cmplx.Asin) }
func acosOf[T Num](x T) T { return apply(x, math.Acos, cmplx.Acos) }
func atanOf[T Num](x T) T { return apply(x, math.Atan, cmplx.Atan) }

func asinhOf[T Num](x T) T { return apply(x, math.Asinh, cmplx.Asinh) }
func acoshOf[T Num](x T) T { return apply(x, math.Acosh, cmplx.Acosh) }
func atanhOf[T Num](x T) T { return apply(x, math.Atanh, cmplx.Atanh) }

func erfOf[T Num](x T) T    { return apply(x, math.Erf, num.CErf) }
func sincOf[T Num](x T) T   { return apply(x, num.Sinc, num.CSinc) }
func sinhcOf[T Num](x T) T  { return apply(x, num.Sinhc, num.CSinhc) }
func asincOf[T Num](x T) T  { return apply(x, num.Asinc, num.CAsinc) }
func asinhcOf[T Num](x T) T { return apply(x, num.Asinhc, num.CAsinhc) }

// powi returns x^n for n >= 0 by repeated squaring.
func powi[T Num](x T, n int) T {
	r := T(1)
	for n > 0 {
		if n&1 == 1 {
			r *= x
		}
		x *= x
		n >>= 1
	}
	return r
}
