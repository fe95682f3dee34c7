package num

import (
	"math"
	"math/cmplx"
)

const smallArg = 1e-4

// Sinc returns sin(x)/x, continuous at 0.
func Sinc(x float64) float64 {
	if math.Abs(x) < smallArg {
		x2 := x * x
		return 1 - x2/6*(1-x2/20)
	}
	return math.Sin(x) / x
}

// Sinhc returns sinh(x)/x, continuous at 0.
func Sinhc(x float64) float64 {
	if math.Abs(x) < smallArg {
		x2 := x * x
		return 1 + x2/6*(1+x2/20)
	}
	return math.Sinh(x) / x
}

// Asinc returns asin(x)/x, continuous at 0.
func Asinc(x float64) float64 {
	if math.Abs(x) < smallArg {
		x2 := x * x
		return 1 + x2/6*(1+9*x2/20)
	}
	return math.Asin(x) / x
}

// Asinhc returns asinh(x)/x, continuous at 0.
func Asinhc(x float64) float64 {
	if math.Abs(x) < smallArg {
		x2 := x * x
		return 1 - x2/6*(1-9*x2/20)
	}
	return math.Asinh(x) / x
}

func CSinc(z complex128) complex128 {
	if cmplx.Abs(z) < smallArg {
		z2 := z * z
		return 1 - z2/6*(1-z2/20)
	}
	return cmplx.Sin(z) / z
}

func CSinhc(z complex128) complex128 {
	if cmplx.Abs(z) < smallArg {
		z2 := z * z
		return 1 + z2/6*(1+z2/20)
	}
	return cmplx.Sinh(z) / z
}

func CAsinc(z complex128) complex128 {
	if cmplx.Abs(z) < smallArg {
		z2 := z * z
		return 1 + z2/6*(1+9*z2/20)
	}
	return cmplx.Asin(z) / z
}

func CAsinhc(z complex128) complex128 {
	if cmplx.Abs(z) < smallArg {
		z2 := z * z
		return 1 - z2/6*(1-9*z2/20)
	}
	return cmplx.Asinh(z) / z
}
