package num

import (
	"math"
	"math/cmplx"
)

const (
	erfSeriesRadius = 3.0
	erfMaxTerms     = 200
	erfFracDepth    = 80
)

// CErf returns the error function of a complex argument.
//
// Real arguments use math.Erf. Elsewhere the Maclaurin series is used inside
// |z| < 3 or close to the imaginary axis, and the Laplace continued fraction
// of erfc in the right half plane otherwise. Accuracy is about 1e-13
// relative, which is enough for coefficient recurrences.
func CErf(z complex128) complex128 {
	if imag(z) == 0 {
		return complex(math.Erf(real(z)), 0)
	}
	if real(z) < 0 {
		return -CErf(-z)
	}
	if cmplx.Abs(z) < erfSeriesRadius || real(z) < 0.5*math.Abs(imag(z)) {
		return erfSeries(z)
	}
	return 1 - erfcFrac(z)
}

// CErfc returns 1 - erf(z).
func CErfc(z complex128) complex128 {
	if imag(z) == 0 {
		return complex(math.Erfc(real(z)), 0)
	}
	if real(z) >= erfSeriesRadius && real(z) >= 0.5*math.Abs(imag(z)) {
		return erfcFrac(z)
	}
	return 1 - CErf(z)
}

func erfSeries(z complex128) complex128 {
	z2 := z * z
	term := z
	sum := z
	for n := 1; n < erfMaxTerms; n++ {
		term *= -z2 / complex(float64(n), 0)
		add := term / complex(float64(2*n+1), 0)
		sum += add
		if cmplx.Abs(add) <= 1e-17*cmplx.Abs(sum) {
			break
		}
	}
	return complex(2/math.SqrtPi, 0) * sum
}

// erfcFrac evaluates erfc(z) = exp(-z^2)/sqrt(pi) * 1/(z + (1/2)/(z + 1/(z + (3/2)/(z + ...)))).
func erfcFrac(z complex128) complex128 {
	f := z
	for k := erfFracDepth; k >= 1; k-- {
		f = z + complex(float64(k)/2, 0)/f
	}
	return cmplx.Exp(-z*z) / complex(math.SqrtPi, 0) / f
}
