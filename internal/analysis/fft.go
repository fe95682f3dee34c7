package analysis

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"

	"github.com/san-kum/gtpsa/internal/dynamo"
)

// PowerSpectrum returns the magnitudes of the first half of the discrete
// Fourier transform of data. Any length is accepted.
func PowerSpectrum(data []float64) []float64 {
	spectrum := fft.FFTReal(data)
	ps := make([]float64, len(spectrum)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i])
	}
	return ps
}

// TuneFFT estimates the dominant frequency of a turn-by-turn signal in units
// of the sampling rate, in [0, 0.5]. The signal is Hann windowed around its
// mean and the spectral peak is refined by parabolic interpolation.
func TuneFFT(signal []float64) (float64, error) {
	n := len(signal)
	if n < 8 {
		return 0, fmt.Errorf("%w: need at least 8 samples, got %d", dynamo.ErrParameterBounds, n)
	}

	mean := 0.0
	for _, v := range signal {
		mean += v
	}
	mean /= float64(n)

	w := make([]float64, n)
	for i, v := range signal {
		hann := 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(n))
		w[i] = (v - mean) * hann
	}
	ps := PowerSpectrum(w)

	peak := 1
	for k := 2; k < len(ps); k++ {
		if ps[k] > ps[peak] {
			peak = k
		}
	}
	if ps[peak] == 0 {
		return 0, nil
	}

	shift := 0.0
	if peak < len(ps)-1 {
		a, b, c := ps[peak-1], ps[peak], ps[peak+1]
		if den := a - 2*b + c; den != 0 {
			shift = 0.5 * (a - c) / den
		}
	}
	return (float64(peak) + shift) / float64(n), nil
}
