package analysis

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/gtpsa/internal/dynamo"
	"github.com/san-kum/gtpsa/internal/sim"
	"github.com/san-kum/gtpsa/internal/tpsa"
)

// ScanPoint is the linear stability of the transfer map at one parameter
// value.
type ScanPoint struct {
	Param  float64
	Det    float64
	Planes []Plane
}

// Scan sweeps one model parameter.
type Scan struct {
	Param    string
	Min, Max float64
	Steps    int
	// Ref is the reference point every map is expanded around.
	Ref []float64
}

// ParameterScan propagates the transfer map around s.Ref for every parameter
// value and records its plane stability. The parameter is restored when the
// scan ends.
func ParameterScan(ctx context.Context, sys dynamo.System, integ dynamo.Integrator, d *tpsa.Desc, s Scan, cfg dynamo.Config) ([]ScanPoint, error) {
	tunable, ok := sys.(dynamo.Configurable)
	if !ok {
		return nil, fmt.Errorf("%w: system has no parameters", dynamo.ErrUnknownParam)
	}
	orig, ok := tunable.GetParams()[s.Param]
	if !ok {
		return nil, fmt.Errorf("%w: %q", dynamo.ErrUnknownParam, s.Param)
	}
	defer tunable.SetParam(s.Param, orig)

	steps := max(s.Steps, 2)
	step := (s.Max - s.Min) / float64(steps-1)
	prop := sim.New(sys, integ)

	out := make([]ScanPoint, 0, steps)
	for i := 0; i < steps; i++ {
		v := s.Min + float64(i)*step
		if err := tunable.SetParam(s.Param, v); err != nil {
			return out, err
		}
		res, err := prop.Run(ctx, dynamo.NewState(d, s.Ref), cfg)
		if err != nil {
			return out, fmt.Errorf("%s=%g: %w", s.Param, v, err)
		}
		jac, err := Jacobian(res.Map)
		if err != nil {
			return out, err
		}
		planes, err := Planes(res.Map)
		if err != nil {
			return out, err
		}
		out = append(out, ScanPoint{Param: v, Det: Det(jac), Planes: planes})
	}
	return out, nil
}

// ScanToASCII plots the tunes of the stable planes against the parameter.
func ScanToASCII(data []ScanPoint, width, height int) string {
	if len(data) == 0 || width <= 0 || height <= 1 {
		return ""
	}

	minVal, maxVal := math.Inf(1), math.Inf(-1)
	for _, p := range data {
		for _, pl := range p.Planes {
			if pl.Stable {
				minVal = min(minVal, pl.Tune)
				maxVal = max(maxVal, pl.Tune)
			}
		}
	}
	if math.IsInf(minVal, 1) {
		return ""
	}
	if maxVal == minVal {
		maxVal = minVal + 1
	}

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	for i, p := range data {
		col := min(i*width/len(data), width-1)
		for _, pl := range p.Planes {
			if !pl.Stable {
				continue
			}
			row := height - 1 - int((pl.Tune-minVal)/(maxVal-minVal)*float64(height-1))
			if row >= 0 && row < height {
				canvas[row][col] = '•'
			}
		}
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}
