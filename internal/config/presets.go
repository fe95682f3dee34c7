package config

import "sort"

var Presets = map[string]map[string]*Config{
	"pendulum": {
		"small": {
			Model: "pendulum", Integrator: "rk4", Order: 4, Dt: 0.01, Duration: 2.0,
			InitState: []float64{0.2, 0.0},
			Params:    map[string]float64{"damping": 0},
		},
		"large": {
			Model: "pendulum", Integrator: "rk4", Order: 6, Dt: 0.005, Duration: 2.0,
			InitState: []float64{2.5, 0.0},
			Params:    map[string]float64{"damping": 0},
		},
		"damped": {
			Model: "pendulum", Integrator: "rk45", Order: 4, Dt: 0.01, Duration: 5.0, Adaptive: true,
			InitState: []float64{1.0, 0.0},
		},
	},
	"duffing": {
		"chaotic": {
			Model: "duffing", Integrator: "rk4", Order: 3, Dt: 0.01, Duration: 5.0,
			InitState: []float64{1.0, 0.0, 0.0},
		},
	},
	"kepler": {
		"circular": {
			Model: "kepler", Integrator: "leapfrog", Order: 4, Dt: 0.001, Duration: 6.283185307179586,
		},
		"eccentric": {
			Model: "kepler", Integrator: "rk4", Order: 4, Dt: 0.001, Duration: 3.0,
			InitState: []float64{1.0, 0.0, 0.0, 1.2},
		},
	},
	"lorenz": {
		"classic": {
			Model: "lorenz", Integrator: "rk4", Order: 3, Dt: 0.005, Duration: 1.0,
			InitState: []float64{1.0, 1.0, 1.0},
		},
	},
	"vanderpol": {
		"limit_cycle": {
			Model: "vanderpol", Integrator: "rk4", Order: 5, Dt: 0.01, Duration: 6.0,
			InitState: []float64{2.0, 0.0},
		},
	},
	"spring_chain": {
		"bounce": {
			Model: "spring_chain", Integrator: "verlet", Order: 2, Dt: 0.01, Duration: 5.0,
			Params: map[string]float64{"damping": 0},
		},
	},
}

// GetPreset returns a copy of the preset merged over the defaults, or nil.
func GetPreset(model, preset string) *Config {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	p, ok := modelPresets[preset]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	cfg.Model, cfg.Integrator, cfg.Adaptive = p.Model, p.Integrator, p.Adaptive
	cfg.Order, cfg.Dt, cfg.Duration = p.Order, p.Dt, p.Duration
	cfg.InitState = append([]float64(nil), p.InitState...)
	if len(p.Params) > 0 {
		cfg.Params = make(map[string]float64, len(p.Params))
		for k, v := range p.Params {
			cfg.Params[k] = v
		}
	}
	return cfg
}

// ListPresets returns the preset names of a model in sorted order.
func ListPresets(model string) []string {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(modelPresets))
	for name := range modelPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
