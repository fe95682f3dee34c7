package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/gtpsa/internal/dynamo"
	"github.com/san-kum/gtpsa/internal/integrators"
	"github.com/san-kum/gtpsa/internal/metrics"
	"github.com/san-kum/gtpsa/internal/physics"
)

type Registry struct {
	models      map[string]func() dynamo.System
	integrators map[string]func() dynamo.Integrator
}

func NewRegistry() *Registry {
	r := &Registry{
		models:      make(map[string]func() dynamo.System),
		integrators: make(map[string]func() dynamo.Integrator),
	}

	r.models["pendulum"] = func() dynamo.System { return physics.NewPendulum() }
	r.models["coupled_pendulums"] = func() dynamo.System { return physics.NewCoupledPendulums() }
	r.models["duffing"] = func() dynamo.System { return physics.NewDuffing() }
	r.models["doublewell"] = func() dynamo.System { return physics.NewDoubleWell() }
	r.models["vanderpol"] = func() dynamo.System { return physics.NewVanDerPol() }
	r.models["lorenz"] = func() dynamo.System { return physics.NewLorenz() }
	r.models["rossler"] = func() dynamo.System { return physics.NewRossler() }
	r.models["spring_mass"] = func() dynamo.System { return physics.NewSpringMass() }
	r.models["spring_chain"] = func() dynamo.System { return physics.NewSpringMassChain(3) }
	r.models["kepler"] = func() dynamo.System { return physics.NewKepler() }

	r.integrators["euler"] = func() dynamo.Integrator { return integrators.NewEuler() }
	r.integrators["rk4"] = func() dynamo.Integrator { return integrators.NewRK4() }
	r.integrators["rk45"] = func() dynamo.Integrator { return integrators.NewRK45() }
	r.integrators["verlet"] = func() dynamo.Integrator { return integrators.NewVerlet() }
	r.integrators["leapfrog"] = func() dynamo.Integrator { return integrators.NewLeapfrog() }

	return r
}

func (r *Registry) GetModel(name string) (dynamo.System, error) {
	fn, ok := r.models[name]
	if !ok {
		return nil, fmt.Errorf("unknown model: %s", name)
	}
	return fn(), nil
}

func (r *Registry) GetIntegrator(name string) (dynamo.Integrator, error) {
	fn, ok := r.integrators[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
	return fn(), nil
}

func (r *Registry) ListModels() []string {
	return sortedKeys(r.models)
}

func (r *Registry) ListIntegrators() []string {
	return sortedKeys(r.integrators)
}

func sortedKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultMetrics returns the metrics that apply to sys.
func (r *Registry) DefaultMetrics(sys dynamo.System) []dynamo.Metric {
	ms := []dynamo.Metric{
		metrics.NewStability(1e6),
		metrics.NewNonlinearity(),
	}
	if h, ok := sys.(dynamo.Hamiltonian); ok {
		ms = append(ms, metrics.NewEnergy(h), metrics.NewEnergyDrift(sys))
	}
	if sys.StateDim()%2 == 0 {
		ms = append(ms, metrics.NewSymplecticity())
	}
	return ms
}
