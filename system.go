package ecs

import "github.com/lukaschod/EntityComponentSystem/internal/systems"

// Simulation binds a World to a system Graph and its end-of-frame command
// buffer drain (spec §12 "build-graph resolver", wired into an actual
// per-frame loop since the distilled spec names the resolver only at its
// seam).
type Simulation struct {
	World *World
	ECB   *EndSimulationCommandBufferSystem

	graph *systems.Graph
}

// NewSimulation constructs a Simulation over w.
func NewSimulation(w *World) *Simulation {
	return &Simulation{
		World: w,
		ECB:   NewEndSimulationCommandBufferSystem(w),
		graph: systems.NewGraph(),
	}
}

// AddSystem registers sys to run once per Update, ordered by its After()
// declarations relative to the other registered systems.
func (s *Simulation) AddSystem(sys systems.System) {
	s.graph.Add(sys)
}

// Update resolves the system graph's run order, runs every system once, and
// drains the end-of-simulation command buffer.
func (s *Simulation) Update() error {
	order, err := s.graph.Resolve()
	if err != nil {
		return err
	}
	for _, sys := range order {
		sys.OnUpdate()
	}
	return s.ECB.OnUpdate()
}
