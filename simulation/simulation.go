// Package simulation wires an engine with the services that record and
// monitor a run.
package simulation

import (
	"fmt"
	"sync"

	"github.com/sarchlab/crossroads/datarecording"
	"github.com/sarchlab/crossroads/junction"
	"github.com/sarchlab/crossroads/monitoring"
	"github.com/sarchlab/crossroads/sim"
	"github.com/sarchlab/crossroads/tracing"
)

// A Simulation provides the service requires to define a simulation.
type Simulation struct {
	id     string
	engine *sim.SerialEngine

	dataRecorder  datarecording.DataRecorder
	execRecorder  *datarecording.ExecRecorder
	monitor       *monitoring.Monitor
	visTracer     *tracing.DBTracer
	vehicleTracer *tracing.AverageTimeTracer

	components    []sim.Component
	compNameIndex map[string]int
	junctions     []*junction.Comp
	progressBars  []*monitoring.ProgressBar

	terminateOnce sync.Once
}

// Stats summarizes the vehicles that went through the junctions.
type Stats struct {
	VehiclesFinished uint64
	VehiclesInFlight int
	AverageTime      sim.VTimeInSec
}

// ID returns the ID of the simulation.
func (s *Simulation) ID() string {
	return s.id
}

// GetEngine returns the engine used in the simulation.
func (s *Simulation) GetEngine() sim.Engine {
	return s.engine
}

// GetDataRecorder returns the data recorder used in the simulation. It is nil
// if recording is disabled.
func (s *Simulation) GetDataRecorder() datarecording.DataRecorder {
	return s.dataRecorder
}

// GetMonitor returns the monitor used in the simulation.
func (s *Simulation) GetMonitor() *monitoring.Monitor {
	return s.monitor
}

// GetVisTracer returns the tracer used in the simulation.
func (s *Simulation) GetVisTracer() *tracing.DBTracer {
	return s.visTracer
}

// RegisterComponent registers a component with the simulation. Components
// that report tasks are traced.
func (s *Simulation) RegisterComponent(c sim.Component) {
	s.register(c)

	if s.monitor != nil {
		s.monitor.RegisterComponent(c)
	}
}

func (s *Simulation) register(c sim.Component) {
	compName := c.Name()
	if _, found := s.compNameIndex[compName]; found {
		panic("component " + compName + " already registered")
	}

	s.components = append(s.components, c)
	s.compNameIndex[compName] = len(s.components) - 1

	domain, ok := c.(tracing.NamedHookable)
	if ok && s.visTracer != nil {
		tracing.CollectTrace(domain, s.visTracer)
	}
}

// RegisterJunction registers a junction. Its vehicles are timed and, with
// monitoring on, its snapshots are served.
func (s *Simulation) RegisterJunction(j *junction.Comp) {
	s.register(j)
	s.junctions = append(s.junctions, j)

	tracing.CollectTrace(j, s.vehicleTracer)

	if s.monitor == nil {
		return
	}

	s.monitor.RegisterJunction(j)

	if j.EndTime() > 0 {
		total := uint64(float64(j.EndTime()) * float64(j.Freq))
		bar := s.monitor.CreateProgressBar(j.Name(), total)
		j.AcceptHook(sim.HookFunc(func(ctx sim.HookCtx) {
			if ctx.Pos == junction.HookPosTick {
				bar.IncrementFinished(1)
			}
		}))
		s.progressBars = append(s.progressBars, bar)
	}
}

// Components returns all registered components.
func (s *Simulation) Components() []sim.Component {
	return s.components
}

// GetComponentByName returns the component with the given name, or nil.
func (s *Simulation) GetComponentByName(name string) sim.Component {
	i, found := s.compNameIndex[name]
	if !found {
		return nil
	}

	return s.components[i]
}

// Run starts every junction and runs the engine until no event is left.
func (s *Simulation) Run() error {
	if s.monitor != nil {
		err := s.monitor.StartServer()
		if err != nil {
			return err
		}
	}

	if s.execRecorder != nil {
		s.execRecorder.Start()
		s.execRecorder.Record("Simulation ID", s.id)
	}

	for _, j := range s.junctions {
		j.TickLater()
	}

	err := s.engine.Run()
	if err != nil {
		return fmt.Errorf("simulation %s: %w", s.id, err)
	}

	s.engine.Finished()

	return nil
}

// Stats returns the vehicle statistics collected so far.
func (s *Simulation) Stats() Stats {
	return Stats{
		VehiclesFinished: s.vehicleTracer.TotalCount(),
		VehiclesInFlight: s.vehicleTracer.InflightCount(),
		AverageTime:      s.vehicleTracer.AverageTime(),
	}
}

// Terminate flushes the records and stops the monitor. Later calls do
// nothing.
func (s *Simulation) Terminate() {
	s.terminateOnce.Do(func() {
		if s.monitor != nil {
			for _, bar := range s.progressBars {
				s.monitor.CompleteProgressBar(bar)
			}

			s.monitor.StopServer()
		}

		if s.dataRecorder == nil {
			return
		}

		stats := s.Stats()
		s.execRecorder.Record("Vehicles Finished",
			fmt.Sprintf("%d", stats.VehiclesFinished))
		s.execRecorder.Record("Average Vehicle Time",
			fmt.Sprintf("%.6f", float64(stats.AverageTime)))

		s.visTracer.Terminate()
		s.execRecorder.End()
		s.dataRecorder.Close()
	})
}
