package simulation

import (
	"log"

	"github.com/rs/xid"

	"github.com/sarchlab/crossroads/datarecording"
	"github.com/sarchlab/crossroads/junction"
	"github.com/sarchlab/crossroads/monitoring"
	"github.com/sarchlab/crossroads/sim"
	"github.com/sarchlab/crossroads/tracing"
)

// Builder can be used to build a simulation.
type Builder struct {
	monitorOn      bool
	monitorPort    int
	openBrowser    bool
	recordOn       bool
	outputFileName string
	realTime       bool
	speedup        float64
	eventLogger    *log.Logger
}

// MakeBuilder creates a new builder.
func MakeBuilder() Builder {
	return Builder{
		monitorOn: true,
		recordOn:  true,
		speedup:   1,
	}
}

// WithoutMonitoring sets the simulation to not use monitoring.
func (b Builder) WithoutMonitoring() Builder {
	b.monitorOn = false
	return b
}

// WithMonitorPort sets the port number for the monitoring server.
func (b Builder) WithMonitorPort(port int) Builder {
	b.monitorPort = port
	return b
}

// WithBrowser opens the monitor page in a browser when the simulation starts.
func (b Builder) WithBrowser() Builder {
	b.openBrowser = true
	return b
}

// WithoutRecording sets the simulation to not write a trace database.
func (b Builder) WithoutRecording() Builder {
	b.recordOn = false
	return b
}

// WithOutputFileName sets the custom output file name for the data recorder.
func (b Builder) WithOutputFileName(filename string) Builder {
	b.outputFileName = filename
	return b
}

// WithRealTime keeps simulated time in step with wall-clock time, sped up
// by the given factor.
func (b Builder) WithRealTime(speedup float64) Builder {
	b.realTime = true
	b.speedup = speedup

	return b
}

// WithEventLogger prints every event of the engine into the logger.
func (b Builder) WithEventLogger(logger *log.Logger) Builder {
	b.eventLogger = logger
	return b
}

func (b Builder) parametersMustBeValid() {
	if !b.monitorOn && b.monitorPort != 0 {
		panic("monitor port cannot be set when monitoring is disabled")
	}

	if !b.monitorOn && b.openBrowser {
		panic("browser cannot be opened when monitoring is disabled")
	}

	if !b.recordOn && b.outputFileName != "" {
		panic("output file cannot be set when recording is disabled")
	}

	if b.realTime && b.speedup <= 0 {
		panic("speedup must be positive")
	}
}

// Build builds the simulation. The monitor, if enabled, is started when the
// simulation runs.
func (b Builder) Build() *Simulation {
	b.parametersMustBeValid()

	s := &Simulation{
		compNameIndex: make(map[string]int),
	}

	s.id = xid.New().String()
	s.engine = sim.NewSerialEngine()

	if b.recordOn {
		outputPath := b.outputFileName
		if outputPath == "" {
			outputPath = "crossroads_sim_" + s.id
		}

		s.dataRecorder = datarecording.New(outputPath)
		s.execRecorder = datarecording.NewExecRecorder(s.dataRecorder)
		s.visTracer = tracing.NewDBTracer(s.engine, s.dataRecorder)
	}

	s.vehicleTracer = tracing.NewAverageTimeTracer(
		s.engine, tracing.KindFilter(junction.TaskKindVehicle))

	if b.realTime {
		s.engine.AcceptHook(sim.NewRealTimePacer(b.speedup))
	}

	if b.eventLogger != nil {
		s.engine.AcceptHook(sim.NewEventLogger(b.eventLogger))
	}

	if b.monitorOn {
		s.monitor = monitoring.NewMonitor()
		if b.monitorPort > 0 {
			s.monitor.WithPortNumber(b.monitorPort)
		}
		s.monitor.WithBrowser(b.openBrowser)
		s.monitor.RegisterEngine(s.engine)
	}

	return s
}
