package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/crossroads/arrival"
	"github.com/sarchlab/crossroads/config"
	"github.com/sarchlab/crossroads/junction"
	"github.com/sarchlab/crossroads/sim"
	"github.com/sarchlab/crossroads/simulation"
)

var runFlags struct {
	listen      string
	framing     string
	monitorPort int
	noMonitor   bool
	duration    string
	realTime    bool
	speedup     float64
	seed        int64
	output      string
	noRecord    bool
	openBrowser bool
	logEvents   bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the intersection simulator.",
	Long: "`run` starts the simulator. It listens for vehicle arrivals and, " +
		"unless disabled, serves a monitoring web page.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		var flagErr error

		c, err := loadConfig(cmd, func(c *config.Config) {
			flagErr = applyRunFlags(cmd, c)
		})
		if err != nil {
			return err
		}

		if flagErr != nil {
			return flagErr
		}

		return runSimulation(c)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	f := runCmd.Flags()
	f.StringVar(&runFlags.listen, "listen", "", "address to receive arrivals on")
	f.StringVar(&runFlags.framing, "framing", "", "arrival framing: read or line")
	f.IntVar(&runFlags.monitorPort, "monitor-port", 0, "port of the monitor")
	f.BoolVar(&runFlags.noMonitor, "no-monitor", false, "disable the monitor")
	f.StringVar(&runFlags.duration, "duration", "",
		"simulated time to run, such as 2m; runs until interrupted if unset")
	f.BoolVar(&runFlags.realTime, "realtime", true,
		"keep simulated time in step with wall-clock time")
	f.Float64Var(&runFlags.speedup, "speedup", 1, "real-time speedup factor")
	f.Int64Var(&runFlags.seed, "seed", 1, "seed of the vehicle path choice")
	f.StringVar(&runFlags.output, "output", "", "trace database name")
	f.BoolVar(&runFlags.noRecord, "no-record", false, "do not write a trace")
	f.BoolVar(&runFlags.openBrowser, "open-browser", false,
		"open the monitor in a browser")
	f.BoolVar(&runFlags.logEvents, "log-events", false,
		"print every simulation event")
}

func applyRunFlags(cmd *cobra.Command, c *config.Config) error {
	f := cmd.Flags()

	if f.Changed("listen") {
		c.ListenAddr = runFlags.listen
	}

	if f.Changed("framing") {
		framing, err := arrival.ParseFraming(runFlags.framing)
		if err != nil {
			return err
		}

		c.Framing = framing
	}

	if f.Changed("monitor-port") {
		c.MonitorPort = runFlags.monitorPort
	}

	if f.Changed("no-monitor") {
		c.Monitor = !runFlags.noMonitor
	}

	if f.Changed("duration") {
		d, err := parseDuration(runFlags.duration)
		if err != nil {
			return fmt.Errorf("invalid --duration: %w", err)
		}

		c.Duration = d
	}

	if f.Changed("realtime") {
		c.RealTime = runFlags.realTime
	}

	if f.Changed("speedup") {
		c.Speedup = runFlags.speedup
	}

	if f.Changed("seed") {
		c.Seed = runFlags.seed
	}

	if f.Changed("output") {
		c.Output = runFlags.output
	}

	if f.Changed("no-record") {
		c.Record = !runFlags.noRecord
	}

	if f.Changed("open-browser") {
		c.OpenBrowser = runFlags.openBrowser
	}

	if f.Changed("log-events") {
		c.LogEvents = runFlags.logEvents
	}

	return nil
}

func buildSimulation(c config.Config) *simulation.Simulation {
	b := simulation.MakeBuilder()

	if c.Monitor {
		b = b.WithMonitorPort(c.MonitorPort)
		if c.OpenBrowser {
			b = b.WithBrowser()
		}
	} else {
		b = b.WithoutMonitoring()
	}

	if !c.Record {
		b = b.WithoutRecording()
	} else if c.Output != "" {
		b = b.WithOutputFileName(c.Output)
	}

	if c.RealTime {
		b = b.WithRealTime(c.Speedup)
	}

	if c.LogEvents {
		b = b.WithEventLogger(log.New(os.Stderr, "", 0))
	}

	return b.Build()
}

func runSimulation(c config.Config) error {
	if !c.RealTime && c.Duration == 0 {
		return errors.New("a run without real-time pacing needs a duration")
	}

	s := buildSimulation(c)
	atexit.Register(s.Terminate)

	j := junction.MakeBuilder().
		WithEngine(s.GetEngine()).
		WithSeed(c.Seed).
		WithEndTime(sim.VTimeInSec(c.Duration.Seconds())).
		Build("Junction")
	s.RegisterJunction(j)

	listener := arrival.NewListener(c.ListenAddr, j.Feed(), c.Framing)
	err := listener.Listen()
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Receiving arrivals on %s (%s framing)\n",
		listener.Addr(), c.Framing)

	interrupted := make(chan os.Signal, 1)
	signal.Notify(interrupted, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(interrupted)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := listener.Serve(ctx); err != nil {
			log.Printf("arrivals stopped: %v", err)
		}
	}()

	go func() {
		<-interrupted

		s.GetEngine().Pause()
		printStats(s)
		atexit.Exit(0)
	}()

	err = s.Run()
	if err != nil {
		return err
	}

	printStats(s)
	s.Terminate()

	return nil
}

// parseDuration accepts Go durations and plain numbers of seconds.
func parseDuration(s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err == nil {
		return d, nil
	}

	seconds, numErr := strconv.ParseFloat(s, 64)
	if numErr != nil {
		return 0, err
	}

	return time.Duration(seconds * float64(time.Second)), nil
}

func printStats(s *simulation.Simulation) {
	stats := s.Stats()

	fmt.Printf("Simulated time: %.2fs\n", float64(s.GetEngine().CurrentTime()))
	fmt.Printf("Vehicles finished: %d\n", stats.VehiclesFinished)
	fmt.Printf("Vehicles in flight: %d\n", stats.VehiclesInFlight)
	fmt.Printf("Average vehicle time: %.2fs\n", float64(stats.AverageTime))
}
