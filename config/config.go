// Package config loads the settings of a crossroads run. Values come from the
// defaults, then a .env file, then CROSSROADS_* environment variables.
// Command-line flags are applied on top by the caller.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/sarchlab/crossroads/arrival"
)

// EnvPrefix starts the name of every environment variable read.
const EnvPrefix = "CROSSROADS_"

// Config holds the settings of the simulator and the traffic generator.
type Config struct {
	// ListenAddr is where vehicle arrivals are received.
	ListenAddr string
	Framing    arrival.Framing

	Monitor     bool
	MonitorPort int
	OpenBrowser bool

	// Duration is the simulated run time. Zero runs until interrupted.
	Duration time.Duration
	RealTime bool
	Speedup  float64
	Seed     int64

	Record bool
	Output string

	// LogEvents prints every simulation event.
	LogEvents bool

	// GeneratorAddr is the simulator address the generator connects to.
	GeneratorAddr     string
	GeneratorInterval time.Duration
	GeneratorCount    int
}

// Default returns the settings used when nothing else is given.
func Default() Config {
	return Config{
		ListenAddr:        ":5000",
		Framing:           arrival.FramingRead,
		Monitor:           true,
		RealTime:          true,
		Speedup:           1,
		Seed:              1,
		Record:            true,
		GeneratorAddr:     "127.0.0.1:5000",
		GeneratorInterval: time.Second,
	}
}

// Load reads the .env file if it exists and then the environment. A missing
// dotenv file is not an error.
func Load(dotenv string) (Config, error) {
	if dotenv != "" {
		err := godotenv.Load(dotenv)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", dotenv, err)
		}
	}

	return FromEnv(os.LookupEnv)
}

// FromEnv applies the variables found by lookup to the defaults.
func FromEnv(lookup func(string) (string, bool)) (Config, error) {
	c := Default()
	p := parser{lookup: lookup}

	p.str("LISTEN", &c.ListenAddr)
	p.framing("FRAMING", &c.Framing)
	p.boolean("MONITOR", &c.Monitor)
	p.integer("MONITOR_PORT", &c.MonitorPort)
	p.boolean("OPEN_BROWSER", &c.OpenBrowser)
	p.duration("DURATION", &c.Duration)
	p.boolean("REALTIME", &c.RealTime)
	p.float("SPEEDUP", &c.Speedup)
	p.int64("SEED", &c.Seed)
	p.boolean("RECORD", &c.Record)
	p.str("OUTPUT", &c.Output)
	p.boolean("LOG_EVENTS", &c.LogEvents)
	p.str("GENERATOR_ADDR", &c.GeneratorAddr)
	p.duration("GENERATOR_INTERVAL", &c.GeneratorInterval)
	p.integer("GENERATOR_COUNT", &c.GeneratorCount)

	if p.err != nil {
		return Config{}, p.err
	}

	return c, c.Validate()
}

// Validate checks that the settings can be used together.
func (c Config) Validate() error {
	switch {
	case c.Duration < 0:
		return errors.New("duration must not be negative")
	case c.Speedup <= 0:
		return errors.New("speedup must be positive")
	case c.GeneratorInterval <= 0:
		return errors.New("generator interval must be positive")
	case c.GeneratorCount < 0:
		return errors.New("generator count must not be negative")
	case c.MonitorPort < 0 || c.MonitorPort > 65535:
		return fmt.Errorf("invalid monitor port %d", c.MonitorPort)
	}

	return nil
}

// parser keeps the first error so that the fields can be read in a row.
type parser struct {
	lookup func(string) (string, bool)
	err    error
}

func (p *parser) get(name string) (string, bool) {
	if p.err != nil {
		return "", false
	}

	v, ok := p.lookup(EnvPrefix + name)
	if !ok || v == "" {
		return "", false
	}

	return v, true
}

func (p *parser) fail(name, value string, err error) {
	p.err = fmt.Errorf("%s%s=%q: %w", EnvPrefix, name, value, err)
}

func (p *parser) str(name string, dst *string) {
	if v, ok := p.get(name); ok {
		*dst = v
	}
}

func (p *parser) boolean(name string, dst *bool) {
	v, ok := p.get(name)
	if !ok {
		return
	}

	b, err := strconv.ParseBool(v)
	if err != nil {
		p.fail(name, v, err)
		return
	}

	*dst = b
}

func (p *parser) integer(name string, dst *int) {
	v, ok := p.get(name)
	if !ok {
		return
	}

	i, err := strconv.Atoi(v)
	if err != nil {
		p.fail(name, v, err)
		return
	}

	*dst = i
}

func (p *parser) int64(name string, dst *int64) {
	v, ok := p.get(name)
	if !ok {
		return
	}

	i, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		p.fail(name, v, err)
		return
	}

	*dst = i
}

func (p *parser) float(name string, dst *float64) {
	v, ok := p.get(name)
	if !ok {
		return
	}

	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		p.fail(name, v, err)
		return
	}

	*dst = f
}

func (p *parser) duration(name string, dst *time.Duration) {
	v, ok := p.get(name)
	if !ok {
		return
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		p.fail(name, v, err)
		return
	}

	*dst = d
}

func (p *parser) framing(name string, dst *arrival.Framing) {
	v, ok := p.get(name)
	if !ok {
		return
	}

	f, err := arrival.ParseFraming(v)
	if err != nil {
		p.fail(name, v, err)
		return
	}

	*dst = f
}
