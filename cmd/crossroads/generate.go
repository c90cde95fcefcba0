package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/sarchlab/crossroads/arrival"
	"github.com/sarchlab/crossroads/config"
	"github.com/sarchlab/crossroads/topology"
)

var generateFlags struct {
	addr     string
	interval time.Duration
	framing  string
	seed     int64
	count    int
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Send random vehicle arrivals to a running simulator.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		var framingErr error

		c, err := loadConfig(cmd, func(c *config.Config) {
			framingErr = applyGenerateFlags(cmd, c)
		})
		if err != nil {
			return err
		}

		if framingErr != nil {
			return framingErr
		}

		return generate(c)
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)

	f := generateCmd.Flags()
	f.StringVar(&generateFlags.addr, "addr", "", "address of the simulator")
	f.DurationVar(&generateFlags.interval, "interval", time.Second,
		"time between two arrivals")
	f.StringVar(&generateFlags.framing, "framing", "",
		"arrival framing: read or line")
	f.Int64Var(&generateFlags.seed, "seed", 1, "seed of the lane choice")
	f.IntVar(&generateFlags.count, "count", 0,
		"number of arrivals to send; 0 sends until interrupted")
}

func applyGenerateFlags(cmd *cobra.Command, c *config.Config) error {
	f := cmd.Flags()

	if f.Changed("addr") {
		c.GeneratorAddr = generateFlags.addr
	}

	if f.Changed("interval") {
		c.GeneratorInterval = generateFlags.interval
	}

	if f.Changed("framing") {
		framing, err := arrival.ParseFraming(generateFlags.framing)
		if err != nil {
			return err
		}

		c.Framing = framing
	}

	if f.Changed("seed") {
		c.Seed = generateFlags.seed
	}

	if f.Changed("count") {
		c.GeneratorCount = generateFlags.count
	}

	return nil
}

func generate(c config.Config) error {
	ctx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	g := arrival.NewGenerator(
		c.GeneratorAddr,
		c.GeneratorInterval,
		c.Framing,
		topology.Standard().SourceLanes(),
		c.GeneratorCount,
		rand.New(rand.NewSource(c.Seed)),
	)

	fmt.Fprintf(os.Stderr, "Sending arrivals to %s every %s\n",
		c.GeneratorAddr, c.GeneratorInterval)

	return g.Run(ctx)
}
