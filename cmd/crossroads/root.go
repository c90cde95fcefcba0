package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/crossroads/config"
)

var dotenvPath string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "crossroads",
	Short: "Crossroads simulates a four-road signalized intersection.",
	Long: `Crossroads simulates a four-road signalized intersection. ` +
		`The run command starts the simulator, which takes vehicle ` +
		`arrivals over TCP. The generate command sends random arrivals ` +
		`to a running simulator.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dotenvPath, "env", ".env",
		"dotenv file to read settings from")
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		atexit.Exit(1)
	}

	atexit.Exit(0)
}

// loadConfig reads the settings and applies the flags that were set on the
// command line.
func loadConfig(cmd *cobra.Command, apply func(c *config.Config)) (
	config.Config, error,
) {
	c, err := config.Load(dotenvPath)
	if err != nil {
		return config.Config{}, err
	}

	apply(&c)

	err = c.Validate()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid settings for %s.\n", cmd.Name())
		return config.Config{}, err
	}

	return c, nil
}
