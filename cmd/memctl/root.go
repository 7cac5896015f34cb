package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/joshuapare/memkit/internal/logger"
)

var (
	// Global flags
	verbose bool
	quiet   bool
	jsonOut bool
	noColor bool
	logDir  string
)

var rootCmd = &cobra.Command{
	Use:   "memctl",
	Short: "Inspect and exercise memkit allocators",
	Long: `memctl reports platform memory facts and drives memkit's allocation
strategies: reserving pages, replaying arena scenarios, and running
concurrent stress workloads against the thread-safe strategies.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup()
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return logger.Close()
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output and debug logging")
	rootCmd.PersistentFlags().
		BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().StringVar(&logDir, "log-dir", "", "Write debug logs to daily files in this directory")
}

// setup applies the global flags before any command runs.
func setup() error {
	if noColor {
		color.NoColor = true
	}
	if !verbose {
		return nil
	}
	return logger.Init(logger.Options{
		Enabled: true,
		LogDir:  logDir,
		Level:   slog.LevelDebug,
	})
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		printError("%v\n", err)
		os.Exit(1)
	}
}

// checkArgs validates that the correct number of arguments were provided
func checkArgs(args []string, expected int, usage string) error {
	if len(args) != expected {
		return fmt.Errorf("expected %d argument(s), got %d\nUsage: %s", expected, len(args), usage)
	}
	return nil
}
