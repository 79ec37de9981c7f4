// Package main implements the triangle CLI.
//
// Usage:
//
//	triangle classify 3 4 5
//	triangle classify --json 2 2 3
//	triangle batch sides.txt
//	triangle labels
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// app carries state shared by subcommands
type app struct {
	verbose bool
	logger  *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{logger: zap.NewNop()}

	root := &cobra.Command{
		Use:   "triangle",
		Short: "Classify triangles from three side lengths",
		Long: `triangle classifies three side lengths as Equilateral, Isosceles or
Scalene, or reports that they are not valid arguments or not a valid triangle.

Sides may be written as numbers or numeric strings. Anything else is
reported as "The arguments were not valid".`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !a.verbose {
				return nil
			}
			config := zap.NewDevelopmentConfig()
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			logger, err := config.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			a.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging on stderr")

	root.AddCommand(
		newClassifyCmd(a),
		newBatchCmd(a),
		newLabelsCmd(),
	)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
