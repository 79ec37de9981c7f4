package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muliwe/go-triangle-classifier/internal/batch"
	"github.com/muliwe/go-triangle-classifier/internal/classifier"
	"github.com/muliwe/go-triangle-classifier/internal/triangle"
)

func newClassifyCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "classify A B C",
		Short: "Classify a single triangle",
		Example: `  triangle classify 3 4 5
  triangle classify --json 2 2 3
  triangle classify -- -1 0 0`,
		// Missing sides are classified, not rejected.
		Args: cobra.MaximumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			var sides [3]any
			for i, arg := range args {
				sides[i] = arg
			}

			clf := classifier.New(classifier.DefaultConfig())
			result := clf.Classify(sides[0], sides[1], sides[2])

			a.logger.Debug("classified",
				zap.Strings("inputs", result.Inputs[:]),
				zap.String("label", result.Label.String()),
				zap.String("reason", result.Reason),
			)

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}
			_, err := fmt.Fprintln(out, result.Label)
			return err
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full result as JSON")
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		if strings.HasPrefix(err.Error(), "unknown shorthand flag") {
			return fmt.Errorf("%w (put -- before negative sides: triangle classify -- -1 0 0)", err)
		}
		return err
	})
	return cmd
}

func newBatchCmd(a *app) *cobra.Command {
	var (
		asJSON  bool
		workers int
	)

	cmd := &cobra.Command{
		Use:   "batch [file]",
		Short: "Classify one triple per line from a file or stdin",
		Long: `Reads one triple per line, sides separated by spaces or commas.
Blank lines and text after '#' are ignored. Reads stdin when no file is given
or the file is "-".`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var r io.Reader = cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				r = f
			}

			triples, err := batch.Parse(r)
			if err != nil {
				return err
			}
			a.logger.Debug("parsed batch", zap.Int("triples", len(triples)), zap.Int("workers", workers))

			items, err := batch.Classify(cmd.Context(), classifier.New(classifier.DefaultConfig()), triples, workers)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			enc := json.NewEncoder(out)
			for i, item := range items {
				if asJSON {
					if err := enc.Encode(item); err != nil {
						return err
					}
					continue
				}
				if _, err := fmt.Fprintf(out, "%s\t%s\n", strings.Join(triples[i].Fields, " "), item.Result.Label); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print one JSON object per line")
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "concurrent workers (0 = GOMAXPROCS)")
	return cmd
}

func newLabelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "labels",
		Short: "List every possible classification",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, l := range triangle.Labels() {
				if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", l.Key(), l); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
