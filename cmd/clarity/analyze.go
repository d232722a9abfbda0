package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/clarity/internal/engine"
	"github.com/fyrsmithlabs/clarity/internal/logging"
	"github.com/fyrsmithlabs/clarity/internal/render"
)

const defaultChartWidth = 60

func newAnalyzeCmd(opts *options) *cobra.Command {
	var (
		asJSON bool
		chart  bool
		width  int
	)

	cmd := &cobra.Command{
		Use:   "analyze [scenario...]",
		Short: "Analyze a single scenario",
		Long: `Analyze scores one scenario and prints the top categories with the causal
explanations that apply to them.

The scenario is taken from the arguments, joined with spaces, or read from
standard input when no arguments are given.

Examples:
  clarity analyze "An AI system manipulates elections using deepfakes"
  echo "drones collide over the harbour" | clarity analyze --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			scenario, err := scenarioInput(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}

			a, err := opts.setup(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := logging.WithRequestID(cmd.Context(), uuid.NewString())
			res := a.engine.Analyze(ctx, scenario)
			if err := printResult(cmd.OutOrStdout(), res, asJSON, chart, width); err != nil {
				return err
			}
			return res.Err()
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	cmd.Flags().BoolVar(&chart, "chart", false, "draw a bar chart of the top categories")
	cmd.Flags().IntVar(&width, "width", defaultChartWidth, "chart width in columns, below 20 draws progress bars")
	return cmd
}

// scenarioInput joins args, or reads stdin when there are none.
func scenarioInput(stdin io.Reader, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(io.LimitReader(stdin, 1<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read scenario from stdin: %w", err)
	}
	return string(data), nil
}

func printResult(w io.Writer, res engine.Result, asJSON, chart bool, width int) error {
	if asJSON {
		return render.JSON(w, res)
	}
	if err := render.Text(w, res); err != nil {
		return err
	}
	if !chart || res.Error != "" {
		return nil
	}
	if _, err := fmt.Fprintln(w, render.Chart(res, width)); err != nil {
		return err
	}
	return render.CausalList(w, res)
}
