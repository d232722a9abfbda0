package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/clarity/internal/dataset"
	"github.com/fyrsmithlabs/clarity/internal/logging"
	"github.com/fyrsmithlabs/clarity/internal/render"
)

func newBatchCmd(opts *options) *cobra.Command {
	var (
		scenarios string
		asJSON    bool
		chart     bool
		width     int
	)

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Analyze every scenario in a CSV file",
		Long: `Batch analyzes each scenario from the first column of a CSV file, one after
another. The file defaults to data.scenarios_path.

Examples:
  clarity batch
  clarity batch --scenarios data/sample_scenarios.csv --chart`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.setup(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			path := a.cfg.Data.ScenariosPath
			if scenarios != "" {
				path = scenarios
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "📂 Loading sample scenarios from: %s\n", path)
			list := dataset.LoadScenarios(cmd.Context(), a.logger, path)
			if len(list) == 0 {
				fmt.Fprintln(out, "⚠️ No scenarios found in dataset.")
				return nil
			}

			fmt.Fprintf(out, "Processing %d scenarios...\n", len(list))
			for i, scenario := range list {
				if err := cmd.Context().Err(); err != nil {
					return err
				}
				fmt.Fprintf(out, "\n▶ Scenario %d/%d\n", i+1, len(list))

				ctx := logging.WithRequestID(cmd.Context(), uuid.NewString())
				ctx = logging.WithScenarioIndex(ctx, i)
				res := a.engine.Analyze(ctx, scenario)
				if asJSON {
					if err := render.JSON(out, res); err != nil {
						return err
					}
					continue
				}
				if err := printResult(out, res, false, chart, width); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&scenarios, "scenarios", "", "scenario CSV (overrides data.scenarios_path)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print each result as JSON")
	cmd.Flags().BoolVar(&chart, "chart", false, "draw a bar chart for each scenario")
	cmd.Flags().IntVar(&width, "width", defaultChartWidth, "chart width in columns, below 20 draws progress bars")
	return cmd
}
