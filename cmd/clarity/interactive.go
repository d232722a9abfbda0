package main

import (
	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/clarity/internal/logging"
	"github.com/fyrsmithlabs/clarity/internal/tui"
)

func newInteractiveCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:     "interactive",
		Aliases: []string{"i"},
		Short:   "Analyze scenarios interactively in the terminal",
		Long: `Interactive opens a terminal UI. Type a scenario and press enter to see the
top categories, a bar chart and the causal explanations. Type exit or quit,
or press esc, to leave.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.setup(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := logging.WithLogger(cmd.Context(), a.logger.Named("tui"))
			return tui.Run(ctx, a.engine, a.selection.Strategy.Name())
		},
	}
}
