package main

import (
	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/clarity/internal/similarity"
)

// newStrategiesCmd reports which similarity tiers could be initialised.
func newStrategiesCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "strategies",
		Short: "Show which similarity strategies are available",
		Long: `Strategies tries each similarity tier in fallback order and reports which
one was selected and why the others were skipped.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig(cmd)
			if err != nil {
				return err
			}
			tiers, err := similarity.TiersFor(cfg.Similarity.Strategy, cfg.SimilarityOptions())
			if err != nil {
				return err
			}

			sel := similarity.Select(cmd.Context(), nil, tiers...)
			defer func() { _ = similarity.Close(sel.Strategy) }()

			cmd.Printf("Mode: %s\n", cfg.Similarity.Strategy)
			for _, at := range sel.Attempts {
				if at.Err != nil {
					cmd.Printf("  ✗ %-8s %v\n", at.Name, at.Err)
					continue
				}
				cmd.Printf("  ✓ %-8s available\n", at.Name)
			}
			cmd.Printf("Selected: %s\n", sel.Strategy.Name())
			return nil
		},
	}
}
