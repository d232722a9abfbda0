package main

import (
	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/clarity/internal/causal"
	"github.com/fyrsmithlabs/clarity/internal/config"
)

func newConfigCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig(cmd)
			if err != nil {
				return err
			}
			data, err := config.Marshal(cfg)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "causal",
		Short: "Print the active causal map as YAML",
		Long: `Causal prints the causal table in the format accepted by --causal-map, so the
built-in table can be dumped, edited and loaded back.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig(cmd)
			if err != nil {
				return err
			}
			cmap, err := loadCausalMap(cfg)
			if err != nil {
				return err
			}
			data, err := causal.Marshal(cmap)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the default config file location",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Println(config.DefaultPath())
		},
	})
	return cmd
}
