package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/clarity/internal/embeddings"
)

func newONNXCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "onnx",
		Short: "Manage the ONNX runtime used by the embedding strategies",
	}
	cmd.AddCommand(newONNXInstallCmd(), newONNXPathCmd())
	return cmd
}

func newONNXInstallCmd() *cobra.Command {
	var (
		force       bool
		rtVersion   string
		dir         string
		releaseRoot string
	)

	cmd := &cobra.Command{
		Use:   "install",
		Short: "Download the ONNX runtime library",
		Long: `Install downloads the ONNX runtime library required by the dense and general
similarity strategies. The library is installed to:
  ~/.config/clarity/lib/

If ONNX_PATH environment variable is set, that path takes precedence.

Examples:
  clarity onnx install
  clarity onnx install --force`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !force {
				if path := embeddings.ONNXLibraryPath(); path != "" {
					cmd.Printf("ONNX runtime already installed at: %s\n", path)
					cmd.Println("Use --force to re-download.")
					return nil
				}
			}

			in := embeddings.NewRuntimeInstaller()
			in.Version = rtVersion
			if dir != "" {
				in.Dir = dir
			}
			if releaseRoot != "" {
				in.BaseURL = releaseRoot
			}

			path, err := in.Install(cmd.Context(), cmd.OutOrStdout())
			if err != nil {
				return fmt.Errorf("failed to download ONNX runtime: %w", err)
			}
			if dir != "" {
				cmd.Printf("Set ONNX_PATH=%s to use it.\n", path)
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Force re-download even if ONNX runtime exists")
	cmd.Flags().StringVar(&rtVersion, "runtime-version", embeddings.DefaultONNXRuntimeVersion, "onnxruntime release to install")
	cmd.Flags().StringVar(&dir, "dir", "", "install directory (default ~/.config/clarity/lib)")
	cmd.Flags().StringVar(&releaseRoot, "release-url", "", "release download root (for mirrors)")
	return cmd
}

func newONNXPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the ONNX runtime library in use",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := embeddings.ONNXLibraryPath()
			if path == "" {
				return fmt.Errorf("ONNX runtime not found, run: clarity onnx install")
			}
			cmd.Println(path)
			return nil
		},
	}
}
