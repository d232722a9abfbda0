package main

import (
	"runtime"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/clarity/internal/embeddings"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("clarity %s\n", version)
			cmd.Printf("  go:           %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
			cmd.Printf("  onnxruntime:  %s\n", embeddings.DefaultONNXRuntimeVersion)
		},
	}
}
