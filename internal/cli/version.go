package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/patmode91/bama-ai-nexus-sub001/internal/version"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version of nexus",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(version.Info())
		},
	}
}
