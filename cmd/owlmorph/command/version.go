package command

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/owlmorph/owlmorph/version"
)

func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Version information.",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("owlmorph", version.Version)
			if version.GitHash != "" {
				fmt.Println("git hash:", version.GitHash)
			}
			if version.BuildDate != "" {
				fmt.Println("built:", version.BuildDate)
			}
		},
	}
}
