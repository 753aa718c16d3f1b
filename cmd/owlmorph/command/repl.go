package command

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/owlmorph/owlmorph/internal/repl"
)

func NewReplCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Drop into an interactive query shell.",
		RunE: func(cmd *cobra.Command, args []string) error {
			p := mustSetupProfile(cmd)
			defer mustFinishProfile(p)

			ses, err := openSession(cmd)
			if err != nil {
				return err
			}
			timeout := viper.GetDuration(KeyQueryTimeout)
			return repl.Repl(context.Background(), ses, timeout)
		},
	}
	cmd.Flags().DurationP("timeout", "t", 30*time.Second, "elapsed time until an individual query times out")
	registerLoadFlags(cmd)
	viper.BindPFlag(KeyQueryTimeout, cmd.Flags().Lookup("timeout"))
	return cmd
}
