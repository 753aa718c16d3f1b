package command

import (
	"context"
	"errors"
	"io/ioutil"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/owlmorph/owlmorph/internal"
	"github.com/owlmorph/owlmorph/internal/repl"
)

func NewQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query [query text]",
		Short: "Run a single query against the dataset and print the result.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := mustSetupProfile(cmd)
			defer mustFinishProfile(p)

			text := ""
			if len(args) == 1 {
				text = args[0]
			}
			if file, _ := cmd.Flags().GetString("file"); file != "" {
				if text != "" {
					return errors.New("query text and --file cannot both be given")
				}
				data, err := ioutil.ReadFile(file)
				if err != nil {
					return err
				}
				text = string(data)
			}
			if text == "" {
				data, err := ioutil.ReadAll(os.Stdin)
				if err != nil {
					return err
				}
				text = string(data)
			}

			ses, err := openSession(cmd)
			if err != nil {
				return err
			}

			ctx := context.Background()
			if timeout := viper.GetDuration(KeyQueryTimeout); timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}
			if err := repl.Run(ctx, text, ses); err != nil {
				return err
			}

			if dump, _ := cmd.Flags().GetString(flagDump); dump != "" {
				typ, _ := cmd.Flags().GetString(flagDumpFormat)
				return internal.Dump(ses.Store(), dump, typ)
			}
			return nil
		},
	}
	cmd.Flags().StringP("file", "f", "", "read the query from a file")
	cmd.Flags().DurationP("timeout", "t", 30*time.Second, "elapsed time until an individual query times out")
	registerLoadFlags(cmd)
	registerDumpFlags(cmd)
	viper.BindPFlag(KeyQueryTimeout, cmd.Flags().Lookup("timeout"))
	return cmd
}
