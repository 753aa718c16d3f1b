package command

import (
	"github.com/spf13/cobra"

	"github.com/owlmorph/owlmorph/internal"
)

func NewDumpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Write the loaded dataset back out as a quad file.",
		RunE: func(cmd *cobra.Command, args []string) error {
			dump, _ := cmd.Flags().GetString(flagDump)
			if dump == "" && len(args) == 1 {
				dump = args[0]
			}
			if dump == "" {
				dump = "-"
			}
			ses, err := openSession(cmd)
			if err != nil {
				return err
			}
			typ, _ := cmd.Flags().GetString(flagDumpFormat)
			return internal.Dump(ses.Store(), dump, typ)
		},
	}
	registerLoadFlags(cmd)
	registerDumpFlags(cmd)
	return cmd
}
