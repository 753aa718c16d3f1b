package command

import (
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/owlmorph/owlmorph/clog"
	owlhttp "github.com/owlmorph/owlmorph/server/http"
)

func NewHttpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "http",
		Short: "Serve the query API on the given host and port.",
		RunE: func(cmd *cobra.Command, args []string) error {
			p := mustSetupProfile(cmd)
			defer mustFinishProfile(p)

			ses, err := openSession(cmd)
			if err != nil {
				return err
			}

			api := owlhttp.NewAPI(ses)
			api.SetReadOnly(viper.GetBool(KeyReadOnly))
			api.SetQueryTimeout(viper.GetDuration(KeyQueryTimeout))

			host, _ := cmd.Flags().GetString("host")
			phost := host
			if h, port, err := net.SplitHostPort(host); err == nil && h == "" {
				phost = net.JoinHostPort("localhost", port)
			}
			clog.Infof("listening on %s, API at http://%s/api/v1", host, phost)
			return http.ListenAndServe(host, api)
		},
	}
	cmd.Flags().String("host", "127.0.0.1:64210", "host:port to listen on")
	cmd.Flags().DurationP("timeout", "t", 30*time.Second, "elapsed time until an individual query times out")
	cmd.Flags().Bool("read_only", false, "disable INSERT queries and the write endpoint")
	registerLoadFlags(cmd)
	viper.BindPFlag(KeyQueryTimeout, cmd.Flags().Lookup("timeout"))
	viper.BindPFlag(KeyReadOnly, cmd.Flags().Lookup("read_only"))
	return cmd
}
