package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/cardfile/internal/web"
	"github.com/mesh-intelligence/cardfile/pkg/types"
)

func newServeCmd(a *app) *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the contacts over HTTP",
		Long: `Serve starts the HTTP interface: upload a .vcf file at POST /upload, browse
and edit contacts under /contacts, and download /export/vcf or /export/csv.
The listen address comes from --listen, then the listen config key.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			addr := listen
			if addr == "" {
				addr = a.cfg.GetString(cfgKeyListen)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return a.withStore(func(store types.Store) error {
				if err := web.Serve(ctx, web.NewServer(addr, store)); err != nil {
					return sysError("serve %s: %w", addr, err)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "", "listen address (default: config listen, 127.0.0.1:8080)")
	return cmd
}
