package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/cardfile/pkg/types"
)

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize cardfile storage",
		Long:  "Create the configuration and data directories, write a default config.yaml,\nand initialize the contact store.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runInit(cmd)
		},
	}
}

func (a *app) runInit(cmd *cobra.Command) error {
	if err := os.MkdirAll(a.resolvedConfigDir, 0o755); err != nil {
		return sysError("create config directory: %w", err)
	}

	written, err := writeConfigIfMissing(a.resolvedConfigDir, a.dataDir)
	if err != nil {
		return sysError("write config: %w", err)
	}
	if written {
		// Pick up the file just written.
		if err := a.setup(); err != nil {
			return err
		}
	}

	cfg, err := a.storeConfig()
	if err != nil {
		return sysError("%w", err)
	}
	if err := a.withStore(func(types.Store) error { return nil }); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "cardfile initialized\nconfig: %s\ndata:   %s\n", a.resolvedConfigDir, cfg.DataDir)
	return nil
}
