package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is the cardfile release.
const Version = "0.1.0"

const modulePath = "github.com/mesh-intelligence/cardfile"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the cardfile version",
		// version needs no configuration.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "cardfile v%s\nmodule: %s\n", Version, modulePath)
			return nil
		},
	}
}
