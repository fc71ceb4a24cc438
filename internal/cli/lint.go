package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/cardfile/pkg/vcard"
)

func newLintCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lint <file.vcf>",
		Short: "Report cards that strict vCard readers would reject",
		Long: `Lint checks a .vcf file with a strict vCard decoder. cardfile itself imports
any file; lint shows what other address books may refuse, such as cards
without FN or VERSION. The exit code is 1 when problems are found.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if errors.Is(err, os.ErrNotExist) {
				return userError("%s: no such file", args[0])
			}
			if err != nil {
				return sysError("read %s: %w", args[0], err)
			}

			problems := vcard.Lint(string(data))
			for _, p := range problems {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			if len(problems) > 0 {
				return userError("%s: %d problems found", args[0], len(problems))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", args[0])
			return nil
		},
	}
}
