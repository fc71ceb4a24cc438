package cli

import (
	"errors"
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/cardfile/internal/qr"
	"github.com/mesh-intelligence/cardfile/pkg/types"
	"github.com/mesh-intelligence/cardfile/pkg/vcard"
)

func newImportCmd(a *app) *cobra.Command {
	var qrFile string

	cmd := &cobra.Command{
		Use:   "import <file.vcf>",
		Short: "Replace all contacts with the cards in a file",
		Long: `Import reads a .vcf file and replaces the stored contacts with the cards
it contains. With --qr, the card text is read from a QR code PNG instead.

Example:
  cardfile import contacts.vcf
  cardfile import --qr contact.png`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readImport(args, qrFile)
			if err != nil {
				return err
			}

			seq := vcard.Parse(text)
			err = a.withStore(func(store types.Store) error {
				if err := store.ReplaceAll(seq); err != nil {
					return sysError("replace contacts: %w", err)
				}
				return nil
			})
			if err != nil {
				return err
			}

			log.Infow("contacts imported", "count", len(seq))
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d contacts\n", len(seq))
			return nil
		},
	}
	cmd.Flags().StringVar(&qrFile, "qr", "", "read the card from a QR code PNG")
	return cmd
}

// readImport returns the card text named by the arguments: a .vcf path or
// a QR code PNG, but not both.
func readImport(args []string, qrFile string) (string, error) {
	switch {
	case len(args) == 1 && qrFile != "":
		return "", userError("give either a file or --qr, not both")
	case len(args) == 0 && qrFile == "":
		return "", userError("%w", types.ErrNoFile)
	}

	path := qrFile
	if len(args) == 1 {
		path = args[0]
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return "", userError("%s: %w", path, types.ErrNoFile)
	}
	if err != nil {
		return "", sysError("read %s: %w", path, err)
	}

	if qrFile != "" {
		text, err := qr.Decode(data)
		if err != nil {
			return "", userError("%s: %w", path, err)
		}
		return text, nil
	}
	if !utf8.Valid(data) {
		return "", userError("%s: file is not valid UTF-8", path)
	}
	return string(data), nil
}
