package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/cardfile/internal/qr"
	"github.com/mesh-intelligence/cardfile/pkg/csvtable"
	"github.com/mesh-intelligence/cardfile/pkg/types"
	"github.com/mesh-intelligence/cardfile/pkg/vcard"
)

// exporters maps each export format to its encoder.
var exporters = map[string]func(io.Writer, types.Sequence) error{
	"vcf": vcard.Encode,
	"csv": csvtable.Encode,
}

func newExportCmd(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export vcf|csv",
		Short: "Write all contacts as a vCard file or a CSV table",
		Long: `Export writes every stored contact in the chosen format. Without -o the
output goes to stdout, which must not be a terminal.

Example:
  cardfile export vcf -o contacts.vcf
  cardfile export csv > contacts.csv`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"vcf", "csv"},
		RunE: func(cmd *cobra.Command, args []string) error {
			encode, ok := exporters[args[0]]
			if !ok {
				return userError("unknown format %q (valid: vcf, csv)", args[0])
			}
			out := cmd.OutOrStdout()
			if output == "" && isTerminal(out) {
				return userError("refusing to write %s to a terminal; use -o or redirect stdout", args[0])
			}

			return a.withStore(func(store types.Store) error {
				seq, err := store.Contacts()
				if err != nil {
					return sysError("read contacts: %w", err)
				}
				if output == "" {
					if err := encode(out, seq); err != nil {
						return sysError("write %s: %w", args[0], err)
					}
					return nil
				}
				if err := writeFile(output, func(w io.Writer) error { return encode(w, seq) }); err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "exported %d contacts to %s\n", len(seq), output)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	return cmd
}

// writeFile creates path and fills it with fn.
func writeFile(path string, fn func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return sysError("create %s: %w", path, err)
	}
	if err := fn(f); err != nil {
		f.Close()
		return sysError("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return sysError("close %s: %w", path, err)
	}
	return nil
}

func newQRCmd(a *app) *cobra.Command {
	var (
		output string
		size   int
	)

	cmd := &cobra.Command{
		Use:   "qr <index>",
		Short: "Render one contact as a QR code PNG",
		Long: `QR writes the contact's vCard text as a QR code image that phones can scan.

Example:
  cardfile qr 0 -o john.png --size 512`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := parseIndex(args[0])
			if err != nil {
				return err
			}
			return a.withStore(func(store types.Store) error {
				c, err := store.Get(index)
				if err != nil {
					return lookupError(index, err)
				}
				data, err := qr.Encode(vcard.Write(types.Sequence{c}), size)
				if err != nil {
					return userError("contact %d: %w", index, err)
				}
				if err := writeFile(output, func(w io.Writer) error {
					_, err := w.Write(data)
					return err
				}); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", output)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output PNG file")
	cmd.Flags().IntVar(&size, "size", qr.DefaultSize, "image width and height in pixels")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}
