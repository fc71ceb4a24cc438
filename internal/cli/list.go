package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/cardfile/pkg/types"
)

// listHeaders are the column titles for the terminal table, one per
// editable field.
var listHeaders = []string{"INDEX", "FAMILY", "GIVEN", "FULL NAME", "TEL WORK", "TEL HOME"}

// shownFields are the recognized fields printed by show, in order.
var shownFields = []string{
	types.FieldFamily,
	types.FieldGiven,
	types.FieldFullName,
	types.FieldTelWork,
	types.FieldTelHome,
	types.FieldTel,
}

func newListCmd(a *app) *cobra.Command {
	var search string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List contacts",
		Long: `List prints the stored contacts with their indices. --search keeps the
contacts whose full, given or family name contains the query, ignoring case.

On a terminal the output is an aligned table; otherwise each contact is one
tab-separated line.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(func(store types.Store) error {
				entries, err := store.Search(search)
				if err != nil {
					return sysError("search contacts: %w", err)
				}
				out := cmd.OutOrStdout()
				switch {
				case a.jsonMode:
					return writeJSON(out, entries)
				case isTerminal(out):
					return writeTable(out, entries)
				default:
					return writeLines(out, entries)
				}
			})
		},
	}
	cmd.Flags().StringVar(&search, "search", "", "filter by name")
	return cmd
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return sysError("marshal JSON: %w", err)
	}
	fmt.Fprintln(w, string(data))
	return nil
}

func entryRow(e types.Entry) []string {
	row := []string{fmt.Sprint(e.Index)}
	for _, name := range types.EditableFields {
		row = append(row, e.Contact.Value(name))
	}
	return row
}

func writeTable(w io.Writer, entries []types.Entry) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(listHeaders, "\t"))
	for _, e := range entries {
		fmt.Fprintln(tw, strings.Join(entryRow(e), "\t"))
	}
	return tw.Flush()
}

func writeLines(w io.Writer, entries []types.Entry) error {
	for _, e := range entries {
		if _, err := fmt.Fprintln(w, strings.Join(entryRow(e), "\t")); err != nil {
			return err
		}
	}
	return nil
}

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <index>",
		Short: "Display one contact with all its fields",
		Args:  cobra.ExactArgs(1),
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
				if a.jsonMode {
					return writeJSON(cmd.OutOrStdout(), types.Entry{Index: index, Contact: c})
				}
				return writeContact(cmd.OutOrStdout(), index, c)
			})
		},
	}
}

// writeContact prints the present fields of c, then its pass-through
// properties in key order.
func writeContact(w io.Writer, index int, c types.Contact) error {
	tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', 0)
	fmt.Fprintf(tw, "index:\t%d\n", index)
	for _, name := range shownFields {
		if v, ok := c.Field(name); ok {
			fmt.Fprintf(tw, "%s:\t%s\n", name, v)
		}
	}
	keys := make([]string, 0, len(c.Extra))
	for k := range c.Extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(tw, "%s:\t%s\n", k, c.Extra[k])
	}
	return tw.Flush()
}
