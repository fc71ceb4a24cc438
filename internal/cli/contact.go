package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/mesh-intelligence/cardfile/pkg/types"
)

// fieldFlags binds one string flag per editable field.
type fieldFlags map[string]*string

// flagName maps a field name to its flag, e.g. full_name to --full-name.
func flagName(field string) string {
	return strings.ReplaceAll(field, "_", "-")
}

func bindFieldFlags(fs *pflag.FlagSet) fieldFlags {
	ff := make(fieldFlags, len(types.EditableFields))
	for _, name := range types.EditableFields {
		ff[name] = fs.String(flagName(name), "", fmt.Sprintf("%s value", name))
	}
	return ff
}

// apply writes the flag values into c. With onlyChanged, flags the user
// did not pass leave the current value alone; otherwise every editable
// field is set, empty values included.
func (ff fieldFlags) apply(c *types.Contact, fs *pflag.FlagSet, onlyChanged bool) {
	for _, name := range types.EditableFields {
		if onlyChanged && !fs.Changed(flagName(name)) {
			continue
		}
		c.SetField(name, *ff[name])
	}
}

func newAddCmd(a *app) *cobra.Command {
	var ff fieldFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a contact at the end of the list",
		Long: `Add appends a contact. Every editable field is stored; fields left out are
stored as empty values.

Example:
  cardfile add --family Doe --given John --full-name "John Doe" --tel-work 555-1111`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var c types.Contact
			ff.apply(&c, cmd.Flags(), false)

			return a.withStore(func(store types.Store) error {
				index, err := store.Append(c)
				if err != nil {
					return sysError("add contact: %w", err)
				}
				if a.jsonMode {
					return writeJSON(cmd.OutOrStdout(), types.Entry{Index: index, Contact: c})
				}
				fmt.Fprintf(cmd.OutOrStdout(), "added contact %d\n", index)
				return nil
			})
		},
	}
	ff = bindFieldFlags(cmd.Flags())
	return cmd
}

func newEditCmd(a *app) *cobra.Command {
	var ff fieldFlags

	cmd := &cobra.Command{
		Use:   "edit <index>",
		Short: "Change the fields of a contact",
		Long: `Edit updates the fields given as flags and keeps the rest, including the
contact's unclassified telephone and pass-through properties.

Example:
  cardfile edit 0 --tel-home 555-2222`,
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
				ff.apply(&c, cmd.Flags(), true)
				if err := store.Replace(index, c); err != nil {
					return lookupError(index, err)
				}
				if a.jsonMode {
					return writeJSON(cmd.OutOrStdout(), types.Entry{Index: index, Contact: c})
				}
				fmt.Fprintf(cmd.OutOrStdout(), "updated contact %d\n", index)
				return nil
			})
		},
	}
	ff = bindFieldFlags(cmd.Flags())
	return cmd
}

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <index>",
		Short: "Delete a contact; later contacts move up one index",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := parseIndex(args[0])
			if err != nil {
				return err
			}
			return a.withStore(func(store types.Store) error {
				if err := store.Delete(index); err != nil {
					if errors.Is(err, types.ErrNotFound) {
						return lookupError(index, err)
					}
					return sysError("delete contact %d: %w", index, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted contact %d\n", index)
				return nil
			})
		},
	}
}
