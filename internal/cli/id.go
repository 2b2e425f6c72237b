package cli

import (
	"context"
)

// IDCmd returns the id command.
func IDCmd(a *app) *Command {
	fs := newFlags("id")
	addRevFlag(fs)

	return &Command{
		Flags:    fs,
		Usage:    "id <prefix> [--rev <rev>]",
		Short:    "Print the full id of a bug",
		ReadOnly: true,
		Exec: func(ctx context.Context, o *IO, args []string) error {
			prefix, err := prefixArg(args)
			if err != nil {
				return err
			}

			rev, _ := fs.GetString("rev")

			s, err := a.openStore(ctx, rev)
			if err != nil {
				return err
			}

			id, err := s.ID(prefix)
			if err != nil {
				return err
			}

			o.Println(id)

			return nil
		},
	}
}
