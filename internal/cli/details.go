package cli

import (
	"context"
)

// DetailsCmd returns the details command.
func DetailsCmd(a *app) *Command {
	fs := newFlags("details")
	addRevFlag(fs)

	return &Command{
		Flags: fs,
		Usage: "details <prefix> [--rev <rev>]",
		Short: "Print a bug's extended details",
		Long: `Print the title, id, state, owner and filing date of the bug matching
<prefix>, followed by its details file. Template comments and sections
without content are left out.`,
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

			if rev != "" {
				id, err := s.ID(prefix)
				if err != nil {
					return err
				}

				err = a.materializeDetails(ctx, rev, s, id)
				if err != nil {
					return err
				}
			}

			text, err := s.Details(prefix)
			if err != nil {
				return err
			}

			o.Println(text)

			return nil
		},
	}
}
