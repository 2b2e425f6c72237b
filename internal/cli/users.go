package cli

import (
	"context"

	flag "github.com/spf13/pflag"
)

// addRevFlag registers --rev for commands that can read an older revision.
func addRevFlag(fs *flag.FlagSet) {
	fs.String("rev", "", "Run against the bugs database as of a git revision")
}

// UsersCmd returns the users command.
func UsersCmd(a *app) *Command {
	fs := newFlags("users")
	addRevFlag(fs)

	return &Command{
		Flags:    fs,
		Usage:    "users [--rev <rev>]",
		Short:    "Show owners and their open bug counts",
		Long:     "Show every owner, with Nobody first, and the number of open bugs each of them has.",
		ReadOnly: true,
		Exec: func(ctx context.Context, o *IO, args []string) error {
			err := expectNoArgs(args)
			if err != nil {
				return err
			}

			rev, _ := fs.GetString("rev")

			s, err := a.openStore(ctx, rev)
			if err != nil {
				return err
			}

			o.Println(s.Users())

			return nil
		},
	}
}
