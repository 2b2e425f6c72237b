package cli

import (
	"context"
	"strings"

	flag "github.com/spf13/pflag"
)

// AssignCmd returns the assign command.
func AssignCmd(a *app) *Command {
	fs := newFlags("assign")
	fs.BoolP("force", "f", false, "Force this exact username")
	addEditFlag(fs)

	return &Command{
		Flags: fs,
		Usage: "assign <prefix> <user> [-f] [-e]",
		Short: "Assign a bug to a user",
		Long: `Assign the bug matching <prefix> to <user>.

<user> may be a case-insensitive prefix of a known owner and is mapped to
that owner. Use 'me' for the current user and 'Nobody' to clear the owner.
With -f the name is used exactly as given; this is needed the first time a
bug goes to someone who owns nothing yet.`,
		Exec: func(ctx context.Context, o *IO, args []string) error {
			return execAssign(ctx, a, o, fs, args)
		},
	}
}

func execAssign(ctx context.Context, a *app, o *IO, fs *flag.FlagSet, args []string) error {
	if len(args) == 0 {
		return ErrRequiresPrefix
	}

	prefix, rest := args[0], args[1:]
	if len(rest) == 0 {
		return invalidCommand("must provide a username to assign")
	}

	if len(rest) > 1 {
		return invalidCommand("unexpected arguments: %s", strings.Join(rest[1:], " "))
	}

	force, _ := fs.GetBool("force")

	s, err := a.openStore(ctx, "")
	if err != nil {
		return err
	}

	msg, err := s.Assign(prefix, rest[0], force)
	if err != nil {
		return err
	}

	err = s.Write()
	if err != nil {
		return err
	}

	o.Println(msg)

	return a.maybeEdit(ctx, fs, s, prefix)
}
