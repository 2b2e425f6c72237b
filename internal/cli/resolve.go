package cli

import (
	"context"

	"github.com/calvinalkan/agent-bugs/internal/bugs"

	flag "github.com/spf13/pflag"
)

// ResolveCmd returns the resolve command.
func ResolveCmd(a *app) *Command {
	fs := newFlags("resolve")
	addEditFlag(fs)

	return &Command{
		Flags: fs,
		Usage: "resolve <prefix> [-e]",
		Short: "Mark a bug as resolved",
		Exec: func(ctx context.Context, _ *IO, args []string) error {
			return execSetOpen(ctx, a, fs, args, (*bugs.Store).Resolve)
		},
	}
}

// ReopenCmd returns the reopen command.
func ReopenCmd(a *app) *Command {
	fs := newFlags("reopen")
	addEditFlag(fs)

	return &Command{
		Flags: fs,
		Usage: "reopen <prefix> [-e]",
		Short: "Mark a resolved bug as open again",
		Exec: func(ctx context.Context, _ *IO, args []string) error {
			return execSetOpen(ctx, a, fs, args, (*bugs.Store).Reopen)
		},
	}
}

func execSetOpen(
	ctx context.Context,
	a *app,
	fs *flag.FlagSet,
	args []string,
	apply func(s *bugs.Store, prefix string) error,
) error {
	prefix, err := prefixArg(args)
	if err != nil {
		return err
	}

	s, err := a.openStore(ctx, "")
	if err != nil {
		return err
	}

	err = apply(s, prefix)
	if err != nil {
		return err
	}

	err = s.Write()
	if err != nil {
		return err
	}

	return a.maybeEdit(ctx, fs, s, prefix)
}
