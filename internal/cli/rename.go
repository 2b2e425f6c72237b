package cli

import (
	"context"

	flag "github.com/spf13/pflag"
)

// RenameCmd returns the rename command.
func RenameCmd(a *app) *Command {
	fs := newFlags("rename")
	addEditFlag(fs)

	return &Command{
		Flags: fs,
		Usage: "rename <prefix> <title> [-e]",
		Short: "Rename a bug",
		Long: `Rename the bug matching <prefix> to <title>.

A title of the form s/find/replace/ (or /find/replace/) edits the current
title instead: find is a regular expression and replace may refer to groups
as $1, $2 and so on.`,
		Exec: func(ctx context.Context, _ *IO, args []string) error {
			return execRename(ctx, a, fs, args)
		},
	}
}

func execRename(ctx context.Context, a *app, fs *flag.FlagSet, args []string) error {
	prefix, title, err := prefixPlusText(args)
	if err != nil {
		return err
	}

	if title == "" {
		return invalidCommand("must specify issue title")
	}

	s, err := a.openStore(ctx, "")
	if err != nil {
		return err
	}

	err = s.Rename(prefix, title)
	if err != nil {
		return err
	}

	err = s.Write()
	if err != nil {
		return err
	}

	return a.maybeEdit(ctx, fs, s, prefix)
}
