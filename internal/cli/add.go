package cli

import (
	"context"

	"github.com/calvinalkan/agent-bugs/internal/bugs"

	flag "github.com/spf13/pflag"
)

// addEditFlag registers -e/--edit, shared by every command that can hand
// over to the details editor once it succeeded.
func addEditFlag(fs *flag.FlagSet) {
	fs.BoolP("edit", "e", false, "Launch details editor after running command")
}

// AddCmd returns the add command.
func AddCmd(a *app) *Command {
	fs := newFlags("add")
	addEditFlag(fs)

	return &Command{
		Flags: fs,
		Usage: "add <title> [-e]",
		Short: "File a new open bug",
		Long: `File a new open bug titled with all remaining words. If a user is
configured (or known to git) the bug is assigned to them.

Prints the new bug's unique prefix followed by more of its id, e.g.
"Added bug a9:4a8fe5cc". With fast_add set in the config the first ten
characters of the id are printed instead, which is cheaper on huge databases.`,
		Exec: func(ctx context.Context, o *IO, args []string) error {
			return execAdd(ctx, a, o, fs, args)
		},
	}
}

func execAdd(ctx context.Context, a *app, o *IO, fs *flag.FlagSet, args []string) error {
	title := joinWords(args)
	if title == "" {
		return invalidCommand("must specify issue title")
	}

	s, err := a.openStore(ctx, "")
	if err != nil {
		return err
	}

	msg, err := s.Add(title)
	if err != nil {
		return err
	}

	err = s.Write()
	if err != nil {
		return err
	}

	o.Println(msg)

	return a.maybeEdit(ctx, fs, s, s.LastAdded())
}

// maybeEdit runs the details editor when -e was given.
func (a *app) maybeEdit(ctx context.Context, fs *flag.FlagSet, s *bugs.Store, prefix string) error {
	edit, _ := fs.GetBool("edit")
	if !edit {
		return nil
	}

	return a.edit(ctx, s, prefix)
}
