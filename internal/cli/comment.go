package cli

import (
	"context"
)

// CommentCmd returns the comment command.
func CommentCmd(a *app) *Command {
	fs := newFlags("comment")
	addEditFlag(fs)

	return &Command{
		Flags: fs,
		Usage: "comment <prefix> <text> [-e]",
		Short: "Append a comment to a bug's details",
		Long: `Append <text> to the details file of the bug matching <prefix>, together
with the date and, if one is configured, your username. No editor is
needed unless -e is given, in which case <text> may be empty.`,
		Exec: func(ctx context.Context, _ *IO, args []string) error {
			prefix, text, err := prefixPlusText(args)
			if err != nil {
				return err
			}

			edit, _ := fs.GetBool("edit")
			if text == "" && !edit {
				return invalidCommand("must include comment text in command or use --edit")
			}

			s, err := a.openStore(ctx, "")
			if err != nil {
				return err
			}

			err = s.Comment(prefix, text)
			if err != nil {
				return err
			}

			return a.maybeEdit(ctx, fs, s, prefix)
		},
	}
}
