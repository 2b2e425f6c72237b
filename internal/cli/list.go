package cli

import (
	"context"
	"errors"

	"github.com/calvinalkan/agent-bugs/internal/bugs"

	flag "github.com/spf13/pflag"
)

var errConflictingSort = errors.New("--alpha and --chrono cannot be used together")

// ListCmd returns the list command.
func ListCmd(a *app) *Command {
	fs := newFlags("list")
	addRevFlag(fs)
	fs.BoolP("resolved", "r", false, "List resolved bugs")
	fs.StringP("owner", "o", bugs.AnyOwner, "List bugs of this owner ('me', 'Nobody' or a name prefix)")
	fs.StringP("grep", "g", "", "Filter titles by this string")
	fs.BoolP("alpha", "a", false, "Sort list alphabetically")
	fs.BoolP("chrono", "c", false, "Sort list chronologically")
	fs.BoolP("truncate", "T", false, "Truncate list output to fit window")

	return &Command{
		Flags: fs,
		Usage: "list [flags]",
		Short: "List bugs with their unique prefixes",
		Long: `List open bugs as "<prefix> - <title>", followed by a summary line.
Each prefix is the shortest start of the bug's id that no other bug shares,
and can be passed wherever a command takes <prefix>.`,
		ReadOnly: true,
		Exec: func(ctx context.Context, o *IO, args []string) error {
			err := expectNoArgs(args)
			if err != nil {
				return err
			}

			return execList(ctx, a, o, fs)
		},
	}
}

func execList(ctx context.Context, a *app, o *IO, fs *flag.FlagSet) error {
	alpha, _ := fs.GetBool("alpha")
	chrono, _ := fs.GetBool("chrono")

	if alpha && chrono {
		return errConflictingSort
	}

	opts := bugs.ListOptions{Sort: bugs.SortInserted}

	switch {
	case alpha:
		opts.Sort = bugs.SortAlpha
	case chrono:
		opts.Sort = bugs.SortChrono
	}

	opts.Resolved, _ = fs.GetBool("resolved")
	opts.Owner, _ = fs.GetString("owner")
	opts.Grep, _ = fs.GetString("grep")

	if truncate, _ := fs.GetBool("truncate"); truncate {
		opts.Truncate = terminalWidth(a.out, a.env)
	}

	rev, _ := fs.GetString("rev")

	s, err := a.openStore(ctx, rev)
	if err != nil {
		return err
	}

	text, err := s.List(opts)
	if err != nil {
		return err
	}

	o.Println(text)

	return nil
}
