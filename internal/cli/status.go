package cli

import (
	"context"
	"path/filepath"
	"strings"
)

// StatusCmd returns the status command.
func StatusCmd(a *app) *Command {
	return &Command{
		Flags: newFlags("status"),
		Usage: "status [rev]",
		Short: "Show how a commit relates to the bugs database",
		Long: `Classify the commit <rev> (default HEAD) by the files it touches:

  - outside the bugs directory only: "no bug changes"
  - the bugs directory only: "bug changes only"
  - both: "bug changes with:" followed by the other files, which usually
    means the commit fixes or progresses a bug`,
		ReadOnly: true,
		Exec: func(ctx context.Context, o *IO, args []string) error {
			rev := "HEAD"

			switch len(args) {
			case 0:
			case 1:
				rev = args[0]
			default:
				return invalidCommand("unexpected arguments: %s", strings.Join(args[1:], " "))
			}

			rel, err := a.relBugsDir()
			if err != nil {
				return err
			}

			files, err := a.git.ChangedFiles(ctx, rev)
			if err != nil {
				return err
			}

			bugsDir := filepath.ToSlash(rel) + "/"
			touched := false

			var other []string

			for _, f := range files {
				if strings.HasPrefix(f, bugsDir) {
					touched = true

					continue
				}

				other = append(other, f)
			}

			switch {
			case !touched:
				o.Println("no bug changes")
			case len(other) == 0:
				o.Println("bug changes only")
			default:
				o.Println("bug changes with:")

				for _, f := range other {
					o.Println("  " + f)
				}
			}

			return nil
		},
	}
}
