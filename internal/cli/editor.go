package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/calvinalkan/agent-bugs/internal/config"
)

// resolveEditor picks the editor command using the env map.
// Priority: config.Editor -> $VISUAL -> $EDITOR -> vi -> nano -> error.
// Configured values may carry arguments ("code --wait"); only the program
// has to be on $PATH.
func resolveEditor(cfg config.Config, env map[string]string) ([]string, error) {
	candidates := []string{cfg.Editor, env["VISUAL"], env["EDITOR"], "vi", "nano"}

	for _, c := range candidates {
		fields := strings.Fields(c)
		if len(fields) == 0 {
			continue
		}

		path, err := exec.LookPath(fields[0])
		if err != nil {
			continue
		}

		return append([]string{path}, fields[1:]...), nil
	}

	return nil, ErrNoEditorFound
}

func runEditor(ctx context.Context, editor []string, path string, out, errOut io.Writer) error {
	args := append(append([]string{}, editor[1:]...), path)

	cmd := exec.CommandContext(ctx, editor[0], args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = out
	cmd.Stderr = errOut

	err := cmd.Run()
	if err != nil {
		return fmt.Errorf("failed to run editor: %w", err)
	}

	return nil
}

// EditCmd returns the edit command.
func EditCmd(a *app) *Command {
	fs := newFlags("edit")

	return &Command{
		Flags: fs,
		Usage: "edit <prefix>",
		Short: "Launch your editor on a bug's details file",
		Long: `Launch your editor on the details file of the bug matching <prefix>,
creating it from the template first if needed.

The editor is the "editor" config value, else $VISUAL, else $EDITOR, else vi
or nano.`,
		Exec: func(ctx context.Context, _ *IO, args []string) error {
			prefix, err := prefixArg(args)
			if err != nil {
				return err
			}

			s, err := a.openStore(ctx, "")
			if err != nil {
				return err
			}

			return a.edit(ctx, s, prefix)
		},
	}
}
