package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
)

const shellPrompt = "b> "

var (
	errNestedShell = errors.New("already in a shell")
	errShellFailed = errors.New("shell commands failed")
)

// ShellCmd returns the shell command.
func ShellCmd(a *app) *Command {
	return &Command{
		Flags: newFlags("shell"),
		Usage: "shell",
		Short: "Run several commands against one loaded database",
		Long: `Read commands line by line ("list -r", "resolve a9", ...) and run them
against a database that is loaded once. Each changing command writes the
bugs file before the next line is read. "exit" or "quit" leaves the shell.

On a terminal the shell has line editing, history and command completion.`,
		// Every line is dispatched (and tracked) on its own.
		ReadOnly: true,
		Exec: func(ctx context.Context, o *IO, args []string) error {
			err := expectNoArgs(args)
			if err != nil {
				return err
			}

			if a.inShell {
				return errNestedShell
			}

			a.inShell = true
			defer func() { a.inShell = false }()

			if isTerminal(a.in) && isTerminal(a.out) {
				return a.interactiveShell(ctx, o)
			}

			return a.scriptShell(ctx, o)
		},
	}
}

// shellLine runs one line. It reports false when the shell should stop,
// and whether the line's command failed.
func (a *app) shellLine(ctx context.Context, o *IO, line string) (bool, bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
		return true, false
	}

	if fields[0] == "exit" || fields[0] == "quit" {
		return false, false
	}

	return true, a.dispatch(ctx, o, fields[0], fields[1:]) != 0
}

// scriptShell reads commands from a pipe or file without prompting. Every
// line runs even after a failure, but the shell then fails as a whole.
func (a *app) scriptShell(ctx context.Context, o *IO) error {
	scanner := bufio.NewScanner(a.in)
	failed := 0

	for ctx.Err() == nil && scanner.Scan() {
		more, lineFailed := a.shellLine(ctx, o, scanner.Text())
		if lineFailed {
			failed++
		}

		if !more {
			break
		}
	}

	err := scanner.Err()
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	if ctx.Err() != nil {
		return ctx.Err()
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d", errShellFailed, failed)
	}

	return nil
}

func (a *app) historyFile() string {
	home := a.env["HOME"]
	if home == "" {
		return ""
	}

	return filepath.Join(home, ".b_history")
}

func (a *app) interactiveShell(ctx context.Context, o *IO) error {
	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)
	line.SetCompleter(a.completeCommand)

	history := a.historyFile()
	if f, err := os.Open(history); err == nil {
		_, _ = line.ReadHistory(f)
		_ = f.Close()
	}

	defer a.saveHistory(line, history)

	for ctx.Err() == nil {
		input, err := line.Prompt(shellPrompt)
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				return nil
			}

			return fmt.Errorf("reading input: %w", err)
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		line.AppendHistory(input)

		if more, _ := a.shellLine(ctx, o, input); !more {
			return nil
		}
	}

	return ctx.Err()
}

func (a *app) saveHistory(line *liner.State, path string) {
	if path == "" {
		return
	}

	f, err := os.Create(path)
	if err != nil {
		a.log.Debug("cannot save shell history", "path", path, "err", err)

		return
	}

	_, _ = line.WriteHistory(f)
	_ = f.Close()
}

// completeCommand completes the command word of a shell line.
func (a *app) completeCommand(input string) []string {
	if strings.Contains(input, " ") {
		return nil
	}

	var out []string

	for _, c := range allCommands(a) {
		if strings.HasPrefix(c.Name(), input) {
			out = append(out, c.Name())
		}
	}

	return out
}
