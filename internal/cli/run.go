package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/sahilm/fuzzy"
)

const (
	consumedOne  = 1
	consumedTwo  = 2
	consumedNone = 0
	helpFlag     = "--help"

	defaultCommand = "list"
	maxSuggestions = 3
)

// Run is the main entry point. Returns exit code.
//
// sigCh may be nil. A signal on it cancels the context handed to commands,
// which stops a running editor or git process.
func Run(in io.Reader, out io.Writer, errOut io.Writer, args []string, env map[string]string, sigCh <-chan os.Signal) int {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		select {
		case <-sigCh:
			cancel()
		case <-ctx.Done():
		}
	}()

	var rest []string
	if len(args) > 1 {
		rest = args[1:]
	}

	flags, err := parseGlobalFlags(rest)
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	if flags.help {
		printUsage(out)

		return 0
	}

	a, err := newApp(ctx, flags, env, in, out, errOut)
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	name, cmdArgs := defaultCommand, flags.remaining
	if len(cmdArgs) > 0 && !strings.HasPrefix(cmdArgs[0], "-") {
		name, cmdArgs = cmdArgs[0], cmdArgs[1:]
	}

	o := NewIO(out, errOut)

	if code := a.dispatch(ctx, o, name, cmdArgs); code != 0 {
		return code
	}

	return o.Finish()
}

// allCommands builds a fresh command set. FlagSets keep parsed values, so
// every dispatch (including each shell line) gets new ones.
func allCommands(a *app) []*Command {
	return []*Command{
		AddCmd(a),
		AssignCmd(a),
		CommentCmd(a),
		DetailsCmd(a),
		EditCmd(a),
		ExportCmd(a),
		HelpCmd(a),
		IDCmd(a),
		ListCmd(a),
		PrintConfigCmd(a),
		RenameCmd(a),
		ReopenCmd(a),
		ResolveCmd(a),
		ShellCmd(a),
		StatusCmd(a),
		UsersCmd(a),
		VersionCmd(a),
	}
}

// dispatch finds the command for name and runs it. Bug files created by a
// command that changes the bugs directory are staged in git afterwards.
func (a *app) dispatch(ctx context.Context, o *IO, name string, args []string) int {
	cmd, err := findCommand(allCommands(a), name)
	if err != nil {
		o.ErrPrintln("error:", err)

		return 1
	}

	a.log.Debug("dispatching", "command", cmd.Name(), "args", args)

	if code := cmd.Run(ctx, o, args); code != 0 {
		return code
	}

	if !cmd.ReadOnly {
		a.track(ctx, o)
	}

	return 0
}

// findCommand resolves name to a command. Any unambiguous prefix of a
// command name works; an exact name always wins.
func findCommand(cmds []*Command, name string) (*Command, error) {
	var candidates []*Command

	for _, c := range cmds {
		if c.Name() == name {
			return c, nil
		}

		if strings.HasPrefix(c.Name(), name) {
			candidates = append(candidates, c)
		}
	}

	switch len(candidates) {
	case 1:
		return candidates[0], nil
	case 0:
		return nil, &UnknownCommandError{Name: name, Suggestions: suggest(cmds, name)}
	default:
		names := make([]string, 0, len(candidates))
		for _, c := range candidates {
			names = append(names, c.Name())
		}

		return nil, &AmbiguousCommandError{Prefix: name, Candidates: names}
	}
}

// suggest returns command names that contain the letters of name in order,
// best match first.
func suggest(cmds []*Command, name string) []string {
	names := make([]string, 0, len(cmds))
	for _, c := range cmds {
		names = append(names, c.Name())
	}

	matches := fuzzy.Find(name, names)

	out := make([]string, 0, maxSuggestions)
	for _, m := range matches {
		if len(out) == maxSuggestions {
			break
		}

		out = append(out, m.Str)
	}

	return out
}

type globalFlags struct {
	workDir    string
	configPath string
	bugsDir    *string
	help       bool
	remaining  []string
}

func parseGlobalFlags(args []string) (globalFlags, error) {
	var flags globalFlags

	idx := 0
	for idx < len(args) {
		consumed, err := parseFlag(args, idx, &flags)
		if err != nil {
			return globalFlags{}, err
		}

		if consumed == 0 {
			// Not a global flag, this is the command (or a flag of the
			// default command)
			flags.remaining = args[idx:]

			break
		}

		idx += consumed
	}

	return flags, nil
}

// parseFlag tries to parse a flag at args[idx]. Returns number of args consumed (0 if not a global flag).
func parseFlag(args []string, idx int, flags *globalFlags) (int, error) {
	arg := args[idx]

	// -C/--cwd flag (work directory)
	if arg == "-C" || arg == "--cwd" {
		if idx+1 >= len(args) {
			return consumedNone, fmt.Errorf("%w: %s", ErrFlagRequiresArg, arg)
		}

		flags.workDir = args[idx+1]

		return consumedTwo, nil
	}

	if after, ok := strings.CutPrefix(arg, "--cwd="); ok {
		flags.workDir = after

		return consumedOne, nil
	}

	// --config flag
	if arg == "--config" {
		if idx+1 >= len(args) {
			return consumedNone, fmt.Errorf("%w: %s", ErrFlagRequiresArg, arg)
		}

		flags.configPath = args[idx+1]

		return consumedTwo, nil
	}

	if after, ok := strings.CutPrefix(arg, "--config="); ok {
		flags.configPath = after

		return consumedOne, nil
	}

	// --bugs-dir flag
	if arg == "--bugs-dir" {
		if idx+1 >= len(args) {
			return consumedNone, fmt.Errorf("%w: %s", ErrFlagRequiresArg, arg)
		}

		flags.bugsDir = &args[idx+1]

		return consumedTwo, nil
	}

	if after, ok := strings.CutPrefix(arg, "--bugs-dir="); ok {
		flags.bugsDir = &after

		return consumedOne, nil
	}

	// -h/--help flags
	if arg == "-h" || arg == helpFlag {
		flags.help = true

		return len(args) - idx, nil
	}

	return consumedNone, nil
}

// expectNoArgs rejects positional arguments.
func expectNoArgs(args []string) error {
	if len(args) > 0 {
		return invalidCommand("expected zero arguments, got '%s'", strings.Join(args, " "))
	}

	return nil
}

// prefixArg returns the single bug prefix in args.
func prefixArg(args []string) (string, error) {
	if len(args) == 0 {
		return "", ErrRequiresPrefix
	}

	if len(args) > 1 {
		return "", invalidCommand("unexpected arguments: %s", strings.Join(args[1:], " "))
	}

	return args[0], nil
}

// prefixPlusText returns the bug prefix and the remaining words joined by
// single spaces.
func prefixPlusText(args []string) (string, string, error) {
	if len(args) == 0 {
		return "", "", ErrRequiresPrefix
	}

	return args[0], joinWords(args[1:]), nil
}

// joinWords joins positional arguments the way a shell user typed them, so
// titles and comments need no quoting.
func joinWords(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

func fprintln(w io.Writer, a ...any) {
	_, _ = fmt.Fprintln(w, a...)
}

func printUsage(w io.Writer) {
	fprintln(w, `b - a plain-text bug tracker that lives in your repository

Usage: b [options] [command] [args]

Options:
  -C, --cwd <dir>        Run as if started in <dir>
  --config <file>        Use specified config file
  --bugs-dir <dir>       Bugs directory, relative to the repository root
  -h, --help             Show this help

Commands (any unambiguous prefix works, default is list):`)

	cmds := allCommands(&app{})
	slices.SortFunc(cmds, func(x, y *Command) int { return strings.Compare(x.Name(), y.Name()) })

	for _, c := range cmds {
		fprintln(w, c.HelpLine())
	}

	fprintln(w, `
Run 'b <command> --help' for the flags of a command.`)
}
