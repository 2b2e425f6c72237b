package cli

import (
	"context"
	"fmt"
)

// Set with -ldflags "-X github.com/calvinalkan/agent-bugs/internal/cli.Version=...".
var (
	Version   = "0.7.0"
	BuildDate = "2018-10-19"
)

// VersionCmd returns the version command.
func VersionCmd(_ *app) *Command {
	return &Command{
		Flags:    newFlags("version"),
		Usage:    "version",
		Short:    "Show the version of b",
		ReadOnly: true,
		Exec: func(_ context.Context, o *IO, args []string) error {
			err := expectNoArgs(args)
			if err != nil {
				return err
			}

			o.Println(fmt.Sprintf("b Version %s - built %s", Version, BuildDate))

			return nil
		},
	}
}

// HelpCmd returns the help command.
func HelpCmd(a *app) *Command {
	return &Command{
		Flags:    newFlags("help"),
		Usage:    "help [command]",
		Short:    "Show usage, or the help of one command",
		ReadOnly: true,
		Exec: func(_ context.Context, o *IO, args []string) error {
			if len(args) == 0 {
				printUsage(a.out)

				return nil
			}

			if len(args) > 1 {
				return invalidCommand("unexpected arguments: %s", args[1])
			}

			cmd, err := findCommand(allCommands(a), args[0])
			if err != nil {
				return err
			}

			cmd.PrintHelp(o)

			return nil
		},
	}
}
