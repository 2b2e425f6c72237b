package cli

import (
	"context"
	"strconv"
)

// PrintConfigCmd returns the print-config command.
func PrintConfigCmd(a *app) *Command {
	return &Command{
		Flags:    newFlags("print-config"),
		Usage:    "print-config",
		Short:    "Show resolved configuration",
		Long:     "Display the effective configuration and which files it was loaded from.",
		ReadOnly: true,
		Exec: func(_ context.Context, o *IO, args []string) error {
			err := expectNoArgs(args)
			if err != nil {
				return err
			}

			execPrintConfig(a, o)

			return nil
		},
	}
}

func execPrintConfig(a *app, o *IO) {
	cfg := a.cfg

	o.Println("root=" + cfg.Root)
	o.Println("bugs_dir=" + cfg.BugsDirAbs)
	o.Println("user=" + a.user)
	o.Println("fast_add=" + strconv.FormatBool(cfg.FastAdd))

	if cfg.Editor != "" {
		o.Println("editor=" + cfg.Editor)
	}

	o.Println("")
	o.Println("# sources")

	if cfg.Sources.Global == "" && cfg.Sources.Project == "" && !cfg.Sources.UserEnv {
		o.Println("(defaults only)")

		return
	}

	if cfg.Sources.Global != "" {
		o.Println("global_config=" + cfg.Sources.Global)
	}

	if cfg.Sources.Project != "" {
		o.Println("project_config=" + cfg.Sources.Project)
	}

	if cfg.Sources.UserEnv {
		o.Println("user_env=$B_USER")
	}
}
