package cli

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func Test_TerminalWidth_Falls_Back_To_Columns_Then_Default(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	for _, tt := range []struct {
		columns string
		want    int
	}{
		{columns: "", want: 80},
		{columns: "132", want: 132},
		{columns: "wide", want: 80},
		{columns: "-5", want: 80},
	} {
		env := map[string]string{}
		if tt.columns != "" {
			env["COLUMNS"] = tt.columns
		}

		if got := terminalWidth(&buf, env); got != tt.want {
			t.Errorf("terminalWidth(COLUMNS=%q)=%d, want=%d", tt.columns, got, tt.want)
		}
	}
}

func Test_NewLogger_Writes_JSON_Only_When_Debug_Set(t *testing.T) {
	t.Parallel()

	var quiet bytes.Buffer

	newLogger(&quiet, map[string]string{}).Debug("hidden")

	if quiet.Len() != 0 {
		t.Fatalf("logger wrote without %s: %q", DebugEnv, quiet.String())
	}

	var loud bytes.Buffer

	newLogger(&loud, map[string]string{DebugEnv: "1"}).Debug("shown", "k", "v")

	if got := loud.String(); !strings.Contains(got, `"msg":"shown"`) || !strings.Contains(got, `"k":"v"`) {
		t.Fatalf("debug log=%q, want JSON record", got)
	}
}

func Test_FindCommand_Matches_Exact_Then_Prefix(t *testing.T) {
	t.Parallel()

	cmds := allCommands(&app{})

	for _, tt := range []struct {
		name string
		want string
	}{
		{name: "list", want: "list"},
		{name: "l", want: "list"},
		{name: "ass", want: "assign"},
		{name: "sh", want: "shell"},
		{name: "st", want: "status"},
		{name: "print", want: "print-config"},
	} {
		cmd, err := findCommand(cmds, tt.name)
		if err != nil {
			t.Errorf("findCommand(%q) error: %v", tt.name, err)

			continue
		}

		if got := cmd.Name(); got != tt.want {
			t.Errorf("findCommand(%q)=%q, want=%q", tt.name, got, tt.want)
		}
	}

	_, err := findCommand(cmds, "s")

	var ambiguous *AmbiguousCommandError
	if !errors.As(err, &ambiguous) {
		t.Fatalf("findCommand(s) err=%v, want AmbiguousCommandError", err)
	}

	if diff := cmp.Diff([]string{"shell", "status"}, ambiguous.Candidates); diff != "" {
		t.Fatalf("candidates mismatch (-want +got):\n%s", diff)
	}

	_, err = findCommand(cmds, "")
	if !errors.Is(err, ErrAmbiguousCommand) {
		t.Fatalf("findCommand(\"\") err=%v, want ErrAmbiguousCommand", err)
	}

	_, err = findCommand(cmds, "dtls")
	if !errors.Is(err, ErrUnknownCommand) {
		t.Fatalf("findCommand(dtls) err=%v, want ErrUnknownCommand", err)
	}

	if got, want := err.Error(), "no such command 'dtls' (did you mean details?)"; got != want {
		t.Fatalf("err=%q, want=%q", got, want)
	}
}

func Test_ParseGlobalFlags_Stops_At_First_Non_Global(t *testing.T) {
	t.Parallel()

	flags, err := parseGlobalFlags([]string{"-C", "/tmp/x", "--bugs-dir=issues", "--config", "c.json", "-r", "list"})
	if err != nil {
		t.Fatal(err)
	}

	if got, want := flags.workDir, "/tmp/x"; got != want {
		t.Errorf("workDir=%q, want=%q", got, want)
	}

	if flags.bugsDir == nil || *flags.bugsDir != "issues" {
		t.Errorf("bugsDir=%v, want=issues", flags.bugsDir)
	}

	if got, want := flags.configPath, "c.json"; got != want {
		t.Errorf("configPath=%q, want=%q", got, want)
	}

	if diff := cmp.Diff([]string{"-r", "list"}, flags.remaining); diff != "" {
		t.Errorf("remaining mismatch (-want +got):\n%s", diff)
	}

	_, err = parseGlobalFlags([]string{"--bugs-dir"})
	if !errors.Is(err, ErrFlagRequiresArg) {
		t.Fatalf("err=%v, want ErrFlagRequiresArg", err)
	}
}
