package cli_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/calvinalkan/agent-bugs/internal/cli"
)

// createMockEditor creates a mock editor script that writes its args to a file.
// Returns the path to the mock editor and the path to the invoked args file.
func createMockEditor(t *testing.T, name string) (string, string) {
	t.Helper()

	mockDir := t.TempDir()
	mockEditor := filepath.Join(mockDir, name)
	invokedFile := filepath.Join(mockDir, "invoked.txt")

	script := `#!/bin/sh
echo "$@" > "` + invokedFile + `"
exit 0
`

	writeErr := os.WriteFile(mockEditor, []byte(script), 0o700)
	if writeErr != nil {
		t.Fatalf("failed to create mock editor: %v", writeErr)
	}

	return mockEditor, invokedFile
}

func readInvoked(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("editor was not invoked: %v", err)
	}

	return strings.TrimSpace(string(data))
}

func Test_Editor_Resolution_Order(t *testing.T) {
	t.Parallel()

	detailsFile := func(c *cli.CLI) string {
		return filepath.Join(c.BugsDir(), "details", leakID+".txt")
	}

	t.Run("config editor wins and keeps its arguments", func(t *testing.T) {
		t.Parallel()

		c := withFixture(t)
		configured, configuredArgs := createMockEditor(t, "configured")
		visual, visualArgs := createMockEditor(t, "visual")

		c.WriteFile(".b.json", `{"editor": "`+configured+` --wait"}`)
		c.Env["VISUAL"] = visual

		c.MustRun("edit", "aaa")

		if got, want := readInvoked(t, configuredArgs), "--wait "+detailsFile(c); got != want {
			t.Fatalf("editor args=%q, want=%q", got, want)
		}

		if _, err := os.Stat(visualArgs); err == nil {
			t.Fatal("$VISUAL should not run when an editor is configured")
		}
	})

	t.Run("VISUAL before EDITOR", func(t *testing.T) {
		t.Parallel()

		c := withFixture(t)
		visual, visualArgs := createMockEditor(t, "visual")
		editor, editorArgs := createMockEditor(t, "editor")

		c.Env["VISUAL"] = visual
		c.Env["EDITOR"] = editor

		c.MustRun("edit", "aaa")

		if got, want := readInvoked(t, visualArgs), detailsFile(c); got != want {
			t.Fatalf("editor args=%q, want=%q", got, want)
		}

		if _, err := os.Stat(editorArgs); err == nil {
			t.Fatal("$EDITOR should not run when $VISUAL is set")
		}
	})

	t.Run("missing configured editor falls through", func(t *testing.T) {
		t.Parallel()

		c := withFixture(t)
		editor, editorArgs := createMockEditor(t, "editor")

		c.WriteFile(".b.json", `{"editor": "/no/such/editor"}`)
		c.Env["EDITOR"] = editor

		c.MustRun("edit", "aaa")

		if got, want := readInvoked(t, editorArgs), detailsFile(c); got != want {
			t.Fatalf("editor args=%q, want=%q", got, want)
		}
	})
}

func Test_Editor_Failure_Is_Reported(t *testing.T) {
	t.Parallel()

	c := withFixture(t)

	failing := filepath.Join(t.TempDir(), "failing")
	if err := os.WriteFile(failing, []byte("#!/bin/sh\nexit 3\n"), 0o700); err != nil {
		t.Fatal(err)
	}

	c.Env["EDITOR"] = failing

	cli.AssertContains(t, c.MustFail("edit", "aaa"), "failed to run editor")
	cli.AssertContains(t, c.MustFail("edit"), "you need to provide an issue prefix")
}
