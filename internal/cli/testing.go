package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
)

// CLI provides a clean interface for running CLI commands in tests.
// It manages a temp directory and an isolated environment: no global git or
// b config leaks in, and the directory is not inside a git repository until
// [CLI.InitRepo] makes it one.
type CLI struct {
	t   *testing.T
	Dir string
	Env map[string]string
}

// NewCLI creates a new test CLI with a temp directory.
func NewCLI(t *testing.T) *CLI {
	t.Helper()

	dir := t.TempDir()
	home := t.TempDir()

	return &CLI{
		t:   t,
		Dir: dir,
		Env: map[string]string{
			"HOME":                    home,
			"XDG_CONFIG_HOME":         filepath.Join(home, ".config"),
			"GIT_CONFIG_GLOBAL":       filepath.Join(home, ".gitconfig"),
			"GIT_CONFIG_NOSYSTEM":     "1",
			"GIT_CEILING_DIRECTORIES": filepath.Dir(dir),
		},
	}
}

// Run executes the CLI with the given args and returns stdout, stderr, and exit code.
// Args should not include "b" or "--cwd" - those are added automatically.
func (r *CLI) Run(args ...string) (string, string, int) {
	return r.RunWithInput("", args...)
}

// RunWithInput executes the CLI with stdin and returns stdout, stderr, and exit code.
// stdin must be a string or io.Reader; panics otherwise.
func (r *CLI) RunWithInput(stdin any, args ...string) (string, string, int) {
	var inReader io.Reader
	switch v := stdin.(type) {
	case string:
		inReader = strings.NewReader(v)
	case io.Reader:
		inReader = v
	default:
		panic(fmt.Sprintf("stdin must be string or io.Reader, got %T", stdin))
	}

	var outBuf, errBuf bytes.Buffer

	fullArgs := append([]string{"b", "--cwd", r.Dir}, args...)
	code := Run(inReader, &outBuf, &errBuf, fullArgs, r.Env, nil)

	return outBuf.String(), errBuf.String(), code
}

// MustRun executes the CLI and fails the test if the command returns non-zero.
// Returns trimmed stdout on success.
func (r *CLI) MustRun(args ...string) string {
	r.t.Helper()

	stdout, stderr, code := r.Run(args...)
	if code != 0 {
		r.t.Fatalf("command %v failed with exit code %d\nstderr: %s", args, code, stderr)
	}

	return strings.TrimSpace(stdout)
}

// MustFail executes the CLI and fails the test if the command succeeds.
// Also fails if stdout is not empty. Returns trimmed stderr.
func (r *CLI) MustFail(args ...string) string {
	r.t.Helper()

	stdout, stderr, code := r.Run(args...)
	if code == 0 {
		r.t.Fatalf("command %v should have failed but succeeded\nstdout: %s", args, stdout)
	}

	if stdout != "" {
		r.t.Fatalf("command %v failed but stdout should be empty\nstdout: %s", args, stdout)
	}

	return strings.TrimSpace(stderr)
}

var addedRE = regexp.MustCompile(`^Added bug ([0-9a-f]+):`)

// Add files a bug and returns its unique prefix as printed by add.
func (r *CLI) Add(title string) string {
	r.t.Helper()

	out := r.MustRun("add", title)

	m := addedRE.FindStringSubmatch(out)
	if m == nil {
		r.t.Fatalf("unexpected add output: %q", out)
	}

	return m[1]
}

// BugsDir returns the path to the .bugs directory.
func (r *CLI) BugsDir() string {
	return filepath.Join(r.Dir, ".bugs")
}

// ReadBugs returns the content of the bugs file.
func (r *CLI) ReadBugs() string {
	r.t.Helper()

	content, err := os.ReadFile(filepath.Join(r.BugsDir(), "bugs"))
	if err != nil {
		r.t.Fatalf("failed to read bugs file: %v", err)
	}

	return string(content)
}

// WriteBugs replaces the bugs file.
func (r *CLI) WriteBugs(content string) {
	r.t.Helper()

	err := os.MkdirAll(r.BugsDir(), 0o755)
	if err != nil {
		r.t.Fatalf("failed to create bugs dir: %v", err)
	}

	err = os.WriteFile(filepath.Join(r.BugsDir(), "bugs"), []byte(content), 0o600)
	if err != nil {
		r.t.Fatalf("failed to write bugs file: %v", err)
	}
}

// WriteFile writes content to a path relative to Dir.
func (r *CLI) WriteFile(rel, content string) {
	r.t.Helper()

	path := filepath.Join(r.Dir, rel)

	err := os.MkdirAll(filepath.Dir(path), 0o755)
	if err != nil {
		r.t.Fatalf("failed to create dir for %s: %v", rel, err)
	}

	err = os.WriteFile(path, []byte(content), 0o600)
	if err != nil {
		r.t.Fatalf("failed to write %s: %v", rel, err)
	}
}

// InitRepo turns Dir into a git repository with a committer identity.
// Skips the test when git is not installed.
func (r *CLI) InitRepo() {
	r.t.Helper()

	if _, err := exec.LookPath("git"); err != nil {
		r.t.Skip("git not installed")
	}

	r.Git("init", "-q")
	r.Git("config", "user.name", "Repo User")
	r.Git("config", "user.email", "repo@example.com")
}

// Git runs git in Dir with the CLI's environment and returns its trimmed
// output.
func (r *CLI) Git(args ...string) string {
	r.t.Helper()

	cmd := exec.Command("git", args...)
	cmd.Dir = r.Dir
	cmd.Env = os.Environ()

	for k, v := range r.Env {
		cmd.Env = append(cmd.Env, k+"="+v)
	}

	out, err := cmd.CombinedOutput()
	if err != nil {
		r.t.Fatalf("git %v: %v\n%s", args, err, out)
	}

	return strings.TrimSpace(string(out))
}

// AssertContains fails the test if content doesn't contain substr.
func AssertContains(t *testing.T, content, substr string) {
	t.Helper()

	if !strings.Contains(content, substr) {
		t.Errorf("content should contain %q\ncontent:\n%s", substr, content)
	}
}

// AssertNotContains fails the test if content contains substr.
func AssertNotContains(t *testing.T, content, substr string) {
	t.Helper()

	if strings.Contains(content, substr) {
		t.Errorf("content should NOT contain %q\ncontent:\n%s", substr, content)
	}
}
