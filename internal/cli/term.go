package cli

import (
	"io"
	"log/slog"
	"os"
	"strconv"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

const defaultWidth = 80

// DebugEnv turns on debug logging to stderr when set to a non-empty value.
const DebugEnv = "B_DEBUG"

func isTerminal(w any) bool {
	f, ok := w.(*os.File)

	return ok && term.IsTerminal(int(f.Fd()))
}

// terminalWidth returns the column count of w when it is a terminal, then
// $COLUMNS, then 80.
func terminalWidth(w io.Writer, env map[string]string) int {
	if f, ok := w.(*os.File); ok && isTerminal(f) {
		ws, err := unix.IoctlGetWinsize(int(f.Fd()), unix.TIOCGWINSZ)
		if err == nil && ws.Col > 0 {
			return int(ws.Col)
		}
	}

	if cols, err := strconv.Atoi(env["COLUMNS"]); err == nil && cols > 0 {
		return cols
	}

	return defaultWidth
}

// newLogger returns the debug logger. It discards everything unless $B_DEBUG
// is set; then it writes text to a terminal and JSON to anything else.
func newLogger(errOut io.Writer, env map[string]string) *slog.Logger {
	if env[DebugEnv] == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	options := &slog.HandlerOptions{Level: slog.LevelDebug}

	if isTerminal(errOut) {
		return slog.New(slog.NewTextHandler(errOut, options))
	}

	return slog.New(slog.NewJSONHandler(errOut, options))
}
