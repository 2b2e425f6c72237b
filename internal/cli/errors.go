package cli

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrRequiresPrefix = errors.New(
		"you need to provide an issue prefix; run list to get a unique prefix for the bug you are looking for")
	ErrInvalidCommand   = errors.New("invalid command")
	ErrAmbiguousCommand = errors.New("ambiguous command")
	ErrUnknownCommand   = errors.New("unknown command")
	ErrNoEditorFound    = errors.New("no editor found (set editor in config, $VISUAL or $EDITOR, or install vi/nano)")
	ErrFlagRequiresArg  = errors.New("flag requires an argument")
	ErrRevReadOnly      = errors.New("--rev is only available for read-only commands")
)

// invalidCommand reports a usage mistake, e.g. a missing title.
func invalidCommand(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidCommand, fmt.Sprintf(format, args...))
}

// AmbiguousCommandError reports a command prefix shared by several commands.
type AmbiguousCommandError struct {
	Prefix     string
	Candidates []string
}

func (e *AmbiguousCommandError) Error() string {
	return "command ambiguous between: " + strings.Join(e.Candidates, ", ")
}

func (e *AmbiguousCommandError) Is(target error) bool { return target == ErrAmbiguousCommand }

// UnknownCommandError reports a name no command starts with.
type UnknownCommandError struct {
	Name string
	// Suggestions are commands with a similar spelling, best first.
	Suggestions []string
}

func (e *UnknownCommandError) Error() string {
	msg := fmt.Sprintf("no such command '%s'", e.Name)
	if len(e.Suggestions) > 0 {
		msg += " (did you mean " + strings.Join(e.Suggestions, " or ") + "?)"
	}

	return msg
}

func (e *UnknownCommandError) Is(target error) bool { return target == ErrUnknownCommand }
