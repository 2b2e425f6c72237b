package bugs

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinels for errors.Is. Every typed error below matches exactly one.
var (
	ErrUnknownPrefix   = errors.New("unknown prefix")
	ErrAmbiguousPrefix = errors.New("ambiguous prefix")
	ErrUnknownUser     = errors.New("unknown user")
	ErrAmbiguousUser   = errors.New("ambiguous user")
	ErrInvalidInput    = errors.New("invalid input")
	ErrParse           = errors.New("cannot parse taskline")
	ErrBugsFileIsDir   = errors.New("bugs file is a directory")
)

// UnknownPrefixError reports a prefix that matches no bug id.
type UnknownPrefixError struct {
	Prefix string
}

func (e *UnknownPrefixError) Error() string {
	return fmt.Sprintf("the provided prefix (%s) could not be found in the bugs database", e.Prefix)
}

func (e *UnknownPrefixError) Is(target error) bool { return target == ErrUnknownPrefix }

// AmbiguousPrefixError reports a prefix shared by several ids, none of which
// equals it.
type AmbiguousPrefixError struct {
	Prefix     string
	Candidates []string
}

func (e *AmbiguousPrefixError) Error() string {
	return fmt.Sprintf(
		"the provided prefix - %s - is ambiguous, and could point to %d bugs; run list to get a unique prefix",
		e.Prefix, len(e.Candidates))
}

func (e *AmbiguousPrefixError) Is(target error) bool { return target == ErrAmbiguousPrefix }

// UnknownUserError reports an assignment target matching no known owner.
type UnknownUserError struct {
	User string
}

func (e *UnknownUserError) Error() string {
	return fmt.Sprintf(
		"the provided user - %s - did not match any users in the system; use -f to force the creation of a new user",
		e.User)
}

func (e *UnknownUserError) Is(target error) bool { return target == ErrUnknownUser }

// AmbiguousUserError reports a user prefix matching several owners.
type AmbiguousUserError struct {
	User    string
	Matched []string
}

func (e *AmbiguousUserError) Error() string {
	return fmt.Sprintf("the provided user - %s - matched more than one user: %s",
		e.User, strings.Join(e.Matched, ", "))
}

func (e *AmbiguousUserError) Is(target error) bool { return target == ErrAmbiguousUser }

// InvalidInputError reports a value the store refuses to persist.
type InvalidInputError struct {
	Reason string
}

func (e *InvalidInputError) Error() string {
	return "invalid input: " + e.Reason
}

func (e *InvalidInputError) Is(target error) bool { return target == ErrInvalidInput }

// ParseError reports a taskline that cannot be decoded. Line is 1-based and
// zero when the line did not come from a file.
type ParseError struct {
	Line   int
	Text   string
	Reason string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: failed to parse task (%s); perhaps a misplaced '|'? line is: %s",
			e.Line, e.Reason, e.Text)
	}

	return fmt.Sprintf("failed to parse task (%s); perhaps a misplaced '|'? line is: %s", e.Reason, e.Text)
}

func (e *ParseError) Is(target error) bool { return target == ErrParse }
