package bugs

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/mattn/go-runewidth"
)

// SortMode orders the output of [Store.List].
type SortMode int

const (
	// SortInserted keeps the order bugs were loaded or added in. Bugs loaded
	// from a file come first, in file order (which is sorted by id).
	SortInserted SortMode = iota
	// SortAlpha orders by title, case-insensitively.
	SortAlpha
	// SortChrono orders by creation time.
	SortChrono
)

// AnyOwner disables the owner filter of [ListOptions].
const AnyOwner = "*"

// ListOptions filters and formats [Store.List].
type ListOptions struct {
	// Resolved lists resolved bugs instead of open ones.
	Resolved bool
	// Owner is "" or [AnyOwner] for every owner, otherwise a user resolved
	// like an assignment target ("me", "Nobody", a name or a prefix of one).
	Owner string
	// Grep keeps titles containing it, case-insensitively.
	Grep string
	Sort SortMode
	// Truncate cuts lines wider than this many columns, ending them in
	// "...". Zero disables truncation.
	Truncate int
}

// List renders the bugs selected by opts, one "<prefix> - <title>" line per
// bug followed by a [Describe] summary line. Prefixes are unique among all
// bugs, not only the listed ones.
func (s *Store) List(opts ListOptions) (string, error) {
	owner := AnyOwner
	ownerName := AnyOwner

	if opts.Owner != "" && opts.Owner != AnyOwner {
		resolved, err := s.ResolveUser(opts.Owner, false)
		if err != nil {
			return "", err
		}

		owner = resolved
		ownerName = resolved
	}

	grep := strings.ToLower(opts.Grep)

	var small []*Bug

	for _, b := range s.inOrder() {
		if b.Open == opts.Resolved {
			continue
		}

		if owner != AnyOwner && b.Owner != owner {
			continue
		}

		if grep != "" && !strings.Contains(strings.ToLower(b.Title), grep) {
			continue
		}

		small = append(small, b)
	}

	switch opts.Sort {
	case SortAlpha:
		slices.SortStableFunc(small, func(a, b *Bug) int {
			return strings.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
		})
	case SortChrono:
		slices.SortStableFunc(small, func(a, b *Bug) int {
			return cmp.Compare(a.Time, b.Time)
		})
	case SortInserted:
	}

	prefixes := Prefixes(s.order)

	width := 0
	for _, b := range small {
		width = max(width, len(prefixes[b.ID]))
	}

	var sb strings.Builder

	for _, b := range small {
		line := fmt.Sprintf("%-*s - %s", width, prefixes[b.ID], b.Title)

		if opts.Truncate > 0 && runewidth.StringWidth(line) > opts.Truncate {
			line = runewidth.Truncate(line, opts.Truncate-1, "...")
		}

		sb.WriteString(line)
		sb.WriteString("\n")
	}

	sb.WriteString(Describe(len(small), !opts.Resolved, ownerName, opts.Grep))

	return sb.String(), nil
}

// Describe summarizes a listing, e.g.
//
//	Found 2 open bugs owned by User whose title contains j
//
// owner is [AnyOwner] to omit the owner clause; "" reads as Nobody.
func Describe(n int, open bool, owner, grep string) string {
	kind := "resolved"
	if open {
		kind = "open"
	}

	plural := "s"
	if n == 1 {
		plural = ""
	}

	out := fmt.Sprintf("Found %d %s bug%s", n, kind, plural)

	if owner != AnyOwner {
		if owner == "" {
			owner = Nobody
		}

		out += " owned by " + owner
	}

	if grep != "" {
		out += " whose title contains " + grep
	}

	return out
}
