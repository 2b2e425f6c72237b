package bugs

import (
	"slices"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Special user names accepted wherever a user is expected.
const (
	Nobody = "Nobody"
	Me     = "me"
)

// UserCount is one line of the users report.
type UserCount struct {
	// Name is the owner as displayed, [Nobody] for unassigned bugs.
	Name string
	Open int
}

// UserCounts returns every owner with their number of open bugs. Owners whose
// bugs are all resolved are included with zero. Nobody comes first, the rest
// are sorted case-insensitively.
func (s *Store) UserCounts() []UserCount {
	counts := make(map[string]int)

	for _, b := range s.bugs {
		name := b.OwnerName()
		if b.Open {
			counts[name]++
		} else if _, ok := counts[name]; !ok {
			counts[name] = 0
		}
	}

	out := make([]UserCount, 0, len(counts))
	for name, n := range counts {
		out = append(out, UserCount{Name: name, Open: n})
	}

	slices.SortFunc(out, func(a, b UserCount) int {
		switch {
		case a.Name == b.Name:
			return 0
		case a.Name == Nobody:
			return -1
		case b.Name == Nobody:
			return 1
		}

		if c := strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)); c != 0 {
			return c
		}

		return strings.Compare(a.Name, b.Name)
	})

	return out
}

// Users renders the users report:
//
//	Username: Open Bugs
//	A User: 2
//	User:   1
//
// Counts are right-aligned one column past the longest name. The result has
// no trailing newline.
func (s *Store) Users() string {
	counts := s.UserCounts()

	width := 0
	for _, u := range counts {
		width = max(width, runewidth.StringWidth(u.Name))
	}

	lines := []string{"Username: Open Bugs"}

	for _, u := range counts {
		pad := width + 1 - runewidth.StringWidth(u.Name)
		n := strconv.Itoa(u.Open)

		lines = append(lines, u.Name+": "+strings.Repeat(" ", max(0, pad-len(n)))+n)
	}

	return strings.Join(lines, "\n")
}

// ResolveUser maps user to an owner value.
//
// "me" is the current user and "Nobody" (or any prefix of it that resolves to
// it) is "" (unassigned). Otherwise an exact owner name wins, then a
// case-insensitive prefix of exactly one known owner. With force the name is
// taken literally and only checked for characters the bugs file cannot hold.
func (s *Store) ResolveUser(user string, force bool) (string, error) {
	switch user {
	case Me:
		return s.user, nil
	case Nobody:
		return "", nil
	}

	if force {
		if reason := badName(user); reason != "" {
			return "", &InvalidInputError{Reason: "usernames " + reason}
		}

		return user, nil
	}

	names := make([]string, 0)
	for _, u := range s.UserCounts() {
		names = append(names, u.Name)
	}

	if !slices.Contains(names, user) {
		lower := strings.ToLower(user)

		var matched []string

		for _, name := range names {
			if strings.HasPrefix(strings.ToLower(name), lower) {
				matched = append(matched, name)
			}
		}

		switch len(matched) {
		case 0:
			return "", &UnknownUserError{User: user}
		case 1:
			user = matched[0]
		default:
			return "", &AmbiguousUserError{User: user, Matched: matched}
		}
	}

	if user == Nobody {
		return "", nil
	}

	return user, nil
}
