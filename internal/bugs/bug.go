// Package bugs implements the bug record store: a flat "taskline" file of
// bugs, the per-bug details files next to it, and the shortest-unique-prefix
// index used to address bugs from the command line.
//
// A [Store] is loaded once, mutated in memory, and flushed with [Store.Write].
// Nothing here locks the files; two processes writing the same store race and
// the last write wins.
package bugs

import (
	"maps"
	"math"
	"strconv"
	"time"
)

// Bug is one record of the bugs file.
type Bug struct {
	// ID is the lowercase hex SHA-1 assigned at creation. It never changes.
	ID    string
	Title string
	// Owner is the assigned user, "" when nobody owns the bug.
	Owner string
	Open  bool
	// Time is the creation time as fractional Unix seconds.
	Time float64
	// Extra holds metadata keys this version does not know about. They are
	// kept verbatim so older and newer files survive a round trip.
	Extra map[string]string
}

// Filed returns the creation time.
func (b *Bug) Filed() time.Time {
	sec, frac := math.Modf(b.Time)

	return time.Unix(int64(sec), int64(frac*float64(time.Second)))
}

// OwnerName returns the owner for display, "Nobody" when unassigned.
func (b *Bug) OwnerName() string {
	if b.Owner == "" {
		return Nobody
	}

	return b.Owner
}

func (b *Bug) clone() *Bug {
	c := *b
	c.Extra = maps.Clone(b.Extra)

	return &c
}

// unixSeconds converts t to the fractional seconds stored in the bugs file.
func unixSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}

// formatSeconds renders a timestamp the way it is persisted and hashed. The
// shortest representation that parses back to the same float is used.
func formatSeconds(ts float64) string {
	return strconv.FormatFloat(ts, 'f', -1, 64)
}

// timestampLayout matches the human timestamps written into details files,
// e.g. "Tuesday, July 12 2011 04:10AM".
const timestampLayout = "Monday, January 02 2006 03:04PM"

func formatTimestamp(t time.Time) string {
	return t.Local().Format(timestampLayout)
}
