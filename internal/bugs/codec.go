package bugs

import (
	"errors"
	"maps"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
)

// Taskline syntax.
const (
	metaDelim  = "|"
	pairDelim  = ","
	valueDelim = ":"
)

// Known metadata keys, in the order they are written.
const (
	keyID    = "id"
	keyOpen  = "open"
	keyOwner = "owner"
	keyTime  = "time"
)

const (
	trueString  = "True"
	falseString = "False"
)

// Decoder parses tasklines. The zero value uses [SHA1Hasher] and the wall
// clock for bare-title lines.
type Decoder struct {
	Hash Hasher
	Now  func() time.Time
}

// ParseLine parses a taskline with the default [Decoder].
func ParseLine(line string) (Bug, error) {
	return Decoder{}.ParseLine(line)
}

// ParseLine decodes one taskline:
//
//	summary text ... | id:<sha1>, open:True, owner:someone, time:1310458238.24
//
// The metadata starts after the last '|', so titles may contain '|'. A line
// with no '|' at all is a bare title typed into the file by hand; it gets a
// fresh id, no owner, and is open.
func (d Decoder) ParseLine(line string) (Bug, error) {
	cut := strings.LastIndex(line, metaDelim)
	if cut < 0 {
		return d.bare(strings.TrimSpace(line)), nil
	}

	bug := Bug{Title: strings.TrimSpace(line[:cut])}

	sawOpen := false

	for piece := range strings.SplitSeq(strings.TrimSpace(line[cut+1:]), pairDelim) {
		label, value, ok := strings.Cut(piece, valueDelim)
		if !ok {
			return Bug{}, &ParseError{Text: line, Reason: "metadata " + strconv.Quote(strings.TrimSpace(piece)) + " has no ':'"}
		}

		label = strings.TrimSpace(label)
		value = strings.TrimSpace(value)

		switch label {
		case keyID:
			bug.ID = value
		case keyOwner:
			bug.Owner = value
		case keyOpen:
			open, err := parseTruth(value)
			if err != nil {
				return Bug{}, &ParseError{Text: line, Reason: err.Error()}
			}

			bug.Open = open
			sawOpen = true
		case keyTime:
			ts, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return Bug{}, &ParseError{Text: line, Reason: "bad time " + strconv.Quote(value)}
			}

			bug.Time = ts
		default:
			if bug.Extra == nil {
				bug.Extra = make(map[string]string)
			}

			bug.Extra[label] = value
		}
	}

	if !sawOpen {
		bug.Open = true
	}

	return bug, nil
}

func (d Decoder) bare(title string) Bug {
	hash := d.Hash
	if hash == nil {
		hash = SHA1Hasher
	}

	now := d.Now
	if now == nil {
		now = time.Now
	}

	ts := unixSeconds(now())

	return Bug{
		ID:    hash(title, formatSeconds(ts)),
		Title: title,
		Open:  true,
		Time:  ts,
	}
}

// FormatLines encodes bugs as tasklines, titles padded to the widest one so
// the metadata column lines up. Each line ends in "\n".
func FormatLines(bugs []*Bug) []string {
	width := 0
	for _, b := range bugs {
		width = max(width, runewidth.StringWidth(b.Title))
	}

	lines := make([]string, 0, len(bugs))

	for _, b := range bugs {
		var sb strings.Builder

		sb.WriteString(runewidth.FillRight(b.Title, width))
		sb.WriteString(" | ")
		sb.WriteString(formatMeta(b))
		sb.WriteString("\n")

		lines = append(lines, sb.String())
	}

	return lines
}

func formatMeta(b *Bug) string {
	pairs := []string{
		keyID + valueDelim + b.ID,
		keyOpen + valueDelim + formatTruth(b.Open),
		keyOwner + valueDelim + b.Owner,
		keyTime + valueDelim + formatSeconds(b.Time),
	}

	for _, k := range slices.Sorted(maps.Keys(b.Extra)) {
		pairs = append(pairs, k+valueDelim+b.Extra[k])
	}

	return strings.Join(pairs, ", ")
}

var errBadTruth = errors.New("open must be True or False")

func parseTruth(s string) (bool, error) {
	switch s {
	case trueString, "true":
		return true, nil
	case falseString, "false":
		return false, nil
	default:
		return false, errBadTruth
	}
}

func formatTruth(open bool) string {
	if open {
		return trueString
	}

	return falseString
}
