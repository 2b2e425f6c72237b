package bugs

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/calvinalkan/agent-bugs/internal/fs"
)

// File layout inside the bugs directory.
const (
	BugsFileName   = "bugs"
	DetailsDirName = "details"
	detailsExt     = ".txt"
)

const (
	dirPerms  = 0o755
	filePerms = 0o644
)

// shortIDLength is how much of an id the add confirmation shows.
const shortIDLength = 10

// Store is the in-memory set of bugs backed by <dir>/bugs.
//
// Mutations only change memory; call [Store.Write] to persist them. Several
// mutations can be batched into one write.
type Store struct {
	dir     string
	user    string
	fastAdd bool
	hash    Hasher
	now     func() time.Time
	fs      fs.FS
	log     *slog.Logger

	bugs map[string]*Bug
	// order is the insertion order of ids: file order after a load (which is
	// sorted by id), then creation order.
	order     []string
	lastAdded string
}

// Option configures a [Store].
type Option func(*Store)

// WithFastAdd makes [Store.Add] confirm with a truncated id instead of
// computing the new bug's unique prefix.
func WithFastAdd(fastAdd bool) Option {
	return func(s *Store) { s.fastAdd = fastAdd }
}

// WithHasher selects the id hashing strategy. Defaults to [SHA1Hasher].
func WithHasher(h Hasher) Option {
	return func(s *Store) { s.hash = h }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithFS replaces the real filesystem.
func WithFS(fsys fs.FS) Option {
	return func(s *Store) { s.fs = fsys }
}

// WithLogger sets the debug logger. Defaults to discarding.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.log = l }
}

// Open loads the store kept in dir. A missing bugs file is an empty store.
// user is the current user: owner of new bugs, the target of "me", and the
// author of comments.
func Open(dir, user string, opts ...Option) (*Store, error) {
	s := &Store{
		dir:  dir,
		user: user,
		hash: SHA1Hasher,
		now:  time.Now,
		fs:   fs.NewReal(),
		log:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		bugs: make(map[string]*Bug),
	}

	for _, opt := range opts {
		opt(s)
	}

	if reason := badName(user); reason != "" {
		return nil, &InvalidInputError{Reason: "current user " + reason}
	}

	err := s.load()
	if err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Store) load() error {
	path := s.Path()

	info, err := s.fs.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.log.Debug("no bugs file, starting empty", "path", path)

			return nil
		}

		return fmt.Errorf("open bugs file: %w", err)
	}

	if info.IsDir() {
		return fmt.Errorf("%w: %s", ErrBugsFileIsDir, path)
	}

	data, err := s.fs.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read bugs file: %w", err)
	}

	dec := Decoder{Hash: s.hash, Now: s.now}

	for i, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		bug, err := dec.ParseLine(line)
		if err != nil {
			var perr *ParseError
			if errors.As(err, &perr) {
				perr.Line = i + 1
			}

			return fmt.Errorf("%s: %w", path, err)
		}

		if bug.ID == "" {
			return fmt.Errorf("%s: %w", path, &ParseError{Line: i + 1, Text: line, Reason: "missing id"})
		}

		s.put(&bug)
	}

	s.log.Debug("loaded bugs", "path", path, "count", len(s.bugs))

	return nil
}

// Dir returns the bugs directory.
func (s *Store) Dir() string { return s.dir }

// Path returns the bugs file.
func (s *Store) Path() string { return filepath.Join(s.dir, BugsFileName) }

// User returns the current user.
func (s *Store) User() string { return s.user }

// Len returns the number of bugs.
func (s *Store) Len() int { return len(s.bugs) }

// LastAdded returns the id of the bug created by the most recent [Store.Add],
// or "" if none was.
func (s *Store) LastAdded() string { return s.lastAdded }

// Bugs returns copies of all bugs sorted by id.
func (s *Store) Bugs() []*Bug {
	out := make([]*Bug, 0, len(s.bugs))
	for _, b := range s.sorted() {
		out = append(out, b.clone())
	}

	return out
}

// Write flushes every bug to the bugs file, sorted by id, creating the bugs
// directory if needed.
func (s *Store) Write() error {
	path := s.Path()

	if info, err := s.fs.Stat(path); err == nil && info.IsDir() {
		return fmt.Errorf("%w: %s", ErrBugsFileIsDir, path)
	}

	err := s.fs.MkdirAll(s.dir, dirPerms)
	if err != nil {
		return fmt.Errorf("create bugs dir: %w", err)
	}

	var sb strings.Builder
	for _, line := range FormatLines(s.sorted()) {
		sb.WriteString(line)
	}

	err = s.fs.WriteFileAtomic(path, []byte(sb.String()), filePerms)
	if err != nil {
		return fmt.Errorf("write bugs file: %w", err)
	}

	s.log.Debug("wrote bugs", "path", path, "count", len(s.bugs))

	return nil
}

// LookupResult is the outcome of resolving a prefix: either Bug is set, or
// Err is an [*UnknownPrefixError] or [*AmbiguousPrefixError].
type LookupResult struct {
	Bug *Bug
	Err error
}

// Lookup resolves prefix to a bug. A prefix matching several ids is still
// unique when it equals one of them.
func (s *Store) Lookup(prefix string) LookupResult {
	var matched []string

	for id := range s.bugs {
		if strings.HasPrefix(id, prefix) {
			matched = append(matched, id)
		}
	}

	switch len(matched) {
	case 0:
		return LookupResult{Err: &UnknownPrefixError{Prefix: prefix}}
	case 1:
		return LookupResult{Bug: s.bugs[matched[0]]}
	}

	if b, ok := s.bugs[prefix]; ok {
		return LookupResult{Bug: b}
	}

	slices.Sort(matched)

	return LookupResult{Err: &AmbiguousPrefixError{Prefix: prefix, Candidates: matched}}
}

// Get is [Store.Lookup] returning a copy of the bug.
func (s *Store) Get(prefix string) (*Bug, error) {
	res := s.Lookup(prefix)
	if res.Err != nil {
		return nil, res.Err
	}

	return res.Bug.clone(), nil
}

// ID resolves prefix to a full id.
func (s *Store) ID(prefix string) (string, error) {
	res := s.Lookup(prefix)
	if res.Err != nil {
		return "", res.Err
	}

	return res.Bug.ID, nil
}

// Add files a new open bug owned by the current user and returns a
// confirmation such as "Added bug a9:4a8fe5cc".
func (s *Store) Add(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", &InvalidInputError{Reason: "must specify issue title"}
	}

	if strings.ContainsAny(title, "\r\n") {
		return "", &InvalidInputError{Reason: "titles cannot span lines"}
	}

	ts := unixSeconds(s.now())
	id := s.hash(title, s.user, formatSeconds(ts))

	s.put(&Bug{ID: id, Title: title, Owner: s.user, Open: true, Time: ts})
	s.lastAdded = id

	s.log.Debug("added bug", "id", id)

	if s.fastAdd {
		return fmt.Sprintf("Added bug %s...", head(id, shortIDLength)), nil
	}

	prefix := Prefixes(slices.Collect(maps.Keys(s.bugs)))[id]
	rest := ""

	if len(prefix) < shortIDLength {
		rest = id[len(prefix):shortIDLength]
	}

	return fmt.Sprintf("Added bug %s:%s", prefix, rest), nil
}

// Rename changes a bug's title. text of the form "s/find/repl/" or
// "/find/repl/" edits the current title instead: find is a Go regular
// expression and every match is replaced by repl, which may use $1 style
// references.
func (s *Store) Rename(prefix, text string) error {
	res := s.Lookup(prefix)
	if res.Err != nil {
		return res.Err
	}

	bug := res.Bug

	if strings.HasPrefix(text, "s/") || strings.HasPrefix(text, "/") {
		expr := strings.TrimRight(strings.TrimPrefix(strings.TrimPrefix(text, "s"), "/"), "/")
		find, repl, _ := strings.Cut(expr, "/")

		re, err := regexp.Compile(find)
		if err != nil {
			return &InvalidInputError{Reason: fmt.Sprintf("bad pattern %q: %v", find, err)}
		}

		text = re.ReplaceAllString(bug.Title, repl)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return &InvalidInputError{Reason: "must specify issue title"}
	}

	if strings.ContainsAny(text, "\r\n") {
		return &InvalidInputError{Reason: "titles cannot span lines"}
	}

	bug.Title = text

	return nil
}

// Assign sets a bug's owner. user is resolved as described by
// [Store.ResolveUser]. The confirmation reads
// "Assigned <prefix>: '<title>' to <owner>".
func (s *Store) Assign(prefix, user string, force bool) (string, error) {
	res := s.Lookup(prefix)
	if res.Err != nil {
		return "", res.Err
	}

	owner, err := s.ResolveUser(user, force)
	if err != nil {
		return "", err
	}

	res.Bug.Owner = owner

	return fmt.Sprintf("Assigned %s: '%s' to %s", prefix, res.Bug.Title, res.Bug.OwnerName()), nil
}

// Resolve closes a bug. Resolving a resolved bug is a no-op.
func (s *Store) Resolve(prefix string) error {
	return s.setOpen(prefix, false)
}

// Reopen reopens a bug. Reopening an open bug is a no-op.
func (s *Store) Reopen(prefix string) error {
	return s.setOpen(prefix, true)
}

func (s *Store) setOpen(prefix string, open bool) error {
	res := s.Lookup(prefix)
	if res.Err != nil {
		return res.Err
	}

	res.Bug.Open = open

	return nil
}

func (s *Store) put(b *Bug) {
	if _, ok := s.bugs[b.ID]; !ok {
		s.order = append(s.order, b.ID)
	}

	s.bugs[b.ID] = b
}

func (s *Store) sorted() []*Bug {
	ids := slices.Sorted(maps.Keys(s.bugs))
	out := make([]*Bug, len(ids))

	for i, id := range ids {
		out[i] = s.bugs[id]
	}

	return out
}

func (s *Store) inOrder() []*Bug {
	out := make([]*Bug, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.bugs[id])
	}

	return out
}

// badName reports why name cannot be stored as an owner, or "".
func badName(name string) string {
	switch {
	case strings.Contains(name, metaDelim):
		return "cannot contain '|'"
	case strings.Contains(name, pairDelim):
		return "cannot contain ','"
	case strings.ContainsAny(name, "\r\n"):
		return "cannot span lines"
	case strings.TrimSpace(name) != name:
		return "cannot start or end with whitespace"
	}

	return ""
}
