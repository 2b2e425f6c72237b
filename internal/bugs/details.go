package bugs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// DetailsTemplate seeds a new details file. Lines starting with '#' and
// sections left empty are hidden by [Store.Details]. [comments] must stay the
// last section since comments are appended after it.
const DetailsTemplate = `# Lines starting with '#' and sections without content
# are not displayed by a call to 'details'
#
[paths]
# Paths related to this bug.
# suggested format: REPO_PATH:LINENUMBERS

[details]
# Additional details


[expected]
# The expected result


[actual]
# What happened instead


[reproduce]
# Reproduction steps


[comments]
# Comments and updates - leave your name`

const noDetails = "No Details File Found."

var (
	commentLineRe    = regexp.MustCompile(`(?m)^#.*\n?`)
	emptySectionRe   = regexp.MustCompile(`\[\w+\]\s+\[`)
	trailingHeaderRe = regexp.MustCompile(`\[\w+\]\s*$`)
)

// DetailsPath returns the details file of the bug with the given full id.
func (s *Store) DetailsPath(id string) string {
	return filepath.Join(s.dir, DetailsDirName, id+detailsExt)
}

// ensureDetails creates the details file of id from [DetailsTemplate] unless
// it already exists, and returns its path.
func (s *Store) ensureDetails(id string) (string, error) {
	path := s.DetailsPath(id)

	exists, err := s.fs.Exists(path)
	if err != nil {
		return "", fmt.Errorf("check details file: %w", err)
	}

	if exists {
		return path, nil
	}

	err = s.fs.MkdirAll(filepath.Dir(path), dirPerms)
	if err != nil {
		return "", fmt.Errorf("create details dir: %w", err)
	}

	err = s.fs.WriteFileAtomic(path, []byte(DetailsTemplate), filePerms)
	if err != nil {
		return "", fmt.Errorf("create details file: %w", err)
	}

	s.log.Debug("created details file", "path", path)

	return path, nil
}

// Comment appends a dated comment, signed by the current user when there is
// one, to the bug's details file, creating the file if needed.
func (s *Store) Comment(prefix, text string) (err error) {
	res := s.Lookup(prefix)
	if res.Err != nil {
		return res.Err
	}

	path, err := s.ensureDetails(res.Bug.ID)
	if err != nil {
		return err
	}

	body := "On: " + formatTimestamp(s.now()) + "\n" + text
	if s.user != "" {
		body = "By: " + s.user + "\n" + body
	}

	f, err := s.fs.OpenFile(path, os.O_WRONLY|os.O_APPEND, filePerms)
	if err != nil {
		return fmt.Errorf("open details file: %w", err)
	}

	defer func() {
		err = errors.Join(err, f.Close())
	}()

	_, err = f.Write([]byte("\n\n" + body))
	if err != nil {
		return fmt.Errorf("append comment: %w", err)
	}

	return f.Sync()
}

// Edit makes sure the bug's details file exists and hands its path to
// launch, which normally runs the user's editor.
func (s *Store) Edit(prefix string, launch func(path string) error) error {
	res := s.Lookup(prefix)
	if res.Err != nil {
		return res.Err
	}

	path, err := s.ensureDetails(res.Bug.ID)
	if err != nil {
		return err
	}

	s.log.Debug("launching editor", "path", path)

	return launch(path)
}

// Details renders a bug's header (title, id, state, owner, filing date)
// followed by its details file with comments and empty sections removed.
func (s *Store) Details(prefix string) (string, error) {
	res := s.Lookup(prefix)
	if res.Err != nil {
		return "", res.Err
	}

	bug := res.Bug

	text := noDetails

	path := s.DetailsPath(bug.ID)

	exists, err := s.fs.Exists(path)
	if err != nil {
		return "", fmt.Errorf("check details file: %w", err)
	}

	if exists {
		data, err := s.fs.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read details file: %w", err)
		}

		text = StripDetails(string(data))
	}

	var sb strings.Builder

	fmt.Fprintf(&sb, "Title: %s\nID: %s\n", bug.Title, bug.ID)

	if !bug.Open {
		sb.WriteString("*Resolved* ")
	}

	if bug.Owner != "" {
		fmt.Fprintf(&sb, "Owned By: %s\n", bug.Owner)
	}

	fmt.Fprintf(&sb, "Filed On: %s\n\n", formatTimestamp(bug.Filed()))
	sb.WriteString(text)

	return strings.TrimSpace(sb.String()), nil
}

// StripDetails removes '#' comment lines and sections without content from
// the text of a details file.
func StripDetails(text string) string {
	text = commentLineRe.ReplaceAllString(text, "")

	for {
		next := emptySectionRe.ReplaceAllString(text, "[")
		if next == text {
			break
		}

		text = next
	}

	return trailingHeaderRe.ReplaceAllString(text, "")
}
