package bugs_test

import (
	"errors"
	"os"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calvinalkan/agent-bugs/internal/bugs"
	"github.com/calvinalkan/agent-bugs/internal/fs"
)

const stamp = `\w+, \w+ \d\d \d\d\d\d \d\d:\d\d[AP]M`

func Test_Details_ShowsHeaderOnly_When_NoDetailsFile(t *testing.T) {
	t.Parallel()

	s := newStore(t, "")
	mustAdd(t, s, "new test")

	got, err := s.Details("c")
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^Title: new test\nID: ce91fd20f393d261ea86e97fa26c273d02d43b4b\n`+
		`Filed On: `+stamp+`\n\nNo Details File Found\.$`), got)
}

func Test_Details_ShowsStateOwnerAndComments(t *testing.T) {
	t.Parallel()

	s := newStore(t, "")
	mustAdd(t, s, "new test")

	_, err := s.Assign("c", "User", true)
	require.NoError(t, err)
	require.NoError(t, s.Resolve("c"))

	s = actAs(t, s, "Another User")
	require.NoError(t, s.Comment("c", "Resolved an issue.\nHow nice!"))

	got, err := s.Details("c")
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^Title: new test\nID: ce91fd20f393d261ea86e97fa26c273d02d43b4b\n`+
		`\*Resolved\* Owned By: User\n`+
		`Filed On: `+stamp+`\n\n`+
		`\[comments\]\n\nBy: Another User\n`+
		`On: `+stamp+`\nResolved an issue\.\nHow nice!$`), got)
}

func Test_Comment_OmitsAuthor_When_NoCurrentUser(t *testing.T) {
	t.Parallel()

	s := newStore(t, "")
	mustAdd(t, s, "test")

	require.NoError(t, s.Comment("a", "This is a comment"))
	require.NoError(t, s.Comment("a", "And another"))

	got, err := s.Details("a")
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^Title: test\nID: a94a8fe5ccb19ba61c4c0873d391e987982fbbd3\n`+
		`Filed On: `+stamp+`\n\n\[comments\]\n\n`+
		`On: `+stamp+`\nThis is a comment\n\n`+
		`On: `+stamp+`\nAnd another$`), got)
}

func Test_Comment_ReturnsUnknownPrefix_When_NoBug(t *testing.T) {
	t.Parallel()

	s := newStore(t, "")

	err := s.Comment("a", "x")
	require.ErrorIs(t, err, bugs.ErrUnknownPrefix)
}

func Test_Comment_ReturnsError_When_AppendFails(t *testing.T) {
	t.Parallel()

	faulty := fs.NewFaulty(fs.NewReal())
	s := newStore(t, "", bugs.WithFS(faulty))
	mustAdd(t, s, "test")

	boom := errors.New("read-only")
	faulty.Fail(fs.OpOpenFile, boom)

	err := s.Comment("a", "lost")
	require.ErrorIs(t, err, boom)
}

func Test_Edit_CreatesTemplate_Then_Launches(t *testing.T) {
	t.Parallel()

	s := newStore(t, "")
	mustAdd(t, s, "test")

	var launched string

	err := s.Edit("a", func(path string) error {
		launched = path

		return os.WriteFile(path, []byte(bugs.DetailsTemplate+"\n\nfound in [main.go]\n"), 0o644)
	})
	require.NoError(t, err)
	assert.Equal(t, s.DetailsPath(testID), launched)

	got, err := s.Details("a")
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`\n\n\[comments\]\n\nfound in \[main\.go\]$`), got)

	// Existing files are not reset.
	err = s.Edit("a", func(path string) error {
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), "found in")

		return nil
	})
	require.NoError(t, err)
}

func Test_Edit_PropagatesLauncherError(t *testing.T) {
	t.Parallel()

	s := newStore(t, "")
	mustAdd(t, s, "test")

	boom := errors.New("editor crashed")

	err := s.Edit("a", func(string) error { return boom })
	require.ErrorIs(t, err, boom)
}

func Test_StripDetails(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"template", bugs.DetailsTemplate, ""},
		{
			"filled section",
			"# note\n[paths]\n\n[details]\nit broke\n\n[expected]\n\n[comments]\n# leave your name",
			"[details]\nit broke\n\n",
		},
		{"no sections", "just text\n# hidden\n", "just text\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, bugs.StripDetails(tc.in))
		})
	}
}
