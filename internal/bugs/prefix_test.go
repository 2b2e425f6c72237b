package bugs_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/calvinalkan/agent-bugs/internal/bugs"
)

func Test_Prefixes_Returns_ShortestUniquePrefix_When_IDsShareLeadingBytes(t *testing.T) {
	t.Parallel()

	ids := []string{"a", "abb", "bbb", "bbbb", "cdef", "cghi", "defg", "defh", "e123456789"}

	want := map[string]string{
		"a":          "a",
		"abb":        "ab",
		"bbb":        "bbb",
		"bbbb":       "bbbb",
		"cdef":       "cd",
		"cghi":       "cg",
		"defg":       "defg",
		"defh":       "defh",
		"e123456789": "e",
	}

	if diff := cmp.Diff(want, bugs.Prefixes(ids)); diff != "" {
		t.Fatalf("prefixes mismatch (-want +got):\n%s", diff)
	}
}

func Test_Prefixes_Returns_Empty_When_NoIDs(t *testing.T) {
	t.Parallel()

	got := bugs.Prefixes(nil)
	if len(got) != 0 {
		t.Fatalf("expected no prefixes, got %v", got)
	}
}

func Test_Prefixes_DoesNotDependOn_InputOrder(t *testing.T) {
	t.Parallel()

	ids := []string{
		"a94a8fe5ccb19ba61c4c0873d391e987982fbbd3",
		"afc8edc74ae9e7b8d290f945a6d613f1d264a2b2",
		"a7d14baf30ed1bbb37e083945f337a9e349d051e",
		"fb2f85c88567f3c8ce9b799c7c54642d0c7b41f6",
		"f1f187ada8ccc8ef1534ddb3c5af06590fd3e62f",
	}

	forward := bugs.Prefixes(ids)

	reversed := make([]string, len(ids))
	for i, id := range ids {
		reversed[len(ids)-1-i] = id
	}

	if diff := cmp.Diff(forward, bugs.Prefixes(reversed)); diff != "" {
		t.Fatalf("order changed prefixes (-forward +reversed):\n%s", diff)
	}

	want := map[string]string{
		ids[0]: "a9",
		ids[1]: "af",
		ids[2]: "a7",
		ids[3]: "fb",
		ids[4]: "f1",
	}

	if diff := cmp.Diff(want, forward); diff != "" {
		t.Fatalf("prefixes mismatch (-want +got):\n%s", diff)
	}
}

// Every prefix must select exactly its own id, and dropping its last byte
// must stop it from doing so.
func Test_Prefixes_AreUniqueAndMinimal(t *testing.T) {
	t.Parallel()

	ids := []string{
		"391d68d5787f3fe64188dc696aea72ff887456f6",
		"8502eb522dc56c5b77fd0ed7f52c3688204f8d2b",
		"71941bfa1af54362a084e886bc521fd617e141fc",
		"9939b05dd1a3763f5f856e065d277190d648994f",
		"c9180895fd83fb91b09d055291413714f68eaedf",
		"ce91fd20f393d261ea86e97fa26c273d02d43b4b",
		"bd0579dcfc535f166e923da1262a47dec907608c",
		"4f308097f8cc3401681cc2ae78156748f5b692fe",
	}

	prefixes := bugs.Prefixes(ids)
	if len(prefixes) != len(ids) {
		t.Fatalf("expected %d prefixes, got %d", len(ids), len(prefixes))
	}

	matches := func(prefix string) int {
		n := 0

		for _, id := range ids {
			if strings.HasPrefix(id, prefix) {
				n++
			}
		}

		return n
	}

	for _, id := range ids {
		prefix := prefixes[id]

		if !strings.HasPrefix(id, prefix) {
			t.Fatalf("%q is not a prefix of %q", prefix, id)
		}

		if n := matches(prefix); n != 1 {
			t.Fatalf("prefix %q of %q matches %d ids", prefix, id, n)
		}

		if len(prefix) > 1 && matches(prefix[:len(prefix)-1]) == 1 {
			t.Fatalf("prefix %q of %q is not minimal", prefix, id)
		}
	}
}
