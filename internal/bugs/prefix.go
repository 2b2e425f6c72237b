package bugs

// collision marks a prefix shared by two or more ids.
const collision = ":"

// Prefixes maps every id to the shortest prefix that identifies it among ids.
//
// It runs in time linear in the total length of the ids: each id claims the
// first free prefix, and when that prefix is already held by a single other
// id both are walked forward until they diverge, marking the shared prefixes
// as collisions. An id that is wholly a prefix of another keeps the full id
// as its prefix.
//
// The result is only valid for this exact set of ids; recompute it whenever
// the set changes.
func Prefixes(ids []string) map[string]string {
	claims := make(map[string]string, len(ids)*2)

	for _, id := range ids {
		n := len(id)
		if n == 0 {
			continue
		}

		i := 1
		prefix := id[:1]

		for ; i <= n; i++ {
			prefix = id[:i]

			owner, taken := claims[prefix]
			if !taken || (owner != collision && owner != prefix) {
				break
			}
		}

		if i > n {
			i = n
		}

		other, taken := claims[prefix]
		if !taken {
			claims[prefix] = id

			continue
		}

		diverged := false

		for j := i; j <= n; j++ {
			if head(other, j) == id[:j] {
				claims[id[:j]] = collision

				continue
			}

			claims[head(other, j)] = other
			claims[id[:j]] = id
			diverged = true

			break
		}

		if !diverged {
			claims[head(other, n+1)] = other
			claims[id] = id
		}
	}

	out := make(map[string]string, len(ids))

	for prefix, id := range claims {
		if id == collision {
			continue
		}

		if cur, ok := out[id]; ok && len(cur) <= len(prefix) {
			continue
		}

		out[id] = prefix
	}

	return out
}

// head returns the first n bytes of s, or all of s when it is shorter.
func head(s string, n int) string {
	if n >= len(s) {
		return s
	}

	return s[:n]
}
