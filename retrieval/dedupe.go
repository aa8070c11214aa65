package retrieval

// Dedupe drops items whose first n runes of body text repeat an earlier
// item's. Survivors keep their order. A non-positive n uses DefaultPrefixRunes.
func Dedupe[T any](items []T, n int, body func(T) string) []T {
	if n <= 0 {
		n = DefaultPrefixRunes
	}
	seen := make(map[string]struct{}, len(items))
	out := make([]T, 0, len(items))
	for _, item := range items {
		fp := fingerprint(body(item), n)
		if _, dup := seen[fp]; dup {
			continue
		}
		seen[fp] = struct{}{}
		out = append(out, item)
	}
	return out
}

func fingerprint(text string, n int) string {
	count := 0
	for i := range text {
		if count == n {
			return text[:i]
		}
		count++
	}
	return text
}
