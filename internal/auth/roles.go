package auth

import "strings"

// DefaultRolePrefix is the canonical authority marker used when matching
// roles against framework-level granted authorities.
const DefaultRolePrefix = "ROLE_"

// Normalize produces the canonical prefixed form of a requested role:
// trimmed, upper-cased, and carrying the prefix exactly once. It is
// idempotent.
func Normalize(role, prefix string) string {
	r := strings.ToUpper(strings.TrimSpace(role))
	if !strings.HasPrefix(r, prefix) {
		r = prefix + r
	}
	return r
}

// Strip returns the unprefixed persisted form of a normalized role.
func Strip(role, prefix string) string {
	return strings.TrimPrefix(role, prefix)
}

// IsAvailable reports whether the requested role is available to the caller.
// The check is deliberately tri-form to tolerate inconsistent historical
// prefixing: the available list may carry the prefixed form, the raw
// requested form, or the prefix-stripped form. Do not collapse this into a
// single canonical comparison; stores in the wild hold all three shapes.
func IsAvailable(requested string, available []string, prefix string) bool {
	prefixed := Normalize(requested, prefix)
	stripped := Strip(prefixed, prefix)

	for _, have := range available {
		if strings.EqualFold(have, prefixed) {
			return true
		}
		if strings.EqualFold(have, requested) {
			return true
		}
		if strings.EqualFold(have, stripped) {
			return true
		}
	}
	return false
}

// PrefixAll returns a copy of roles with every entry in normalized prefixed
// form, for embedding into sessions and token claims.
func PrefixAll(roles []string, prefix string) []string {
	out := make([]string, 0, len(roles))
	for _, r := range roles {
		out = append(out, Normalize(r, prefix))
	}
	return out
}
