package util

import "strings"

// Key builds a storage key of the form <kind>:<ns>:<key>.
func Key(kind, ns, key string) string {
	var b strings.Builder
	b.Grow(len(kind) + len(ns) + len(key) + 2)
	b.WriteString(kind)
	b.WriteByte(':')
	b.WriteString(ns)
	b.WriteByte(':')
	b.WriteString(key)
	return b.String()
}

// Prefix returns the key prefix shared by every key of kind in ns.
func Prefix(kind, ns string) string { return kind + ":" + ns + ":" }

// EscapeGlob escapes Redis glob metacharacters so s matches literally in SCAN MATCH.
func EscapeGlob(s string) string {
	if !strings.ContainsAny(s, `*?[]\`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 4)
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '*', '?', '[', ']', '\\':
			b.WriteByte('\\')
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
