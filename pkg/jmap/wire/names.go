package wire

import "strings"

// WireKey converts a snake_case field name to its camelCase wire key.
// Leading and trailing underscores are stripped first, so names like
// "from_" that dodge reserved words project to their real key.
func WireKey(name string) string {
	name = strings.Trim(name, "_")
	if name == "" {
		return ""
	}
	parts := strings.Split(name, "_")
	var b strings.Builder
	b.Grow(len(name))
	first := true
	for _, part := range parts {
		if part == "" {
			continue
		}
		if first {
			b.WriteString(strings.ToLower(part[:1]))
			b.WriteString(part[1:])
			first = false
			continue
		}
		b.WriteString(strings.ToUpper(part[:1]))
		b.WriteString(part[1:])
	}
	return b.String()
}
