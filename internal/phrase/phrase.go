package phrase

import "strings"

const (
	Placeholder = "-"
	ellipsis    = " ..."
)

// Shorten trims s to at most max runes for confirmation prompts, cutting at
// the last word boundary and appending " ...". An empty or blank s renders
// as Placeholder.
func Shorten(s string, max int) string {
	if strings.TrimSpace(s) == "" {
		return Placeholder
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	keep := max - len(ellipsis)
	if keep <= 0 {
		return strings.TrimSpace(ellipsis)
	}
	cut := string(runes[:keep])
	if i := strings.LastIndex(cut, " "); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ") + ellipsis
}
