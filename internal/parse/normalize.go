package parse

import "strings"

// NormalizeID strips leading zeros from a digit identifier so the same entity
// joins across export files regardless of padding. "0000" normalizes to "0",
// never to an empty string. Callers pass digit tokens only.
func NormalizeID(id string) string {
	trimmed := strings.TrimLeft(id, "0")
	if trimmed == "" {
		return "0"
	}
	return trimmed
}
