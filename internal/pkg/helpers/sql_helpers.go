package helpers

import "strings"

// NullIfEmpty trims s and maps an empty result to nil so the column is
// stored as NULL. A nil input stays nil.
func NullIfEmpty(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
