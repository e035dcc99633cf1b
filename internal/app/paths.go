package app

import (
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const (
	outputPrefix = "FYP_Recommendation_"
	maxIDLen     = 64
)

// SanitizeUserID keeps letters, digits, '-' and '_' so the id is safe inside
// a file name. Runs of anything else collapse to one '_'.
func SanitizeUserID(id string) string {
	var b strings.Builder
	lastSep := false
	for _, r := range strings.TrimSpace(id) {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
			lastSep = false
		default:
			if !lastSep {
				b.WriteByte('_')
				lastSep = true
			}
		}
	}
	out := strings.Trim(b.String(), "_")
	if len(out) > maxIDLen {
		out = out[:maxIDLen]
	}
	return out
}

// ResolveUserID returns the sanitized id, or a random UUID when nothing
// usable remains.
func ResolveUserID(id string) string {
	if s := SanitizeUserID(id); s != "" {
		return s
	}
	return uuid.NewString()
}

// OutputPath is where the PDF for userID is written inside dir.
func OutputPath(dir, userID string) string {
	return filepath.Join(dir, outputPrefix+userID+".pdf")
}
