package roster

import (
	"crypto/sha256"
	"fmt"
	"strings"
)

// FileName derives the output file name for a group: the readable identity
// fields sanitized for the filesystem, plus a short hash over the full
// identity tuple so distinct groups cannot collide after sanitization.
// Deterministic and stable across runs.
func FileName(key GroupKey) string {
	tuple := strings.Join([]string{
		key.Market, key.Submarket, key.Entity, key.Pod, key.Provider, key.NPI,
	}, "\x1f")
	sum := sha256.Sum256([]byte(tuple))
	return fmt.Sprintf("%s_%s_%s_%x.pdf",
		sanitize(key.Market), sanitize(key.Pod), sanitize(key.Provider), sum[:4])
}

// sanitize keeps letters, digits, '.', '_' and '-'; everything else,
// spaces included, becomes '-'. Empty fields become "unknown".
func sanitize(s string) string {
	if strings.TrimSpace(s) == "" {
		return "unknown"
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '.', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteRune('-')
		}
	}
	return b.String()
}
