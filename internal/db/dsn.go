package db

import (
	"os"
	"regexp"
	"strings"
)

var kvPairRegex = regexp.MustCompile(`(?i)\b(host|user|password|dbname|port|sslmode)=`)

// IsSQLite reports whether the DSN targets sqlite rather than postgres.
// Anything that is a bare file path, ":memory:" or a "file:" URI is sqlite.
func IsSQLite(dsn string) bool {
	s := strings.ToLower(strings.TrimSpace(dsn))
	if s == "" {
		return false
	}
	if strings.HasPrefix(s, "postgres://") || strings.HasPrefix(s, "postgresql://") {
		return false
	}
	if kvPairRegex.MatchString(s) {
		return false
	}
	return true
}

// NormalizeDSN accepts either a URL style DSN (postgres://...), a lib/pq
// key=value list, or a sqlite path. It trims quotes and whitespace and, for
// key=value form, ensures sslmode is present (disable by default).
func NormalizeDSN(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.Trim(s, "\"'")
	if s == "" {
		return s
	}
	lower := strings.ToLower(s)
	if strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://") {
		return s
	}
	if !kvPairRegex.MatchString(s) {
		// sqlite path or something the driver will reject with a clear error
		return s
	}
	fields := strings.Fields(s)
	cleaned := strings.Join(fields, " ")
	if !strings.Contains(strings.ToLower(cleaned), "sslmode=") {
		cleaned += " sslmode=disable"
	}
	return cleaned
}

// GetNormalizedDSN fetches the DATABASE_DSN env var and normalizes it.
func GetNormalizedDSN() string { return NormalizeDSN(os.Getenv("DATABASE_DSN")) }
