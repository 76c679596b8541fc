package record

import (
	"path/filepath"
	"strings"
)

// isURL reports whether s is a non-file reference that must pass through
// path normalization unchanged.
func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") ||
		strings.HasPrefix(s, "https://") ||
		strings.HasPrefix(s, "data:")
}

// MakeRelative rewrites an absolute path under baseDir to a base-relative
// one, so stored references survive the document directory moving between
// app restarts. URLs and paths outside baseDir are returned unchanged.
func MakeRelative(p, baseDir string) string {
	if p == "" || isURL(p) {
		return p
	}
	prefix := strings.TrimSuffix(baseDir, string(filepath.Separator)) + string(filepath.Separator)
	if strings.HasPrefix(p, prefix) {
		return strings.TrimPrefix(p, prefix)
	}
	return p
}

// MakeAbsolute is the inverse of MakeRelative: relative paths are joined
// onto baseDir, URLs and already-absolute paths pass through.
func MakeAbsolute(p, baseDir string) string {
	if p == "" || isURL(p) || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(baseDir, p)
}
