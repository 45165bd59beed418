// Package security guards output paths built from user-supplied names.
package security

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrPathEscape is returned when a name resolves outside its base directory.
var ErrPathEscape = errors.New("path escapes output directory")

// maxFilename bounds sanitized names.
const maxFilename = 128

// WithinDirectory joins name onto dir and rejects results that leave dir.
// When dir exists on disk, symlinks along the existing part of the joined
// path are resolved before the check, so a link inside dir pointing
// elsewhere is refused too.
func WithinDirectory(dir, name string) (string, error) {
	if name == "" || filepath.IsAbs(name) {
		return "", fmt.Errorf("%w: %q", ErrPathEscape, name)
	}
	joined := filepath.Join(dir, name)
	if !contained(filepath.Clean(dir), joined) {
		return "", fmt.Errorf("%w: %q", ErrPathEscape, name)
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", dir, err)
	}
	realDir, err := filepath.EvalSymlinks(absDir)
	if err != nil {
		// Not on disk yet: the lexical check is all there is to go on.
		return joined, nil
	}
	absPath, err := filepath.Abs(joined)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", joined, err)
	}
	if !contained(realDir, resolveExisting(absPath)) {
		return "", fmt.Errorf("%w: %q resolves outside %s", ErrPathEscape, name, dir)
	}
	return joined, nil
}

// resolveExisting resolves symlinks in the longest existing prefix of p and
// re-appends the rest.
func resolveExisting(p string) string {
	rest := ""
	for cur := p; ; {
		if resolved, err := filepath.EvalSymlinks(cur); err == nil {
			return filepath.Join(resolved, rest)
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			return p
		}
		rest = filepath.Join(filepath.Base(cur), rest)
		cur = parent
	}
}

func contained(base, p string) bool {
	rel, err := filepath.Rel(base, p)
	if err != nil || rel == "." || filepath.IsAbs(rel) {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// SanitizeFilename turns a graph title into a file name stem. Spaces become
// underscores, as does every run of characters outside ASCII letters,
// digits, dot, underscore and dash. Leading and trailing dots and
// underscores are trimmed; an empty result becomes "graph".
func SanitizeFilename(s string) string {
	var b strings.Builder
	lastUnderscore := false
	for _, r := range s {
		if b.Len() >= maxFilename {
			break
		}
		switch {
		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9'), r == '.', r == '-':
			b.WriteRune(r)
			lastUnderscore = false
		default:
			if !lastUnderscore {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}
	}
	out := strings.Trim(b.String(), "._")
	if out == "" {
		return "graph"
	}
	return out
}
