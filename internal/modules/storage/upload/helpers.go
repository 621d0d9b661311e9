package upload

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

const maxNameLen = 100

// buildFileName prefixes the sanitized client name with a random id so
// concurrent uploads of the same file never collide.
func buildFileName(original string) string {
	ext := strings.ToLower(filepath.Ext(original))
	name := sanitizeName(original)
	if !strings.HasSuffix(strings.ToLower(name), ext) || name == ext {
		name = "upload" + ext
	}
	return uuid.NewString() + "_" + name
}

// sanitizeName keeps the base name only, maps spaces to underscores and drops
// every character that is not alphanumeric, '-', '_' or '.'.
func sanitizeName(raw string) string {
	base := filepath.Base(strings.ReplaceAll(strings.TrimSpace(raw), "\\", "/"))
	var b strings.Builder
	for _, r := range base {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' || r == '.':
			b.WriteRune(r)
		case r == ' ':
			b.WriteByte('_')
		}
	}
	name := strings.TrimLeft(b.String(), "._")
	if len(name) > maxNameLen {
		ext := filepath.Ext(name)
		name = name[:maxNameLen-len(ext)] + ext
	}
	return name
}

// Sweep removes files in dir older than maxAge. Uploads are deleted as soon
// as they are read, so anything left behind belongs to a crashed request.
func Sweep(dir string, maxAge time.Duration, now time.Time) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("read upload dir: %w", err)
	}

	cutoff := now.Add(-maxAge)
	removed := 0
	for _, ent := range entries {
		if ent.IsDir() {
			continue
		}
		info, err := ent.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(dir, ent.Name())); err == nil {
			removed++
		}
	}
	return removed, nil
}
