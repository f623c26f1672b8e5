package downloader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// SanitizeTitle reduces a media title to a safe filename stem. Characters
// outside the allow-list (letters, digits, space, dot, underscore, hyphen)
// are replaced with underscores.
func SanitizeTitle(title string) string {
	var b strings.Builder
	for _, r := range title {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '.', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	clean := strings.TrimSpace(b.String())
	if clean == "" {
		return "video"
	}
	return clean
}

// UniqueFilename returns filepath itself when nothing exists there, else
// the first "base (n).ext" variant that is free. It never creates files,
// so calling it repeatedly without a write yields the same answer.
func UniqueFilename(path string) string {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return path
	}

	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	for counter := 1; ; counter++ {
		candidate := fmt.Sprintf("%s (%d)%s", base, counter, ext)
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate
		}
	}
}
