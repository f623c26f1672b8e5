package downloader

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSanitizeTitle(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Plain Title", "Plain Title"},
		{"a/b\\c:d", "a_b_c_d"},
		{"dots.and-dashes_ok", "dots.and-dashes_ok"},
		{"emoji 🎬 title", "emoji _ title"},
		{"", "video"},
		{"///", "___"},
	}

	for _, tt := range tests {
		if got := SanitizeTitle(tt.in); got != tt.want {
			t.Errorf("SanitizeTitle(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestUniqueFilename_Idempotent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "video.mp4")

	first := UniqueFilename(path)
	second := UniqueFilename(path)
	if first != path || second != path {
		t.Errorf("UniqueFilename without collision = %q, %q, want %q both times", first, second, path)
	}
}

func TestUniqueFilename_Counter(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "video.mp4")

	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	want := filepath.Join(dir, "video (1).mp4")
	if got := UniqueFilename(path); got != want {
		t.Errorf("UniqueFilename after collision = %q, want %q", got, want)
	}

	if err := os.WriteFile(want, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	want2 := filepath.Join(dir, "video (2).mp4")
	if got := UniqueFilename(path); got != want2 {
		t.Errorf("UniqueFilename after second collision = %q, want %q", got, want2)
	}
}
