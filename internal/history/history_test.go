package history

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
)

func TestRecorder_AppendsRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.csv")
	r := NewRecorder(path)

	if err := r.Record(42, "YouTube", "a video", "direct"); err != nil {
		t.Fatal(err)
	}
	if err := r.Record(43, "Instagram", "a post", "local"); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[0][1] != "42" || rows[0][4] != "direct" {
		t.Errorf("first row = %v", rows[0])
	}
	if rows[1][2] != "Instagram" {
		t.Errorf("second row = %v", rows[1])
	}
}

func TestRecorder_EmptyPathIsNoop(t *testing.T) {
	r := NewRecorder("")
	if err := r.Record(1, "YouTube", "t", "local"); err != nil {
		t.Errorf("empty-path recorder should be a no-op, got %v", err)
	}
}
