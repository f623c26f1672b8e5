// Package history appends delivered downloads to the configured CSV file.
package history

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"
)

// Recorder appends one row per delivered item. Append failures are the
// caller's to log; history is never worth failing a delivery over.
type Recorder struct {
	mu   sync.Mutex
	path string
}

func NewRecorder(path string) *Recorder {
	return &Recorder{path: path}
}

// Record appends a delivery row: timestamp, user, platform, title, mode.
// Mode is "direct" or "local".
func (r *Recorder) Record(userID int64, platform, title, mode string) error {
	if r == nil || r.path == "" {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	f, err := os.OpenFile(r.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open history file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{
		time.Now().Format(time.RFC3339),
		strconv.FormatInt(userID, 10),
		platform,
		title,
		mode,
	}); err != nil {
		return fmt.Errorf("failed to append history row: %w", err)
	}
	w.Flush()
	return w.Error()
}
