// Package notes persists spoken notes to a flat append-only text file, one
// timestamped line per note. This is the assistant's only durable state.
package notes

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"
)

const timestampLayout = "2006-01-02 15:04:05"

// Store appends notes to a single file.
type Store struct {
	path string
	now  func() time.Time
}

// NewStore creates a store writing to path.
func NewStore(path string) *Store {
	return &Store{path: path, now: time.Now}
}

// NewStoreWithClock creates a store with a fixed clock for tests.
func NewStoreWithClock(path string, now func() time.Time) *Store {
	return &Store{path: path, now: now}
}

// Append writes one "[timestamp] text" line. Newlines inside the note are
// flattened so the file stays one note per line.
func (s *Store) Append(text string) error {
	text = strings.TrimSpace(strings.ReplaceAll(text, "\n", " "))
	if text == "" {
		return fmt.Errorf("empty note")
	}

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open notes file %s: %w", s.path, err)
	}
	defer f.Close()

	line := fmt.Sprintf("[%s] %s\n", s.now().Format(timestampLayout), text)
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("append note: %w", err)
	}
	return nil
}

// List returns all saved note lines in order. A missing file means no notes.
func (s *Store) List() ([]string, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open notes file %s: %w", s.path, err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read notes file: %w", err)
	}
	return lines, nil
}
