package notes

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func fixedClock() time.Time {
	return time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
}

func TestAppend_TimestampedLine(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "notes.txt")
	store := NewStoreWithClock(path, fixedClock)

	if err := store.Append("buy milk"); err != nil {
		t.Fatalf("Append: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read notes file: %v", err)
	}
	want := "[2025-03-14 09:26:53] buy milk\n"
	if string(data) != want {
		t.Errorf("file = %q, want %q", data, want)
	}
}

func TestAppend_IsAppendOnly(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "notes.txt")
	store := NewStoreWithClock(path, fixedClock)

	for _, note := range []string{"first", "second", "third"} {
		if err := store.Append(note); err != nil {
			t.Fatalf("Append(%q): %v", note, err)
		}
	}

	lines, err := store.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3: %v", len(lines), lines)
	}
	if lines[0] != "[2025-03-14 09:26:53] first" || lines[2] != "[2025-03-14 09:26:53] third" {
		t.Errorf("notes out of order: %v", lines)
	}
}

func TestAppend_FlattensNewlines(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "notes.txt")
	store := NewStoreWithClock(path, fixedClock)

	if err := store.Append("line one\nline two"); err != nil {
		t.Fatalf("Append: %v", err)
	}
	lines, err := store.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(lines) != 1 {
		t.Fatalf("multi-line note split into %d entries: %v", len(lines), lines)
	}
}

func TestAppend_RejectsEmpty(t *testing.T) {
	t.Parallel()

	store := NewStore(filepath.Join(t.TempDir(), "notes.txt"))
	if err := store.Append("   \n  "); err == nil {
		t.Fatal("expected error for whitespace-only note")
	}
}

func TestList_MissingFile(t *testing.T) {
	t.Parallel()

	store := NewStore(filepath.Join(t.TempDir(), "absent.txt"))
	lines, err := store.List()
	if err != nil {
		t.Fatalf("List on missing file: %v", err)
	}
	if lines != nil {
		t.Errorf("expected no notes, got %v", lines)
	}
}
