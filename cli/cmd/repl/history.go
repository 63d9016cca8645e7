package repl

import (
	"bufio"
	"errors"
	"io/fs"
	"os"
	"slices"
	"strings"
	"sync"
)

const baseHistory = "history.utf8"

// HistoryEntry is a single submitted line and the mode it was entered in.
type HistoryEntry struct {
	Line string
	Mode inputMode
}

// prefix returns the marker recording the entry's mode in the history file.
func (e HistoryEntry) prefix() string {
	if e.Mode == modeCtrl {
		return "C:"
	}

	return "E:"
}

func (e HistoryEntry) String() string { return e.prefix() + e.Line }

func parseHistoryEntry(line string) HistoryEntry {
	if s, ok := strings.CutPrefix(line, "C:"); ok {
		return HistoryEntry{Line: s, Mode: modeCtrl}
	}

	s, _ := strings.CutPrefix(line, "E:")

	return HistoryEntry{Line: s, Mode: modeEval}
}

// History is the line history of a REPL session persisted to a file. An
// empty path keeps the history in memory only.
type History struct {
	path    string
	entries []HistoryEntry
	mu      sync.RWMutex
}

// NewHistory returns a History backed by the file at path.
func NewHistory(path string) *History {
	return &History{path: path}
}

// Load replaces the entries with the content of the history file. A
// missing file is an empty history.
func (h *History) Load() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.entries = nil

	if h.path == "" {
		return nil
	}

	file, err := os.Open(h.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			h.entries = append(h.entries, parseHistoryEntry(line))
		}
	}

	return scanner.Err()
}

// Add appends line to the history. An earlier identical entry of the same
// mode is moved to the end rather than duplicated.
func (h *History) Add(line string, mode inputMode) error {
	entry := HistoryEntry{Line: strings.TrimSpace(line), Mode: mode}
	if entry.Line == "" {
		return nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if n := len(h.entries); n > 0 && h.entries[n-1] == entry {
		return nil
	}

	if i := slices.Index(h.entries, entry); i >= 0 {
		h.entries = slices.Delete(h.entries, i, i+1)
		h.entries = append(h.entries, entry)

		return h.rewrite()
	}

	h.entries = append(h.entries, entry)

	return h.append(entry)
}

// Entry returns the entry at index i, oldest first.
func (h *History) Entry(i int) (HistoryEntry, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if i < 0 || i >= len(h.entries) {
		return HistoryEntry{}, ErrOutOfBounds
	}

	return h.entries[i], nil
}

// Len returns the number of entries.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.entries)
}

// Entries returns a copy of all entries, oldest first.
func (h *History) Entries() []HistoryEntry {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return slices.Clone(h.entries)
}

// append writes one entry to the end of the file. h.mu must be held.
func (h *History) append(entry HistoryEntry) error {
	if h.path == "" {
		return nil
	}

	file, err := os.OpenFile(h.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	defer file.Close()

	_, err = file.WriteString(entry.String() + "\n")

	return err
}

// rewrite replaces the file with the current entries. h.mu must be held.
func (h *History) rewrite() error {
	if h.path == "" {
		return nil
	}

	var sb strings.Builder
	for _, e := range h.entries {
		sb.WriteString(e.String() + "\n")
	}

	return os.WriteFile(h.path, []byte(sb.String()), 0o600)
}
