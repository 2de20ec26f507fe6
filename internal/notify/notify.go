// Package notify delivers short success and error notifications.
package notify

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
)

// Level is the kind of notification.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notifier shows notifications to the user.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// Writer prints notifications as single lines. Writes are serialized so
// notifications from concurrent actions do not interleave.
type Writer struct {
	mu     sync.Mutex
	out    io.Writer
	logger *slog.Logger
}

// NewWriter returns a notifier printing to out. A nil logger disables
// logging of notifications.
func NewWriter(out io.Writer, logger *slog.Logger) *Writer {
	return &Writer{out: out, logger: logger}
}

func (w *Writer) Success(msg string) {
	w.write(LevelSuccess, "✔", msg)
}

func (w *Writer) Error(msg string) {
	w.write(LevelError, "✖", msg)
}

func (w *Writer) write(level Level, mark, msg string) {
	w.mu.Lock()
	fmt.Fprintf(w.out, "%s %s\n", mark, msg)
	w.mu.Unlock()

	if w.logger != nil {
		w.logger.Debug("notification", "level", string(level), "message", msg)
	}
}

// Entry is one recorded notification.
type Entry struct {
	Level   Level
	Message string
}

// Recorder keeps notifications in memory.
type Recorder struct {
	mu      sync.Mutex
	entries []Entry
}

func (r *Recorder) Success(msg string) { r.add(LevelSuccess, msg) }

func (r *Recorder) Error(msg string) { r.add(LevelError, msg) }

func (r *Recorder) add(level Level, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, Entry{Level: level, Message: msg})
}

// Entries returns a copy of the recorded notifications.
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Entry(nil), r.entries...)
}

// Last returns the most recent notification.
func (r *Recorder) Last() (Entry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.entries) == 0 {
		return Entry{}, false
	}
	return r.entries[len(r.entries)-1], true
}
