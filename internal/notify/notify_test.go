package notify

import (
	"bytes"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriter(t *testing.T) {
	var out, logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	w := NewWriter(&out, logger)

	w.Success("Report deleted successfully")
	w.Error("Download URL not available")

	assert.Equal(t, "✔ Report deleted successfully\n✖ Download URL not available\n", out.String())
	assert.Contains(t, logs.String(), "level=error")
}

func TestWriterConcurrentLinesStayWhole(t *testing.T) {
	var out bytes.Buffer
	w := NewWriter(&out, nil)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w.Success("done")
		}()
	}
	wg.Wait()
	assert.Equal(t, 20, bytes.Count(out.Bytes(), []byte("✔ done\n")))
}

func TestRecorder(t *testing.T) {
	var r Recorder
	_, ok := r.Last()
	assert.False(t, ok)

	r.Success("a")
	r.Error("b")
	require.Len(t, r.Entries(), 2)
	last, ok := r.Last()
	require.True(t, ok)
	assert.Equal(t, Entry{Level: LevelError, Message: "b"}, last)
}
