package queue

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"restly/internal/command"
)

func newTestQueue(t *testing.T) (*Queue, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "queue.jsonl")
	return New(path, zerolog.Nop()), path
}

func drainAll(t *testing.T, q *Queue) ([]command.Command, int) {
	t.Helper()
	var got []command.Command
	n, err := q.Drain(func(c command.Command) { got = append(got, c) })
	if err != nil {
		t.Fatalf("Drain: %v", err)
	}
	return got, n
}

func TestDrainAbsentFile(t *testing.T) {
	q, _ := newTestQueue(t)
	got, n := drainAll(t, q)
	if n != 0 || len(got) != 0 {
		t.Fatalf("absent file: dispatched %d commands, count %d", len(got), n)
	}
}

func TestDrainDispatchesInFileOrder(t *testing.T) {
	q, path := newTestQueue(t)
	data := `{"command":"toggle_pause"}
{"command":"reschedule_break","delay_minutes":10}

{"command":"set_session","duration_minutes":30,"type":"deep_work"}
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	got, n := drainAll(t, q)
	if n != 3 {
		t.Fatalf("processed = %d, want 3", n)
	}
	wantKinds := []command.Kind{command.KindTogglePause, command.KindRescheduleBreak, command.KindSetSession}
	for i, k := range wantKinds {
		if got[i].Kind != k {
			t.Errorf("command %d kind = %s, want %s", i, got[i].Kind, k)
		}
	}

	// truncation invariant: the file is empty after a productive drain
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("queue file should still exist: %v", err)
	}
	if len(raw) != 0 {
		t.Errorf("queue file not empty after drain: %q", raw)
	}
}

func TestDrainAllUnknownLeavesFileUntouched(t *testing.T) {
	q, path := newTestQueue(t)
	data := "not json\n{\"command\":\"make_coffee\"}\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	got, n := drainAll(t, q)
	if n != 0 || len(got) != 0 {
		t.Fatalf("unknown-only drain dispatched %d, count %d", len(got), n)
	}

	raw, _ := os.ReadFile(path)
	if string(raw) != data {
		t.Errorf("file changed after zero-command drain: %q", raw)
	}
}

func TestDrainMixedBatchDiscardsUnknownLines(t *testing.T) {
	q, path := newTestQueue(t)
	data := "garbage line\n{\"command\":\"toggle_pause\"}\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	_, n := drainAll(t, q)
	if n != 1 {
		t.Fatalf("processed = %d, want 1", n)
	}
	raw, _ := os.ReadFile(path)
	if len(raw) != 0 {
		t.Errorf("mixed batch should clear the whole file, got %q", raw)
	}
}

func TestDrainKeepsWriterAppendHandleLive(t *testing.T) {
	q, path := newTestQueue(t)

	// the controller holds one append handle across many drains
	w, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if _, err := w.WriteString("{\"command\":\"toggle_pause\"}\n"); err != nil {
		t.Fatal(err)
	}
	_, n := drainAll(t, q)
	if n != 1 {
		t.Fatalf("first drain processed = %d, want 1", n)
	}

	if _, err := w.WriteString("{\"command\":\"summarize_day\"}\n"); err != nil {
		t.Fatal(err)
	}
	got, n := drainAll(t, q)
	if n != 1 {
		t.Fatalf("second drain processed = %d, want 1", n)
	}
	if got[0].Kind != command.KindSummarizeDay {
		t.Errorf("second drain kind = %s, want summarize_day", got[0].Kind)
	}
}

func TestDrainPreservesLinesAppendedMidDrain(t *testing.T) {
	q, path := newTestQueue(t)
	if err := os.WriteFile(path, []byte("{\"command\":\"toggle_pause\"}\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	// appending from the dispatch callback lands after the read but before
	// the reset
	appended := false
	n, err := q.Drain(func(command.Command) {
		if appended {
			return
		}
		appended = true
		w, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			t.Fatal(err)
		}
		defer w.Close()
		if _, err := w.WriteString("{\"command\":\"summarize_day\"}\n"); err != nil {
			t.Fatal(err)
		}
	})
	if err != nil {
		t.Fatalf("Drain: %v", err)
	}
	if n != 1 {
		t.Fatalf("first drain processed = %d, want 1", n)
	}

	got, n := drainAll(t, q)
	if n != 1 {
		t.Fatalf("tail drain processed = %d, want 1", n)
	}
	if got[0].Kind != command.KindSummarizeDay {
		t.Errorf("tail drain kind = %s, want summarize_day", got[0].Kind)
	}
	raw, _ := os.ReadFile(path)
	if len(raw) != 0 {
		t.Errorf("queue file not empty after tail drain: %q", raw)
	}
}

func TestDrainEmptyFileIsNoOp(t *testing.T) {
	q, path := newTestQueue(t)
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	_, n := drainAll(t, q)
	if n != 0 {
		t.Fatalf("processed = %d, want 0", n)
	}
}
