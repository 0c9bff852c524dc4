package monitor

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/setevik/miniutils/internal/format"
)

func TestTopMemConsumers(t *testing.T) {
	// Create a fake /proc tree.
	procRoot := t.TempDir()

	// Create two fake processes.
	makeFakeProc(t, procRoot, "100", "firefox", "10000 5000 300 0 0 0 0")
	makeFakeProc(t, procRoot, "200", "electron", "20000 8000 500 0 0 0 0")
	makeFakeProc(t, procRoot, "300", "bash", "5000 1000 100 0 0 0 0")

	procs, err := topMemConsumers(procRoot, 2)
	if err != nil {
		t.Fatalf("topMemConsumers: %v", err)
	}

	if len(procs) != 2 {
		t.Fatalf("got %d procs, want 2", len(procs))
	}

	// First should be electron (highest RSS).
	if procs[0].Name != "electron" {
		t.Errorf("top process = %q, want electron", procs[0].Name)
	}
	if procs[0].PID != 200 {
		t.Errorf("top PID = %d, want 200", procs[0].PID)
	}

	// Second should be firefox.
	if procs[1].Name != "firefox" {
		t.Errorf("second process = %q, want firefox", procs[1].Name)
	}

	// RSS should be in bytes (pages * page_size).
	pageSize := uint64(os.Getpagesize())
	if procs[0].RSSBytes != 8000*pageSize {
		t.Errorf("electron RSS = %d, want %d", procs[0].RSSBytes, 8000*pageSize)
	}
}

func TestTopMemConsumersAll(t *testing.T) {
	procRoot := t.TempDir()
	makeFakeProc(t, procRoot, "10", "a", "100 50 0 0 0 0 0")
	makeFakeProc(t, procRoot, "11", "b", "100 50 0 0 0 0 0")
	makeFakeProc(t, procRoot, "12", "c", "garbage")
	if err := os.MkdirAll(filepath.Join(procRoot, "self"), 0o755); err != nil {
		t.Fatal(err)
	}

	procs, err := topMemConsumers(procRoot, 0)
	if err != nil {
		t.Fatalf("topMemConsumers: %v", err)
	}
	if len(procs) != 2 {
		t.Fatalf("got %d procs, want 2 (bad statm and non-PID dirs skipped)", len(procs))
	}
	// Equal RSS falls back to PID order.
	if procs[0].PID != 10 || procs[1].PID != 11 {
		t.Errorf("order = %d, %d; want 10, 11", procs[0].PID, procs[1].PID)
	}
}

func TestTopMemConsumersMissingRoot(t *testing.T) {
	if _, err := topMemConsumers(filepath.Join(t.TempDir(), "nope"), 5); err == nil {
		t.Fatal("expected error for missing proc root")
	}
}

func TestFormatTopConsumers(t *testing.T) {
	consumers := []ProcMem{
		{PID: 100, Name: "firefox", RSSBytes: 3 * format.GiB},
		{PID: 200, Name: "electron", RSSBytes: 512 * format.MiB},
	}

	out := FormatTopConsumers(consumers)
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2: %q", len(lines), out)
	}
	if !strings.HasPrefix(lines[0], "  1. firefox") || !strings.HasSuffix(lines[0], " 3.0GiB") {
		t.Errorf("line 1 = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "  2. electron") || !strings.HasSuffix(lines[1], " 512.0MiB") {
		t.Errorf("line 2 = %q", lines[1])
	}
	if FormatTopConsumers(nil) != "" {
		t.Error("FormatTopConsumers(nil) should be empty")
	}
}

func makeFakeProc(t *testing.T, root, pid, name, statm string) {
	t.Helper()
	dir := filepath.Join(root, pid)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "comm"), []byte(name+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "statm"), []byte(statm), 0o644); err != nil {
		t.Fatal(err)
	}
}

