package monitor

import (
	"cmp"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/setevik/miniutils/internal/format"
)

// ProcMem represents a process's memory usage from /proc/[pid]/statm.
type ProcMem struct {
	PID      int    `json:"pid"`
	Name     string `json:"name"`
	RSSBytes uint64 `json:"rss_bytes"` // resident set size in bytes
}

// TopMemConsumers reads /proc/*/statm and returns the top n processes by RSS.
// n <= 0 returns all of them.
func TopMemConsumers(n int) ([]ProcMem, error) {
	return topMemConsumers("/proc", n)
}

func topMemConsumers(procRoot string, n int) ([]ProcMem, error) {
	entries, err := os.ReadDir(procRoot)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", procRoot, err)
	}

	pageSize := uint64(os.Getpagesize())
	var procs []ProcMem

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		pid, err := strconv.Atoi(entry.Name())
		if err != nil {
			continue // not a PID directory
		}

		rssPages, err := readStatmRSS(filepath.Join(procRoot, entry.Name(), "statm"))
		if err != nil {
			continue // process may have exited
		}

		procs = append(procs, ProcMem{
			PID:      pid,
			Name:     readCommName(filepath.Join(procRoot, entry.Name(), "comm")),
			RSSBytes: rssPages * pageSize,
		})
	}

	slices.SortFunc(procs, func(a, b ProcMem) int {
		if c := cmp.Compare(b.RSSBytes, a.RSSBytes); c != 0 {
			return c
		}
		return cmp.Compare(a.PID, b.PID)
	})

	if n > 0 && len(procs) > n {
		procs = procs[:n]
	}
	return procs, nil
}

// readStatmRSS reads the RSS field (second field) from /proc/[pid]/statm.
// The value is in pages.
func readStatmRSS(path string) (uint64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	fields := strings.Fields(string(data))
	if len(fields) < 2 {
		return 0, fmt.Errorf("unexpected statm format in %s", path)
	}
	return strconv.ParseUint(fields[1], 10, 64)
}

// readCommName reads the process name from /proc/[pid]/comm.
func readCommName(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return "?"
	}
	return strings.TrimSpace(string(data))
}

// FormatTopConsumers formats a list of ProcMem as numbered lines.
func FormatTopConsumers(consumers []ProcMem) string {
	var b strings.Builder
	for i, p := range consumers {
		fmt.Fprintf(&b, "  %d. %-20s %7d %s\n", i+1, p.Name, p.PID, format.HumanBytes(p.RSSBytes))
	}
	return b.String()
}
