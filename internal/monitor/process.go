package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/setevik/miniutils/internal/format"
)

// Bounds for the ProcessInfo refresh interval.
const (
	MinProcessInterval = 200 * time.Millisecond
	MaxProcessInterval = 5000 * time.Millisecond
)

// ProcessInfo tracks memory and CPU usage of the current process. Readings
// are refreshed lazily, at most once per interval.
type ProcessInfo struct {
	PID int

	src processSource
	now func() time.Time

	mu       sync.RWMutex
	mem      uint64
	cpu      float64
	updated  time.Time
	interval time.Duration
}

// NewProcessInfo returns a ProcessInfo for the running process. Like
// NewSysInfo it primes the CPU counters and waits MinProcessInterval before
// the first reading, so the initial CPU value is a real measurement.
func NewProcessInfo(ctx context.Context) (*ProcessInfo, error) {
	src, pid, err := newSelfSource(ctx)
	if err != nil {
		return nil, err
	}
	return newProcessInfo(ctx, pid, src, time.Now, MinProcessInterval)
}

func newProcessInfo(ctx context.Context, pid int, src processSource, now func() time.Time, warmup time.Duration) (*ProcessInfo, error) {
	p := &ProcessInfo{
		PID:      pid,
		src:      src,
		now:      now,
		interval: MinProcessInterval,
	}

	if _, err := src.cpuPercent(ctx); err != nil {
		slog.Debug("priming process cpu", "pid", pid, "error", err)
	}
	if err := sleep(ctx, warmup); err != nil {
		return nil, err
	}

	p.mu.Lock()
	p.update()
	p.mu.Unlock()
	return p, nil
}

// SetInterval sets the minimum time between refreshes, clamped to
// [MinProcessInterval, MaxProcessInterval].
func (p *ProcessInfo) SetInterval(d time.Duration) {
	p.mu.Lock()
	p.interval = min(max(d, MinProcessInterval), MaxProcessInterval)
	p.mu.Unlock()
}

// Interval returns the minimum time between refreshes.
func (p *ProcessInfo) Interval() time.Duration {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.interval
}

// WithMinInterval calls SetInterval and returns p for chaining.
func (p *ProcessInfo) WithMinInterval(d time.Duration) *ProcessInfo {
	p.SetInterval(d)
	return p
}

// update must be called with p.mu held for writing.
func (p *ProcessInfo) update() {
	ctx := context.Background()
	if rss, err := p.src.rss(ctx); err != nil {
		slog.Debug("process memory unavailable", "pid", p.PID, "error", err)
		p.mem = 0
	} else {
		p.mem = rss
	}
	if pct, err := p.src.cpuPercent(ctx); err != nil {
		slog.Debug("process cpu unavailable", "pid", p.PID, "error", err)
		p.cpu = 0
	} else {
		p.cpu = pct
	}
	p.updated = p.now()
}

func (p *ProcessInfo) refresh() {
	p.mu.RLock()
	fresh := p.now().Sub(p.updated) < p.interval
	p.mu.RUnlock()
	if fresh {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.now().Sub(p.updated) < p.interval {
		return
	}
	p.update()
}

// Mem returns the resident memory of the process in bytes.
func (p *ProcessInfo) Mem() uint64 {
	p.refresh()
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.mem
}

// CPU returns the CPU usage of the process as a percentage of one core.
func (p *ProcessInfo) CPU() float64 {
	p.refresh()
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.cpu
}

// MemString returns Mem formatted like "1.20 GiB".
func (p *ProcessInfo) MemString() string {
	return humanSize(p.Mem())
}

// CPUString returns CPU formatted like "10.25%".
func (p *ProcessInfo) CPUString() string {
	return format.Percent(p.CPU())
}

// String renders "pid: 123 mem: 10.00 MiB CPU: 5.55%".
func (p *ProcessInfo) String() string {
	return fmt.Sprintf("pid: %d mem: %s CPU: %s", p.PID, p.MemString(), p.CPUString())
}

// Print writes String to stderr.
func (p *ProcessInfo) Print() {
	fmt.Fprintln(os.Stderr, p.String())
}
