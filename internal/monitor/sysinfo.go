package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/setevik/miniutils/internal/format"
)

// MinInterval is the shortest time between two system samples.
const MinInterval = 200 * time.Millisecond

// Static is system information that does not change while running.
type Static struct {
	Hostname  string    `json:"hostname"`
	OSName    string    `json:"os_name"`
	OSVersion string    `json:"os_version"`
	Kernel    string    `json:"kernel"`
	Distro    string    `json:"distro"`
	CPUModel  string    `json:"cpu_model"`
	BootTime  time.Time `json:"boot_time"`
	Cores     int       `json:"cores"` // physical, at least 1
}

// MemoryStats is a memory reading in bytes.
type MemoryStats struct {
	Total     uint64 `json:"total"`
	Free      uint64 `json:"free"`
	Avail     uint64 `json:"avail"`
	Buffers   uint64 `json:"buffers"`
	Cached    uint64 `json:"cached"`
	SwapTotal uint64 `json:"swap_total"`
	SwapUsed  uint64 `json:"swap_used"`
}

// Used is Total minus Avail.
func (m MemoryStats) Used() uint64 {
	if m.Avail > m.Total {
		return 0
	}
	return m.Total - m.Avail
}

// LoadAvg holds the 1, 5 and 15 minute load averages.
type LoadAvg struct {
	One     float64 `json:"one"`
	Five    float64 `json:"five"`
	Fifteen float64 `json:"fifteen"`
}

// Sample is one reading of the dynamic system state.
type Sample struct {
	ID       uuid.UUID   `json:"id"`
	When     time.Time   `json:"when"`
	Mem      MemoryStats `json:"mem"`
	CPU      float64     `json:"cpu"`
	Load     LoadAvg     `json:"load"`
	Pressure *PSIStats   `json:"pressure,omitempty"`
}

// Line renders the sample as
//
//	<ts> | mem: 1 GiB used: 200 MiB avail: 800 MiB CPU: 5.55% load: 0.30 0.20 0.10
func (s Sample) Line() string {
	return fmt.Sprintf("%s | mem: %s used: %s avail: %s CPU: %s load: %.2f %.2f %.2f",
		s.When.Format(time.RFC3339),
		humanSize(s.Mem.Total),
		humanSize(s.Mem.Used()),
		humanSize(s.Mem.Avail),
		format.Percent(s.CPU),
		s.Load.One, s.Load.Five, s.Load.Fifteen,
	)
}

// SysInfo reports memory, CPU and load for the whole system. Readings are
// refreshed lazily, at most once per MinInterval. It is safe for concurrent
// use.
type SysInfo struct {
	Static Static

	src systemSource
	now func() time.Time

	mu     sync.RWMutex
	latest Sample
}

// NewSysInfo collects static host information and takes the first sample.
// It waits MinInterval between priming and sampling the CPU counters so the
// first CPU reading is meaningful.
func NewSysInfo(ctx context.Context) (*SysInfo, error) {
	return newSysInfo(ctx, hostSource{psiPath: DefaultPSIPath}, time.Now, MinInterval)
}

func newSysInfo(ctx context.Context, src systemSource, now func() time.Time, warmup time.Duration) (*SysInfo, error) {
	s := &SysInfo{
		Static: src.static(ctx),
		src:    src,
		now:    now,
	}

	if _, err := src.cpuPercent(ctx); err != nil {
		return nil, err
	}
	if err := sleep(ctx, warmup); err != nil {
		return nil, err
	}

	smp, err := s.collect(ctx)
	if err != nil {
		return nil, err
	}
	s.latest = smp
	return s, nil
}

func (s *SysInfo) collect(ctx context.Context) (Sample, error) {
	ms, err := s.src.memory(ctx)
	if err != nil {
		return Sample{}, err
	}
	cpuPct, err := s.src.cpuPercent(ctx)
	if err != nil {
		return Sample{}, err
	}
	smp := Sample{
		ID:  uuid.New(),
		Mem: ms,
		CPU: cpuPct,
	}

	if la, err := s.src.loadAvg(ctx); err != nil {
		slog.Debug("load average unavailable", "error", err)
	} else {
		smp.Load = la
	}
	if psi, err := s.src.pressure(); err == nil {
		smp.Pressure = &psi
	}

	smp.When = s.now()
	return smp, nil
}

// refresh replaces the latest sample if it is older than MinInterval. On
// failure the previous sample is kept.
func (s *SysInfo) refresh() {
	s.mu.RLock()
	fresh := s.now().Sub(s.latest.When) < MinInterval
	s.mu.RUnlock()
	if fresh {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.now().Sub(s.latest.When) < MinInterval {
		return
	}
	smp, err := s.collect(context.Background())
	if err != nil {
		slog.Warn("refreshing system info", "error", err)
		return
	}
	s.latest = smp
}

// Sample returns the latest reading, refreshing it first if stale.
func (s *SysInfo) Sample() Sample {
	s.refresh()
	s.mu.RLock()
	defer s.mu.RUnlock()
	smp := s.latest
	if smp.Pressure != nil {
		p := *smp.Pressure
		smp.Pressure = &p
	}
	return smp
}

// Mem returns total memory in bytes.
func (s *SysInfo) Mem() uint64 { return s.Sample().Mem.Total }

// MemUsed returns total minus available memory in bytes.
func (s *SysInfo) MemUsed() uint64 { return s.Sample().Mem.Used() }

// MemAvail returns available memory in bytes.
func (s *SysInfo) MemAvail() uint64 { return s.Sample().Mem.Avail }

// MemFree returns free memory in bytes.
func (s *SysInfo) MemFree() uint64 { return s.Sample().Mem.Free }

// CPU returns global CPU usage as a percentage.
func (s *SysInfo) CPU() float64 { return s.Sample().CPU }

// Load returns the 1, 5 and 15 minute load averages.
func (s *SysInfo) Load() LoadAvg { return s.Sample().Load }

// MemString returns Mem formatted like "1.20 GiB".
func (s *SysInfo) MemString() string { return humanSize(s.Mem()) }

// MemUsedString returns MemUsed formatted like MemString.
func (s *SysInfo) MemUsedString() string { return humanSize(s.MemUsed()) }

// MemAvailString returns MemAvail formatted like MemString.
func (s *SysInfo) MemAvailString() string { return humanSize(s.MemAvail()) }

// MemFreeString returns MemFree formatted like MemString.
func (s *SysInfo) MemFreeString() string { return humanSize(s.MemFree()) }

// CPUString returns CPU formatted like "10.25%".
func (s *SysInfo) CPUString() string { return format.Percent(s.CPU()) }

// Line renders the latest sample; see Sample.Line.
func (s *SysInfo) Line() string {
	return s.Sample().Line()
}

// Print writes Line to stderr.
func (s *SysInfo) Print() {
	fmt.Fprintln(os.Stderr, s.Line())
}

// Watch samples the system every interval (never faster than MinInterval)
// and sends each sample on the returned channel, starting with one taken
// immediately. The channel is closed once ctx is done.
func (s *SysInfo) Watch(ctx context.Context, every time.Duration) <-chan Sample {
	if every < MinInterval {
		every = MinInterval
	}
	ch := make(chan Sample, 1)

	go func() {
		defer close(ch)

		ticker := time.NewTicker(every)
		defer ticker.Stop()

		for {
			select {
			case ch <- s.Sample():
			case <-ctx.Done():
				return
			}

			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()

	return ch
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// NumCPUs returns the number of CPUs usable by this process, at least 1.
func NumCPUs() int {
	return max(runtime.NumCPU(), 1)
}

func humanSize(n uint64) string {
	s, err := format.Human(float64(n), false, 2)
	if err != nil {
		return "0.0"
	}
	return s
}
