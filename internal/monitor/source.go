package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/load"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/process"
)

const unknown = "unknown"

// systemSource supplies the raw readings behind SysInfo.
type systemSource interface {
	static(ctx context.Context) Static
	memory(ctx context.Context) (MemoryStats, error)
	cpuPercent(ctx context.Context) (float64, error)
	loadAvg(ctx context.Context) (LoadAvg, error)
	pressure() (PSIStats, error)
}

// processSource supplies the raw readings behind ProcessInfo.
type processSource interface {
	rss(ctx context.Context) (uint64, error)
	cpuPercent(ctx context.Context) (float64, error)
}

type hostSource struct {
	psiPath string
}

func (hostSource) static(ctx context.Context) Static {
	st := Static{
		Hostname:  unknown,
		OSName:    unknown,
		OSVersion: unknown,
		Kernel:    unknown,
		Distro:    unknown,
		CPUModel:  unknown,
		Cores:     1,
	}

	if info, err := host.InfoWithContext(ctx); err != nil {
		slog.Debug("host info unavailable", "error", err)
	} else {
		st.Hostname = orUnknown(info.Hostname)
		st.OSName = orUnknown(info.OS)
		st.OSVersion = orUnknown(info.PlatformVersion)
		st.Kernel = orUnknown(info.KernelVersion)
		st.Distro = orUnknown(info.Platform)
		st.BootTime = time.Unix(int64(info.BootTime), 0)
	}

	if n, err := cpu.CountsWithContext(ctx, false); err == nil && n > 0 {
		st.Cores = n
	}
	if infos, err := cpu.InfoWithContext(ctx); err == nil && len(infos) > 0 {
		st.CPUModel = orUnknown(infos[0].ModelName)
	}
	return st
}

func (hostSource) memory(ctx context.Context) (MemoryStats, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return MemoryStats{}, fmt.Errorf("reading virtual memory: %w", err)
	}
	ms := MemoryStats{
		Total:   vm.Total,
		Free:    vm.Free,
		Avail:   vm.Available,
		Buffers: vm.Buffers,
		Cached:  vm.Cached,
	}

	if sw, err := mem.SwapMemoryWithContext(ctx); err != nil {
		slog.Debug("swap info unavailable", "error", err)
	} else {
		ms.SwapTotal = sw.Total
		ms.SwapUsed = sw.Used
	}
	return ms, nil
}

func (hostSource) cpuPercent(ctx context.Context) (float64, error) {
	// interval 0 measures against the previous call
	pct, err := cpu.PercentWithContext(ctx, 0, false)
	if err != nil {
		return 0, fmt.Errorf("reading cpu usage: %w", err)
	}
	if len(pct) == 0 {
		return 0, nil
	}
	return pct[0], nil
}

func (hostSource) loadAvg(ctx context.Context) (LoadAvg, error) {
	avg, err := load.AvgWithContext(ctx)
	if err != nil {
		return LoadAvg{}, fmt.Errorf("reading load average: %w", err)
	}
	return LoadAvg{One: avg.Load1, Five: avg.Load5, Fifteen: avg.Load15}, nil
}

func (s hostSource) pressure() (PSIStats, error) {
	return ReadPSI(s.psiPath)
}

type selfSource struct {
	proc *process.Process
}

func newSelfSource(ctx context.Context) (*selfSource, int, error) {
	pid := os.Getpid()
	p, err := process.NewProcessWithContext(ctx, int32(pid))
	if err != nil {
		return nil, 0, fmt.Errorf("opening process %d: %w", pid, err)
	}
	return &selfSource{proc: p}, pid, nil
}

func (s *selfSource) rss(ctx context.Context) (uint64, error) {
	mi, err := s.proc.MemoryInfoWithContext(ctx)
	if err != nil {
		return 0, fmt.Errorf("reading process memory: %w", err)
	}
	return mi.RSS, nil
}

func (s *selfSource) cpuPercent(ctx context.Context) (float64, error) {
	pct, err := s.proc.PercentWithContext(ctx, 0)
	if err != nil {
		return 0, fmt.Errorf("reading process cpu: %w", err)
	}
	return pct, nil
}

func orUnknown(s string) string {
	if s == "" {
		return unknown
	}
	return s
}
