package monitor

import (
	"context"
	"fmt"

	"github.com/shirou/gopsutil/v4/disk"
)

// DiskStats describes the filesystem holding a path.
type DiskStats struct {
	Path        string  `json:"path"`
	Fstype      string  `json:"fstype"`
	Total       uint64  `json:"total"`
	Free        uint64  `json:"free"`
	Used        uint64  `json:"used"`
	UsedPercent float64 `json:"used_percent"`
}

// DiskUsage reports capacity and usage of the filesystem containing path.
func DiskUsage(ctx context.Context, path string) (DiskStats, error) {
	u, err := disk.UsageWithContext(ctx, path)
	if err != nil {
		return DiskStats{}, fmt.Errorf("disk usage for %s: %w", path, err)
	}
	return DiskStats{
		Path:        u.Path,
		Fstype:      u.Fstype,
		Total:       u.Total,
		Free:        u.Free,
		Used:        u.Used,
		UsedPercent: u.UsedPercent,
	}, nil
}

func (d DiskStats) String() string {
	return fmt.Sprintf("%s (%s): %s free of %s, %.1f%% used",
		d.Path, d.Fstype, humanSize(d.Free), humanSize(d.Total), d.UsedPercent)
}
