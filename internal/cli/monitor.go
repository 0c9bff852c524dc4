package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/setevik/miniutils/internal/format"
	"github.com/setevik/miniutils/internal/monitor"
)

func newProcCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "proc",
		Short: "Show memory and CPU usage of this process",
		Long: "Show memory and CPU usage of this process. CPU usage is measured " +
			"over --interval, clamped to 200ms-5s.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := configFrom(cmd)
			ctx := cmd.Context()
			p, err := monitor.NewProcessInfo(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return systemError(err)
			}
			p.SetInterval(cfg.Monitor.ProcessInterval.Duration)

			// String refreshes once the interval has passed, so CPU covers it.
			t := time.NewTimer(p.Interval())
			defer t.Stop()
			select {
			case <-ctx.Done():
				return nil
			case <-t.C:
			}
			newPrinter(cmd.OutOrStdout()).line(p.String())
			return nil
		},
	}
	cmd.Flags().Duration("interval", 200*time.Millisecond, "minimum time between refreshes (200ms-5s)")
	bindConfig(cmd, "monitor.process_interval", "interval")
	return cmd
}

func newSysinfoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sysinfo",
		Short: "Print host facts and periodic memory, CPU and load samples",
		Long: "Print static host information followed by one sample line per interval:\n\n" +
			"  <time> | mem: <total> used: <used> avail: <avail> CPU: <cpu> load: <1m> <5m> <15m>\n\n" +
			"--count 0 samples until interrupted.",
		Args: cobra.NoArgs,
		RunE: runSysinfo,
	}
	cmd.Flags().Duration("interval", time.Second, "time between samples")
	cmd.Flags().Int("count", 1, "number of samples; 0 runs until interrupted")
	cmd.Flags().Bool("json", false, "emit static info and samples as JSON lines")
	bindConfig(cmd, "monitor.interval", "interval")
	return cmd
}

func runSysinfo(cmd *cobra.Command, _ []string) error {
	cfg := configFrom(cmd)
	count, _ := cmd.Flags().GetInt("count")
	asJSON, _ := cmd.Flags().GetBool("json")
	if count < 0 {
		return &ExitError{Code: ExitCLIError, Err: fmt.Errorf("--count must not be negative")}
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	si, err := monitor.NewSysInfo(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return systemError(err)
	}

	out := newPrinter(cmd.OutOrStdout())
	enc := json.NewEncoder(cmd.OutOrStdout())
	if asJSON {
		if err := enc.Encode(si.Static); err != nil {
			return systemError(err)
		}
	} else {
		printStatic(out, si.Static)
	}

	n := 0
	for smp := range si.Watch(ctx, cfg.Monitor.Interval.Duration) {
		if asJSON {
			if err := enc.Encode(smp); err != nil {
				return systemError(err)
			}
		} else {
			out.line(smp.Line())
			if smp.Pressure != nil && smp.Pressure.SomeAvg10 > 0 {
				out.warn("  memory pressure: " + smp.Pressure.String())
			}
		}
		n++
		if count > 0 && n >= count {
			break
		}
	}
	return nil
}

func printStatic(out *printer, st monitor.Static) {
	out.title(st.Hostname)
	out.field("os", st.OSName+" "+st.OSVersion)
	out.field("distro", st.Distro)
	out.field("kernel", st.Kernel)
	out.field("cpu", fmt.Sprintf("%s (%d cores, %d usable)", st.CPUModel, st.Cores, monitor.NumCPUs()))
	if !st.BootTime.IsZero() {
		out.field("boot", st.BootTime.Format(time.RFC3339))
	}
}

func newTopCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "top",
		Short: "List processes using the most resident memory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := configFrom(cmd)
			procs, err := monitor.TopMemConsumers(cfg.Monitor.Top)
			if err != nil {
				return systemError(err)
			}
			var total uint64
			for _, p := range procs {
				total += p.RSSBytes
			}
			out := newPrinter(cmd.OutOrStdout())
			out.title(fmt.Sprintf("top %d by RSS", len(procs)))
			fmt.Fprint(cmd.OutOrStdout(), monitor.FormatTopConsumers(procs))
			out.faint("  total " + format.HumanBytes(total))
			return nil
		},
	}
	cmd.Flags().IntP("top", "n", 5, "number of processes to list (0 lists all)")
	bindConfig(cmd, "monitor.top", "top")
	return cmd
}
