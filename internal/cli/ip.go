package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/setevik/miniutils/internal/iptools"
)

func newIPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ip",
		Short: "Expand and collapse IP addresses, ranges and CIDR prefixes",
	}
	cmd.AddCommand(newIPExpandCmd())
	cmd.AddCommand(newIPCollapseCmd())
	return cmd
}

func newIPExpandCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "expand <ip|cidr|range>...",
		Short: "Print every address in each argument",
		Long: "Print every address named by an IP, a CIDR prefix or a range " +
			"(10.0.0.1-10 or 10.0.0.1-10.0.0.10). IPv4 prefixes shorter than /31 " +
			"omit network and broadcast addresses.",
		Example: "  miniutils ip expand 192.168.1.0/30 10.0.0.1-5",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := newPrinter(cmd.OutOrStdout())
			for _, arg := range args {
				addrs, err := iptools.ParseIPOrRange(arg)
				if err != nil {
					return inputError(err)
				}
				for _, ip := range addrs {
					out.line(ip)
				}
			}
			return nil
		},
	}
}

func newIPCollapseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "collapse <ip|cidr|range>...",
		Short: "Print the minimal set of CIDR prefixes covering the arguments",
		Long: "Merge addresses, prefixes and ranges into the fewest CIDR prefixes. " +
			"With --max-gap N, blocks separated by at most N addresses are merged " +
			"as well, which may cover addresses not given.",
		Example: "  miniutils ip collapse 192.168.0.0/24 192.168.1.0/24\n" +
			"  miniutils ip collapse --max-gap 2 172.16.0.8 172.16.0.11 172.16.0.15",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := configFrom(cmd)
			ranges := make([]iptools.IPRange, 0, len(args))
			for _, arg := range args {
				r, err := parseCollapseArg(arg)
				if err != nil {
					return inputError(err)
				}
				ranges = append(ranges, r)
			}

			prefixes, err := iptools.CollapseRangesFuzzy(ranges, cfg.IP.MaxGap)
			if err != nil {
				return inputError(err)
			}
			out := newPrinter(cmd.OutOrStdout())
			for _, p := range prefixes {
				out.line(p)
			}
			return nil
		},
	}
	cmd.Flags().Uint64("max-gap", 0, "merge blocks separated by at most this many addresses")
	bindConfig(cmd, "ip.max_gap", "max-gap")
	return cmd
}

func parseCollapseArg(s string) (iptools.IPRange, error) {
	if strings.Contains(s, "-") {
		return iptools.ParseIPRange(s)
	}
	p, err := iptools.ParseCIDR(s)
	if err != nil {
		return iptools.IPRange{}, err
	}
	return iptools.PrefixRange(p), nil
}
