package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/setevik/miniutils/internal/format"
	"github.com/setevik/miniutils/internal/text"
)

func newBytesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bytes <count>...",
		Short: "Format byte counts with binary units",
		Long: "Format byte counts like 1.5KiB. When metric or precision is set by " +
			"flag, MINIUTILS_FORMAT_* variable or the [format] config section, the " +
			"spaced form is used instead, e.g. \"1.50 kB\".",
		Example: "  miniutils bytes 1536 1048576\n  miniutils bytes --metric --precision 1 1500",
		Args:    cobra.MinimumNArgs(1),
		RunE:    runBytes,
	}
	cmd.Flags().Bool("metric", false, "use 1000-based units (kB, MB, ...)")
	cmd.Flags().Int("precision", 2, "digits after the decimal point (0-3)")
	bindConfig(cmd, "format.metric", "metric")
	bindConfig(cmd, "format.precision", "precision")
	return cmd
}

func runBytes(cmd *cobra.Command, args []string) error {
	cfg := configFrom(cmd)
	out := newPrinter(cmd.OutOrStdout())

	for _, arg := range args {
		n, err := strconv.ParseUint(arg, 10, 64)
		if err != nil {
			return inputError(fmt.Errorf("not a byte count: %q", arg))
		}
		if !cfg.Format.Human {
			out.line(format.HumanBytes(n))
			continue
		}
		s, err := format.Human(float64(n), cfg.Format.Metric, cfg.Format.Precision)
		if err != nil {
			return inputError(err)
		}
		out.line(s)
	}
	return nil
}

func newParseCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "parse <size>...",
		Short:   "Convert sizes like 64k or 1.5GiB to a byte count",
		Example: "  miniutils parse 64k \"5.2 mb\" 1.5GiB",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := newPrinter(cmd.OutOrStdout())
			for _, arg := range args {
				n, err := format.ParseBigBytes(arg)
				if err != nil {
					return inputError(err)
				}
				out.line(n.String())
			}
			return nil
		},
	}
}

func newInjectCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "inject <template> [value...]",
		Short:   "Replace each {} in template with the next value",
		Example: "  miniutils inject \"{} + {} = {}\" 1 2 3",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			values := make([]any, len(args)-1)
			for i, a := range args[1:] {
				values[i] = a
			}
			newPrinter(cmd.OutOrStdout()).line(text.Inject(args[0], values...))
			return nil
		},
	}
}
