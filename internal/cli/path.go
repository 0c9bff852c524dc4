package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/setevik/miniutils/internal/fsutil"
	"github.com/setevik/miniutils/internal/monitor"
)

func newPathCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "path",
		Short: "Sanitize and check filesystem paths",
	}
	cmd.AddCommand(newPathNormalizeCmd())
	cmd.AddCommand(newPathCheckCmd())
	return cmd
}

func newPathNormalizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "normalize <path>...",
		Short: "Strip control characters and resolve . and .. without touching the filesystem",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			strict, _ := cmd.Flags().GetBool("strict")
			out := newPrinter(cmd.OutOrStdout())
			for _, arg := range args {
				out.line(fsutil.NormalizePath(arg, strict))
			}
			return nil
		},
	}
	cmd.Flags().Bool("strict", false, "also strip shell metacharacters")
	return cmd
}

func newPathCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <dir>",
		Short: "Verify a directory exists and is readable, and show its filesystem usage",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := fsutil.CheckReadableDir(args[0])
			if err != nil {
				return inputError(err)
			}
			out := newPrinter(cmd.OutOrStdout())
			out.line(dir)

			du, err := monitor.DiskUsage(cmd.Context(), dir)
			if err != nil {
				slog.Warn("disk usage unavailable", "path", dir, "error", err)
				return nil
			}
			out.faint("  " + du.String())
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			newPrinter(cmd.OutOrStdout()).line("miniutils", version)
			return nil
		},
	}
}
