// Package cli implements the miniutils command tree.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/setevik/miniutils/internal/config"
	"github.com/setevik/miniutils/internal/text"
)

// Process exit codes.
const (
	ExitOK          = 0
	ExitCLIError    = 1
	ExitInputError  = 2
	ExitSystemError = 3
)

// ExitError wraps an error with a process exit code.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error { return e.Err }

func inputError(err error) error  { return &ExitError{Code: ExitInputError, Err: err} }
func systemError(err error) error { return &ExitError{Code: ExitSystemError, Err: err} }

var version = "dev"

// Annotations starting with flagKeyPrefix map a config key to the flag that
// overrides it, e.g. "config:monitor.top" -> "top".
const flagKeyPrefix = "config:"

type ctxKey struct{}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:               "miniutils",
		Short:             "Small utilities: byte sizes, system info, IP ranges, paths",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: loadConfig,
	}

	root.PersistentFlags().String("config", "", "config file (default "+config.DefaultPath()+")")
	root.PersistentFlags().String("log-level", "", "log level: debug|info|warn|error")

	root.AddCommand(newBytesCmd())
	root.AddCommand(newParseCmd())
	root.AddCommand(newInjectCmd())
	root.AddCommand(newProcCmd())
	root.AddCommand(newSysinfoCmd())
	root.AddCommand(newTopCmd())
	root.AddCommand(newIPCmd())
	root.AddCommand(newPathCmd())
	root.AddCommand(newVersionCmd())

	return root
}

// bindConfig records that flag overrides the config key on cmd.
func bindConfig(cmd *cobra.Command, key, flag string) {
	if cmd.Annotations == nil {
		cmd.Annotations = map[string]string{}
	}
	cmd.Annotations[flagKeyPrefix+key] = flag
}

// loadConfig resolves file, environment and flag settings, installs the
// logger and stores the result on the command context.
func loadConfig(cmd *cobra.Command, _ []string) error {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return &ExitError{Code: ExitCLIError, Err: err}
	}

	v := config.Env()
	if err := v.BindPFlag("log.level", cmd.Flags().Lookup("log-level")); err != nil {
		return &ExitError{Code: ExitCLIError, Err: err}
	}
	for k, flag := range cmd.Annotations {
		key, ok := strings.CutPrefix(k, flagKeyPrefix)
		if !ok {
			continue
		}
		f := cmd.Flags().Lookup(flag)
		if f == nil {
			return &ExitError{Code: ExitCLIError, Err: fmt.Errorf("flag --%s not defined for %s", flag, cmd.Name())}
		}
		if err := v.BindPFlag(key, f); err != nil {
			return &ExitError{Code: ExitCLIError, Err: err}
		}
	}
	if err := cfg.Overlay(v); err != nil {
		return &ExitError{Code: ExitCLIError, Err: err}
	}

	setupLogging(cfg.Log.Level)
	slog.Debug("configuration loaded", "command", cmd.CommandPath(), "config", text.Debug(*cfg))

	cmd.SetContext(context.WithValue(cmd.Context(), ctxKey{}, cfg))
	return nil
}

func configFrom(cmd *cobra.Command) *config.Config {
	if cfg, ok := cmd.Context().Value(ctxKey{}).(*config.Config); ok {
		return cfg
	}
	return config.Default()
}

func setupLogging(level string) {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
}

// Execute runs the CLI with the provided context.
func Execute(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}
