package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCommands(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"bytes", []string{"bytes", "1536", "0", "1048576"}, "1.5KiB\n0B\n1.0MiB\n"},
		{"bytes metric", []string{"bytes", "--metric", "--precision", "1", "1500"}, "1.5 kB\n"},
		{"bytes precision", []string{"bytes", "--precision", "2", "1536"}, "1.50 KiB\n"},
		{"parse", []string{"parse", "64k", "5 MiB", "100"}, "65536\n5242880\n100\n"},
		{"parse beyond uint64", []string{"parse", "1 yottabyte"}, "1208925819614629174706176\n"},
		{"inject", []string{"inject", "{} + {} = {}", "1", "2", "3"}, "1 + 2 = 3\n"},
		{"inject leftovers", []string{"inject", "a{}", "1", "2"}, "a12\n"},
		{"ip expand range", []string{"ip", "expand", "10.0.0.1-3"}, "10.0.0.1\n10.0.0.2\n10.0.0.3\n"},
		{"ip expand prefix", []string{"ip", "expand", "192.168.1.0/30"}, "192.168.1.1\n192.168.1.2\n"},
		{"ip collapse", []string{"ip", "collapse", "192.168.0.0/24", "192.168.1.0/24"}, "192.168.0.0/23\n"},
		{"ip collapse range", []string{"ip", "collapse", "10.0.0.0-10.0.0.255", "10.0.1.0"}, "10.0.0.0/24\n10.0.1.0/32\n"},
		{"ip collapse exact", []string{"ip", "collapse", "10.0.0.0", "10.0.0.2"}, "10.0.0.0/32\n10.0.0.2/32\n"},
		{"ip collapse gap", []string{"ip", "collapse", "--max-gap", "1", "10.0.0.0", "10.0.0.2"}, "10.0.0.0/31\n10.0.0.2/32\n"},
		{"path normalize", []string{"path", "normalize", "/a/b/../c/./d"}, "/a/c/d\n"},
		{"path normalize strict", []string{"path", "normalize", "--strict", "logs/*.log"}, "logs/.log\n"},
		{"version", []string{"version"}, "miniutils dev\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := run(t, tt.args...)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("output = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExitCodes(t *testing.T) {
	badConfig := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(badConfig, []byte("[format]\nprecision = 9\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		args []string
		want int
	}{
		{"not a number", []string{"bytes", "12x"}, ExitInputError},
		{"bad size", []string{"parse", "lots"}, ExitInputError},
		{"bad address", []string{"ip", "expand", "bogus"}, ExitInputError},
		{"range too large", []string{"ip", "expand", "10.0.0.0/8"}, ExitInputError},
		{"bad collapse arg", []string{"ip", "collapse", "10.0.0.300"}, ExitInputError},
		{"missing dir", []string{"path", "check", filepath.Join(t.TempDir(), "nope")}, ExitInputError},
		{"bad config", []string{"--config", badConfig, "version"}, ExitCLIError},
		{"bad log level", []string{"--log-level", "loud", "version"}, ExitCLIError},
		{"negative count", []string{"sysinfo", "--count", "-1"}, ExitCLIError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			var ee *ExitError
			if !errors.As(err, &ee) {
				t.Fatalf("error = %v, want *ExitError", err)
			}
			if ee.Code != tt.want {
				t.Errorf("exit code = %d, want %d (%v)", ee.Code, tt.want, ee.Err)
			}
		})
	}
}

func TestEnvOverridesConfig(t *testing.T) {
	t.Setenv("MINIUTILS_FORMAT_METRIC", "true")

	got, err := run(t, "bytes", "--precision", "1", "1500")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "1.5 kB\n" {
		t.Errorf("output = %q, want %q", got, "1.5 kB\n")
	}
}

func TestEnvSelectsHumanForm(t *testing.T) {
	t.Setenv("MINIUTILS_FORMAT_METRIC", "true")

	got, err := run(t, "bytes", "1500")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "1.50 kB\n" {
		t.Errorf("output = %q, want %q", got, "1.50 kB\n")
	}
}

func TestConfigFileSelectsHumanForm(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[format]\nmetric = true\nprecision = 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := run(t, "--config", path, "bytes", "1500")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "1.5 kB\n" {
		t.Errorf("output = %q, want %q", got, "1.5 kB\n")
	}
}

func TestConfigFileMaxGap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[ip]\nmax_gap = 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := run(t, "--config", path, "ip", "collapse", "10.0.0.0", "10.0.0.2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "10.0.0.0/31\n10.0.0.2/32\n" {
		t.Errorf("output = %q", got)
	}
}

func TestPathCheck(t *testing.T) {
	dir := t.TempDir()
	want, err := filepath.EvalSymlinks(dir)
	if err != nil {
		t.Fatal(err)
	}

	got, err := run(t, "path", "check", dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	first, _, _ := strings.Cut(got, "\n")
	if first != want {
		t.Errorf("first line = %q, want %q", first, want)
	}
}

func TestProc(t *testing.T) {
	got, err := run(t, "proc", "--interval", "200ms")
	if err != nil {
		t.Skipf("process info unavailable: %v", err)
	}
	if !strings.HasPrefix(got, "pid: ") || !strings.Contains(got, " CPU: ") {
		t.Errorf("output = %q, want a pid/mem/CPU line", got)
	}
}

func TestPrinterField(t *testing.T) {
	var buf bytes.Buffer
	p := newPrinter(&buf)
	p.field("cores", 8)
	p.title("host")
	if got, want := buf.String(), "cores:     8\nhost\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}
