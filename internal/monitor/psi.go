// Package monitor samples process and system resource usage: memory, CPU,
// load averages and memory pressure.
package monitor

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// DefaultPSIPath is where Linux exposes memory pressure stall information.
const DefaultPSIPath = "/proc/pressure/memory"

// PSIStats holds parsed /proc/pressure/memory values.
type PSIStats struct {
	SomeAvg10  float64 `json:"some_avg10"`
	SomeAvg60  float64 `json:"some_avg60"`
	SomeAvg300 float64 `json:"some_avg300"`
	FullAvg10  float64 `json:"full_avg10"`
	FullAvg60  float64 `json:"full_avg60"`
	FullAvg300 float64 `json:"full_avg300"`
}

func (s PSIStats) String() string {
	return fmt.Sprintf("some %.2f %.2f %.2f full %.2f %.2f %.2f",
		s.SomeAvg10, s.SomeAvg60, s.SomeAvg300, s.FullAvg10, s.FullAvg60, s.FullAvg300)
}

// ReadPSI parses /proc/pressure/memory (or a test file at the given path).
// Format:
//
//	some avg10=0.00 avg60=0.00 avg300=0.00 total=0
//	full avg10=0.00 avg60=0.00 avg300=0.00 total=0
func ReadPSI(path string) (PSIStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return PSIStats{}, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var stats PSIStats
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		kind, rest, ok := strings.Cut(scanner.Text(), " ")
		if !ok {
			continue
		}
		switch kind {
		case "some":
			stats.SomeAvg10, stats.SomeAvg60, stats.SomeAvg300 = parsePSILine(rest)
		case "full":
			stats.FullAvg10, stats.FullAvg60, stats.FullAvg300 = parsePSILine(rest)
		}
	}
	return stats, scanner.Err()
}

// parsePSILine parses the averages out of "avg10=2.10 avg60=0.50 avg300=0.10 total=123456".
// A leading "some" or "full" is ignored.
func parsePSILine(line string) (avg10, avg60, avg300 float64) {
	for _, f := range strings.Fields(line) {
		key, raw, ok := strings.Cut(f, "=")
		if !ok {
			continue
		}
		val, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			continue
		}
		switch key {
		case "avg10":
			avg10 = val
		case "avg60":
			avg60 = val
		case "avg300":
			avg300 = val
		}
	}
	return
}
