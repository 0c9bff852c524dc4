// Package format provides shared formatting and parsing utilities for byte
// counts and percentages.
package format

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

const (
	KiB = 1 << (10 * (iota + 1))
	MiB
	GiB
	TiB
	PiB
	EiB
)

var binaryUnits = [...]string{"B", "KiB", "MiB", "GiB", "TiB", "PiB", "EiB"}

// HumanBytes formats a byte count using binary units, e.g. "512B", "1.5KiB",
// "2.0GiB". Counts below 1 KiB are printed as a plain integer; everything else
// gets one decimal digit of the largest unit whose magnitude is at least 1.
func HumanBytes(n uint64) string {
	if n < KiB {
		return strconv.FormatUint(n, 10) + binaryUnits[0]
	}
	div, exp := uint64(KiB), 1
	for q := n / KiB; q >= KiB && exp < len(binaryUnits)-1; q /= KiB {
		div *= KiB
		exp++
	}
	return strconv.FormatFloat(float64(n)/float64(div), 'f', 1, 64) + binaryUnits[exp]
}

var (
	// ErrPrecision is returned by Human for a precision outside 0-3.
	ErrPrecision = errors.New("precision must be in range 0-3")
	// ErrNotNormal is returned by Human for NaN, infinite or subnormal input.
	ErrNotNormal = errors.New("num must be a regular number")
)

var (
	metricLabels     = [...]string{"B", "kB", "MB", "GB", "TB", "PB", "EB", "ZB", "YB"}
	binaryLabels     = [...]string{"B", "KiB", "MiB", "GiB", "TiB", "PiB", "EiB", "ZiB", "YiB"}
	precisionOffsets = [...]float64{0.5, 0.05, 0.005, 0.0005}
)

// smallest positive normal float64
const minNormal = 0x1p-1022

// Human converts num to a string in metric (1000-based) or binary
// (1024-based) units with 0-3 digits after the decimal point, e.g.
// Human(1536, false, 1) == "1.5 KiB". Negative numbers keep their sign.
func Human(num float64, metric bool, precision int) (string, error) {
	if math.IsNaN(num) || math.IsInf(num, 0) || (num != 0 && math.Abs(num) < minNormal) {
		return "", ErrNotNormal
	}
	if precision < 0 || precision >= len(precisionOffsets) {
		return "", ErrPrecision
	}

	labels, step := binaryLabels, 1024.0
	if metric {
		labels, step = metricLabels, 1000.0
	}
	// A unit is only accepted below the value that would round up to a full
	// step, so 1023.96 KiB at precision 1 becomes "1.0 MiB", not "1024.0 KiB".
	thresh := step - precisionOffsets[precision]

	sign := ""
	if num < 0 {
		sign = "-"
		num = -num
	}

	unit := labels[0]
	for i, label := range labels {
		unit = label
		if num < thresh {
			break
		}
		if i < len(labels)-1 {
			num /= step
		}
	}

	return sign + strconv.FormatFloat(num, 'f', precision, 64) + " " + unit, nil
}

// Percent formats v as a percentage with two decimals, e.g. "10.25%".
func Percent(v float64) string {
	return fmt.Sprintf("%.2f%%", v)
}
