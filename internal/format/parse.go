package format

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"sort"
	"strconv"
	"strings"
)

var (
	// ErrSyntax indicates a size string that could not be parsed.
	ErrSyntax = errors.New("invalid size")
	// ErrOverflow indicates a size that does not fit in a uint64.
	ErrOverflow = errors.New("size too large to fit in a uint64")
)

type sizeSuffix struct {
	name  string
	shift uint
}

// sizeSuffixes is ordered longest first so "megabyte" is tried before "e".
var sizeSuffixes = func() []sizeSuffix {
	groups := [][]string{
		{"k", "kb", "kib", "kilobyte"},
		{"m", "mb", "mib", "megabyte"},
		{"g", "gb", "gib", "gigabyte"},
		{"t", "tb", "tib", "terabyte"},
		{"p", "pb", "pib", "petabyte"},
		{"e", "eb", "eib", "exabyte"},
		{"z", "zb", "zib", "zetabyte", "zettabyte"},
		{"y", "yb", "yib", "yottabyte"},
	}
	var out []sizeSuffix
	for i, names := range groups {
		for _, name := range names {
			out = append(out, sizeSuffix{name: name, shift: uint(10 * (i + 1))})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return len(out[i].name) > len(out[j].name)
	})
	return out
}()

// ParseBigBytes converts a size string such as "64k", "5.2 MB",
// "1 yottabyte" or "100 bytes" to a byte count. Suffixes are 1024-based and
// case-insensitive, a trailing plural "s" is ignored. A number with a unit
// suffix may be fractional and is truncated to whole bytes; a bare number or
// one ending in "b"/"byte" must be an unsigned integer.
func ParseBigBytes(s string) (*big.Int, error) {
	norm := strings.TrimRight(strings.ToLower(strings.TrimSpace(s)), "s")

	for _, suf := range sizeSuffixes {
		if !strings.HasSuffix(norm, suf.name) {
			continue
		}
		num, ok := parseSizeNumber(strings.TrimSuffix(norm, suf.name))
		if !ok {
			continue
		}
		f := new(big.Float).SetFloat64(num)
		f.SetMantExp(f, int(suf.shift))
		n, _ := f.Int(nil)
		return n, nil
	}

	switch {
	case strings.HasSuffix(norm, "byte"):
		norm = strings.TrimSuffix(norm, "byte")
	case strings.HasSuffix(norm, "b"):
		norm = strings.TrimSuffix(norm, "b")
	}
	norm = strings.TrimSpace(norm)
	if norm == "" || strings.IndexFunc(norm, func(r rune) bool { return r < '0' || r > '9' }) >= 0 {
		return nil, fmt.Errorf("%w: %q", ErrSyntax, s)
	}
	n, ok := new(big.Int).SetString(norm, 10)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrSyntax, s)
	}
	return n, nil
}

// ParseBytes is ParseBigBytes restricted to the uint64 range.
func ParseBytes(s string) (uint64, error) {
	n, err := ParseBigBytes(s)
	if err != nil {
		return 0, err
	}
	if !n.IsUint64() {
		return 0, fmt.Errorf("%w: %q", ErrOverflow, s)
	}
	return n.Uint64(), nil
}

func parseSizeNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	// ParseFloat also takes digit separators and hex floats
	if s == "" || strings.ContainsAny(s, "_xX") {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
