package iptools

import (
	"errors"
	"math/big"
	"net/netip"
	"slices"
	"testing"
)

func TestNewIPRange(t *testing.T) {
	tests := []struct {
		beg, end string
		want     error
	}{
		{"10.0.0.1", "10.0.0.5", nil},
		{"10.0.0.1", "10.0.0.1", nil},
		{"10.0.0.5", "10.0.0.1", ErrRangeOrder},
		{"10.0.0.1", "::5", ErrFamilyMismatch},
		{"::5", "10.0.0.1", ErrFamilyMismatch},
	}

	for _, tt := range tests {
		_, err := NewIPRange(netip.MustParseAddr(tt.beg), netip.MustParseAddr(tt.end))
		if !errors.Is(err, tt.want) {
			t.Errorf("NewIPRange(%s, %s) error = %v, want %v", tt.beg, tt.end, err, tt.want)
		}
	}
}

func TestParseIPRange(t *testing.T) {
	r, err := ParseIPRange("10.0.0.1-5")
	if err != nil {
		t.Fatal(err)
	}
	if r.String() != "10.0.0.1-10.0.0.5" {
		t.Errorf("ParseIPRange = %s, want 10.0.0.1-10.0.0.5", r)
	}

	r, err = ParseIPRange("2001:db8::1-ff")
	if err == nil {
		t.Errorf("ParseIPRange(2001:db8::1-ff) = %s, want error for hex short form", r)
	}

	r, err = ParseIPRange("2001:db8::1-255")
	if err != nil {
		t.Fatal(err)
	}
	if want := netip.MustParseAddr("2001:db8::ff"); r.End != want {
		t.Errorf("ParseIPRange end = %s, want %s", r.End, want)
	}
}

func TestIPRangeLen(t *testing.T) {
	tests := []struct {
		beg, end string
		want     string
	}{
		{"10.0.0.1", "10.0.0.5", "5"},
		{"0.0.0.0", "255.255.255.255", "4294967296"},
		{"::", "ffff:ffff:ffff:ffff:ffff:ffff:ffff:ffff", "340282366920938463463374607431768211456"},
		{"::1", "::1", "1"},
	}

	for _, tt := range tests {
		r := IPRange{netip.MustParseAddr(tt.beg), netip.MustParseAddr(tt.end)}
		if got := r.Len().String(); got != tt.want {
			t.Errorf("IPRange{%s, %s}.Len() = %s, want %s", tt.beg, tt.end, got, tt.want)
		}
	}
}

func TestIPRangeAll(t *testing.T) {
	r := IPRange{netip.MustParseAddr("::1"), netip.MustParseAddr("::5")}
	var got []netip.Addr
	for ip := range r.All() {
		got = append(got, ip)
	}
	if want := addrs("::1", "::2", "::3", "::4", "::5"); !slices.Equal(got, want) {
		t.Errorf("All() = %v, want %v", got, want)
	}

	// Iteration stops at the top of the address space.
	top := IPRange{netip.MustParseAddr("255.255.255.254"), netip.MustParseAddr("255.255.255.255")}
	n := 0
	for range top.All() {
		n++
	}
	if n != 2 {
		t.Errorf("All() over top of space yielded %d addresses, want 2", n)
	}

	// Early break.
	n = 0
	for range (IPRange{netip.MustParseAddr("::"), netip.MustParseAddr("::ffff:ffff")}).All() {
		n++
		if n == 3 {
			break
		}
	}
	if n != 3 {
		t.Errorf("break after 3, got %d", n)
	}
}

func TestGenerateIPRange(t *testing.T) {
	got, err := GenerateIPRange(netip.MustParseAddr("10.0.0.1"), netip.MustParseAddr("10.0.0.3"))
	if err != nil {
		t.Fatal(err)
	}
	if want := addrs("10.0.0.1", "10.0.0.2", "10.0.0.3"); !slices.Equal(got, want) {
		t.Errorf("GenerateIPRange = %v, want %v", got, want)
	}

	_, err = GenerateIPRange(netip.MustParseAddr("10.0.0.0"), netip.MustParseAddr("10.1.0.0"))
	if !errors.Is(err, ErrRangeTooLarge) {
		t.Errorf("GenerateIPRange over limit error = %v, want ErrRangeTooLarge", err)
	}

	got, err = GenerateIPRange(netip.MustParseAddr("10.0.0.0"), netip.MustParseAddr("10.0.255.255"))
	if err != nil || len(got) != MaxRangeSize {
		t.Errorf("GenerateIPRange at limit = %d addresses, %v; want %d", len(got), err, MaxRangeSize)
	}
}

func TestPrefixHelpers(t *testing.T) {
	if got := HostPrefix(netip.MustParseAddr("10.0.0.1")).String(); got != "10.0.0.1/32" {
		t.Errorf("HostPrefix v4 = %s", got)
	}
	if got := HostPrefix(netip.MustParseAddr("fe80::1%eth0")).String(); got != "fe80::1/128" {
		t.Errorf("HostPrefix zoned v6 = %s", got)
	}

	tests := []struct {
		prefix string
		want   *big.Int
	}{
		{"10.0.0.0/8", big.NewInt(1 << 24)},
		{"10.0.0.1/32", big.NewInt(1)},
		{"::/64", new(big.Int).Lsh(big.NewInt(1), 64)},
		{"::/0", new(big.Int).Lsh(big.NewInt(1), 128)},
	}
	for _, tt := range tests {
		if got := PrefixLen(netip.MustParsePrefix(tt.prefix)); got.Cmp(tt.want) != 0 {
			t.Errorf("PrefixLen(%s) = %s, want %s", tt.prefix, got, tt.want)
		}
	}

	var got []netip.Addr
	for ip := range PrefixAddrs(netip.MustParsePrefix("192.168.1.2/30")) {
		got = append(got, ip)
	}
	if want := addrs("192.168.1.0", "192.168.1.1", "192.168.1.2", "192.168.1.3"); !slices.Equal(got, want) {
		t.Errorf("PrefixAddrs = %v, want %v", got, want)
	}
}

func TestPrefixRange(t *testing.T) {
	tests := []struct {
		prefix string
		want   string
	}{
		{"10.1.2.3/24", "10.1.2.0-10.1.2.255"},
		{"10.0.0.1/32", "10.0.0.1-10.0.0.1"},
		{"2001:db8::/126", "2001:db8::-2001:db8::3"},
	}
	for _, tt := range tests {
		if got := PrefixRange(netip.MustParsePrefix(tt.prefix)).String(); got != tt.want {
			t.Errorf("PrefixRange(%s) = %s, want %s", tt.prefix, got, tt.want)
		}
	}
}
