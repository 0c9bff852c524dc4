package iptools

import (
	"fmt"
	"math/big"
	"net/netip"
	"strconv"
	"strings"
)

// ParseIPOrRange expands s into the individual addresses it names.
//
// Supported forms:
//
//	10.10.10.1                single address
//	10.10.10.0/28             CIDR prefix
//	10.10.10.1-10             short range, last octet (or hextet for IPv6)
//	10.10.10.1-10.10.10.10    full range
//
// For IPv4 prefixes shorter than /31 the network and broadcast addresses are
// left out. IPv6 prefixes expand to every address. Anything that would
// produce more than MaxRangeSize addresses is refused.
func ParseIPOrRange(s string) ([]netip.Addr, error) {
	s = strings.TrimSpace(s)

	if ip, err := netip.ParseAddr(s); err == nil {
		return []netip.Addr{ip}, nil
	}

	if p, err := netip.ParsePrefix(s); err == nil {
		return prefixHosts(p)
	}

	if strings.Contains(s, "-") {
		r, err := ParseIPRange(s)
		if err != nil {
			return nil, err
		}
		return GenerateIPRange(r.Beg, r.End)
	}

	return nil, fmt.Errorf("%w: %q", ErrInvalid, s)
}

func prefixHosts(p netip.Prefix) ([]netip.Addr, error) {
	p = p.Masked()
	n := PrefixLen(p)
	if n.Cmp(big.NewInt(MaxRangeSize)) > 0 {
		return nil, fmt.Errorf("%w: %s addresses (max %d)", ErrRangeTooLarge, n, MaxRangeSize)
	}

	addrs := make([]netip.Addr, 0, n.Int64())
	for ip := range PrefixAddrs(p) {
		addrs = append(addrs, ip)
	}
	if p.Addr().Is4() && p.Bits() < 31 {
		addrs = addrs[1 : len(addrs)-1]
	}
	return addrs, nil
}

// ParseIPRange parses "beg-end" where end is either a full address or, in
// short form, the value of the last octet (IPv4) or hextet (IPv6) of beg.
func ParseIPRange(s string) (IPRange, error) {
	parts := strings.Split(s, "-")
	if len(parts) != 2 {
		return IPRange{}, fmt.Errorf("%w: %q", ErrRangeFormat, s)
	}
	begStr := strings.TrimSpace(parts[0])
	endStr := strings.TrimSpace(parts[1])

	beg, err := netip.ParseAddr(begStr)
	if err != nil {
		return IPRange{}, fmt.Errorf("%w: %q: %v", ErrRangeStart, begStr, err)
	}

	var end netip.Addr
	if strings.ContainsAny(endStr, ".:") {
		end, err = netip.ParseAddr(endStr)
		if err != nil {
			return IPRange{}, fmt.Errorf("%w: %q: %v", ErrRangeEnd, endStr, err)
		}
	} else {
		end, err = shortRangeEnd(beg, endStr)
		if err != nil {
			return IPRange{}, err
		}
	}

	return NewIPRange(beg, end)
}

func shortRangeEnd(beg netip.Addr, s string) (netip.Addr, error) {
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return netip.Addr{}, fmt.Errorf("%w: %q: %v", ErrRangeEndValue, s, err)
	}

	if beg.Is4() {
		if v > 255 {
			return netip.Addr{}, fmt.Errorf("%w, got %d", ErrOctet, v)
		}
		b := beg.As4()
		b[3] = byte(v)
		return netip.AddrFrom4(b), nil
	}

	if v > 65535 {
		return netip.Addr{}, fmt.Errorf("%w, got %d", ErrHextet, v)
	}
	b := beg.As16()
	b[14] = byte(v >> 8)
	b[15] = byte(v)
	return netip.AddrFrom16(b).WithZone(beg.Zone()), nil
}

// ParseCIDR parses a prefix in CIDR notation. A bare address is accepted and
// becomes a host prefix (/32 or /128). Host bits are kept as given.
func ParseCIDR(s string) (netip.Prefix, error) {
	s = strings.TrimSpace(s)
	if !strings.Contains(s, "/") {
		ip, err := netip.ParseAddr(s)
		if err != nil {
			return netip.Prefix{}, fmt.Errorf("%w: %q", ErrInvalid, s)
		}
		return HostPrefix(ip), nil
	}

	addrStr, bitsStr, _ := strings.Cut(s, "/")
	if strings.Contains(bitsStr, "/") {
		return netip.Prefix{}, fmt.Errorf("%w: too many slashes in %q", ErrPrefix, s)
	}
	ip, err := netip.ParseAddr(strings.TrimSpace(addrStr))
	if err != nil {
		return netip.Prefix{}, fmt.Errorf("%w: address in %q", ErrPrefix, s)
	}
	bits, err := strconv.ParseUint(strings.TrimSpace(bitsStr), 10, 8)
	if err != nil || int(bits) > ip.BitLen() {
		return netip.Prefix{}, fmt.Errorf("%w: length in %q", ErrPrefix, s)
	}
	return netip.PrefixFrom(ip.WithZone(""), int(bits)), nil
}
