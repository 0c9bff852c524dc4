package iptools

import (
	"fmt"
	"log/slog"
	"math/big"
	"net/netip"

	"go4.org/netipx"
)

// CollapsePrefixes reduces ps to the minimal sorted set of prefixes covering
// the same addresses, IPv4 before IPv6. Host bits in the input are ignored.
//
// With maxGap > 0, neighbouring blocks separated by at most maxGap
// addresses are merged too, so the result may cover addresses that were
// not in the input.
func CollapsePrefixes(ps []netip.Prefix, maxGap uint64) []netip.Prefix {
	var b netipx.IPSetBuilder
	for _, p := range ps {
		if p.IsValid() {
			b.AddPrefix(p.Masked())
		}
	}
	return collapse(&b, maxGap)
}

// CollapseAddrs collapses individual addresses into prefixes.
func CollapseAddrs(addrs []netip.Addr, maxGap uint64) []netip.Prefix {
	ps := make([]netip.Prefix, 0, len(addrs))
	for _, ip := range addrs {
		ps = append(ps, HostPrefix(ip))
	}
	return CollapsePrefixes(ps, maxGap)
}

// CollapseStrings collapses a mix of addresses and CIDR prefixes. Entries
// that parse as neither are skipped.
func CollapseStrings(ss []string, maxGap uint64) []netip.Prefix {
	ps := make([]netip.Prefix, 0, len(ss))
	for _, s := range ss {
		p, err := ParseCIDR(s)
		if err != nil {
			slog.Debug("skipping unparseable entry", "entry", s, "error", err)
			continue
		}
		ps = append(ps, p)
	}
	return CollapsePrefixes(ps, maxGap)
}

// CollapseRanges collapses inclusive ranges into prefixes without
// enumerating their addresses. Reversed ranges are accepted; mixing
// families within one range is an error.
func CollapseRanges(rs []IPRange) ([]netip.Prefix, error) {
	return CollapseRangesFuzzy(rs, 0)
}

// CollapseRangesFuzzy is CollapseRanges with gap merging as in
// CollapsePrefixes.
func CollapseRangesFuzzy(rs []IPRange, maxGap uint64) ([]netip.Prefix, error) {
	var b netipx.IPSetBuilder
	for _, r := range rs {
		beg, end := r.Beg.WithZone(""), r.End.WithZone("")
		if beg.Is4() != end.Is4() {
			return nil, fmt.Errorf("%w: %s - %s", ErrFamilyMismatch, beg, end)
		}
		if beg.Compare(end) > 0 {
			beg, end = end, beg
		}
		b.AddRange(netipx.IPRangeFrom(beg, end))
	}
	return collapse(&b, maxGap), nil
}

func collapse(b *netipx.IPSetBuilder, maxGap uint64) []netip.Prefix {
	set, err := b.IPSet()
	if err != nil {
		// Invalid entries are dropped; the rest of the set is still usable.
		slog.Warn("building address set", "error", err)
	}
	if set == nil {
		return nil
	}

	ranges := set.Ranges()
	if maxGap > 0 {
		ranges = mergeNear(ranges, maxGap)
	}

	var out []netip.Prefix
	for _, r := range ranges {
		out = r.AppendPrefixes(out)
	}
	return out
}

// mergeNear joins sorted, disjoint ranges of the same family whose gap is at
// most maxGap addresses.
func mergeNear(ranges []netipx.IPRange, maxGap uint64) []netipx.IPRange {
	limit := new(big.Int).SetUint64(maxGap)
	out := make([]netipx.IPRange, 0, len(ranges))
	for _, r := range ranges {
		if n := len(out); n > 0 {
			last := out[n-1]
			if last.To().Is4() == r.From().Is4() {
				gap := new(big.Int).Sub(addrInt(r.From()), addrInt(last.To()))
				gap.Sub(gap, big.NewInt(1))
				if gap.Cmp(limit) <= 0 {
					out[n-1] = netipx.IPRangeFrom(last.From(), r.To())
					continue
				}
			}
		}
		out = append(out, r)
	}
	return out
}
