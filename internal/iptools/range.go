package iptools

import (
	"fmt"
	"iter"
	"math/big"
	"net/netip"

	"go4.org/netipx"
)

// IPRange is an inclusive range of addresses of one family.
type IPRange struct {
	Beg netip.Addr
	End netip.Addr
}

// NewIPRange returns the range beg..end after checking that both ends are
// of the same family and in order.
func NewIPRange(beg, end netip.Addr) (IPRange, error) {
	if beg.Is4() != end.Is4() {
		return IPRange{}, fmt.Errorf("%w: %s - %s", ErrFamilyMismatch, beg, end)
	}
	if beg.Compare(end) > 0 {
		return IPRange{}, fmt.Errorf("%w (%s > %s)", ErrRangeOrder, beg, end)
	}
	return IPRange{Beg: beg, End: end}, nil
}

// Len returns the number of addresses in r.
func (r IPRange) Len() *big.Int {
	n := new(big.Int).Sub(addrInt(r.End), addrInt(r.Beg))
	return n.Add(n, big.NewInt(1))
}

// All iterates over every address in r in ascending order.
func (r IPRange) All() iter.Seq[netip.Addr] {
	return addrSeq(r.Beg, r.End)
}

func (r IPRange) String() string {
	return r.Beg.String() + "-" + r.End.String()
}

// GenerateIPRange returns every address from beg to end inclusive. Ranges
// larger than MaxRangeSize are refused; use IPRange.All to walk those.
func GenerateIPRange(beg, end netip.Addr) ([]netip.Addr, error) {
	r, err := NewIPRange(beg, end)
	if err != nil {
		return nil, err
	}
	n := r.Len()
	if n.Cmp(big.NewInt(MaxRangeSize)) > 0 {
		return nil, fmt.Errorf("%w: %s addresses (max %d)", ErrRangeTooLarge, n, MaxRangeSize)
	}

	addrs := make([]netip.Addr, 0, n.Int64())
	for ip := range r.All() {
		addrs = append(addrs, ip)
	}
	return addrs, nil
}

// HostPrefix returns the single-address prefix for ip.
func HostPrefix(ip netip.Addr) netip.Prefix {
	ip = ip.WithZone("")
	return netip.PrefixFrom(ip, ip.BitLen())
}

// PrefixLen returns the number of addresses covered by p.
func PrefixLen(p netip.Prefix) *big.Int {
	return new(big.Int).Lsh(big.NewInt(1), uint(p.Addr().BitLen()-p.Bits()))
}

// PrefixRange returns the inclusive range of addresses covered by p.
func PrefixRange(p netip.Prefix) IPRange {
	p = p.Masked()
	return IPRange{Beg: p.Addr(), End: netipx.PrefixLastIP(p)}
}

// PrefixAddrs iterates over every address covered by p, network address
// included. Beware of large IPv6 prefixes.
func PrefixAddrs(p netip.Prefix) iter.Seq[netip.Addr] {
	p = p.Masked()
	return addrSeq(p.Addr(), netipx.PrefixLastIP(p))
}

func addrSeq(beg, end netip.Addr) iter.Seq[netip.Addr] {
	return func(yield func(netip.Addr) bool) {
		beg, end = beg.WithZone(""), end.WithZone("")
		if !beg.IsValid() || beg.Compare(end) > 0 {
			return
		}
		for ip := beg; ip.IsValid(); ip = ip.Next() {
			if !yield(ip) || ip == end {
				return
			}
		}
	}
}

func addrInt(ip netip.Addr) *big.Int {
	return new(big.Int).SetBytes(ip.AsSlice())
}
