// Package iptools expands IP addresses, ranges and CIDR prefixes into
// individual addresses and collapses address lists back into a minimal set
// of prefixes.
package iptools

import "errors"

// MaxRangeSize is the largest number of addresses ParseIPOrRange and
// GenerateIPRange will materialize.
const MaxRangeSize = 65536

// Parse and range errors. Returned errors wrap one of these together with
// the offending input.
var (
	ErrInvalid        = errors.New("invalid IP address, CIDR, or range")
	ErrRangeFormat    = errors.New("invalid range format")
	ErrRangeStart     = errors.New("invalid start IP in range")
	ErrRangeEnd       = errors.New("invalid end IP in range")
	ErrRangeEndValue  = errors.New("invalid range end value")
	ErrOctet          = errors.New("IPv4 octet must be <= 255")
	ErrHextet         = errors.New("IPv6 hextet must be <= 65535")
	ErrRangeTooLarge  = errors.New("range too large")
	ErrRangeOrder     = errors.New("start IP is greater than end IP")
	ErrFamilyMismatch = errors.New("cannot mix IPv4 and IPv6 in range")
	ErrPrefix         = errors.New("invalid CIDR prefix")
)
