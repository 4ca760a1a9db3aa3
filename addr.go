// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package ipset

import "net/netip"

// FamilyVariable is the BDD variable that selects an address's IP family:
// TRUE selects IPv4, FALSE selects IPv6.
const FamilyVariable = 0

// IPv4Bits and IPv6Bits are the number of address-bit variables that
// follow FamilyVariable for each family.
const (
	IPv4Bits = 32
	IPv6Bits = 128
)

// EncodeAddr derives the full-length concrete bit assignment for addr:
// FamilyVariable followed by its address bits, most significant bit
// first.
func EncodeAddr(addr netip.Addr) ([]bool, error) {
	if !addr.IsValid() {
		return nil, newError(KindInvalidAddress, "invalid address")
	}
	addr = addr.Unmap()
	if addr.Is4() {
		octets := addr.As4()
		bits := make([]bool, 1+IPv4Bits)
		bits[FamilyVariable] = true
		packBits(bits[1:], octets[:])
		return bits, nil
	}
	octets := addr.As16()
	bits := make([]bool, 1+IPv6Bits)
	bits[FamilyVariable] = false
	packBits(bits[1:], octets[:])
	return bits, nil
}

// EncodePrefix derives the length-(1+cidr) bit assignment for a network:
// FamilyVariable followed by the network's significant address bits.
// Unless loose is true, address bits past the prefix must be zero.
func EncodePrefix(prefix netip.Prefix, loose bool) ([]bool, error) {
	if !prefix.IsValid() {
		return nil, newError(KindInvalidAddress, "invalid network")
	}
	full, err := EncodeAddr(prefix.Addr())
	if err != nil {
		return nil, err
	}
	length := 1 + prefix.Bits()
	if !loose {
		for i := length; i < len(full); i++ {
			if full[i] {
				return nil, newError(KindInvalidNetwork, "network %s has non-zero bits beyond /%d", prefix, prefix.Bits())
			}
		}
	}
	return full[:length], nil
}

func packBits(dst []bool, octets []byte) {
	for i := range dst {
		byteIdx := i / 8
		bitIdx := 7 - (i % 8)
		dst[i] = (octets[byteIdx]>>uint(bitIdx))&1 == 1
	}
}

func unpackBits(bits []bool) []byte {
	out := make([]byte, (len(bits)+7)/8)
	for i, b := range bits {
		if b {
			out[i/8] |= 1 << uint(7-i%8)
		}
	}
	return out
}

// DecodeAddr rebuilds the address described by a full-length concrete bit
// assignment (as produced by ExpandedIterator over an address's family
// bits).
func DecodeAddr(bits []bool, ipv4 bool) netip.Addr {
	if ipv4 {
		var b [4]byte
		copy(b[:], unpackBits(bits[1:1+IPv4Bits]))
		return netip.AddrFrom4(b)
	}
	var b [16]byte
	copy(b[:], unpackBits(bits[1:1+IPv6Bits]))
	return netip.AddrFrom16(b)
}

// DecodePrefix rebuilds the network described by a BDD path assignment
// whose cells past some point are EITHER, for the given family. The
// concrete prefix bits always form a contiguous run starting at variable
// 1, by construction of the BDD path they were read from.
func DecodePrefix(a *Assignment, ipv4 bool) netip.Prefix {
	maxBits := IPv6Bits
	if ipv4 {
		maxBits = IPv4Bits
	}
	bits := make([]bool, 1+maxBits)
	prefixLen := 0
	for v := 1; v <= maxBits; v++ {
		if a.Get(v) == TriEither {
			break
		}
		bits[v] = a.Get(v) == TriTrue
		prefixLen = v
	}
	return netip.PrefixFrom(DecodeAddr(bits, ipv4), prefixLen)
}

// pathFamily reports which family (or both) a BDD path's assignment
// denotes, by inspecting FamilyVariable.
func pathFamily(a *Assignment) Tribool {
	return a.Get(FamilyVariable)
}
