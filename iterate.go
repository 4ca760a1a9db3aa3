// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package ipset

import "net/netip"

// AddrIterator enumerates individual addresses whose membership/mapped
// truth matches a desired value, expanding each BDD path's "don't care"
// variables one concrete address at a time. A path that is EITHER at
// FamilyVariable denotes both an IPv4 and an IPv6 block; such a path is
// expanded as IPv4 first, then IPv6.
type AddrIterator struct {
	pathIt      *PathIterator
	desired     bool
	expander    *ExpandedIterator
	ipv4        bool
	pendingIPv6 *Assignment
	current     netip.Addr
}

// Iterate returns an iterator over set's addresses whose membership
// equals desired.
func (set *Set) Iterate(desired bool) *AddrIterator {
	return &AddrIterator{
		pathIt:  NewPathIterator(set.store, set.root),
		desired: desired,
	}
}

// Next advances to the next address and reports whether one was found.
func (it *AddrIterator) Next() bool {
	for {
		if it.expander != nil {
			if bits, ok := it.expander.Next(); ok {
				it.current = DecodeAddr(bits, it.ipv4)
				return true
			}
			it.expander = nil
			if it.pendingIPv6 != nil {
				it.ipv4 = false
				it.expander = NewExpandedIterator(it.pendingIPv6, 1+IPv6Bits)
				it.pendingIPv6 = nil
				continue
			}
		}
		if !it.pathIt.Next() {
			return false
		}
		if (it.pathIt.Value() != 0) != it.desired {
			continue
		}
		a := it.pathIt.Assignment()
		switch pathFamily(a) {
		case TriTrue:
			it.ipv4 = true
			it.expander = NewExpandedIterator(a, 1+IPv4Bits)
		case TriFalse:
			it.ipv4 = false
			it.expander = NewExpandedIterator(a, 1+IPv6Bits)
		default:
			v4 := a.Clone()
			v4.Set(FamilyVariable, TriTrue)
			it.ipv4 = true
			it.expander = NewExpandedIterator(v4, 1+IPv4Bits)
			v6 := a.Clone()
			v6.Set(FamilyVariable, TriFalse)
			it.pendingIPv6 = v6
		}
	}
}

// Addr returns the address last yielded by Next.
func (it *AddrIterator) Addr() netip.Addr {
	return it.current
}

// NetworkIterator enumerates CIDR networks summarizing every maximal BDD
// subtree whose address bits are all EITHER, i.e. a disjoint cover of the
// addresses matching desired.
type NetworkIterator struct {
	pathIt      *PathIterator
	desired     bool
	pendingIPv6 *Assignment
	current     netip.Prefix
}

// IterateNetworks returns an iterator over the CIDR networks summarizing
// set's addresses whose membership equals desired.
func (set *Set) IterateNetworks(desired bool) *NetworkIterator {
	return &NetworkIterator{
		pathIt:  NewPathIterator(set.store, set.root),
		desired: desired,
	}
}

// Next advances to the next network and reports whether one was found.
func (it *NetworkIterator) Next() bool {
	if it.pendingIPv6 != nil {
		it.current = DecodePrefix(it.pendingIPv6, false)
		it.pendingIPv6 = nil
		return true
	}
	for it.pathIt.Next() {
		if (it.pathIt.Value() != 0) != it.desired {
			continue
		}
		a := it.pathIt.Assignment()
		switch pathFamily(a) {
		case TriTrue:
			it.current = DecodePrefix(a, true)
			return true
		case TriFalse:
			it.current = DecodePrefix(a, false)
			return true
		default:
			v4 := a.Clone()
			v4.Set(FamilyVariable, TriTrue)
			it.current = DecodePrefix(v4, true)
			v6 := a.Clone()
			v6.Set(FamilyVariable, TriFalse)
			it.pendingIPv6 = v6
			return true
		}
	}
	return false
}

// Prefix returns the network last yielded by Next.
func (it *NetworkIterator) Prefix() netip.Prefix {
	return it.current
}
