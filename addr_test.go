// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package ipset

import (
	"net/netip"
	"testing"
)

//********************************************************************************************

func TestEncodeAddrFamilyBit(t *testing.T) {
	v4 := netip.MustParseAddr("1.2.3.4")
	bits, err := EncodeAddr(v4)
	if err != nil {
		t.Fatalf("EncodeAddr(%s): unexpected error %v", v4, err)
	}
	if len(bits) != 1+IPv4Bits {
		t.Fatalf("expected %d bits for an IPv4 address, got %d", 1+IPv4Bits, len(bits))
	}
	if !bits[FamilyVariable] {
		t.Errorf("expected the family variable to be TRUE for an IPv4 address")
	}

	v6 := netip.MustParseAddr("::1")
	bits, err = EncodeAddr(v6)
	if err != nil {
		t.Fatalf("EncodeAddr(%s): unexpected error %v", v6, err)
	}
	if len(bits) != 1+IPv6Bits {
		t.Fatalf("expected %d bits for an IPv6 address, got %d", 1+IPv6Bits, len(bits))
	}
	if bits[FamilyVariable] {
		t.Errorf("expected the family variable to be FALSE for an IPv6 address")
	}
}

//********************************************************************************************

func TestEncodeAddrDecodeAddrRoundTrip(t *testing.T) {
	for _, s := range []string{"10.0.0.1", "255.255.255.255", "0.0.0.0", "::", "2001:db8::1"} {
		addr := netip.MustParseAddr(s)
		bits, err := EncodeAddr(addr)
		if err != nil {
			t.Fatalf("EncodeAddr(%s): unexpected error %v", s, err)
		}
		got := DecodeAddr(bits, addr.Is4())
		if got != addr {
			t.Errorf("round trip for %s: got %s", s, got)
		}
	}
}

//********************************************************************************************

func TestEncodePrefixRejectsNonZeroHostBits(t *testing.T) {
	p := netip.MustParsePrefix("10.0.0.1/8")
	if _, err := EncodePrefix(p, false); err == nil {
		t.Errorf("expected an error for a network with non-zero bits past the prefix")
	}
	if _, err := EncodePrefix(p, true); err != nil {
		t.Errorf("expected loose mode to accept a network with non-zero host bits, got %v", err)
	}
}

//********************************************************************************************

func TestEncodePrefixLength(t *testing.T) {
	p := netip.MustParsePrefix("10.0.0.0/8")
	bits, err := EncodePrefix(p, false)
	if err != nil {
		t.Fatalf("EncodePrefix(%s): unexpected error %v", p, err)
	}
	if len(bits) != 1+8 {
		t.Fatalf("expected %d bits for a /8 network, got %d", 1+8, len(bits))
	}
}
