// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package ipset

import (
	"net/netip"
	"testing"
)

//********************************************************************************************

// Scenario 6: a map with a default value, overridden for a network and
// then further overridden for one address within it.
func TestScenarioMapOverrides(t *testing.T) {
	store := NewStore()
	m := NewMap(store, 0)

	if err := m.SetPrefix(netip.MustParsePrefix("192.168.0.0/16"), 7, false); err != nil {
		t.Fatalf("SetPrefix: unexpected error %v", err)
	}
	if err := m.Set(netip.MustParseAddr("192.168.1.1"), 42); err != nil {
		t.Fatalf("Set: unexpected error %v", err)
	}

	if got := m.Get(netip.MustParseAddr("192.168.0.1")); got != 7 {
		t.Errorf("Get(192.168.0.1): expected 7, got %d", got)
	}
	if got := m.Get(netip.MustParseAddr("192.168.1.1")); got != 42 {
		t.Errorf("Get(192.168.1.1): expected 42, got %d", got)
	}
	if got := m.Get(netip.MustParseAddr("10.0.0.1")); got != 0 {
		t.Errorf("Get(10.0.0.1): expected the default value 0, got %d", got)
	}
}

//********************************************************************************************

func TestMapIsEmptyTracksDefault(t *testing.T) {
	store := NewStore()
	m := NewMap(store, 5)
	if !m.IsEmpty() {
		t.Errorf("expected a freshly created map to be empty")
	}
	m.Set(netip.MustParseAddr("1.1.1.1"), 5)
	if !m.IsEmpty() {
		t.Errorf("expected setting an address to its own default value to leave the map empty")
	}
	m.Set(netip.MustParseAddr("1.1.1.1"), 6)
	if m.IsEmpty() {
		t.Errorf("expected the map to be non-empty after a real override")
	}
}

//********************************************************************************************

func TestMapEqual(t *testing.T) {
	store := NewStore()
	a := NewMap(store, 0)
	b := NewMap(store, 0)
	addr := netip.MustParseAddr("4.4.4.4")
	a.Set(addr, 9)
	b.Set(addr, 9)
	if !a.Equal(b) {
		t.Errorf("expected two maps built from the same overrides to share a canonical root")
	}
}
