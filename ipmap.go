// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package ipset

import "net/netip"

// Map is an IP address to non-negative integer mapping backed by a single
// BDD root borrowed from a Store, plus the terminal for its configured
// default value. Unlike Set, Map does not support removal — an address is
// reset to the default value instead (see DESIGN.md's open-question
// resolutions).
type Map struct {
	store           *Store
	root            NodeID
	defaultTerminal NodeID
}

// NewMap creates a map rooted in store whose every address initially maps
// to defaultValue.
func NewMap(store *Store, defaultValue int32) *Map {
	d := Terminal(defaultValue)
	return &Map{store: store, root: d, defaultTerminal: d}
}

func newMapFromRoot(store *Store, root NodeID, defaultValue int32) *Map {
	return &Map{store: store, root: root, defaultTerminal: Terminal(defaultValue)}
}

// Store returns the map's backing node store.
func (m *Map) Store() *Store {
	return m.store
}

// Root returns the map's current BDD root id. The id is borrowed; callers
// must not decref it.
func (m *Map) Root() NodeID {
	return m.root
}

// DefaultValue returns the value addresses map to before being Set.
func (m *Map) DefaultValue() int32 {
	return m.defaultTerminal.Value()
}

func (m *Map) replaceRoot(newRoot NodeID) {
	m.store.decref(m.root)
	m.root = newRoot
}

// Set maps addr to value.
func (m *Map) Set(addr netip.Addr, value int32) error {
	bits, err := EncodeAddr(addr)
	if err != nil {
		return err
	}
	m.replaceRoot(m.store.setPath(m.root, bits, Terminal(value)))
	return nil
}

// SetPrefix maps every address in prefix to value. Unless loose is true,
// prefix must have all bits past its length equal to zero.
func (m *Map) SetPrefix(prefix netip.Prefix, value int32, loose bool) error {
	bits, err := EncodePrefix(prefix, loose)
	if err != nil {
		return err
	}
	m.replaceRoot(m.store.setPath(m.root, bits, Terminal(value)))
	return nil
}

// Get returns the value addr currently maps to.
func (m *Map) Get(addr netip.Addr) int32 {
	bits, err := EncodeAddr(addr)
	if err != nil {
		return m.defaultTerminal.Value()
	}
	return m.store.Evaluate(m.root, bits)
}

// IsEmpty reports whether every address still maps to the default value.
func (m *Map) IsEmpty() bool {
	return m.root == m.defaultTerminal
}

// Equal reports whether m and other map every address to the same value.
// Both maps must share the same Store.
func (m *Map) Equal(other *Map) bool {
	return m.store == other.store && m.root == other.root
}

// MemorySize approximates the number of bytes occupied by the nodes
// reachable from the map's root.
func (m *Map) MemorySize() int {
	return m.store.MemorySize(m.root)
}

// Close releases the map's reference on its root. The map must not be
// used afterward.
func (m *Map) Close() {
	m.store.decref(m.root)
	m.root = FalseID
}
