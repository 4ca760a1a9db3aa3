// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package ipset

import "unsafe"

// node is one nonterminal slot in a Store's arena. A slot is either in use
// (free == false, holding a live (variable, low, high, refcount) node) or
// on the free list (free == true, holding only nextFree) — a tagged
// variant rather than overloading the refcount field with a sentinel
// value, even though the two representations are the same size.
type node struct {
	free     bool
	variable int16
	low      NodeID
	high     NodeID
	refcount int32
	nextFree int32
}

var nodeSize = int(unsafe.Sizeof(node{}))

type nodeKey struct {
	variable int16
	low      NodeID
	high     NodeID
}

type pairKey struct {
	a, b NodeID
}

type tripleKey struct {
	f, g, h NodeID
}

// Store is the node cache: a growable arena of interned nonterminal nodes
// plus the three memoized operator caches that share it. A Store, and
// every Set or Map rooted in it, must be used from a single goroutine at a
// time (see the package doc for the concurrency model); different Stores
// never share state and may be used concurrently from different
// goroutines.
type Store struct {
	cfg configs

	chunks     [][]node
	chunkSize  int32
	chunkShift uint
	chunkMask  int32
	count      int32
	freeHead   int32

	index map[nodeKey]NodeID

	andCache map[pairKey]NodeID
	orCache  map[pairKey]NodeID
	iteCache map[tripleKey]NodeID

	closed bool
}

// NewStore creates an empty node store. It begins in the EMPTY state and
// transitions to POPULATED on its first nonterminal allocation.
func NewStore(opts ...Option) *Store {
	cfg := defaultConfigs()
	for _, opt := range opts {
		opt(&cfg)
	}
	shift := uint(0)
	for (1 << shift) < cfg.chunkSize {
		shift++
	}
	return &Store{
		cfg:        cfg,
		chunkSize:  int32(cfg.chunkSize),
		chunkShift: shift,
		chunkMask:  int32(cfg.chunkSize) - 1,
		freeHead:   -1,
		index:      make(map[nodeKey]NodeID),
		andCache:   make(map[pairKey]NodeID, cfg.initialCache),
		orCache:    make(map[pairKey]NodeID, cfg.initialCache),
		iteCache:   make(map[tripleKey]NodeID, cfg.initialCache),
	}
}

func (s *Store) slot(idx int32) *node {
	chunk := idx >> s.chunkShift
	offset := idx & s.chunkMask
	return &s.chunks[chunk][offset]
}

func (s *Store) allocSlot() int32 {
	if s.freeHead >= 0 {
		idx := s.freeHead
		n := s.slot(idx)
		s.freeHead = n.nextFree
		return idx
	}
	chunk := s.count >> s.chunkShift
	if int(chunk) >= len(s.chunks) {
		s.chunks = append(s.chunks, make([]node, s.chunkSize))
	}
	idx := s.count
	s.count++
	return idx
}

// nonterminal implements get_or_create_nonterminal: it consumes the
// caller's references on low and high (transferring them to the returned
// node, or discarding them if an existing node is reused) and returns a
// node id with exactly one reference owned by the caller.
func (s *Store) nonterminal(variable int16, low, high NodeID) NodeID {
	if low == high {
		// The caller's reference on high is redundant with the one being
		// returned via low; release it.
		s.decref(high)
		return low
	}
	key := nodeKey{variable: variable, low: low, high: high}
	if id, ok := s.index[key]; ok {
		s.incref(id)
		s.decref(low)
		s.decref(high)
		return id
	}
	idx := s.allocSlot()
	n := s.slot(idx)
	*n = node{
		free:     false,
		variable: variable,
		low:      low,
		high:     high,
		refcount: 1,
	}
	id := nonterminalID(idx)
	s.index[key] = id
	debugf(LogTrace, "ipset: allocated node %s = (%d, %s, %s)", id, variable, low, high)
	return id
}

// incref increments id's reference count. It is a no-op for terminals.
func (s *Store) incref(id NodeID) {
	if id.IsTerminal() {
		return
	}
	s.slot(id.index()).refcount++
}

// decref decrements id's reference count, recursively releasing its
// children and returning the slot to the free list when the count reaches
// zero. It is a no-op for terminals.
func (s *Store) decref(id NodeID) {
	if id.IsTerminal() {
		return
	}
	n := s.slot(id.index())
	n.refcount--
	if n.refcount > 0 {
		return
	}
	low, high := n.low, n.high
	delete(s.index, nodeKey{variable: n.variable, low: low, high: high})
	*n = node{free: true, nextFree: s.freeHead}
	s.freeHead = id.index()
	debugf(LogTrace, "ipset: freed node %s", id)
	s.decref(low)
	s.decref(high)
}

// variableOf returns id's decision variable, treating terminals as
// carrying an infinite variable (so they always sort after any real
// variable during operator recursion).
func (s *Store) variableOf(id NodeID) int32 {
	if id.IsTerminal() {
		return 1<<31 - 1
	}
	return int32(s.slot(id.index()).variable)
}

func (s *Store) lowOf(id NodeID) NodeID {
	return s.slot(id.index()).low
}

func (s *Store) highOf(id NodeID) NodeID {
	return s.slot(id.index()).high
}

// ReachableCount returns the number of distinct nonterminal nodes
// reachable from root, including root itself if it is a nonterminal.
func (s *Store) ReachableCount(root NodeID) int {
	if root.IsTerminal() {
		return 0
	}
	seen := make(map[NodeID]bool)
	stack := []NodeID{root}
	count := 0
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if id.IsTerminal() || seen[id] {
			continue
		}
		seen[id] = true
		count++
		n := s.slot(id.index())
		stack = append(stack, n.low, n.high)
	}
	return count
}

// MemorySize returns the approximate number of bytes occupied by the nodes
// reachable from root.
func (s *Store) MemorySize(root NodeID) int {
	return s.ReachableCount(root) * nodeSize
}

// Close flushes the operator caches (decref-ing every owned result) and
// discards the node arena, implementing the POPULATED -> CLOSING
// transition. The Store must not be used afterward.
func (s *Store) Close() error {
	if s.closed {
		return nil
	}
	for _, id := range s.andCache {
		s.decref(id)
	}
	for _, id := range s.orCache {
		s.decref(id)
	}
	for _, id := range s.iteCache {
		s.decref(id)
	}
	s.andCache = nil
	s.orCache = nil
	s.iteCache = nil
	s.index = nil
	s.chunks = nil
	s.closed = true
	return nil
}
