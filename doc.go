// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

/*
Package ipset provides a compact, shareable, and persistable representation
of sets and integer-valued maps keyed by IPv4 or IPv6 addresses, built on a
Reduced Ordered Binary Decision Diagram (ROBDD) engine.

Basics

A Store owns an interned arena of nonterminal BDD nodes plus the memoized
AND/OR/ITE operator caches used to combine them. Every Set or Map is rooted
at a single NodeID borrowed from a Store; a Set or Map must not outlive the
Store it was created from, and a Store must be used from a single goroutine
at a time (different Stores never share state and may be used concurrently
from different goroutines).

Addresses are encoded as bit assignments: variable 0 selects the address
family (true for IPv4, false for IPv6), followed by 32 (IPv4) or 128
(IPv6) address bits, most significant first. Inserting a CIDR network
assigns only the bits within its prefix, leaving the rest "don't care" —
the same representation a summarized iteration walk recovers as a network
record.

Element insertion and removal are implemented as an OR, respectively AND,
of the node store's root against a single path, without ever building a
temporary linear BDD for that path — see insert.go.

Reference counting

Every nonterminal carries an explicit reference count; a Store never uses
finalizers or a garbage collector to reclaim BDD nodes. Sets and maps hold
exactly one reference on their root, and every operation that builds a
NodeID (And, Or, Ite, Load) transfers exactly one reference to its
caller; Set.Root and Map.Root return borrowed ids. Operator-cache
entries hold a permanent, counted reference on their cached result, so a
node stays alive for the life of its Store even after every set or map
that produced it is closed; Store.Close flushes the caches before
discarding the arena.

Serialization

Save and Load implement a versioned, big-endian binary format: a header,
one record per reachable nonterminal in child-before-parent order, and a
trailing id selecting the root. Node identifiers on disk are a distinct,
simpler numbering from the in-memory tagged NodeID: non-negative values
are terminals, and negative values -1, -2, ... index nonterminals in the
order they were written.
*/
package ipset
