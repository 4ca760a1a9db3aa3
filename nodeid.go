// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package ipset

import "fmt"

// NodeID is a tagged identifier for a BDD node: either a terminal carrying
// its value directly, or a nonterminal carrying an index into a Store's
// node arena. It is a plain value type — comparable, copyable, and safe to
// pass around without any ownership transfer of its own; the Store that
// produced it is the sole owner of the refcount behind it.
//
// The tag is the sign bit: a non-negative NodeID is a terminal whose value
// is the NodeID itself; a negative NodeID is a nonterminal, and its arena
// index is the bitwise complement (so index 0 maps to -1, index 1 to -2,
// and so on — this keeps -1 from colliding with terminal value 0).
type NodeID int32

// Terminal builds the node id for the terminal carrying value v. v must be
// non-negative.
func Terminal(v int32) NodeID {
	return NodeID(v)
}

// FalseID and TrueID are the two terminals used by every IP set; maps use
// Terminal(v) for arbitrary non-negative v.
var (
	FalseID = Terminal(0)
	TrueID  = Terminal(1)
)

// IsTerminal reports whether id denotes a terminal value rather than a
// nonterminal node.
func (id NodeID) IsTerminal() bool {
	return id >= 0
}

// Value returns the terminal's value. It is only meaningful when
// IsTerminal() is true.
func (id NodeID) Value() int32 {
	return int32(id)
}

func nonterminalID(index int32) NodeID {
	return ^NodeID(index)
}

func (id NodeID) index() int32 {
	return int32(^id)
}

func (id NodeID) String() string {
	if id.IsTerminal() {
		return fmt.Sprintf("T%d", id.Value())
	}
	return fmt.Sprintf("N%d", id.index())
}
