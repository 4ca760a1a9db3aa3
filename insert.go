// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package ipset

// insertPath ORs the single-path function described by bits into root
// without ever materializing a temporary linear BDD for that path: it
// treats bits as an implicit "fake node" and recurses through root's real
// structure directly, per the strict-dominance OR algorithm. It does not
// consume root; it returns a new, owned root reference.
func (s *Store) insertPath(root NodeID, bits []bool) NodeID {
	return s.pathReplace(0, bits, root, TrueID)
}

// removePath is the dual: it ANDs the complement of the single-path
// function described by bits into root, clearing exactly the addresses
// that match bits.
func (s *Store) removePath(root NodeID, bits []bool) NodeID {
	return s.pathReplace(0, bits, root, FalseID)
}

// setPath forces the function's value on the single path described by
// bits to target, an arbitrary terminal, leaving every other address
// unchanged. It is the same fake-node recursion insertPath and removePath
// use, generalized from the fixed terminal TrueID/FalseID to any terminal
// — this is what backs Map.Set, where the range is not just {0, 1}.
func (s *Store) setPath(root NodeID, bits []bool, target NodeID) NodeID {
	return s.pathReplace(0, bits, root, target)
}

// pathReplace recurses through node's real structure as though a "fake
// node" encoding bits, forcing the function's value at the end of that
// path to target and leaving every other path through node untouched.
// insertPath is pathReplace(..., TrueID) and removePath is
// pathReplace(..., FalseID); this is the generalization to any terminal.
func (s *Store) pathReplace(variable int32, bits []bool, node NodeID, target NodeID) NodeID {
	if variable == int32(len(bits)) {
		s.incref(target)
		return target
	}
	if node == target {
		s.incref(node)
		return node
	}

	bit := bits[variable]
	nv := s.variableOf(node)
	if nv == variable {
		low, high := s.lowOf(node), s.highOf(node)
		if bit {
			newHigh := s.pathReplace(variable+1, bits, high, target)
			s.incref(low)
			return s.nonterminal(int16(variable), low, newHigh)
		}
		newLow := s.pathReplace(variable+1, bits, low, target)
		s.incref(high)
		return s.nonterminal(int16(variable), newLow, high)
	}

	// node's variable is strictly deeper than this level (or node is a
	// terminal, whose variable is treated as infinite): it does not split
	// on variable, so both of its implicit branches here are node itself.
	// Continue matching along the branch bit selects; leave the other
	// branch as node, unchanged.
	branchResult := s.pathReplace(variable+1, bits, node, target)
	s.incref(node)
	if bit {
		return s.nonterminal(int16(variable), node, branchResult)
	}
	return s.nonterminal(int16(variable), branchResult, node)
}
