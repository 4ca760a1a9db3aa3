// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package ipset

import (
	"encoding/binary"
	"io"
	"math"
)

var magic = [6]byte{'I', 'P', ' ', 's', 'e', 't'}

const formatVersion = uint16(1)

// headerSize is magic(6) + version(2) + length(8) + count(4).
const headerSize = 6 + 2 + 8 + 4

// recordSize is variable(1) + low(4) + high(4).
const recordSize = 1 + 4 + 4

// Save writes root's BDD, as reachable through store, to w in the
// versioned binary format: a header, one record per reachable nonterminal
// in child-before-parent order, and a trailing id selecting the root.
func Save(w io.Writer, root NodeID, store *Store) error {
	order, diskIDOf := reachablePostorder(store, root)
	if len(order) > math.MaxInt32 {
		return newError(KindMemory, "too many nonterminals to serialize (%d)", len(order))
	}

	n := uint32(len(order))
	total := uint64(headerSize) + uint64(n)*recordSize + 4

	if _, err := w.Write(magic[:]); err != nil {
		return wrapError(KindIO, err, "writing magic")
	}
	if err := binary.Write(w, binary.BigEndian, formatVersion); err != nil {
		return wrapError(KindIO, err, "writing version")
	}
	if err := binary.Write(w, binary.BigEndian, total); err != nil {
		return wrapError(KindIO, err, "writing length")
	}
	if err := binary.Write(w, binary.BigEndian, n); err != nil {
		return wrapError(KindIO, err, "writing nonterminal count")
	}

	for _, id := range order {
		nd := store.slot(id.index())
		if err := binary.Write(w, binary.BigEndian, uint8(nd.variable)); err != nil {
			return wrapError(KindIO, err, "writing node variable")
		}
		if err := binary.Write(w, binary.BigEndian, diskChildID(nd.low, diskIDOf)); err != nil {
			return wrapError(KindIO, err, "writing node low child")
		}
		if err := binary.Write(w, binary.BigEndian, diskChildID(nd.high, diskIDOf)); err != nil {
			return wrapError(KindIO, err, "writing node high child")
		}
	}

	trailing := diskChildID(root, diskIDOf)
	if err := binary.Write(w, binary.BigEndian, trailing); err != nil {
		return wrapError(KindIO, err, "writing root id")
	}
	return nil
}

// reachablePostorder walks the nodes reachable from root, children before
// parents, and assigns each a disk id (-1, -2, ...) in that order.
func reachablePostorder(store *Store, root NodeID) ([]NodeID, map[NodeID]int32) {
	order := make([]NodeID, 0)
	diskIDOf := make(map[NodeID]int32)
	visited := make(map[NodeID]bool)

	var visit func(id NodeID)
	visit = func(id NodeID) {
		if id.IsTerminal() || visited[id] {
			return
		}
		visited[id] = true
		nd := store.slot(id.index())
		visit(nd.low)
		visit(nd.high)
		order = append(order, id)
		diskIDOf[id] = -int32(len(order))
	}
	visit(root)
	return order, diskIDOf
}

func diskChildID(id NodeID, diskIDOf map[NodeID]int32) int32 {
	if id.IsTerminal() {
		return id.Value()
	}
	return diskIDOf[id]
}

// Load reads a serialized BDD from r into store, returning the root's node
// id (one reference owned by the caller). A malformed stream is reported
// as a KindParse error and leaves store's invariants intact: any nodes
// allocated while decoding a stream that later fails are released before
// Load returns.
func Load(r io.Reader, store *Store) (NodeID, error) {
	var gotMagic [6]byte
	if _, err := io.ReadFull(r, gotMagic[:]); err != nil {
		return FalseID, wrapError(KindIO, err, "reading magic")
	}
	if gotMagic != magic {
		return FalseID, newError(KindParse, "bad magic %q", gotMagic[:])
	}
	var version uint16
	if err := binary.Read(r, binary.BigEndian, &version); err != nil {
		return FalseID, wrapError(KindIO, err, "reading version")
	}
	if version != formatVersion {
		return FalseID, newError(KindParse, "unsupported version %d", version)
	}
	var total uint64
	if err := binary.Read(r, binary.BigEndian, &total); err != nil {
		return FalseID, wrapError(KindIO, err, "reading length")
	}
	var n uint32
	if err := binary.Read(r, binary.BigEndian, &n); err != nil {
		return FalseID, wrapError(KindIO, err, "reading nonterminal count")
	}
	wantTotal := uint64(headerSize) + uint64(n)*recordSize + 4
	if total != wantTotal {
		return FalseID, newError(KindParse, "length field %d does not match computed length %d", total, wantTotal)
	}

	built := make([]NodeID, 0, n)
	fail := func(err error) (NodeID, error) {
		for _, id := range built {
			store.decref(id)
		}
		return FalseID, err
	}

	for i := uint32(0); i < n; i++ {
		var variable uint8
		var low, high int32
		if err := binary.Read(r, binary.BigEndian, &variable); err != nil {
			return fail(wrapError(KindIO, err, "reading node variable"))
		}
		if err := binary.Read(r, binary.BigEndian, &low); err != nil {
			return fail(wrapError(KindIO, err, "reading node low child"))
		}
		if err := binary.Read(r, binary.BigEndian, &high); err != nil {
			return fail(wrapError(KindIO, err, "reading node high child"))
		}
		lowID, err := resolveDiskID(store, built, low)
		if err != nil {
			return fail(err)
		}
		highID, err := resolveDiskID(store, built, high)
		if err != nil {
			store.decref(lowID)
			return fail(err)
		}
		built = append(built, store.nonterminal(int16(variable), lowID, highID))
	}

	var trailing int32
	if err := binary.Read(r, binary.BigEndian, &trailing); err != nil {
		return fail(wrapError(KindIO, err, "reading root id"))
	}
	root, err := resolveDiskID(store, built, trailing)
	if err != nil {
		return fail(err)
	}

	if trailingBytes, err := hasTrailingByte(r); err != nil {
		store.decref(root)
		return fail(wrapError(KindIO, err, "checking for trailing bytes"))
	} else if trailingBytes {
		store.decref(root)
		return fail(newError(KindParse, "trailing bytes after the last record"))
	}

	// Release the read loop's own bookkeeping reference on every node;
	// what remains is exactly the references taken above by later
	// records and by the root, matching the DAG's real edge count.
	for _, id := range built {
		store.decref(id)
	}
	return root, nil
}

// hasTrailingByte reports whether r has at least one more byte to read,
// distinguishing "well-formed, exactly consumed" from a stream with data
// appended after the trailing root id, distinct from a length-field
// mismatch.
func hasTrailingByte(r io.Reader) (bool, error) {
	var b [1]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		if err == io.EOF {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// resolveDiskID maps a disk-encoded child reference to an in-memory node
// id: non-negative values are terminals; negative values -1, -2, ...
// index built, which must already contain that entry (children precede
// parents on disk). The returned id carries a fresh reference.
func resolveDiskID(store *Store, built []NodeID, disk int32) (NodeID, error) {
	if disk >= 0 {
		return Terminal(disk), nil
	}
	idx := int(-disk) - 1
	if idx < 0 || idx >= len(built) {
		return FalseID, newError(KindParse, "child reference %d out of range", disk)
	}
	id := built[idx]
	store.incref(id)
	return id, nil
}

// SaveMap writes m's default value followed by its BDD, extending the
// base format for the one piece of map-specific state the core format has
// no field for.
func SaveMap(w io.Writer, m *Map) error {
	if err := binary.Write(w, binary.BigEndian, m.DefaultValue()); err != nil {
		return wrapError(KindIO, err, "writing map default value")
	}
	return Save(w, m.root, m.store)
}

// LoadMap reads a stream written by SaveMap.
func LoadMap(r io.Reader, store *Store) (*Map, error) {
	var def int32
	if err := binary.Read(r, binary.BigEndian, &def); err != nil {
		return nil, wrapError(KindIO, err, "reading map default value")
	}
	root, err := Load(r, store)
	if err != nil {
		return nil, err
	}
	return newMapFromRoot(store, root, def), nil
}

// SaveSet writes set's BDD in the base format.
func SaveSet(w io.Writer, set *Set) error {
	return Save(w, set.root, set.store)
}

// LoadSet reads a stream written by SaveSet or Save.
func LoadSet(r io.Reader, store *Store) (*Set, error) {
	root, err := Load(r, store)
	if err != nil {
		return nil, err
	}
	return newSetFromRoot(store, root), nil
}
