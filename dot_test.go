// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package ipset

import (
	"bytes"
	"net/netip"
	"strings"
	"testing"
)

//********************************************************************************************

func TestWriteDotIncludesEveryReachableNode(t *testing.T) {
	store := NewStore()
	set := NewSet(store)
	set.AddAddr(netip.MustParseAddr("1.2.3.4"))

	var buf bytes.Buffer
	if err := WriteDot(&buf, set.Root(), store); err != nil {
		t.Fatalf("WriteDot: unexpected error %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "digraph ipset {") {
		t.Errorf("expected a digraph header, got %q", out[:20])
	}
	count := store.ReachableCount(set.Root())
	if got := strings.Count(out, "shape=box"); got != count {
		t.Errorf("expected %d boxed nonterminal nodes, got %d", count, got)
	}
	if !strings.Contains(out, "shape=doublecircle") {
		t.Errorf("expected at least one terminal node")
	}
}

//********************************************************************************************

func TestWriteDotEmptySet(t *testing.T) {
	store := NewStore()
	set := NewSet(store)
	var buf bytes.Buffer
	if err := WriteDot(&buf, set.Root(), store); err != nil {
		t.Fatalf("WriteDot: unexpected error %v", err)
	}
	if !strings.Contains(buf.String(), "t0") {
		t.Errorf("expected the lone FALSE terminal to appear, got %q", buf.String())
	}
}
