// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package ipset

import "testing"

//********************************************************************************************

func TestAssignmentSetAndCut(t *testing.T) {
	var a Assignment
	a.Set(3, TriTrue)
	if got := a.Get(0); got != TriEither {
		t.Errorf("expected padding cells to be EITHER, got %s", got)
	}
	if got := a.Get(3); got != TriTrue {
		t.Errorf("expected cell 3 to be TRUE, got %s", got)
	}
	a.Cut(2)
	if got := a.Get(3); got != TriEither {
		t.Errorf("expected Cut(2) to reset cell 3 to EITHER, got %s", got)
	}
	if got := a.Get(1); got != TriEither {
		t.Errorf("expected cell 1 to remain EITHER, got %s", got)
	}
}

//********************************************************************************************

func TestAssignmentEqualIgnoresLength(t *testing.T) {
	var a, b Assignment
	a.Set(2, TriTrue)
	b.Set(2, TriTrue)
	b.Set(5, TriEither)
	if !a.Equal(&b) {
		t.Errorf("expected assignments equal up to trailing EITHER padding to compare equal")
	}
}

//********************************************************************************************

func TestPathIteratorVisitsEveryPath(t *testing.T) {
	s := NewStore()
	root := s.insertPath(FalseID, []bool{true, false})
	root = s.insertPath(root, []bool{false, true})

	type path struct {
		v0, v1 Tribool
		value  int32
	}
	var got []path
	it := NewPathIterator(s, root)
	for it.Next() {
		got = append(got, path{it.Assignment().Get(0), it.Assignment().Get(1), it.Value()})
	}
	if len(got) == 0 {
		t.Fatalf("expected at least one path")
	}
	var trueCount int
	for _, p := range got {
		if p.value != 0 {
			trueCount++
		}
	}
	if trueCount != 2 {
		t.Errorf("expected exactly 2 true-valued paths for two disjoint singleton networks, got %d", trueCount)
	}
}

//********************************************************************************************

func TestExpandedIteratorCount(t *testing.T) {
	var a Assignment
	a.Set(0, TriTrue)
	a.Set(1, TriEither)
	a.Set(2, TriEither)
	e := NewExpandedIterator(&a, 3)
	if e.Count() != 4 {
		t.Fatalf("expected 2^2 = 4 combinations, got %d", e.Count())
	}
	seen := map[[3]bool]bool{}
	for {
		bits, ok := e.Next()
		if !ok {
			break
		}
		if !bits[0] {
			t.Errorf("expected variable 0 to stay TRUE across every expansion")
		}
		seen[[3]bool{bits[0], bits[1], bits[2]}] = true
	}
	if len(seen) != 4 {
		t.Errorf("expected 4 distinct concrete assignments, got %d", len(seen))
	}
}
