package ecs

import "testing"

func TestArchetypeMaskMarkContains(t *testing.T) {
	var m archetypeMask
	m = m.mark(3)
	m = m.mark(70)
	if !m.contains(3) || !m.contains(70) {
		t.Fatalf("expected bits 3 and 70 set")
	}
	if m.contains(4) {
		t.Fatalf("did not expect bit 4 set")
	}
	m = m.unmark(3)
	if m.contains(3) {
		t.Fatalf("expected bit 3 cleared")
	}
}

func TestArchetypeMaskContainsAllNone(t *testing.T) {
	var a, b archetypeMask
	a = a.mark(1).mark(2)
	b = b.mark(1)
	if !a.containsAll(b) {
		t.Fatalf("a should be superset of b")
	}
	if !b.containsNone(a.unmark(1)) {
		t.Fatalf("b and (a minus bit1) should share no bits")
	}
	if a.containsNone(b) {
		t.Fatalf("a and b share bit 1, containsNone should be false")
	}
}

func TestArchetypeMaskIsEmpty(t *testing.T) {
	var m archetypeMask
	if !m.isEmpty() {
		t.Fatalf("zero value mask should be empty")
	}
	m = m.mark(0)
	if m.isEmpty() {
		t.Fatalf("mask with bit 0 set should not be empty")
	}
}

func TestMaxTypeBit(t *testing.T) {
	if maxTypeBit() != uint32(maskLanes*32)-1 {
		t.Fatalf("unexpected maxTypeBit")
	}
}
