package p9c

import "testing"

func TestFidPoolGetFree(t *testing.T) {
	var p FidPool

	f0, ok := p.Get()
	if !ok || f0 != 0 {
		t.Fatalf("got %d, %v; want 0, true", f0, ok)
	}
	f1, ok := p.Get()
	if !ok || f1 != 1 {
		t.Fatalf("got %d, %v; want 1, true", f1, ok)
	}

	p.Free(f0)
	f2, ok := p.Get()
	if !ok || f2 != 2 {
		t.Fatalf("freeing the oldest fid must not let it be reused before newer ones: got %d", f2)
	}

	p.Free(f1)
	p.Free(f2)
	f3, ok := p.Get()
	if !ok || f3 != 0 {
		t.Fatalf("got %d, want 0 once every outstanding fid has been freed", f3)
	}
}

func TestTagPoolExhaustion(t *testing.T) {
	var p TagPool
	seen := make(map[uint16]bool)
	for i := 0; i < tagPoolCeiling; i++ {
		tag, ok := p.Get()
		if !ok {
			t.Fatalf("pool exhausted early at i=%d", i)
		}
		if seen[tag] {
			t.Fatalf("duplicate tag %d", tag)
		}
		seen[tag] = true
	}
	if _, ok := p.Get(); ok {
		t.Fatal("expected pool to be exhausted")
	}
}
