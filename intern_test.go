package rubin

import (
	"sync"
	"testing"
)

func TestInternStable(t *testing.T) {
	a := Intern("foo")
	b := Intern("foo")
	if a != b {
		t.Errorf("expected interned IDs to be equal, are %d and %d", a, b)
	}
	if a == NoSymbol {
		t.Errorf("interned symbol must not be NoSymbol")
	}
	if a.String() != "foo" {
		t.Errorf("expected symbol text to be foo, is %q", a.String())
	}
	if c := Intern("bar"); c == a {
		t.Errorf("expected distinct names to get distinct IDs")
	}
}

func TestInternConcurrent(t *testing.T) {
	var wg sync.WaitGroup
	ids := make([]SymbolID, 16)
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ids[i] = Intern("concurrent-name")
		}(i)
	}
	wg.Wait()
	for i := 1; i < len(ids); i++ {
		if ids[i] != ids[0] {
			t.Fatalf("goroutine %d got ID %d, expected %d", i, ids[i], ids[0])
		}
	}
	if _, ok := Lookup("never-interned-name"); ok {
		t.Errorf("lookup must not create symbols")
	}
}

func TestSpanExtend(t *testing.T) {
	s := Span{5, 7}.Extend(Span{2, 6})
	if s.From() != 2 || s.To() != 7 {
		t.Errorf("expected span (2…7), is %v", s)
	}
	if (Span{}).Extend(Span{3, 4}) != (Span{3, 4}) {
		t.Errorf("null span should extend to other span")
	}
}
