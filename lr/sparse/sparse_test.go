package sparse

import "testing"

func TestMatrixSetValue(t *testing.T) {
	M := NewIntMatrix(10, 10, DefaultNullValue)
	M.Set(2, 3, 4711)
	if v := M.Value(2, 3); v != 4711 {
		t.Errorf("expected M(2,3) = 4711, is %d", v)
	}
	if v := M.Value(3, 2); v != M.NullValue() {
		t.Errorf("expected M(3,2) to be null, is %d", v)
	}
	if M.ValueCount() != 1 {
		t.Errorf("expected 1 value, have %d", M.ValueCount())
	}
}

func TestMatrixAddPairs(t *testing.T) {
	M := NewIntMatrix(4, 4, -1)
	M.Add(1, 1, 7)
	M.Add(1, 1, 8)
	a, b := M.Values(1, 1)
	if a != 7 || b != 8 {
		t.Errorf("expected (7,8), have (%d,%d)", a, b)
	}
	if M.ValueCount() != 1 {
		t.Errorf("expected 1 position to be set, have %d", M.ValueCount())
	}
}

func TestMatrixRowOrder(t *testing.T) {
	M := NewIntMatrix(3, 20, -1)
	for _, j := range []int{9, 2, 15, 0, 4} {
		M.Set(1, j, int32(j*10))
	}
	last := -1
	n := 0
	M.EachInRow(1, func(j int, a, b int32) {
		if j <= last {
			t.Errorf("columns not in increasing order: %d after %d", j, last)
		}
		if a != int32(j*10) {
			t.Errorf("expected M(1,%d) = %d, is %d", j, j*10, a)
		}
		last = j
		n++
	})
	if n != 5 {
		t.Errorf("expected 5 entries in row 1, have %d", n)
	}
	if M.Value(1, 3) != -1 {
		t.Errorf("expected M(1,3) to be null")
	}
}
