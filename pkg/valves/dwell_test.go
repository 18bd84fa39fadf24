package valves

import "testing"

func boolsFromInts(xs []int) []bool {
	out := make([]bool, len(xs))
	for i, x := range xs {
		out[i] = x != 0
	}
	return out
}

func runLengths(s []bool) []int {
	n := len(s)
	k, ok := firstDownflank(s)
	if !ok {
		return []int{n}
	}
	y := rotate(s, -k)
	var lens []int
	cur := 1
	for i := 1; i < n; i++ {
		if y[i] == y[i-1] {
			cur++
		} else {
			lens = append(lens, cur)
			cur = 1
		}
	}
	lens = append(lens, cur)
	return lens
}

func TestAdjustColumnEnforcesMinimum(t *testing.T) {
	// Scenario 3 from the spec: valve 0 (even index), D_min=3.
	col := boolsFromInts([]int{1, 0, 1, 1, 0, 0, 0, 1, 1, 1, 1, 0})
	out, err := adjustColumn(col, 3, 0)
	if err != nil {
		t.Fatalf("adjustColumn: %v", err)
	}
	for _, l := range runLengths(out) {
		if l < 3 {
			t.Fatalf("run length %d < 3 in output %v", l, out)
		}
	}
	if len(out) != len(col) {
		t.Fatalf("length changed: %d != %d", len(out), len(col))
	}
}

func TestAdjustColumnCircularBoundary(t *testing.T) {
	// Scenario 4: a run wrapping the T<->0 boundary must be treated whole.
	col := boolsFromInts([]int{1, 1, 0, 0, 0, 1, 0, 0, 1, 1})
	out, err := adjustColumn(col, 3, 0)
	if err != nil {
		t.Fatalf("adjustColumn: %v", err)
	}
	for _, l := range runLengths(out) {
		if l < 3 {
			t.Fatalf("run length %d < 3 in output %v", l, out)
		}
	}
}

func TestAdjustColumnIdentityBelowMinimum(t *testing.T) {
	col := boolsFromInts([]int{1, 0, 1, 0, 1, 1, 0})
	for _, minDur := range []int{0, 1} {
		out, err := adjustColumn(col, minDur, 0)
		if err != nil {
			t.Fatalf("adjustColumn: %v", err)
		}
		for i := range col {
			if out[i] != col[i] {
				t.Fatalf("minDur=%d: expected identity, got %v want %v", minDur, out, col)
			}
		}
	}
}

func TestAdjustColumnConstantSeriesNoFlanks(t *testing.T) {
	col := make([]bool, 8)
	out, err := adjustColumn(col, 3, 0)
	if err != nil {
		t.Fatalf("constant series should be a no-op, got error: %v", err)
	}
	for i := range col {
		if out[i] != col[i] {
			t.Fatal("constant series should be unchanged")
		}
	}
}

func TestAdjustColumnIdempotent(t *testing.T) {
	col := boolsFromInts([]int{1, 0, 1, 1, 0, 0, 0, 1, 1, 1, 1, 0})
	once, err := adjustColumn(col, 3, 1)
	if err != nil {
		t.Fatalf("first pass: %v", err)
	}
	twice, err := adjustColumn(once, 3, 1)
	if err != nil {
		t.Fatalf("second pass: %v", err)
	}
	for i := range once {
		if once[i] != twice[i] {
			t.Fatalf("adjuster not idempotent at %d: %v vs %v", i, once, twice)
		}
	}
}

func TestAdjustDwellPreservesShape(t *testing.T) {
	st := NewState(20)
	for t := 0; t < 20; t++ {
		for v := 0; v < 112; v++ {
			st.Set(t, v, (t+v)%5 == 0)
		}
	}
	out, err := AdjustDwell(st, 3, 0)
	if err != nil {
		t.Fatalf("AdjustDwell: %v", err)
	}
	if out.T != st.T {
		t.Fatalf("T changed: %d != %d", out.T, st.T)
	}
	for v := 0; v < 112; v++ {
		for _, l := range runLengths(out.Column(v)) {
			if l < 3 {
				t.Fatalf("valve %d: run length %d < 3", v, l)
			}
		}
	}
}
