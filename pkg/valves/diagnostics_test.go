package valves

import "testing"

func TestDiagnosticsNormalizes(t *testing.T) {
	st := NewState(30)
	for tt := 0; tt < 30; tt++ {
		for v := 0; v < 112; v++ {
			st.Set(tt, v, ((tt+v)/4)%2 == 0)
		}
	}
	pdf := Diagnostics(st)
	sumOn, sumOff := 0.0, 0.0
	for _, v := range pdf.On {
		sumOn += v
	}
	for _, v := range pdf.Off {
		sumOff += v
	}
	if sumOn != 0 && (sumOn < 0.999 || sumOn > 1.001) {
		t.Fatalf("on PMF does not sum to 1: %v", sumOn)
	}
	if sumOff != 0 && (sumOff < 0.999 || sumOff > 1.001) {
		t.Fatalf("off PMF does not sum to 1: %v", sumOff)
	}
}

func TestLastNonzero(t *testing.T) {
	a := []float64{0, 0, 0.5, 0}
	b := []float64{0, 0, 0, 0.2}
	if got := LastNonzero(a, b); got != 3 {
		t.Fatalf("LastNonzero = %d, want 3", got)
	}
	if got := LastNonzero([]float64{0, 0}); got != -1 {
		t.Fatalf("LastNonzero of all-zero = %d, want -1", got)
	}
}
