package noisestack

import "testing"

func TestRescaleSymmetricRange(t *testing.T) {
	s := &Stack{T: 1, H: 1, W: 4, Data: []float32{-0.8, 0.2, 0.5, -0.1}}
	Rescale(s, RescaleSymmetric)
	for _, v := range s.Data {
		if v < 0 || v > 1 {
			t.Fatalf("value %v out of [0,1]", v)
		}
	}
}

func TestRescaleSpanRange(t *testing.T) {
	s := &Stack{T: 1, H: 1, W: 4, Data: []float32{-0.8, 0.2, 0.5, -0.1}}
	Rescale(s, RescaleSpan)
	foundZero, foundOne := false, false
	for _, v := range s.Data {
		if v < -1e-6 || v > 1+1e-6 {
			t.Fatalf("value %v out of [0,1]", v)
		}
		if v == 0 {
			foundZero = true
		}
		if v == 1 {
			foundOne = true
		}
	}
	if !foundZero || !foundOne {
		t.Fatal("span rescale did not stretch to full [0,1]")
	}
}

func TestMixDisabledIsNoop(t *testing.T) {
	s := &Stack{T: 1, H: 1, W: 2, Data: []float32{0.3, -0.3}}
	before := append([]float32(nil), s.Data...)
	Mix(s, nil)
	for i := range s.Data {
		if s.Data[i] != before[i] {
			t.Fatal("Mix with nil b mutated stack")
		}
	}
}

func TestMixHalvesSum(t *testing.T) {
	a := &Stack{T: 1, H: 1, W: 2, Data: []float32{0.4, -0.6}}
	b := &Stack{T: 1, H: 1, W: 2, Data: []float32{0.4, -0.6}}
	Mix(a, b)
	if a.Data[0] != 0.4 || a.Data[1] != -0.6 {
		t.Fatalf("mixing a stack with itself should be identity, got %v", a.Data)
	}
}
