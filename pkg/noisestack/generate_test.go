package noisestack

import "testing"

func TestGenerateShape(t *testing.T) {
	s := Generate(GenConfig{T: 4, N: 8, DtFrame: 0.1, XStep: 0.02, Seed: 1})
	if s.T != 4 || s.H != 8 || s.W != 8 {
		t.Fatalf("shape = %d,%d,%d want 4,8,8", s.T, s.H, s.W)
	}
}

func TestGenerateBounded(t *testing.T) {
	s := Generate(GenConfig{T: 4, N: 8, DtFrame: 0.1, XStep: 0.02, Seed: 1})
	for _, v := range s.Data {
		if v < -1 || v > 1 {
			t.Fatalf("value %v out of [-1,1]", v)
		}
	}
}

func TestGenerateDeterministic(t *testing.T) {
	cfg := GenConfig{T: 4, N: 8, DtFrame: 0.1, XStep: 0.02, Seed: 7}
	a := Generate(cfg)
	b := Generate(cfg)
	for i := range a.Data {
		if a.Data[i] != b.Data[i] {
			t.Fatalf("index %d differs: %v != %v", i, a.Data[i], b.Data[i])
		}
	}
}

func TestGenerateWorkerCountInvariant(t *testing.T) {
	base := GenConfig{T: 6, N: 4, DtFrame: 0.1, XStep: 0.05, Seed: 3}
	one := base
	one.NumWorkers = 1
	many := base
	many.NumWorkers = 6
	a := Generate(one)
	b := Generate(many)
	for i := range a.Data {
		if a.Data[i] != b.Data[i] {
			t.Fatalf("worker count changed output at index %d", i)
		}
	}
}
