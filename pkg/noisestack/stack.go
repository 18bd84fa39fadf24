// Package noisestack implements the looping noise generator (G), the
// two-stack mixer, and the [0,1] rescaler (M).
package noisestack

// Stack is a dense T x H x W grid of float32 samples, flattened row-major
// so that the whole stack is one owning allocation (a 5000x512x512 stack
// is ~5 GiB; per-frame slices would fragment that badly).
type Stack struct {
	T, H, W int
	Data    []float32
}

// New allocates a zeroed stack of the given shape.
func New(t, h, w int) *Stack {
	return &Stack{T: t, H: h, W: w, Data: make([]float32, t*h*w)}
}

func (s *Stack) off(t, y, x int) int {
	return (t*s.H+y)*s.W + x
}

// At returns the sample at (t,y,x).
func (s *Stack) At(t, y, x int) float32 {
	return s.Data[s.off(t, y, x)]
}

// Set writes the sample at (t,y,x).
func (s *Stack) Set(t, y, x int, v float32) {
	s.Data[s.off(t, y, x)] = v
}

// Frame returns the flat slice of samples belonging to frame t, length H*W.
func (s *Stack) Frame(t int) []float32 {
	start := t * s.H * s.W
	return s.Data[start : start+s.H*s.W]
}
