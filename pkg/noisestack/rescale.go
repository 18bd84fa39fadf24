package noisestack

import "math"

// RescaleMode selects how a zero-centered stack is mapped into [0,1].
type RescaleMode int

const (
	// RescaleSymmetric preserves the distribution's center at 0.5: divide
	// by twice the largest-magnitude extremum, then shift by 0.5.
	RescaleSymmetric RescaleMode = iota
	// RescaleSpan stretches the full observed [min,max] span to [0,1],
	// which uses the whole range but may bias the midpoint.
	RescaleSpan
)

// Rescale maps s into [0,1] in place, per mode.
func Rescale(s *Stack, mode RescaleMode) {
	min, max := extrema(s.Data)
	switch mode {
	case RescaleSpan:
		span := max - min
		if span == 0 {
			for i := range s.Data {
				s.Data[i] = 0.5
			}
			return
		}
		for i, v := range s.Data {
			s.Data[i] = (v - min) / span
		}
	default: // RescaleSymmetric
		g := 2 * float32(math.Max(math.Abs(float64(min)), math.Abs(float64(max))))
		if g == 0 {
			for i := range s.Data {
				s.Data[i] = 0.5
			}
			return
		}
		for i, v := range s.Data {
			s.Data[i] = v/g + 0.5
		}
	}
}

func extrema(data []float32) (min, max float32) {
	if len(data) == 0 {
		return 0, 0
	}
	min, max = data[0], data[0]
	for _, v := range data[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max
}
