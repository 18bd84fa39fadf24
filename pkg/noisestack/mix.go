package noisestack

// Mix adds b into a in place, elementwise, then halves the result to bring
// values back from [-2,2] into [-1,1]. a and b must share shape. If b is
// nil, Mix is a no-op (stack B disabled).
func Mix(a, b *Stack) {
	if b == nil {
		return
	}
	for i := range a.Data {
		a.Data[i] = (a.Data[i] + b.Data[i]) / 2
	}
}
