package valves

// segments holds one pass of the segment-detection primitive applied to a
// circular boolean series, after rotation to put a downflank at index 0.
type segments struct {
	rotated  []bool
	offset   int // left-rotation applied to reach this view
	up       []int
	down     []int // down[0] == 0 (the rotation point itself)
	downStar []int // down's interior entries plus a closing T terminator
	durLo    []int // off-run durations, durLo[i] = up[i] - down[i]
	durHi    []int // on-run durations,  durHi[i] = downStar[i] - up[i]
}

// rotate returns a copy of s shifted by shift, following the same
// convention as a standard circular roll: rotate(s, +k) moves each element
// k places to the right (wrapping), rotate(s, -k) moves it left.
func rotate(s []bool, shift int) []bool {
	n := len(s)
	out := make([]bool, n)
	shift = ((shift % n) + n) % n
	for j := 0; j < n; j++ {
		out[j] = s[(j-shift+n)%n]
	}
	return out
}

// firstDownflank finds the first index k such that s[k-1]=true, s[k]=false,
// treating s as circular: the wrap-around pair (s[n-1], s[0]) counts, so a
// series consisting of a single on-run that runs off the end and picks back
// up at index 0 still has a downflank, at k=0. Returns ok=false only when s
// is genuinely constant (all true or all false).
func firstDownflank(s []bool) (k int, ok bool) {
	n := len(s)
	if n == 0 {
		return 0, false
	}
	if s[n-1] && !s[0] {
		return 0, true
	}
	for i := 1; i < n; i++ {
		if s[i-1] && !s[i] {
			return i, true
		}
	}
	return 0, false
}

// detectSegments rotates s so index 0 begins an off-run, then partitions
// the rotated series into alternating off/on segments, returning their
// durations alongside the boundary index lists needed to rewrite them.
func detectSegments(s []bool, valve int) (segments, error) {
	k, ok := firstDownflank(s)
	if !ok {
		return segments{}, &NoFlanksDetectedError{Valve: valve}
	}
	y := rotate(s, -k)
	n := len(y)

	var up, downInterior []int
	for i := 1; i < n; i++ {
		if y[i] && !y[i-1] {
			up = append(up, i)
		}
		if !y[i] && y[i-1] {
			downInterior = append(downInterior, i)
		}
	}

	downStar := append(append([]int{}, downInterior...), n)
	down := append([]int{0}, downInterior...)

	if len(up) != len(down) {
		return segments{}, &AdjusterInvariantViolationError{
			Valve: valve, Reason: "upflank and downflank counts disagree",
		}
	}

	durLo := make([]int, len(up))
	durHi := make([]int, len(up))
	sum := 0
	for i := range up {
		durLo[i] = up[i] - down[i]
		durHi[i] = downStar[i] - up[i]
		sum += durLo[i] + durHi[i]
	}
	if sum != n {
		return segments{}, &AdjusterInvariantViolationError{
			Valve: valve, Reason: "on/off durations do not sum to the frame count",
		}
	}

	return segments{
		rotated: y, offset: k,
		up: up, down: down, downStar: downStar,
		durLo: durLo, durHi: durHi,
	}, nil
}
