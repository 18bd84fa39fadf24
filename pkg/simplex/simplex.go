// Package simplex implements a seeded 4-D gradient ("simplex-style") noise
// function: a permutation-table gradient noise generalized from the
// classical 2-D skew/unskew construction to four dimensions.
package simplex

import "math/rand"

// Noise is a seeded 4-D gradient noise evaluator. Construct with New; the
// zero value is not usable.
type Noise struct {
	perm [512]uint8
}

// New builds a permutation table from seed via Fisher-Yates shuffle, so
// that the same seed always yields the same table and therefore the same
// noise field.
func New(seed int64) *Noise {
	n := &Noise{}
	r := rand.New(rand.NewSource(seed))
	var p [256]uint8
	for i := range p {
		p[i] = uint8(i)
	}
	for i := 255; i > 0; i-- {
		j := r.Intn(i + 1)
		p[i], p[j] = p[j], p[i]
	}
	for i := 0; i < 512; i++ {
		n.perm[i] = p[i&255]
	}
	return n
}

// F4, G4 are the 4-D simplex skew/unskew factors:
// F4 = (sqrt(5)-1)/4, G4 = (5-sqrt(5))/20.
const (
	f4 = 0.309016994
	g4 = 0.138196601
)

// grad4 lists the 32 gradient directions used by the 4-D corner
// contributions, each a vector with three +-1 components and one zero,
// the standard construction for simplex noise in four dimensions.
var grad4 = [32][4]int8{
	{0, 1, 1, 1}, {0, 1, 1, -1}, {0, 1, -1, 1}, {0, 1, -1, -1},
	{0, -1, 1, 1}, {0, -1, 1, -1}, {0, -1, -1, 1}, {0, -1, -1, -1},
	{1, 0, 1, 1}, {1, 0, 1, -1}, {1, 0, -1, 1}, {1, 0, -1, -1},
	{-1, 0, 1, 1}, {-1, 0, 1, -1}, {-1, 0, -1, 1}, {-1, 0, -1, -1},
	{1, 1, 0, 1}, {1, 1, 0, -1}, {1, -1, 0, 1}, {1, -1, 0, -1},
	{-1, 1, 0, 1}, {-1, 1, 0, -1}, {-1, -1, 0, 1}, {-1, -1, 0, -1},
	{1, 1, 1, 0}, {1, 1, -1, 0}, {1, -1, 1, 0}, {1, -1, -1, 0},
	{-1, 1, 1, 0}, {-1, 1, -1, 0}, {-1, -1, 1, 0}, {-1, -1, -1, 0},
}

func fastFloor(x float64) int {
	xi := int(x)
	if float64(xi) <= x {
		return xi
	}
	return xi - 1
}

func dot4(g [4]int8, x, y, z, w float64) float64 {
	return float64(g[0])*x + float64(g[1])*y + float64(g[2])*z + float64(g[3])*w
}

func (n *Noise) hash(i int) uint8 {
	return n.perm[i&511]
}

func (n *Noise) gradIndex(i, j, k, l int) int {
	return int(n.hash(i+int(n.hash(j+int(n.hash(k+int(n.hash(l)))))))) % 32
}

// Eval4 evaluates the noise field at (x,y,z,w). Output lies in [-1,1],
// bounded in magnitude by sqrt(4)/2 = 1.0 for this dimension, usually well
// below.
func (n *Noise) Eval4(x, y, z, w float64) float64 {
	// Skew the (x,y,z,w) space to determine which 4-simplex cell we're in.
	s := (x + y + z + w) * f4
	i := fastFloor(x + s)
	j := fastFloor(y + s)
	k := fastFloor(z + s)
	l := fastFloor(w + s)

	t := float64(i+j+k+l) * g4
	x0 := x - (float64(i) - t)
	y0 := y - (float64(j) - t)
	z0 := z - (float64(k) - t)
	w0 := w - (float64(l) - t)

	// Rank the coordinates to find which of the 24 simplex orderings of
	// the hypercube's corners we're in.
	rankx, ranky, rankz, rankw := 0, 0, 0, 0
	if x0 > y0 {
		rankx++
	} else {
		ranky++
	}
	if x0 > z0 {
		rankx++
	} else {
		rankz++
	}
	if x0 > w0 {
		rankx++
	} else {
		rankw++
	}
	if y0 > z0 {
		ranky++
	} else {
		rankz++
	}
	if y0 > w0 {
		ranky++
	} else {
		rankw++
	}
	if z0 > w0 {
		rankz++
	} else {
		rankw++
	}

	b := func(rank, threshold int) int {
		if rank >= threshold {
			return 1
		}
		return 0
	}

	i1, j1, k1, l1 := b(rankx, 3), b(ranky, 3), b(rankz, 3), b(rankw, 3)
	i2, j2, k2, l2 := b(rankx, 2), b(ranky, 2), b(rankz, 2), b(rankw, 2)
	i3, j3, k3, l3 := b(rankx, 1), b(ranky, 1), b(rankz, 1), b(rankw, 1)

	x1 := x0 - float64(i1) + g4
	y1 := y0 - float64(j1) + g4
	z1 := z0 - float64(k1) + g4
	w1 := w0 - float64(l1) + g4
	x2 := x0 - float64(i2) + 2*g4
	y2 := y0 - float64(j2) + 2*g4
	z2 := z0 - float64(k2) + 2*g4
	w2 := w0 - float64(l2) + 2*g4
	x3 := x0 - float64(i3) + 3*g4
	y3 := y0 - float64(j3) + 3*g4
	z3 := z0 - float64(k3) + 3*g4
	w3 := w0 - float64(l3) + 3*g4
	x4 := x0 - 1 + 4*g4
	y4 := y0 - 1 + 4*g4
	z4 := z0 - 1 + 4*g4
	w4 := w0 - 1 + 4*g4

	corner := func(xo, yo, zo, wo float64, oi, oj, ok, ol int) float64 {
		t := 0.6 - xo*xo - yo*yo - zo*zo - wo*wo
		if t < 0 {
			return 0
		}
		gi := n.gradIndex(i+oi, j+oj, k+ok, l+ol)
		t *= t
		return t * t * dot4(grad4[gi], xo, yo, zo, wo)
	}

	n0 := corner(x0, y0, z0, w0, 0, 0, 0, 0)
	n1 := corner(x1, y1, z1, w1, i1, j1, k1, l1)
	n2 := corner(x2, y2, z2, w2, i2, j2, k2, l2)
	n3 := corner(x3, y3, z3, w3, i3, j3, k3, l3)
	n4 := corner(x4, y4, z4, w4, 1, 1, 1, 1)

	return 27.0 * (n0 + n1 + n2 + n3 + n4)
}
