package rough

const (
	lcgModulus    = 2147483647
	lcgMultiplier = 48271
)

// rng is a Park-Miller generator. A fresh one is built for every render.
type rng struct {
	state int64
}

func newRNG(seed int64) *rng {
	s := seed % lcgModulus
	if s <= 0 {
		s += lcgModulus - 1
	}
	return &rng{state: s}
}

// next returns a value in [0,1).
func (r *rng) next() float64 {
	r.state = r.state * lcgMultiplier % lcgModulus
	return float64(r.state-1) / float64(lcgModulus-1)
}

// signed returns a value in [-1,1).
func (r *rng) signed() float64 {
	return r.next()*2 - 1
}
