package domain

const (
	lcgA    uint64 = 0x5DEECE66D
	lcgC    uint64 = 0xB
	lcgMask uint64 = (1 << 48) - 1
)

// rng is a srand48/lrand48-style linear congruential generator. Generation
// must be byte-for-byte reproducible from the caller-supplied seed, so no OS
// entropy or wall clock is ever consulted and the recurrence is owned by this
// package rather than borrowed from math/rand, whose sequence is not
// guaranteed stable across Go releases.
type rng struct {
	state uint64
}

func newRNG(seed uint64) *rng {
	// srand48 semantics.
	return &rng{state: ((seed << 16) + 0x330E) & lcgMask}
}

func (r *rng) next31() uint32 {
	r.state = (lcgA*r.state + lcgC) & lcgMask
	return uint32(r.state >> 17)
}

func (r *rng) upto(n uint32) uint32 {
	if n == 0 {
		return 0
	}

	return r.next31() % n
}

// shuffle applies a Fisher-Yates permutation driven by the generator.
func (r *rng) shuffle(n int, swap func(i, j int)) {
	for i := n - 1; i > 0; i-- {
		j := int(r.upto(uint32(i + 1)))
		swap(i, j)
	}
}

// ident builds a short random identifier stem with the given prefix.
func (r *rng) ident(prefix string, length int) string {
	const letters = "abcdefghijklmnopqrstuvwxyz"

	buf := make([]byte, 0, len(prefix)+1+length)
	buf = append(buf, prefix...)
	buf = append(buf, '_')

	for i := 0; i < length; i++ {
		buf = append(buf, letters[r.upto(uint32(len(letters)))])
	}

	return string(buf)
}
