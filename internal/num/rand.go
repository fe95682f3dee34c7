package num

import "math"

const rngSize = 16

var rngJump = [rngSize]uint64{
	0x84242f96eca9c41d, 0xa3c65b8776f96855, 0x5b34a39f070b5837,
	0x4489affce4f31a1e, 0x2ffeeb0a48316f40, 0xdc2d9891fe68c022,
	0x3659132bb12fea70, 0xaac17d8efa43cab8, 0xc4cb815590989b13,
	0x5ee975283d71c93b, 0x691548c86c1bd540, 0x7910c41d10a1e6a5,
	0x0b5fc64563b3e2a8, 0x047f7684e9fc949d, 0xb99181f2d8f685ca,
	0x284600e3f30e38c3,
}

// Rand is a XorShift1024* generator. The zero value must be seeded before use.
type Rand struct {
	s [rngSize]uint64
	p int
}

// NewRand returns a generator seeded with seed.
func NewRand(seed uint64) *Rand {
	r := &Rand{}
	r.Seed(seed)
	return r
}

// Seed resets the state from seed. A zero seed is replaced by the bits of pi.
func (r *Rand) Seed(seed uint64) {
	if seed == 0 {
		seed = math.Float64bits(math.Pi)
	}
	r.p = 0
	// splitmix64 spreads small integer seeds over the whole state
	for i := range r.s {
		seed += 0x9e3779b97f4a7c15
		z := seed
		z = (z ^ z>>30) * 0xbf58476d1ce4e5b9
		z = (z ^ z>>27) * 0x94d049bb133111eb
		r.s[i] = z ^ z>>31
	}
	for i := 0; i < rngSize; i++ {
		r.Uint64()
	}
}

// Uint64 returns the next 64 random bits.
func (r *Rand) Uint64() uint64 {
	s0 := r.s[r.p]
	r.p = (r.p + 1) & (rngSize - 1)
	s1 := r.s[r.p]
	s1 ^= s1 << 31
	r.s[r.p] = s1 ^ s0 ^ (s1 >> 11) ^ (s0 >> 30)
	return r.s[r.p] * 1181783497276652981
}

// Float64 returns a uniform deviate in [0, 1).
func (r *Rand) Float64() float64 {
	u := r.Uint64()&0x000fffffffffffff | 0x3ff0000000000000
	return math.Float64frombits(u) - 1
}

// Jump advances the generator by 2^512 draws, which yields non-overlapping
// sequences for parallel workers.
func (r *Rand) Jump() {
	var t [rngSize]uint64
	for i := 0; i < rngSize; i++ {
		for b := 0; b < 64; b++ {
			if rngJump[i]&(1<<uint(b)) != 0 {
				for j := 0; j < rngSize; j++ {
					t[j] ^= r.s[(j+r.p)&(rngSize-1)]
				}
			}
			r.Uint64()
		}
	}
	for j := 0; j < rngSize; j++ {
		r.s[(j+r.p)&(rngSize-1)] = t[j]
	}
}

// Split returns a copy of r jumped ahead, leaving r unchanged.
func (r *Rand) Split() *Rand {
	c := *r
	c.Jump()
	return &c
}
