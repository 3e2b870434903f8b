// SPDX-License-Identifier: GPL-2.0-or-later

// Package rand is a seeded, position based noise generator. The same seed
// always yields the same sequence which keeps randomized tests repeatable.
package rand

const (
	noise1 = 0xB5297A4D
	noise2 = 0x68E31DA4
	noise3 = 0x1B56C4E9
)

type Generator struct {
	idx  uint32
	seed uint32
}

func New(seed uint32) *Generator {
	return &Generator{seed: seed}
}

// noise is the squirrel noise hash of position p.
func noise(p, seed uint32) uint32 {
	m := p*noise1 + seed
	m ^= m >> 8
	m *= noise2
	m ^= m << 8
	m *= noise3
	m ^= m >> 8
	return m
}

func (g *Generator) Uint32() uint32 {
	g.idx++
	return noise(g.idx, g.seed)
}

func (g *Generator) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return int(g.Uint32() % uint32(n))
}

// Float32 returns a value in [0,1).
func (g *Generator) Float32() float32 {
	return float32(g.Uint32()%(1<<24)) / (1 << 24)
}

// Range returns a value in [lo,hi).
func (g *Generator) Range(lo, hi float32) float32 {
	return lo + g.Float32()*(hi-lo)
}

// Snapped returns an integral value in [lo,hi) which is a multiple of grid.
func (g *Generator) Snapped(lo, hi, grid int) float32 {
	n := (hi - lo) / grid
	return float32(lo + g.Intn(n)*grid)
}
