// SPDX-License-Identifier: GPL-2.0-or-later

package rand

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRepeatable(t *testing.T) {
	a, b := New(7), New(7)
	for i := 0; i < 100; i++ {
		assert.Equal(t, a.Uint32(), b.Uint32())
	}
	assert.NotEqual(t, New(1).Uint32(), New(2).Uint32())
}

func TestRanges(t *testing.T) {
	g := New(42)
	for i := 0; i < 1000; i++ {
		f := g.Range(-64, 64)
		assert.True(t, f >= -64 && f < 64, "%v", f)
		s := g.Snapped(-128, 128, 16)
		assert.Equal(t, float32(0), float32(int(s)%16), "%v", s)
		assert.True(t, s >= -128 && s < 128)
		assert.True(t, g.Intn(5) < 5)
	}
	assert.Equal(t, 0, g.Intn(0))
}
