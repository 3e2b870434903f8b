// SPDX-License-Identifier: GPL-2.0-or-later

package math

import (
	"testing"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		lo, val, hi, want float32
	}{
		{1, 0, 10, 1},
		{1, 100, 10, 10},
		{1, 5, 10, 5},
		{-90, -120, 90, -90},
	}
	for _, tt := range tests {
		if got := Clamp(tt.lo, tt.val, tt.hi); got != tt.want {
			t.Errorf("Clamp(%v,%v,%v) = %v, want %v", tt.lo, tt.val, tt.hi, got, tt.want)
		}
	}
	if got := Clamp(1, 7, 10); got != 7 {
		t.Errorf("Clamp(1,7,10) = %v", got)
	}
}
