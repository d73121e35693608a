package render

import (
	"math/cmplx"
	"testing"
)

func TestRecurrenceStep(t *testing.T) {
	tests := []struct {
		variant    string
		z, prev, c complex128
		want       complex128
	}{
		{"mandelbrot", 1 + 1i, 0, 0.5, 0.5 + 2i},
		{"julia", 1 + 1i, 0, 0.5, 0.5 + 2i},
		{"cubic_mandelbrot", 1 + 1i, 0, 1, -1 + 2i},
		{"cubic_julia", 1 + 1i, 0, 1, -1 + 2i},
		{"quartic_mandelbrot", 1 + 1i, 0, 0.25i, -4 + 0.25i},
		{"quartic_julia", 1 + 1i, 0, 0.25i, -4 + 0.25i},
		// prev is weighted by PhoenixP
		{"phoenix_mandelbrot", 1 + 1i, 2, 0, -1 + 2i},
		{"phoenix_julia", 1 + 1i, 2i, 0.5, 0.5 + 1i},
		// absolute values are taken before squaring, so the sign of imag flips vs. plain squaring
		{"burning_ship", -1 + 2i, 0, 0, -3 + 4i},
		{"star", 1 + 2i, 0, 1, -2 - 4i},
		{"experimental_cubic_julia", 1 + 1i, 0, 0, -3 + 1i},
		{"newton", 1, 0, 0, 1},
		{"newton", 2, 0, 0, 2 - 7.0/12},
		{"buddhabrot", 1 + 1i, 0, 0.5, 0.5 + 2i},
	}
	for _, tt := range tests {
		t.Run(tt.variant, func(t *testing.T) {
			v, err := Lookup(tt.variant)
			if err != nil {
				t.Fatal(err)
			}
			if got := v.Next(tt.z, tt.prev, tt.c); cmplx.Abs(got-tt.want) > 1e-12 {
				t.Errorf("Next(%v, %v, %v) = %v, want %v", tt.z, tt.prev, tt.c, got, tt.want)
			}
		})
	}
}

func TestEscapeTimeCounts(t *testing.T) {
	const precision = 50
	tests := []struct {
		name string
		next Recurrence
		z0   complex128
		c    complex128
		want int
	}{
		// 0 -> 1 -> 2 -> 5: |2|^2 sits on the bailout and does not count as escaped
		{"quadratic c=1", quadratic, 0, 1, 2},
		{"quadratic c=0", quadratic, 0, 0, precision},
		{"quadratic c=-2", quadratic, 0, -2, precision},
		{"quadratic c=i", quadratic, 0, 1i, precision},
		{"quadratic escapes first step", quadratic, 0, 3, 0},
		// 0 -> 1 -> 2 -> 9
		{"cubic c=1", cubic, 0, 1, 2},
		// 0 -> 1 -> 2 -> 4.5 with prev weighting
		{"phoenix c=1", phoenix, 0, 1, 2},
		{"julia seed outside", quadratic, 3, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EscapeTime(tt.next, tt.z0, tt.c, precision); got != tt.want {
				t.Errorf("EscapeTime = %d, want %d", got, tt.want)
			}
		})
	}
}
