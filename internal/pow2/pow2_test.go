package pow2

import (
	"math"
	"testing"
)

func TestIsPowerOfTwo(t *testing.T) {
	tests := []struct {
		n    int
		want bool
	}{
		{-4, false},
		{0, false},
		{1, true},
		{2, true},
		{3, false},
		{16, true},
		{17, false},
		{1024, true},
		{1023, false},
	}
	for _, tt := range tests {
		if got := IsPowerOfTwo(tt.n); got != tt.want {
			t.Errorf("IsPowerOfTwo(%d) = %v, want %v", tt.n, got, tt.want)
		}
	}
}

func TestNext(t *testing.T) {
	tests := []struct {
		n    int
		want int
	}{
		{-1, 1},
		{0, 1},
		{1, 1},
		{2, 2},
		{3, 4},
		{64, 64},
		{65, 128},
		{96, 128},
		{1000, 1024},
	}
	for _, tt := range tests {
		if got := Next(tt.n); got != tt.want {
			t.Errorf("Next(%d) = %d, want %d", tt.n, got, tt.want)
		}
	}
}

func TestNextIsPowerOfTwoAndNotSmaller(t *testing.T) {
	for n := 1; n <= 4096; n++ {
		got := Next(n)
		if !IsPowerOfTwo(got) || got < n {
			t.Fatalf("Next(%d) = %d", n, got)
		}
		if got > 1 && got/2 >= n {
			t.Fatalf("Next(%d) = %d is not the smallest", n, got)
		}
	}
}

func TestFloorLog2(t *testing.T) {
	tests := []struct {
		n    int
		want int
	}{
		{0, 0},
		{1, 0},
		{2, 1},
		{3, 1},
		{16, 4},
		{31, 4},
		{32, 5},
	}
	for _, tt := range tests {
		if got := FloorLog2(tt.n); got != tt.want {
			t.Errorf("FloorLog2(%d) = %d, want %d", tt.n, got, tt.want)
		}
		if tt.n > 0 {
			if want := int(math.Floor(Log2(tt.n))); want != tt.want {
				t.Errorf("floor(Log2(%d)) = %d, want %d", tt.n, want, tt.want)
			}
		}
	}
}
