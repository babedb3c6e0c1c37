package apu

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/sync/errgroup"
)

func TestNewRing(t *testing.T) {
	tests := []struct {
		size, want int
	}{
		{0, 2},
		{1, 2},
		{2, 2},
		{3, 4},
		{1000, 1024},
		{1 << 15, 1 << 15},
	}
	for _, tt := range tests {
		if got := NewRing(tt.size).Cap(); got != tt.want {
			t.Errorf("NewRing(%d).Cap() = %d, want %d", tt.size, got, tt.want)
		}
	}
}

func TestRingPushPop(t *testing.T) {
	tests := []struct {
		name   string
		push   int
		pop    int
		wantN  int
		remain int
	}{
		{name: "empty", push: 0, pop: 4, wantN: 0, remain: 0},
		{name: "partial", push: 10, pop: 4, wantN: 4, remain: 6},
		{name: "exact", push: 10, pop: 10, wantN: 10, remain: 0},
		{name: "underflow", push: 3, pop: 8, wantN: 3, remain: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRing(16)
			for i := range tt.push {
				r.Push(float32(i))
			}

			dst := make([]float32, tt.pop)
			n := r.Pop(dst)
			if n != tt.wantN {
				t.Fatalf("Pop() = %d, want %d", n, tt.wantN)
			}
			if r.Len() != tt.remain {
				t.Errorf("Len() = %d, want %d", r.Len(), tt.remain)
			}

			want := make([]float32, tt.pop)
			for i := range n {
				want[i] = float32(i)
			}
			// Past n, dst is untouched (zero).
			if diff := cmp.Diff(want, dst); diff != "" {
				t.Errorf("popped samples mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRingOverflow(t *testing.T) {
	r := NewRing(8)
	for i := range 11 {
		r.Push(float32(i))
	}
	if r.Len() != 8 {
		t.Fatalf("Len() = %d, want 8", r.Len())
	}

	// The 3 oldest samples have been dropped.
	dst := make([]float32, 8)
	r.Pop(dst)
	want := []float32{3, 4, 5, 6, 7, 8, 9, 10}
	if diff := cmp.Diff(want, dst); diff != "" {
		t.Errorf("popped samples mismatch (-want +got):\n%s", diff)
	}
}

func TestRingConcurrent(t *testing.T) {
	const total = 100000
	r := NewRing(1 << 17)

	var g errgroup.Group
	g.Go(func() error {
		for i := range total {
			r.Push(float32(i))
		}
		return nil
	})

	var got []float32
	g.Go(func() error {
		buf := make([]float32, 256)
		for len(got) < total {
			n := r.Pop(buf)
			got = append(got, buf[:n]...)
		}
		return nil
	})
	g.Wait()

	for i, v := range got {
		if v != float32(i) {
			t.Fatalf("sample %d = %v, want %v", i, v, float32(i))
		}
	}
}
