package media

import (
	"errors"
	"testing"
)

func TestComputeWindow_Centered(t *testing.T) {
	w, err := ComputeWindow(10.0, 100.0, 7.0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.Start != 3.0 || w.End != 17.0 || w.Duration != 14.0 {
		t.Errorf("expected {3.0 17.0 14.0}, got %+v", w)
	}
}

func TestComputeWindow_LeftEdgeClamp(t *testing.T) {
	w, err := ComputeWindow(2.0, 100.0, 7.0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Asymmetric and shorter than 14s near the edge is correct behavior.
	if w.Start != 0.0 || w.End != 9.0 || w.Duration != 9.0 {
		t.Errorf("expected {0.0 9.0 9.0}, got %+v", w)
	}
}

func TestComputeWindow_RightEdgeClamp(t *testing.T) {
	w, err := ComputeWindow(98.0, 100.0, 7.0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.Start != 91.0 || w.End != 100.0 || w.Duration != 9.0 {
		t.Errorf("expected {91.0 100.0 9.0}, got %+v", w)
	}
}

func TestComputeWindow_Bounds(t *testing.T) {
	cases := []struct {
		ts, total float64
	}{
		{0.0, 100.0},
		{0.5, 100.0},
		{50.0, 100.0},
		{99.9, 100.0},
		{100.0, 100.0},
		{5.0, 8.0},
	}
	for _, c := range cases {
		w, err := ComputeWindow(c.ts, c.total, 7.0)
		if err != nil {
			t.Errorf("ts=%v total=%v: unexpected error: %v", c.ts, c.total, err)
			continue
		}
		if w.Start < 0 || w.Start > c.ts {
			t.Errorf("ts=%v: start %v out of [0, ts]", c.ts, w.Start)
		}
		if w.End < c.ts || w.End > c.total {
			t.Errorf("ts=%v: end %v out of [ts, total]", c.ts, w.End)
		}
		if w.End-w.Start > 14.0 {
			t.Errorf("ts=%v: window length %v exceeds 14.0", c.ts, w.End-w.Start)
		}
	}
}

func TestComputeWindow_OutOfRange(t *testing.T) {
	var oor *OutOfRangeError

	_, err := ComputeWindow(-1.0, 100.0, 7.0)
	if err == nil {
		t.Fatal("expected error for negative timestamp")
	}
	if !errors.As(err, &oor) {
		t.Errorf("expected *OutOfRangeError, got %T", err)
	}

	_, err = ComputeWindow(101.0, 100.0, 7.0)
	if err == nil {
		t.Fatal("expected error for timestamp past end")
	}
	if !errors.As(err, &oor) {
		t.Errorf("expected *OutOfRangeError, got %T", err)
	}
}

func TestComputeWindow_DefaultHalfWidth(t *testing.T) {
	w, err := ComputeWindow(50.0, 100.0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.Duration != 2*DefaultHalfWidth {
		t.Errorf("expected default half-width window of %v, got %v", 2*DefaultHalfWidth, w.Duration)
	}
}
