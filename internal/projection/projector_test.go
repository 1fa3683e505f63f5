package projection

import (
	"math"
	"testing"
)

func TestProject_IdentityAtFullCount(t *testing.T) {
	for _, v := range []float64{0, 1, 100, 4821, 1e9} {
		if got := Project(v, 100); got != v {
			t.Errorf("Project(%v, 100) = %v, want %v", v, got, v)
		}
	}
}

func TestProject_NonPositiveCompletenessPassesThrough(t *testing.T) {
	for _, pct := range []float64{0, -5, -100} {
		if got := Project(250, pct); got != 250 {
			t.Errorf("Project(250, %v) = %v, want 250", pct, got)
		}
	}
}

func TestProject_Extrapolates(t *testing.T) {
	if got := Project(100, 50); got != 200 {
		t.Errorf("Project(100, 50) = %v, want 200", got)
	}
	if got := Project(30, 25); got != 120 {
		t.Errorf("Project(30, 25) = %v, want 120", got)
	}
}

func TestProject_AboveHundredNotClamped(t *testing.T) {
	got := Project(300, 150)
	if got != 200 {
		t.Errorf("Project(300, 150) = %v, want 200", got)
	}
}

func TestProject_Deterministic(t *testing.T) {
	a := Project(7919, 37.4)
	for i := 0; i < 100; i++ {
		if b := Project(7919, 37.4); b != a || math.IsNaN(b) {
			t.Fatalf("non-deterministic: %v vs %v", a, b)
		}
	}
}
