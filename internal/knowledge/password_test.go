package knowledge

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 0.001
}

func TestPasswordStrengthEmpty(t *testing.T) {
	if got := PasswordStrength(""); got != 0 {
		t.Errorf("PasswordStrength(\"\") = %v, want 0", got)
	}
}

func TestPasswordStrengthKnownValue(t *testing.T) {
	// "Ab1!": length 4/3, diversity 4/4*3 = 3, all four classes = 3.
	got := PasswordStrength("Ab1!")
	want := 4.0/3 + 3 + 3
	if !almostEqual(got, want) {
		t.Errorf("PasswordStrength(Ab1!) = %v, want %v", got, want)
	}
}

func TestPasswordStrengthBounds(t *testing.T) {
	pws := []string{"a", "aaaa", "Ab1!Ab1!Ab1!Ab1!Ab1!Ab1!", "密码Secret123!密码", "abcdefghijklmnopqrstuvwxyz0123456789"}
	for _, pw := range pws {
		got := PasswordStrength(pw)
		if got < 0 || got > 10 {
			t.Errorf("PasswordStrength(%q) = %v, outside [0,10]", pw, got)
		}
	}
}

// Strength is non-decreasing in length while other components hold still.
func TestPasswordStrengthMonotonicInLength(t *testing.T) {
	prev := 0.0
	pw := ""
	for i := 0; i < 15; i++ {
		pw += "a"
		got := PasswordStrength(pw)
		// Diversity drops as identical chars repeat, so compare against the
		// raw length component only.
		lengthComponent := math.Min(float64(len(pw))/3, 4)
		if lengthComponent < prev {
			t.Fatalf("length component decreased at %d chars", len(pw))
		}
		prev = lengthComponent
		if got < 0 || got > 10 {
			t.Fatalf("PasswordStrength(%q) = %v out of range", pw, got)
		}
	}
}

func TestPasswordStrengthSingleClass(t *testing.T) {
	// "aaa": length 1, diversity 1/3*3 = 1, one class = 1.
	got := PasswordStrength("aaa")
	if !almostEqual(got, 3) {
		t.Errorf("PasswordStrength(aaa) = %v, want 3", got)
	}
}

func TestAveragePasswordStrength(t *testing.T) {
	if got := AveragePasswordStrength(nil); got != 0 {
		t.Errorf("AveragePasswordStrength(nil) = %v, want 0", got)
	}
	if got := AveragePasswordStrength([]string{"", ""}); got != 0 {
		t.Errorf("all-empty = %v, want 0", got)
	}

	a, b := PasswordStrength("aaa"), PasswordStrength("Ab1!")
	got := AveragePasswordStrength([]string{"aaa", "", "Ab1!"})
	if !almostEqual(got, (a+b)/2) {
		t.Errorf("AveragePasswordStrength = %v, want %v", got, (a+b)/2)
	}
}
