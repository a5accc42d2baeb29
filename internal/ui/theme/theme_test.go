package theme

import (
	"image/color"
	"testing"
)

func TestScoreColor(t *testing.T) {
	tests := []struct {
		score float64
		want  color.Color
	}{
		{0.0, Error},
		{0.39, Error},
		{0.4, Accent},
		{0.69, Accent},
		{0.7, Success},
		{1.0, Success},
	}
	for _, tt := range tests {
		if got := ScoreColor(tt.score); got != tt.want {
			t.Errorf("ScoreColor(%v) = %v, want %v", tt.score, got, tt.want)
		}
	}
}
