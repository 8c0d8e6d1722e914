package quiz

import "testing"

func TestParseScore(t *testing.T) {
	tests := []struct {
		raw    string
		want   float64
		parsed bool
	}{
		{"4", 4, true},
		{" 4.5 \n", 4.5, true},
		{"5.", 5, true},
		{".5", 0.5, true},
		{"definitely a 4 out of 5", 4, true},
		{"Score: 2.5/5", 2.5, true},
		{"excellent", 3, false},
		{"", 3, false},
		{".", 3, false},
		{"Score: 9", 5, true},
		{"12", 5, true},
		{"-2", 2, true},
		{"version 1.2.3", 1.2, true},
		{"about ..5 points", 0.5, true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, parsed := ParseScore(tt.raw)
			if got != tt.want || parsed != tt.parsed {
				t.Errorf("ParseScore(%q) = %v, %v; want %v, %v", tt.raw, got, parsed, tt.want, tt.parsed)
			}
			if got < 0 || got > 5 {
				t.Errorf("score %v out of range", got)
			}
		})
	}
}
