package models

import "testing"

func TestNormalizeDifficulty(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"facile", DifficultyEasy},
		{"Easy", DifficultyEasy},
		{" difficile ", DifficultyHard},
		{"hard", DifficultyHard},
		{"moyen", DifficultyMedium},
		{"", DifficultyMedium},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := NormalizeDifficulty(tt.in)
			if got != tt.want {
				t.Errorf("NormalizeDifficulty(%q) = %q, want %q", tt.in, got, tt.want)
			}
			if !ValidDifficulty(got) {
				t.Errorf("NormalizeDifficulty(%q) returned invalid level %q", tt.in, got)
			}
		})
	}
}

func TestValidDifficulty(t *testing.T) {
	if ValidDifficulty("extreme") {
		t.Error("ValidDifficulty(extreme) should be false")
	}
}
