package match

import (
	"testing"

	"github.com/spigell/career-recommender/internal/features"
	"github.com/spigell/career-recommender/internal/profiles"
)

func skills(c, p, m, cr int) features.Skills {
	return features.Skills{Communication: c, Programming: p, Management: m, Creativity: cr}
}

func TestScore(t *testing.T) {
	tests := []struct {
		name  string
		user  features.Skills
		ideal features.Skills
		want  float64
	}{
		{name: "equal", user: skills(6, 9, 5, 6), ideal: skills(6, 9, 5, 6), want: 100},
		{name: "data science example", user: skills(9, 9, 4, 6), ideal: skills(6, 9, 5, 6), want: 80},
		{name: "diff of six", user: skills(5, 5, 5, 5), ideal: skills(6, 9, 5, 6), want: 70},
		{name: "management example", user: skills(5, 9, 5, 5), ideal: skills(9, 4, 9, 6), want: 30},
		{name: "clamped at zero", user: skills(1, 1, 1, 1), ideal: skills(10, 10, 10, 10), want: 0},
		{name: "diff of twenty", user: skills(1, 1, 1, 1), ideal: skills(6, 6, 6, 6), want: 0},
		{name: "symmetric", user: skills(6, 9, 5, 6), ideal: skills(9, 9, 4, 6), want: 80},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := Score(tt.user, tt.ideal); got != tt.want {
				t.Fatalf("Score = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScoreSeventyFive(t *testing.T) {
	// |5-9| + |9-9| + |4-4| + |5-6| = 5
	if got := Score(skills(9, 9, 4, 6), skills(5, 9, 4, 5)); got != 75 {
		t.Fatalf("Score = %v, want 75", got)
	}
}

func TestScoreRangeAndIdentity(t *testing.T) {
	ideal := skills(6, 9, 5, 6)
	for c := 1; c <= 10; c++ {
		for p := 1; p <= 10; p++ {
			for m := 1; m <= 10; m += 3 {
				for cr := 1; cr <= 10; cr += 3 {
					user := skills(c, p, m, cr)
					got := Score(user, ideal)
					if got < 0 || got > 100 {
						t.Fatalf("Score(%v) = %v out of range", user, got)
					}
					if (got == 100) != (user == ideal) {
						t.Fatalf("Score(%v) = %v: 100 must mean identical skills", user, got)
					}
				}
			}
		}
	}
}

func TestScoreAllKeepsRepositoryOrder(t *testing.T) {
	results := ScoreAll(skills(9, 9, 4, 6), profiles.Default())

	want := []Result{
		{Label: "Data Science", Score: 80},
		{Label: "Computer Science", Score: 75},
		{Label: "Management Science", Score: 50},
	}
	if len(results) != len(want) {
		t.Fatalf("got %d results", len(results))
	}
	for i := range want {
		if results[i] != want[i] {
			t.Fatalf("result %d = %+v, want %+v", i, results[i], want[i])
		}
	}
}

func TestBest(t *testing.T) {
	if _, ok := Best(nil); ok {
		t.Fatal("Best of nothing must report false")
	}

	best, ok := Best([]Result{{"a", 50}, {"b", 80}, {"c", 80}})
	if !ok || best.Label != "b" {
		t.Fatalf("Best = %+v, want b", best)
	}
}
