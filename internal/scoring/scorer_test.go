package scoring

import (
	"slices"
	"testing"

	"skill-radar/internal/domain"
)

func opt(m domain.Measurement, v float64) domain.AnswerOption {
	return domain.AnswerOption{Measurement: m, Value: v}
}

func TestScore(t *testing.T) {
	measurements := []domain.Measurement{"Strength", "Endurance"}

	tests := []struct {
		name         string
		selected     []domain.AnswerOption
		measurements []domain.Measurement
		want         ScoreVector
	}{
		{
			name:         "sums values per measurement",
			selected:     []domain.AnswerOption{opt("Strength", 3), opt("Strength", 4), opt("Endurance", 2)},
			measurements: measurements,
			want:         ScoreVector{7, 2},
		},
		{
			name:         "empty selection is all zero",
			measurements: measurements,
			want:         ScoreVector{0, 0},
		},
		{
			name:         "unknown measurements are ignored",
			selected:     []domain.AnswerOption{opt("Flexibility", 9), opt("Endurance", 1)},
			measurements: measurements,
			want:         ScoreVector{0, 1},
		},
		{
			name:         "measurement without answers is exactly zero",
			selected:     []domain.AnswerOption{opt("Endurance", 5)},
			measurements: []domain.Measurement{"Strength", "Endurance", "Speed"},
			want:         ScoreVector{0, 5, 0},
		},
		{
			name:         "duplicated measurement fills both slots",
			selected:     []domain.AnswerOption{opt("Speed", 2)},
			measurements: []domain.Measurement{"Speed", "Strength", "Speed"},
			want:         ScoreVector{2, 0, 2},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Score(tt.selected, tt.measurements); !slices.Equal(got, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}

	t.Run("no measurements yields empty vector", func(t *testing.T) {
		got := Score([]domain.AnswerOption{opt("Strength", 3)}, nil)
		if got == nil || len(got) != 0 {
			t.Fatalf("expected empty non-nil vector, got %#v", got)
		}
	})
}

func TestScore_DoesNotMutateInput(t *testing.T) {
	selected := []domain.AnswerOption{opt("Strength", 3)}
	measurements := []domain.Measurement{"Strength"}
	_ = Score(selected, measurements)
	if len(selected) != 1 || selected[0] != opt("Strength", 3) {
		t.Fatalf("selection was modified: %+v", selected)
	}
	if !slices.Equal(measurements, []domain.Measurement{"Strength"}) {
		t.Fatalf("measurements were modified: %v", measurements)
	}
}

func TestScoreAnswers(t *testing.T) {
	answers := domain.SelectedAnswers{
		"q2": {ID: "a2", Measurement: "Endurance", Value: 2},
		"q1": {ID: "a1", Measurement: "Strength", Value: 3},
		"q3": {ID: "a3", Measurement: "Strength", Value: 4},
	}
	got := ScoreAnswers(answers, []domain.Measurement{"Strength", "Endurance"})
	if !slices.Equal(got, ScoreVector{7, 2}) {
		t.Fatalf("expected [7 2], got %v", got)
	}
}

func TestScoreVectorDisplay(t *testing.T) {
	v := ScoreVector{5, 3.25, 1.0 / 3}
	if got := v.Display(); !slices.Equal(got, []string{"5.0", "3.2", "0.3"}) {
		t.Fatalf("unexpected display %v", got)
	}
	if got := (ScoreVector{}).Display(); got == nil || len(got) != 0 {
		t.Fatalf("expected empty display, got %#v", got)
	}
}
