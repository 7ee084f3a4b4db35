package scoring

import (
	"fmt"

	"skill-radar/internal/domain"
)

// Overview compares a user's latest submission with the one before it.
// Previous is only meaningful when HasPrevious is set.
type Overview struct {
	Current     ScoreVector `json:"current"`
	Previous    ScoreVector `json:"previous,omitempty"`
	HasPrevious bool        `json:"has_previous"`
}

// Compare scores the two most recent entries of history (most recent first).
func Compare(history []domain.Submission, measurements []domain.Measurement) (Overview, error) {
	if len(history) == 0 {
		return Overview{}, fmt.Errorf("compare: %w", ErrInsufficientHistory)
	}
	ov := Overview{Current: ScoreAnswers(history[0].Answers, measurements)}
	if len(history) > 1 {
		ov.Previous = ScoreAnswers(history[1].Answers, measurements)
		ov.HasPrevious = true
	}
	return ov, nil
}
