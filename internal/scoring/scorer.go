package scoring

import "skill-radar/internal/domain"

// Score sums the value of every selected answer into the slot of its
// measurement. Answers pointing at measurements outside the list are dropped.
func Score(selected []domain.AnswerOption, measurements []domain.Measurement) ScoreVector {
	slots := positions(measurements)
	out := Zero(len(measurements))
	for _, a := range selected {
		for _, i := range slots[a.Measurement] {
			out[i] += a.Value
		}
	}
	return out
}

// ScoreAnswers scores a question->answer mapping in question id order.
func ScoreAnswers(answers domain.SelectedAnswers, measurements []domain.Measurement) ScoreVector {
	return Score(answers.Options(), measurements)
}

// positions maps each measurement to its canonical index. A measurement listed
// twice owns both slots.
func positions(measurements []domain.Measurement) map[domain.Measurement][]int {
	out := make(map[domain.Measurement][]int, len(measurements))
	for i, m := range measurements {
		out[m] = append(out[m], i)
	}
	return out
}
