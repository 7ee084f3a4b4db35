package scoring

import "skill-radar/internal/domain"

type Contribution struct {
	QuestionID   string  `json:"question_id"`
	QuestionText string  `json:"question_text"`
	AnswerID     string  `json:"answer_id"`
	AnswerText   string  `json:"answer_text"`
	Value        float64 `json:"value"`
}

type MeasurementBreakdown struct {
	Measurement   domain.Measurement `json:"measurement"`
	Total         float64            `json:"total"`
	Contributions []Contribution     `json:"contributions"`
}

// Breakdown lists, per measurement, the answers that made up its score. The
// totals match Score for the same answers. Question text comes from the
// catalog and is left empty for questions it no longer contains.
func Breakdown(answers domain.SelectedAnswers, catalog domain.Catalog) []MeasurementBreakdown {
	scores := ScoreAnswers(answers, catalog.Measurements)
	out := make([]MeasurementBreakdown, len(catalog.Measurements))
	for i, m := range catalog.Measurements {
		out[i] = MeasurementBreakdown{Measurement: m, Total: scores[i], Contributions: []Contribution{}}
	}

	slots := positions(catalog.Measurements)
	for _, qid := range SortedKeys(answers) {
		a := answers[qid]
		c := Contribution{QuestionID: qid, AnswerID: a.ID, AnswerText: a.Text, Value: a.Value}
		if q, ok := catalog.QuestionForAnswer(a.ID); ok {
			c.QuestionText = q.Text
		}
		for _, i := range slots[a.Measurement] {
			out[i].Contributions = append(out[i].Contributions, c)
		}
	}
	return out
}
