package domain

import (
	"sort"
	"time"
)

// SelectedAnswers mapea question id -> respuesta elegida (una por pregunta).
type SelectedAnswers map[string]AnswerOption

// Options devuelve las respuestas ordenadas por question id para que la suma
// no dependa del orden de iteracion del map.
func (s SelectedAnswers) Options() []AnswerOption {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]AnswerOption, 0, len(ids))
	for _, id := range ids {
		out = append(out, s[id])
	}
	return out
}

type Submission struct {
	ID          string          `json:"id"`
	Key         string          `json:"key"`
	UserID      string          `json:"user_id"`
	CatalogID   string          `json:"catalog_id"`
	Answers     SelectedAnswers `json:"answers"`
	SubmittedAt time.Time       `json:"submitted_at"`
}

type Session struct {
	ID          string                `json:"id"`
	Owner       string                `json:"owner"`
	CatalogID   string                `json:"catalog_id"`
	Submissions map[string]Submission `json:"submissions"`
	CreatedAt   time.Time             `json:"created_at"`
}

// UserAnswerHistory lista las entregas de un usuario, la mas reciente primero.
type UserAnswerHistory []Submission

// SessionSummary es la vista de listado de una sesion.
type SessionSummary struct {
	ID              string    `json:"id"`
	Owner           string    `json:"owner"`
	CatalogID       string    `json:"catalog_id"`
	SubmissionCount int       `json:"submission_count"`
	CreatedAt       time.Time `json:"created_at"`
}

// SimilarProfile es el ultimo snapshot de puntajes de otro usuario y su
// distancia al del usuario consultado.
type SimilarProfile struct {
	UserID      string    `json:"user_id"`
	Scores      []float64 `json:"scores"`
	Distance    float64   `json:"distance"`
	SubmittedAt time.Time `json:"submitted_at"`
}
