package domain

import "time"

// Measurement identifica una categoria puntuable (ej: "Strength").
type Measurement = string

type AnswerOption struct {
	ID          string      `json:"id" yaml:"id" validate:"required"`
	Text        string      `json:"text" yaml:"text"`
	Measurement Measurement `json:"measurement" yaml:"measurement" validate:"required"`
	Value       float64     `json:"value" yaml:"value" validate:"gte=0"`
}

type Question struct {
	ID               string         `json:"id" yaml:"id" validate:"required"`
	Text             string         `json:"text" yaml:"text" validate:"required"`
	IsMultipleChoice bool           `json:"is_multiple_choice" yaml:"is_multiple_choice"`
	Answers          []AnswerOption `json:"answers" yaml:"answers" validate:"required,min=1,dive"`
}

// Catalog es la version estatica de un cuestionario: el orden de Measurements
// define el indice canonico de todos los vectores de puntaje.
type Catalog struct {
	ID           string        `json:"id" yaml:"id" validate:"required"`
	Measurements []Measurement `json:"measurements" yaml:"measurements" validate:"required,min=1,dive,required"`
	Questions    []Question    `json:"questions" yaml:"questions" validate:"required,min=1,dive"`
	UpdatedAt    time.Time     `json:"updated_at" yaml:"-"`
}

// FindAnswer resuelve una seleccion (pregunta, respuesta) contra el catalogo.
func (c Catalog) FindAnswer(questionID, answerID string) (AnswerOption, bool) {
	for _, q := range c.Questions {
		if q.ID != questionID {
			continue
		}
		for _, a := range q.Answers {
			if a.ID == answerID {
				return a, true
			}
		}
		return AnswerOption{}, false
	}
	return AnswerOption{}, false
}

// QuestionForAnswer devuelve la pregunta que contiene la respuesta indicada.
func (c Catalog) QuestionForAnswer(answerID string) (Question, bool) {
	for _, q := range c.Questions {
		for _, a := range q.Answers {
			if a.ID == answerID {
				return q, true
			}
		}
	}
	return Question{}, false
}
