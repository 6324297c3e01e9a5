package model

import (
	"strconv"
	"strings"
)

// QuestionType enumerates the kinds of question an exam can carry.
type QuestionType string

const (
	QuestionTypeMultipleChoice QuestionType = "MULTIPLE_CHOICE"
	QuestionTypeTrueFalse      QuestionType = "TRUE_FALSE"
	QuestionTypeShortAnswer    QuestionType = "SHORT_ANSWER"
)

// Label returns the human-readable name of the question type.
func (t QuestionType) Label() string {
	switch t {
	case QuestionTypeMultipleChoice:
		return "Multiple Choice"
	case QuestionTypeTrueFalse:
		return "True/False"
	default:
		return "Short Answer"
	}
}

// Question is a single exam question as served to a student.
type Question struct {
	ID      int64        `json:"id"`
	Text    string       `json:"text"`
	Type    QuestionType `json:"type"`
	Option1 string       `json:"option1,omitempty"`
	Option2 string       `json:"option2,omitempty"`
	Option3 string       `json:"option3,omitempty"`
	Option4 string       `json:"option4,omitempty"`
	Points  int          `json:"points"`
}

// Choice is one selectable answer. Value is what gets submitted.
type Choice struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Choices lists the selectable answers for the question.
// Multiple-choice values are the 1-based option position among the
// non-blank options; true/false values are "true" and "false".
// Short-answer questions have no choices.
func (q *Question) Choices() []Choice {
	switch q.Type {
	case QuestionTypeMultipleChoice:
		var out []Choice
		for _, opt := range []string{q.Option1, q.Option2, q.Option3, q.Option4} {
			if strings.TrimSpace(opt) == "" {
				continue
			}
			out = append(out, Choice{Label: opt, Value: strconv.Itoa(len(out) + 1)})
		}
		return out
	case QuestionTypeTrueFalse:
		return []Choice{{Label: "True", Value: "true"}, {Label: "False", Value: "false"}}
	default:
		return nil
	}
}
