package setup

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

//go:embed default-questions.json
var defaultQuestions []byte

// QuestionType is the kind of answer a question expects.
type QuestionType string

const (
	TypeText    QuestionType = "text"
	TypeNumber  QuestionType = "number"
	TypeSelect  QuestionType = "select"
	TypeBoolean QuestionType = "boolean"
)

// Option is one choice of a select question.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Question is a single setup prompt.
type Question struct {
	ID       string       `json:"id"`
	Label    string       `json:"label"`
	Type     QuestionType `json:"type"`
	Required bool         `json:"required,omitempty"`
	Min      *float64     `json:"min,omitempty"`
	Max      *float64     `json:"max,omitempty"`
	Options  []Option     `json:"options,omitempty"`
}

type questionFile struct {
	Questions []Question `json:"questions"`
}

// DefaultQuestions returns the question set compiled into the binary.
func DefaultQuestions() []Question {
	qs, err := parseQuestions(defaultQuestions)
	if err != nil {
		panic(fmt.Sprintf("embedded setup questions: %v", err))
	}
	return qs
}

// ReadQuestions loads the question file at path. A missing file yields
// os.ErrNotExist.
func ReadQuestions(path string) ([]Question, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading setup questions %s: %w", path, err)
	}
	qs, err := parseQuestions(data)
	if err != nil {
		return nil, fmt.Errorf("setup questions %s: %w", path, err)
	}
	return qs, nil
}

func parseQuestions(data []byte) ([]Question, error) {
	var f questionFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}
	if f.Questions == nil {
		return nil, errors.New(`missing "questions" array`)
	}

	seen := make(map[string]bool, len(f.Questions))
	for i, q := range f.Questions {
		if q.ID == "" {
			return nil, fmt.Errorf("question %d has no id", i)
		}
		if seen[q.ID] {
			return nil, fmt.Errorf("duplicate question id %q", q.ID)
		}
		seen[q.ID] = true

		switch q.Type {
		case TypeText, TypeNumber, TypeBoolean:
		case TypeSelect:
			if len(q.Options) == 0 {
				return nil, fmt.Errorf("select question %q has no options", q.ID)
			}
		default:
			return nil, fmt.Errorf("question %q has unknown type %q", q.ID, q.Type)
		}
		if q.Min != nil && q.Max != nil && *q.Min > *q.Max {
			return nil, fmt.Errorf("question %q: min %v is greater than max %v", q.ID, *q.Min, *q.Max)
		}
	}
	return f.Questions, nil
}
