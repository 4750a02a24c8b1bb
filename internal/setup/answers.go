package setup

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// UserConfig holds the saved answers keyed by question id. Other keys are
// preserved as written.
type UserConfig map[string]any

// AnswerError describes one answer that does not satisfy its question.
type AnswerError struct {
	QuestionID string
	Reason     string
}

func (e *AnswerError) Error() string {
	return fmt.Sprintf("%s: %s", e.QuestionID, e.Reason)
}

// ValidateAnswers checks cfg against qs. Every problem is reported; the
// result is nil when cfg is acceptable.
func ValidateAnswers(qs []Question, cfg UserConfig) error {
	var errs []error
	for _, q := range qs {
		v, ok := cfg[q.ID]
		if !ok || v == nil || v == "" {
			if q.Required {
				errs = append(errs, &AnswerError{QuestionID: q.ID, Reason: "answer required"})
			}
			continue
		}
		if err := checkAnswer(q, v); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func checkAnswer(q Question, v any) error {
	switch q.Type {
	case TypeText:
		if _, ok := v.(string); !ok {
			return &AnswerError{QuestionID: q.ID, Reason: fmt.Sprintf("expected text, got %T", v)}
		}
	case TypeBoolean:
		if _, ok := v.(bool); !ok {
			return &AnswerError{QuestionID: q.ID, Reason: fmt.Sprintf("expected true or false, got %T", v)}
		}
	case TypeNumber:
		n, ok := toFloat(v)
		if !ok {
			return &AnswerError{QuestionID: q.ID, Reason: fmt.Sprintf("expected a number, got %T", v)}
		}
		if q.Min != nil && n < *q.Min {
			return &AnswerError{QuestionID: q.ID, Reason: fmt.Sprintf("%v is below the minimum %v", n, *q.Min)}
		}
		if q.Max != nil && n > *q.Max {
			return &AnswerError{QuestionID: q.ID, Reason: fmt.Sprintf("%v is above the maximum %v", n, *q.Max)}
		}
	case TypeSelect:
		s, ok := v.(string)
		if !ok {
			return &AnswerError{QuestionID: q.ID, Reason: fmt.Sprintf("expected one of the options, got %T", v)}
		}
		for _, o := range q.Options {
			if o.Value == s {
				return nil
			}
		}
		return &AnswerError{QuestionID: q.ID, Reason: fmt.Sprintf("%q is not one of %s", s, optionValues(q))}
	}
	return nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

func optionValues(q Question) string {
	vals := make([]string, 0, len(q.Options))
	for _, o := range q.Options {
		vals = append(vals, o.Value)
	}
	return strings.Join(vals, ", ")
}

// ParseAnswer converts raw command-line text into the value type q expects.
// It does not check ranges or options; use ValidateAnswers for that.
func ParseAnswer(q Question, raw string) (any, error) {
	switch q.Type {
	case TypeNumber:
		n, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, fmt.Errorf("%s: %q is not a number", q.ID, raw)
		}
		return n, nil
	case TypeBoolean:
		b, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("%s: %q is not true or false", q.ID, raw)
		}
		return b, nil
	default:
		return raw, nil
	}
}
