package models

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

type AnswerKind int

const (
	AnswerSingle AnswerKind = iota + 1
	AnswerMultiple
)

var (
	ErrAnswerEmpty       = errors.New("answer must be a non-empty string or array of non-empty strings")
	ErrAnswerShape       = errors.New("answer must be a string or an array of strings")
	errAnswerUnsupported = errors.New("unsupported answer column type")
)

// Answer is the canonical answer of a problem: either one string or a list of
// acceptable strings. The zero value is "no answer".
type Answer struct {
	kind   AnswerKind
	values []string
}

func SingleAnswer(value string) Answer {
	return Answer{kind: AnswerSingle, values: []string{value}}
}

func MultipleAnswers(values ...string) Answer {
	cp := make([]string, len(values))
	copy(cp, values)
	return Answer{kind: AnswerMultiple, values: cp}
}

func (a Answer) Kind() AnswerKind {
	return a.kind
}

func (a Answer) IsZero() bool {
	return a.kind == 0
}

// Values returns every acceptable answer.
func (a Answer) Values() []string {
	cp := make([]string, len(a.values))
	copy(cp, a.values)
	return cp
}

// Validate enforces the non-empty invariant for the variant.
func (a Answer) Validate() error {
	switch a.kind {
	case AnswerSingle:
		if len(a.values) != 1 || strings.TrimSpace(a.values[0]) == "" {
			return ErrAnswerEmpty
		}
	case AnswerMultiple:
		if len(a.values) == 0 {
			return ErrAnswerEmpty
		}
		for _, v := range a.values {
			if strings.TrimSpace(v) == "" {
				return ErrAnswerEmpty
			}
		}
	default:
		return ErrAnswerEmpty
	}
	return nil
}

// Trimmed returns a copy with every value trimmed of surrounding spaces.
func (a Answer) Trimmed() Answer {
	out := Answer{kind: a.kind, values: make([]string, len(a.values))}
	for i, v := range a.values {
		out.values[i] = strings.TrimSpace(v)
	}
	return out
}

func (a Answer) String() string {
	return strings.Join(a.values, " | ")
}

func (a Answer) MarshalJSON() ([]byte, error) {
	switch a.kind {
	case AnswerSingle:
		return json.Marshal(a.values[0])
	case AnswerMultiple:
		return json.Marshal(a.values)
	default:
		return []byte("null"), nil
	}
}

func (a *Answer) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*a = Answer{}
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return ErrAnswerShape
		}
		*a = SingleAnswer(s)
		return nil
	case '[':
		var list []string
		if err := json.Unmarshal(data, &list); err != nil {
			return ErrAnswerShape
		}
		*a = MultipleAnswers(list...)
		return nil
	default:
		return ErrAnswerShape
	}
}

// Value stores the answer as JSON in a jsonb column.
func (a Answer) Value() (driver.Value, error) {
	if a.IsZero() {
		return nil, nil
	}
	b, err := a.MarshalJSON()
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (a *Answer) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*a = Answer{}
		return nil
	case []byte:
		return a.UnmarshalJSON(v)
	case string:
		return a.UnmarshalJSON([]byte(v))
	default:
		return fmt.Errorf("%w: %T", errAnswerUnsupported, value)
	}
}
