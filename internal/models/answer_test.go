package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnswer_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantKind AnswerKind
		want     []string
		wantErr  error
	}{
		{name: "single string", input: `"42"`, wantKind: AnswerSingle, want: []string{"42"}},
		{name: "list of strings", input: `["1/2","0.5"]`, wantKind: AnswerMultiple, want: []string{"1/2", "0.5"}},
		{name: "null", input: `null`, wantKind: 0, want: []string{}},
		{name: "number rejected", input: `42`, wantErr: ErrAnswerShape},
		{name: "object rejected", input: `{"a":"b"}`, wantErr: ErrAnswerShape},
		{name: "mixed list rejected", input: `["a", 1]`, wantErr: ErrAnswerShape},
		{name: "bool rejected", input: `true`, wantErr: ErrAnswerShape},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var a Answer
			err := json.Unmarshal([]byte(tt.input), &a)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantKind, a.Kind())
			assert.Equal(t, tt.want, a.Values())
		})
	}
}

func TestAnswer_Validate(t *testing.T) {
	tests := []struct {
		name    string
		answer  Answer
		wantErr bool
	}{
		{name: "non-blank single", answer: SingleAnswer("x = 2")},
		{name: "empty single", answer: SingleAnswer(""), wantErr: true},
		{name: "blank single", answer: SingleAnswer("   "), wantErr: true},
		{name: "empty list", answer: MultipleAnswers(), wantErr: true},
		{name: "list with blank elements", answer: MultipleAnswers("a", "", ""), wantErr: true},
		{name: "valid list", answer: MultipleAnswers("a", "b")},
		{name: "zero value", answer: Answer{}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.answer.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrAnswerEmpty)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAnswer_MarshalKeepsShape(t *testing.T) {
	b, err := json.Marshal(SingleAnswer("7"))
	require.NoError(t, err)
	assert.JSONEq(t, `"7"`, string(b))

	b, err = json.Marshal(MultipleAnswers("7", "seven"))
	require.NoError(t, err)
	assert.JSONEq(t, `["7","seven"]`, string(b))
}

func TestAnswer_ScanValue(t *testing.T) {
	v, err := MultipleAnswers("a", "b").Value()
	require.NoError(t, err)

	var a Answer
	require.NoError(t, a.Scan([]byte(v.(string))))
	assert.Equal(t, AnswerMultiple, a.Kind())
	assert.Equal(t, []string{"a", "b"}, a.Values())

	assert.Error(t, a.Scan(12))
}

func TestAnswer_Trimmed(t *testing.T) {
	a := MultipleAnswers("  a ", "b  ").Trimmed()
	assert.Equal(t, []string{"a", "b"}, a.Values())
	assert.Equal(t, "a | b", a.String())
}
