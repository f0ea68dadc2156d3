package services

import (
	"strings"
	"unicode"

	"github.com/SAP-F-2025/math-practice-service/internal/models"
)

// Scorer decides whether a submitted answer is correct for a problem.
type Scorer interface {
	Score(problem *models.Problem, userAnswer string) bool
}

// NormalizedScorer compares answers case-insensitively with all whitespace
// removed, against every acceptable answer of the problem.
type NormalizedScorer struct{}

func NewNormalizedScorer() *NormalizedScorer {
	return &NormalizedScorer{}
}

func (NormalizedScorer) Score(problem *models.Problem, userAnswer string) bool {
	given := normalizeAnswer(userAnswer)
	if given == "" {
		return false
	}
	for _, accepted := range problem.Answer.Values() {
		if normalizeAnswer(accepted) == given {
			return true
		}
	}
	return false
}

func normalizeAnswer(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToLower(r)
	}, s)
}
