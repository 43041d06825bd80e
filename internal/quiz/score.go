package quiz

import (
	"fmt"

	"math-quiz/internal/arith"
)

// CorrectAnswers evaluates every question. The first question that cannot be
// evaluated fails the whole call.
func CorrectAnswers(questions []string) ([]int, error) {
	correct := make([]int, len(questions))
	for idx, question := range questions {
		value, err := arith.Evaluate(question)
		if err != nil {
			return nil, fmt.Errorf("question %d: %w", idx+1, err)
		}
		correct[idx] = value
	}
	return correct, nil
}

// Score counts answers equal to the correct answer of the matching question.
// Unanswered (nil) entries never match.
func Score(questions []string, answers []*int) (int, error) {
	if len(questions) != len(answers) {
		return 0, fmt.Errorf("%w: %d questions, %d answers", ErrLengthMismatch, len(questions), len(answers))
	}

	correct, err := CorrectAnswers(questions)
	if err != nil {
		return 0, err
	}
	return tally(correct, answers), nil
}

// ScorePercentage is score as a percentage of questionCount, 0 for an empty quiz.
func ScorePercentage(score, questionCount int) float64 {
	if questionCount <= 0 {
		return 0
	}
	return float64(score) / float64(questionCount) * 100
}

func tally(correct []int, answers []*int) int {
	score := 0
	for idx, answer := range answers {
		if answer != nil && *answer == correct[idx] {
			score++
		}
	}
	return score
}
