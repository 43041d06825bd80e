package quiz

import (
	"context"
	"time"
)

const (
	MinAnswer = -500
	MaxAnswer = 500
)

// Answers is the answer sheet submitted by a user. A nil entry is an
// unanswered question.
type Answers struct {
	UserAnswers []*int `json:"user_answers" validate:"required,dive,omitempty,min=-500,max=500"`
}

type QuestionsAndAnswers struct {
	Questions []string `json:"questions" validate:"required,min=1"`
	Answers
}

// UpdateAnswers replaces the answer sheet of an existing quiz.
type UpdateAnswers struct {
	QuizID string `json:"quiz_id" validate:"required"`
	Answers
}

type Quiz struct {
	ID string `json:"quiz_id"`
	QuestionsAndAnswers
	Score     int       `json:"score" validate:"min=0"`
	CreatedAt time.Time `json:"created_at" validate:"required"`
	OwnerID   string    `json:"owner_id" validate:"required"`
	Version   int64     `json:"version"`
}

// Summary is a listing row: the quiz plus its score as a percentage.
type Summary struct {
	Quiz            Quiz    `json:"quiz"`
	ScorePercentage float64 `json:"score_percentage"`
}

// WithAnswers pairs a quiz with the correct answer of every question.
type WithAnswers struct {
	Quiz           Quiz  `json:"quiz"`
	CorrectAnswers []int `json:"correct_answers"`
}

// Validate checks the invariants of a fully populated quiz. A failure here
// means the server computed a bad field, not that the user sent bad input.
func (q Quiz) Validate() error {
	return check(context.Background(), q)
}

func cloneAnswers(answers []*int) []*int {
	if answers == nil {
		return nil
	}
	out := make([]*int, len(answers))
	for idx, answer := range answers {
		if answer != nil {
			value := *answer
			out[idx] = &value
		}
	}
	return out
}

func cloneQuiz(q Quiz) Quiz {
	out := q
	if q.Questions != nil {
		out.Questions = append([]string(nil), q.Questions...)
	}
	out.UserAnswers = cloneAnswers(q.UserAnswers)
	return out
}
