package httpapi

import (
	"io"
	"log"

	"math-quiz/internal/auth"
	"math-quiz/internal/quiz"
)

const defaultQuestionCount = quiz.DefaultQuestionCount

type API struct {
	quizzes *quiz.Service
	users   *auth.Service
	logger  *log.Logger

	defaultQuestionCount int
}

func NewAPI(quizzes *quiz.Service, users *auth.Service, logger *log.Logger) *API {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &API{
		quizzes:              quizzes,
		users:                users,
		logger:               logger,
		defaultQuestionCount: defaultQuestionCount,
	}
}

// SetDefaultQuestionCount changes the count used when a request omits
// question_count. Non-positive values are ignored.
func (a *API) SetDefaultQuestionCount(count int) {
	if count > 0 {
		a.defaultQuestionCount = count
	}
}
