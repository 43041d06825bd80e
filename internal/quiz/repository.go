package quiz

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrQuizNotFound        = errors.New("quiz not found")
	ErrForbidden           = errors.New("access to quiz denied")
	ErrUnauthenticated     = errors.New("user is not authenticated")
	ErrConcurrentUpdate    = errors.New("quiz was modified concurrently")
	ErrLengthMismatch      = errors.New("questions and answers differ in length")
	ErrGenerationExhausted = errors.New("question generator exhausted candidate attempts")
)

// PersistenceError wraps an opaque failure from a Repository.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Repository stores quizzes. GetQuiz, UpdateQuizAnswers and DeleteQuiz return
// ErrQuizNotFound for unknown ids; UpdateQuizAnswers returns ErrConcurrentUpdate
// when the stored version no longer matches quiz.Version.
type Repository interface {
	CreateQuiz(ctx context.Context, quiz Quiz) error
	GetQuiz(ctx context.Context, quizID string) (Quiz, error)
	QuizExists(ctx context.Context, quizID string) (bool, error)
	ListQuizzesByOwner(ctx context.Context, ownerID string) ([]Quiz, error)
	UpdateQuizAnswers(ctx context.Context, quiz Quiz) (Quiz, error)
	DeleteQuiz(ctx context.Context, quizID string) error
}
