package httpapi

import (
	"time"

	"math-quiz/internal/quiz"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerResponse struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

type loginResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
	UserID      string    `json:"user_id"`
}

type newQuestionsResponse struct {
	Questions []string `json:"questions"`
	MinAnswer int      `json:"min_answer"`
	MaxAnswer int      `json:"max_answer"`
}

type listQuizzesResponse struct {
	Quizzes []quiz.Summary `json:"quizzes"`
}

// submissionResponse is returned by the create and edit endpoints whether
// they succeed or fail.
type submissionResponse struct {
	Success    bool   `json:"success"`
	StatusCode int    `json:"status_code"`
	Message    string `json:"message"`
	QuizID     string `json:"quiz_id,omitempty"`
	Score      *int   `json:"score,omitempty"`
}

type healthResponse struct {
	Status string `json:"status"`
}

type errorResponse struct {
	Error string `json:"error"`
}
