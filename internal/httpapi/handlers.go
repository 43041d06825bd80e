package httpapi

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"math-quiz/internal/auth"
	"math-quiz/internal/quiz"
)

func (a *API) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}

func (a *API) HandleRegister(w http.ResponseWriter, r *http.Request) {
	if a.users == nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "auth service unavailable"})
		return
	}

	var request credentialsRequest
	if err := decodeJSON(w, r, &request); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	user, err := a.users.Register(r.Context(), request.Email, request.Password)
	if err != nil {
		writeAuthError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, registerResponse{UserID: user.ID, Email: user.Email})
}

func (a *API) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if a.users == nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "auth service unavailable"})
		return
	}

	var request credentialsRequest
	if err := decodeJSON(w, r, &request); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	session, err := a.users.Login(r.Context(), request.Email, request.Password)
	if err != nil {
		writeAuthError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		AccessToken: session.AccessToken,
		TokenType:   "Bearer",
		ExpiresAt:   session.ExpiresAt,
		UserID:      session.UserID,
	})
}

func (a *API) HandleListQuizzes(w http.ResponseWriter, r *http.Request) {
	if a.quizzes == nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "quiz service unavailable"})
		return
	}

	order := quiz.ParseSortOrder(r.URL.Query().Get("sort"))
	summaries, err := a.quizzes.ListQuizzes(r.Context(), auth.UserIDFromContext(r.Context()), order)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, listQuizzesResponse{Quizzes: summaries})
}

func (a *API) HandleNewQuestions(w http.ResponseWriter, r *http.Request) {
	if a.quizzes == nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "quiz service unavailable"})
		return
	}

	questionCount, err := parseIntParam(r, "question_count", a.defaultQuestionCount)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	questions, err := a.quizzes.NewQuestions(r.Context(), auth.UserIDFromContext(r.Context()), questionCount)
	if err != nil {
		a.logger.Printf("generate questions failed: %v", err)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, newQuestionsResponse{
		Questions: questions,
		MinAnswer: quiz.MinAnswer,
		MaxAnswer: quiz.MaxAnswer,
	})
}

func (a *API) HandleCreateQuiz(w http.ResponseWriter, r *http.Request) {
	const prefix = "Unable to create quiz"
	if a.quizzes == nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "quiz service unavailable"})
		return
	}

	var request quiz.QuestionsAndAnswers
	if err := decodeJSON(w, r, &request); err != nil {
		writeJSON(w, http.StatusBadRequest, submissionResponse{
			StatusCode: http.StatusBadRequest,
			Message:    prefix + ": " + err.Error(),
		})
		return
	}

	created, err := a.quizzes.CreateQuiz(r.Context(), auth.UserIDFromContext(r.Context()), request)
	if err != nil {
		a.logger.Printf("create quiz failed: %v", err)
		writeSubmissionError(w, prefix, err, true)
		return
	}

	score := created.Score
	writeJSON(w, http.StatusCreated, submissionResponse{
		Success:    true,
		StatusCode: http.StatusCreated,
		Message:    "Successfully created new quiz",
		QuizID:     created.ID,
		Score:      &score,
	})
}

func (a *API) HandleGetQuiz(w http.ResponseWriter, r *http.Request) {
	if a.quizzes == nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "quiz service unavailable"})
		return
	}

	details, err := a.quizzes.GetQuizWithAnswers(r.Context(), auth.UserIDFromContext(r.Context()), quizIDParam(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, details)
}

func (a *API) HandleUpdateAnswers(w http.ResponseWriter, r *http.Request) {
	const prefix = "Unable to update quiz"
	if a.quizzes == nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "quiz service unavailable"})
		return
	}

	var request quiz.Answers
	if err := decodeJSON(w, r, &request); err != nil {
		writeJSON(w, http.StatusBadRequest, submissionResponse{
			StatusCode: http.StatusBadRequest,
			Message:    prefix + ": " + err.Error(),
		})
		return
	}

	updated, err := a.quizzes.UpdateAnswers(r.Context(), auth.UserIDFromContext(r.Context()), quiz.UpdateAnswers{
		QuizID:  quizIDParam(r),
		Answers: request,
	})
	if err != nil {
		a.logger.Printf("update quiz failed: %v", err)
		writeSubmissionError(w, prefix, err, false)
		return
	}

	score := updated.Score
	writeJSON(w, http.StatusOK, submissionResponse{
		Success:    true,
		StatusCode: http.StatusOK,
		Message:    "Successfully updated quiz " + updated.ID,
		QuizID:     updated.ID,
		Score:      &score,
	})
}

func (a *API) HandleDeleteQuiz(w http.ResponseWriter, r *http.Request) {
	if a.quizzes == nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "quiz service unavailable"})
		return
	}

	if err := a.quizzes.DeleteQuiz(r.Context(), auth.UserIDFromContext(r.Context()), quizIDParam(r)); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func quizIDParam(r *http.Request) string {
	return strings.TrimSpace(chi.URLParam(r, "quiz_id"))
}
