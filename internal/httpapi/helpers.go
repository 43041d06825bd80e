package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"math-quiz/internal/arith"
	"math-quiz/internal/auth"
	"math-quiz/internal/quiz"
)

const maxBodyBytes = 1 << 20

// writeServiceError maps quiz errors for the read and delete endpoints.
func writeServiceError(w http.ResponseWriter, err error) {
	var validationErr *quiz.ValidationError
	switch {
	case errors.As(err, &validationErr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: validationErr.Error()})
	case errors.Is(err, quiz.ErrUnauthenticated):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "authentication required"})
	case errors.Is(err, quiz.ErrForbidden):
		writeJSON(w, http.StatusForbidden, errorResponse{Error: "access to quiz denied"})
	case errors.Is(err, quiz.ErrQuizNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "quiz not found"})
	case errors.Is(err, quiz.ErrConcurrentUpdate):
		writeJSON(w, http.StatusConflict, errorResponse{Error: "quiz was modified by another request"})
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "request failed"})
	}
}

// submissionStatus classifies a create or edit failure. Unevaluable
// questions are the client's fault on create and a stored-data fault on edit.
func submissionStatus(err error, clientQuestions bool) int {
	var (
		validationErr *quiz.ValidationError
		evalErr       *arith.EvalError
	)
	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest
	case errors.As(err, &evalErr):
		if clientQuestions {
			return http.StatusBadRequest
		}
		return http.StatusInternalServerError
	case errors.Is(err, quiz.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, quiz.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, quiz.ErrQuizNotFound):
		return http.StatusNotFound
	case errors.Is(err, quiz.ErrConcurrentUpdate):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeSubmissionError(w http.ResponseWriter, prefix string, err error, clientQuestions bool) {
	status := submissionStatus(err, clientQuestions)

	var message string
	var validationErr *quiz.ValidationError
	switch {
	case errors.As(err, &validationErr):
		message = fmt.Sprintf("%s: data was invalid\nErrors: %s", prefix, validationErr.Error())
	case status == http.StatusBadRequest:
		message = fmt.Sprintf("%s: %v", prefix, err)
	case status == http.StatusNotFound:
		message = prefix + ": quiz cannot be found"
	case status == http.StatusForbidden:
		message = prefix + ": access to quiz denied"
	case status == http.StatusConflict:
		message = prefix + ": quiz was modified by another request"
	case status == http.StatusUnauthorized:
		message = prefix + ": authentication required"
	default:
		message = prefix + ": unexpected error encountered"
	}

	writeJSON(w, status, submissionResponse{
		Success:    false,
		StatusCode: status,
		Message:    message,
	})
}

func writeAuthError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, auth.ErrInvalidEmail), errors.Is(err, auth.ErrWeakPassword):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, auth.ErrEmailTaken):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: err.Error()})
	case errors.Is(err, auth.ErrAccountLocked):
		writeJSON(w, http.StatusLocked, errorResponse{Error: err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "request failed"})
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	defer r.Body.Close()
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := decoder.Decode(dst); err != nil {
		return errors.New("invalid JSON body")
	}
	return nil
}

func parseIntParam(r *http.Request, key string, defaultValue int) (int, error) {
	value := strings.TrimSpace(r.URL.Query().Get(key))
	if value == "" {
		return defaultValue, nil
	}

	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return 0, errors.New(key + " must be a positive integer")
	}
	return parsed, nil
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}
