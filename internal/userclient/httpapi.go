package userclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"math-quiz/internal/quiz"
)

var ErrServiceUnavailable = errors.New("quiz service unavailable")

type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if strings.TrimSpace(e.Message) == "" {
		return fmt.Sprintf("request failed with status %d", e.StatusCode)
	}
	return e.Message
}

// HTTPClient talks to the quiz service. Login stores the access token used
// by every later call.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

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

type submissionResponse struct {
	Success    bool   `json:"success"`
	StatusCode int    `json:"status_code"`
	Message    string `json:"message"`
	QuizID     string `json:"quiz_id,omitempty"`
	Score      *int   `json:"score,omitempty"`
}

// errorResponse covers both the {"error"} body and the submission envelope.
type errorResponse struct {
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

func NewHTTPClient(baseURL string, httpClient *http.Client) *HTTPClient {
	baseURL = strings.TrimSpace(baseURL)
	baseURL = strings.TrimRight(baseURL, "/")
	if baseURL == "" {
		baseURL = "http://127.0.0.1:8080"
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &HTTPClient{
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

func (c *HTTPClient) LoggedIn() bool {
	return c.token != ""
}

func (c *HTTPClient) Register(ctx context.Context, email, password string) (registerResponse, error) {
	var payload registerResponse
	err := c.doJSON(ctx, http.MethodPost, "/auth/register", credentialsRequest{Email: email, Password: password}, &payload)
	return payload, err
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (loginResponse, error) {
	var payload loginResponse
	if err := c.doJSON(ctx, http.MethodPost, "/auth/login", credentialsRequest{Email: email, Password: password}, &payload); err != nil {
		return loginResponse{}, err
	}
	c.token = payload.AccessToken
	return payload, nil
}

func (c *HTTPClient) NewQuestions(ctx context.Context, count int) (newQuestionsResponse, error) {
	path := "/quizzes/new"
	if count > 0 {
		query := url.Values{}
		query.Set("question_count", strconv.Itoa(count))
		path += "?" + query.Encode()
	}

	var payload newQuestionsResponse
	err := c.doJSON(ctx, http.MethodGet, path, nil, &payload)
	return payload, err
}

func (c *HTTPClient) CreateQuiz(ctx context.Context, questions []string, answers []*int) (submissionResponse, error) {
	request := quiz.QuestionsAndAnswers{
		Questions: questions,
		Answers:   quiz.Answers{UserAnswers: answers},
	}

	var payload submissionResponse
	err := c.doJSON(ctx, http.MethodPost, "/quizzes", request, &payload)
	return payload, err
}

func (c *HTTPClient) ListQuizzes(ctx context.Context, sort string) ([]quiz.Summary, error) {
	path := "/quizzes"
	if strings.TrimSpace(sort) != "" {
		query := url.Values{}
		query.Set("sort", sort)
		path += "?" + query.Encode()
	}

	var payload listQuizzesResponse
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &payload); err != nil {
		return nil, err
	}
	return payload.Quizzes, nil
}

func (c *HTTPClient) GetQuiz(ctx context.Context, quizID string) (quiz.WithAnswers, error) {
	if strings.TrimSpace(quizID) == "" {
		return quiz.WithAnswers{}, errors.New("quiz_id is required")
	}

	var payload quiz.WithAnswers
	err := c.doJSON(ctx, http.MethodGet, "/quizzes/"+url.PathEscape(quizID), nil, &payload)
	return payload, err
}

func (c *HTTPClient) UpdateAnswers(ctx context.Context, quizID string, answers []*int) (submissionResponse, error) {
	if strings.TrimSpace(quizID) == "" {
		return submissionResponse{}, errors.New("quiz_id is required")
	}

	var payload submissionResponse
	err := c.doJSON(ctx, http.MethodPut, "/quizzes/"+url.PathEscape(quizID)+"/answers", quiz.Answers{UserAnswers: answers}, &payload)
	return payload, err
}

func (c *HTTPClient) DeleteQuiz(ctx context.Context, quizID string) error {
	if strings.TrimSpace(quizID) == "" {
		return errors.New("quiz_id is required")
	}
	return c.doJSON(ctx, http.MethodDelete, "/quizzes/"+url.PathEscape(quizID), nil, nil)
}

func (c *HTTPClient) doJSON(ctx context.Context, method, path string, requestBody any, responseBody any) error {
	fullURL := c.baseURL + path

	var body io.Reader
	if requestBody != nil {
		encoded, err := json.Marshal(requestBody)
		if err != nil {
			return err
		}
		body = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return err
	}
	if requestBody != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		request.Header.Set("Authorization", "Bearer "+c.token)
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	defer response.Body.Close()

	if response.StatusCode < http.StatusOK || response.StatusCode >= http.StatusMultipleChoices {
		apiErr := APIError{StatusCode: response.StatusCode}
		var payload errorResponse
		if err := json.NewDecoder(response.Body).Decode(&payload); err == nil {
			apiErr.Message = strings.TrimSpace(payload.Error)
			if apiErr.Message == "" {
				apiErr.Message = strings.TrimSpace(payload.Message)
			}
		}
		if apiErr.Message == "" {
			apiErr.Message = response.Status
		}
		return &apiErr
	}

	if responseBody == nil || response.StatusCode == http.StatusNoContent {
		return nil
	}
	return json.NewDecoder(response.Body).Decode(responseBody)
}
