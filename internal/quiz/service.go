package quiz

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"math/rand"
	"sort"
	"strings"
	"time"
)

const (
	DefaultQuestionCount = 10
	MaxQuestionCount     = 50
)

// ErrInvalidQuizState means a quiz assembled by the service failed its own
// invariants before being saved.
var ErrInvalidQuizState = errors.New("quiz is invalid after populating computed fields")

type SortOrder string

const (
	SortCreatedDesc SortOrder = "created_desc"
	SortCreatedAsc  SortOrder = "created_asc"
	SortScoreDesc   SortOrder = "score_desc"
	SortScoreAsc    SortOrder = "score_asc"
)

// ParseSortOrder maps a query value to a SortOrder, defaulting to newest first.
func ParseSortOrder(value string) SortOrder {
	switch SortOrder(strings.ToLower(strings.TrimSpace(value))) {
	case SortCreatedAsc:
		return SortCreatedAsc
	case SortScoreDesc:
		return SortScoreDesc
	case SortScoreAsc:
		return SortScoreAsc
	default:
		return SortCreatedDesc
	}
}

type Service struct {
	quizzes          Repository
	policy           Policy
	logger           *log.Logger
	newSource        func() rand.Source
	now              func() time.Time
	maxQuestionCount int
}

type Option func(*Service)

// WithSourceFactory sets how each generation call obtains its random source.
func WithSourceFactory(factory func() rand.Source) Option {
	return func(s *Service) {
		if factory != nil {
			s.newSource = factory
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func WithMaxQuestionCount(limit int) Option {
	return func(s *Service) {
		if limit > 0 {
			s.maxQuestionCount = limit
		}
	}
}

func NewService(quizzes Repository, policy Policy, logger *log.Logger, opts ...Option) *Service {
	if policy == nil {
		policy = OwnerPolicy{}
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	s := &Service{
		quizzes: quizzes,
		policy:  policy,
		logger:  logger,
		newSource: func() rand.Source {
			return rand.NewSource(time.Now().UnixNano())
		},
		now: func() time.Time {
			return time.Now().UTC()
		},
		maxQuestionCount: MaxQuestionCount,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) MaxQuestionCount() int {
	return s.maxQuestionCount
}

// NewQuestions generates a fresh question set for userID to answer.
func (s *Service) NewQuestions(_ context.Context, userID string, count int) ([]string, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}
	if count <= 0 || count > s.maxQuestionCount {
		return nil, &ValidationError{Problems: []string{
			fmt.Sprintf("question_count must be between 1 and %d", s.maxQuestionCount),
		}}
	}

	questions, err := NewGenerator(s.newSource(), s.logger).Generate(count)
	if err != nil {
		return nil, err
	}
	s.logger.Printf("user %s requested %d new questions", userID, count)
	return questions, nil
}

// CreateQuiz scores the submitted sheet and stores it as a new quiz owned by
// userID. Questions that cannot be evaluated surface as *arith.EvalError.
func (s *Service) CreateQuiz(ctx context.Context, userID string, submission QuestionsAndAnswers) (Quiz, error) {
	if userID == "" {
		return Quiz{}, ErrUnauthenticated
	}
	submission.Questions = NormalizeQuestions(submission.Questions)
	if err := ValidateQuestionsAndAnswers(submission); err != nil {
		s.logger.Printf("create quiz rejected for user %s: %v", userID, err)
		return Quiz{}, err
	}

	score, err := s.score(submission.Questions, submission.UserAnswers)
	if err != nil {
		return Quiz{}, err
	}

	quiz := Quiz{
		ID: generateQuizID(),
		QuestionsAndAnswers: QuestionsAndAnswers{
			Questions: submission.Questions,
			Answers:   Answers{UserAnswers: cloneAnswers(submission.UserAnswers)},
		},
		Score:     score,
		CreatedAt: s.now(),
		OwnerID:   userID,
		Version:   1,
	}
	if err := quiz.Validate(); err != nil {
		s.logger.Printf("populated quiz failed validation: %v", err)
		return Quiz{}, fmt.Errorf("%w: %v", ErrInvalidQuizState, err)
	}

	if err := s.quizzes.CreateQuiz(ctx, quiz); err != nil {
		return Quiz{}, &PersistenceError{Op: "create quiz", Err: err}
	}

	s.logger.Printf("user %s created quiz %s (score %d/%d)", userID, quiz.ID, quiz.Score, len(quiz.Questions))
	return quiz, nil
}

// ListQuizzes returns the quizzes owned by userID with score percentages.
func (s *Service) ListQuizzes(ctx context.Context, userID string, order SortOrder) ([]Summary, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}

	quizzes, err := s.quizzes.ListQuizzesByOwner(ctx, userID)
	if err != nil {
		return nil, &PersistenceError{Op: "list quizzes", Err: err}
	}

	summaries := make([]Summary, 0, len(quizzes))
	for _, quiz := range quizzes {
		summaries = append(summaries, Summary{
			Quiz:            quiz,
			ScorePercentage: ScorePercentage(quiz.Score, len(quiz.Questions)),
		})
	}
	sortSummaries(summaries, order)

	s.logger.Printf("user %s listed quizzes, found %d", userID, len(summaries))
	return summaries, nil
}

// GetQuizWithAnswers loads a quiz userID may access, with its correct answers.
func (s *Service) GetQuizWithAnswers(ctx context.Context, userID, quizID string) (WithAnswers, error) {
	quiz, err := s.authorizedQuiz(ctx, userID, quizID)
	if err != nil {
		return WithAnswers{}, err
	}

	correct, err := CorrectAnswers(quiz.Questions)
	if err != nil {
		s.logger.Printf("stored quiz %s has unevaluable questions: %v", quiz.ID, err)
		return WithAnswers{}, err
	}
	return WithAnswers{Quiz: quiz, CorrectAnswers: correct}, nil
}

// UpdateAnswers replaces the answers of a quiz and recomputes its score.
func (s *Service) UpdateAnswers(ctx context.Context, userID string, update UpdateAnswers) (Quiz, error) {
	if err := ValidateAnswers(update.Answers); err != nil {
		return Quiz{}, err
	}

	quiz, err := s.authorizedQuiz(ctx, userID, update.QuizID)
	if err != nil {
		return Quiz{}, err
	}
	if err := ValidateUpdate(update, len(quiz.Questions)); err != nil {
		return Quiz{}, err
	}

	score, err := s.score(quiz.Questions, update.UserAnswers)
	if err != nil {
		return Quiz{}, err
	}

	quiz.UserAnswers = cloneAnswers(update.UserAnswers)
	quiz.Score = score
	if err := quiz.Validate(); err != nil {
		s.logger.Printf("updated quiz %s failed validation: %v", quiz.ID, err)
		return Quiz{}, fmt.Errorf("%w: %v", ErrInvalidQuizState, err)
	}

	updated, err := s.quizzes.UpdateQuizAnswers(ctx, quiz)
	if err != nil {
		if errors.Is(err, ErrQuizNotFound) || errors.Is(err, ErrConcurrentUpdate) {
			s.logger.Printf("update of quiz %s failed: %v", quiz.ID, err)
			return Quiz{}, err
		}
		return Quiz{}, &PersistenceError{Op: "update quiz", Err: err}
	}

	s.logger.Printf("user %s updated quiz %s (score %d/%d)", userID, updated.ID, updated.Score, len(updated.Questions))
	return updated, nil
}

// DeleteQuiz removes a quiz userID may access.
func (s *Service) DeleteQuiz(ctx context.Context, userID, quizID string) error {
	quiz, err := s.authorizedQuiz(ctx, userID, quizID)
	if err != nil {
		return err
	}

	if err := s.quizzes.DeleteQuiz(ctx, quiz.ID); err != nil {
		if errors.Is(err, ErrQuizNotFound) {
			return err
		}
		return &PersistenceError{Op: "delete quiz", Err: err}
	}

	s.logger.Printf("user %s deleted quiz %s", userID, quiz.ID)
	return nil
}

func (s *Service) authorizedQuiz(ctx context.Context, userID, quizID string) (Quiz, error) {
	quizID = strings.TrimSpace(quizID)
	if quizID == "" {
		return Quiz{}, ErrQuizNotFound
	}

	quiz, err := s.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		if errors.Is(err, ErrQuizNotFound) {
			return Quiz{}, err
		}
		return Quiz{}, &PersistenceError{Op: "get quiz", Err: err}
	}

	if !s.policy.CanAccess(userID, quiz) {
		if userID == "" {
			s.logger.Printf("unauthenticated request for quiz %s", quizID)
			return Quiz{}, ErrUnauthenticated
		}
		s.logger.Printf("user %s denied access to quiz %s", userID, quizID)
		return Quiz{}, ErrForbidden
	}
	return quiz, nil
}

func (s *Service) score(questions []string, answers []*int) (int, error) {
	score, err := Score(questions, answers)
	if err != nil {
		s.logger.Printf("unable to score %d questions: %v", len(questions), err)
		return 0, err
	}
	s.logger.Printf("scored %d/%d correct", score, len(questions))
	return score, nil
}

func sortSummaries(summaries []Summary, order SortOrder) {
	sort.SliceStable(summaries, func(i, j int) bool {
		a, b := summaries[i], summaries[j]
		switch order {
		case SortScoreAsc:
			return a.ScorePercentage < b.ScorePercentage
		case SortScoreDesc:
			return a.ScorePercentage > b.ScorePercentage
		case SortCreatedAsc:
			return a.Quiz.CreatedAt.Before(b.Quiz.CreatedAt)
		default:
			return a.Quiz.CreatedAt.After(b.Quiz.CreatedAt)
		}
	})
}

func generateQuizID() string {
	const alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	const length = 10

	var builder strings.Builder
	builder.Grow(len("qz_") + length)
	builder.WriteString("qz_")
	for idx := 0; idx < length; idx++ {
		builder.WriteByte(alphabet[rand.Intn(len(alphabet))])
	}
	return builder.String()
}
