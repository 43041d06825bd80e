package quiz

import (
	"context"
	"errors"
	"sort"
	"sync"
)

// MemoryStore is a Repository kept in process memory. Quizzes are copied in
// and out so callers never share slices with the store.
type MemoryStore struct {
	mu      sync.RWMutex
	quizzes map[string]Quiz
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{quizzes: make(map[string]Quiz)}
}

func (m *MemoryStore) CreateQuiz(_ context.Context, quiz Quiz) error {
	if quiz.ID == "" {
		return errors.New("quiz id is required")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.quizzes[quiz.ID]; exists {
		return errors.New("quiz id already exists")
	}
	if quiz.Version == 0 {
		quiz.Version = 1
	}
	m.quizzes[quiz.ID] = cloneQuiz(quiz)
	return nil
}

func (m *MemoryStore) GetQuiz(_ context.Context, quizID string) (Quiz, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	quiz, ok := m.quizzes[quizID]
	if !ok {
		return Quiz{}, ErrQuizNotFound
	}
	return cloneQuiz(quiz), nil
}

func (m *MemoryStore) QuizExists(_ context.Context, quizID string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.quizzes[quizID]
	return ok, nil
}

func (m *MemoryStore) ListQuizzesByOwner(_ context.Context, ownerID string) ([]Quiz, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Quiz, 0)
	for _, quiz := range m.quizzes {
		if quiz.OwnerID == ownerID {
			out = append(out, cloneQuiz(quiz))
		}
	}
	// Newest first, ties by id, matching the SQL store.
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *MemoryStore) UpdateQuizAnswers(_ context.Context, quiz Quiz) (Quiz, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.quizzes[quiz.ID]
	if !ok {
		return Quiz{}, ErrQuizNotFound
	}
	if stored.Version != quiz.Version {
		return Quiz{}, ErrConcurrentUpdate
	}

	stored.UserAnswers = cloneAnswers(quiz.UserAnswers)
	stored.Score = quiz.Score
	stored.Version++
	m.quizzes[quiz.ID] = stored
	return cloneQuiz(stored), nil
}

func (m *MemoryStore) DeleteQuiz(_ context.Context, quizID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.quizzes[quizID]; !ok {
		return ErrQuizNotFound
	}
	delete(m.quizzes, quizID)
	return nil
}
