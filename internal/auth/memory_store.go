package auth

import (
	"context"
	"sync"
	"time"
)

// MemoryUserStore is a UserRepository kept in process memory.
type MemoryUserStore struct {
	mu      sync.RWMutex
	byEmail map[string]User
	emailOf map[string]string
}

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{
		byEmail: make(map[string]User),
		emailOf: make(map[string]string),
	}
}

func (m *MemoryUserStore) CreateUser(_ context.Context, user User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byEmail[user.Email]; ok {
		return ErrEmailTaken
	}
	m.byEmail[user.Email] = user
	m.emailOf[user.ID] = user.Email
	return nil
}

func (m *MemoryUserStore) GetUserByEmail(_ context.Context, email string) (User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	user, ok := m.byEmail[email]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return user, nil
}

func (m *MemoryUserStore) RecordFailedLogin(_ context.Context, userID string, maxFailures int, lockUntil time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	email, ok := m.emailOf[userID]
	if !ok {
		return false, ErrUserNotFound
	}
	user := m.byEmail[email]
	user.FailedLogins++
	locked := user.FailedLogins >= maxFailures
	if locked {
		user.FailedLogins = 0
		user.LockedUntil = lockUntil
	}
	m.byEmail[email] = user
	return locked, nil
}

func (m *MemoryUserStore) ResetLoginState(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	email, ok := m.emailOf[userID]
	if !ok {
		return ErrUserNotFound
	}
	user := m.byEmail[email]
	user.FailedLogins = 0
	user.LockedUntil = time.Time{}
	m.byEmail[email] = user
	return nil
}
