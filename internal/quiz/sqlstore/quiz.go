package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"math-quiz/internal/quiz"
)

var errDuplicateQuizID = errors.New("quiz id already exists")

const quizColumns = `quiz_id, owner_id, questions_json, answers_json, score, created_at_unix, version`

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *Store) CreateQuiz(ctx context.Context, q quiz.Quiz) error {
	if q.ID == "" {
		return errors.New("quiz id is required")
	}
	if q.Version == 0 {
		q.Version = 1
	}
	if q.CreatedAt.IsZero() {
		q.CreatedAt = time.Now().UTC()
	}

	questionsJSON, err := json.Marshal(q.Questions)
	if err != nil {
		return err
	}
	answersJSON, err := json.Marshal(q.UserAnswers)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(
		ctx,
		`INSERT INTO quizzes (`+quizColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		q.ID,
		q.OwnerID,
		string(questionsJSON),
		string(answersJSON),
		q.Score,
		q.CreatedAt.UnixNano(),
		q.Version,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return errDuplicateQuizID
		}
		return err
	}
	return nil
}

func (s *Store) GetQuiz(ctx context.Context, quizID string) (quiz.Quiz, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT `+quizColumns+` FROM quizzes WHERE quiz_id = $1`,
		quizID,
	)
	q, err := scanQuiz(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return quiz.Quiz{}, quiz.ErrQuizNotFound
		}
		return quiz.Quiz{}, err
	}
	return q, nil
}

func (s *Store) QuizExists(ctx context.Context, quizID string) (bool, error) {
	var found int
	err := s.db.QueryRowContext(
		ctx,
		`SELECT 1 FROM quizzes WHERE quiz_id = $1 LIMIT 1`,
		quizID,
	).Scan(&found)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *Store) ListQuizzesByOwner(ctx context.Context, ownerID string) ([]quiz.Quiz, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+quizColumns+`
		 FROM quizzes
		 WHERE owner_id = $1
		 ORDER BY created_at_unix DESC, quiz_id ASC`,
		ownerID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	quizzes := make([]quiz.Quiz, 0)
	for rows.Next() {
		q, err := scanQuiz(rows)
		if err != nil {
			return nil, err
		}
		quizzes = append(quizzes, q)
	}
	return quizzes, rows.Err()
}

// UpdateQuizAnswers writes the answer sheet and score only if the stored
// version still equals q.Version, then bumps the version.
func (s *Store) UpdateQuizAnswers(ctx context.Context, q quiz.Quiz) (quiz.Quiz, error) {
	answersJSON, err := json.Marshal(q.UserAnswers)
	if err != nil {
		return quiz.Quiz{}, err
	}

	result, err := s.db.ExecContext(
		ctx,
		`UPDATE quizzes
		 SET answers_json = $1, score = $2, version = version + 1
		 WHERE quiz_id = $3 AND version = $4`,
		string(answersJSON),
		q.Score,
		q.ID,
		q.Version,
	)
	if err != nil {
		return quiz.Quiz{}, err
	}

	updated, err := result.RowsAffected()
	if err != nil {
		return quiz.Quiz{}, err
	}
	if updated == 0 {
		exists, err := s.QuizExists(ctx, q.ID)
		if err != nil {
			return quiz.Quiz{}, err
		}
		if !exists {
			return quiz.Quiz{}, quiz.ErrQuizNotFound
		}
		return quiz.Quiz{}, quiz.ErrConcurrentUpdate
	}

	return s.GetQuiz(ctx, q.ID)
}

func (s *Store) DeleteQuiz(ctx context.Context, quizID string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM quizzes WHERE quiz_id = $1`, quizID)
	if err != nil {
		return err
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if deleted == 0 {
		return quiz.ErrQuizNotFound
	}
	return nil
}

func scanQuiz(row rowScanner) (quiz.Quiz, error) {
	var (
		q             quiz.Quiz
		questionsJSON string
		answersJSON   string
		createdAtUnix int64
	)
	if err := row.Scan(&q.ID, &q.OwnerID, &questionsJSON, &answersJSON, &q.Score, &createdAtUnix, &q.Version); err != nil {
		return quiz.Quiz{}, err
	}
	if err := json.Unmarshal([]byte(questionsJSON), &q.Questions); err != nil {
		return quiz.Quiz{}, fmt.Errorf("decode questions of %s: %w", q.ID, err)
	}
	if err := json.Unmarshal([]byte(answersJSON), &q.UserAnswers); err != nil {
		return quiz.Quiz{}, fmt.Errorf("decode answers of %s: %w", q.ID, err)
	}
	q.CreatedAt = time.Unix(0, createdAtUnix).UTC()
	return q, nil
}
