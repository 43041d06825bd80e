package quiz

import (
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"
)

func TestAnswerInRangeBoundaries(t *testing.T) {
	tests := []struct {
		answer *int
		want   bool
	}{
		{answer: nil, want: true},
		{answer: intPtr(-500), want: true},
		{answer: intPtr(500), want: true},
		{answer: intPtr(0), want: true},
		{answer: intPtr(-501), want: false},
		{answer: intPtr(501), want: false},
	}

	for _, tc := range tests {
		if got := AnswerInRange(tc.answer); got != tc.want {
			value := "nil"
			if tc.answer != nil {
				value = strconv.Itoa(*tc.answer)
			}
			t.Fatalf("AnswerInRange(%s) = %t, want %t", value, got, tc.want)
		}
	}
}

func TestValidateQuestionsAndAnswers(t *testing.T) {
	tests := []struct {
		name    string
		input   QuestionsAndAnswers
		wantErr string
	}{
		{
			name:  "valid",
			input: QuestionsAndAnswers{Questions: []string{"1+1"}, Answers: Answers{UserAnswers: []*int{nil}}},
		},
		{
			name:    "nil answers",
			input:   QuestionsAndAnswers{Questions: []string{"1+1"}},
			wantErr: "A list of answers is required",
		},
		{
			name:    "nil questions",
			input:   QuestionsAndAnswers{Answers: Answers{UserAnswers: []*int{}}},
			wantErr: "A list of questions is required",
		},
		{
			name:    "length mismatch",
			input:   QuestionsAndAnswers{Questions: []string{"1+1", "2+2"}, Answers: Answers{UserAnswers: []*int{nil}}},
			wantErr: "The number of answers must match the number of questions.",
		},
		{
			name:    "out of range",
			input:   QuestionsAndAnswers{Questions: []string{"1+1"}, Answers: Answers{UserAnswers: []*int{intPtr(501)}}},
			wantErr: "within the range: -500 to 500",
		},
		{
			name:    "empty question list",
			input:   QuestionsAndAnswers{Questions: []string{}, Answers: Answers{UserAnswers: []*int{}}},
			wantErr: "At least one question is required",
		},
		{
			name:    "empty question",
			input:   QuestionsAndAnswers{Questions: []string{" "}, Answers: Answers{UserAnswers: []*int{nil}}},
			wantErr: "Question 1 is empty",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateQuestionsAndAnswers(tc.input)
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}

			var validationErr *ValidationError
			if !errors.As(err, &validationErr) {
				t.Fatalf("expected *ValidationError, got %T (%v)", err, err)
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("error %q does not mention %q", err.Error(), tc.wantErr)
			}
		})
	}
}

func TestValidationErrorJoinsProblems(t *testing.T) {
	err := ValidateQuestionsAndAnswers(QuestionsAndAnswers{})
	if err == nil {
		t.Fatalf("expected error")
	}
	if got := err.Error(); got != "A list of questions is required, A list of answers is required" {
		t.Fatalf("joined message = %q", got)
	}
}

func TestValidateUpdate(t *testing.T) {
	if err := ValidateUpdate(UpdateAnswers{QuizID: "qz_1", Answers: Answers{UserAnswers: []*int{nil, intPtr(3)}}}, 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err := ValidateUpdate(UpdateAnswers{QuizID: "qz_1", Answers: Answers{UserAnswers: []*int{nil}}}, 2)
	if err == nil || !strings.Contains(err.Error(), "must match the number of questions") {
		t.Fatalf("expected length error, got %v", err)
	}
	if err := ValidateUpdate(UpdateAnswers{Answers: Answers{UserAnswers: []*int{}}}, 0); err == nil {
		t.Fatalf("expected missing quiz id error")
	}
}

func TestQuizValidate(t *testing.T) {
	valid := Quiz{
		ID: "qz_1",
		QuestionsAndAnswers: QuestionsAndAnswers{
			Questions: []string{"1+1"},
			Answers:   Answers{UserAnswers: []*int{intPtr(2)}},
		},
		Score:     1,
		CreatedAt: time.Unix(1, 0),
		OwnerID:   "user-1",
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tooHigh := valid
	tooHigh.Score = 2
	if err := tooHigh.Validate(); err == nil {
		t.Fatalf("expected score bound error")
	}

	noOwner := valid
	noOwner.OwnerID = ""
	if err := noOwner.Validate(); err == nil || !strings.Contains(err.Error(), "owner of the quiz") {
		t.Fatalf("expected owner error, got %v", err)
	}

	negative := valid
	negative.Score = -1
	if err := negative.Validate(); err == nil || !strings.Contains(err.Error(), "cannot be below 0") {
		t.Fatalf("expected negative score error, got %v", err)
	}

	undated := valid
	undated.CreatedAt = time.Time{}
	if err := undated.Validate(); err == nil || !strings.Contains(err.Error(), "date and time of creation") {
		t.Fatalf("expected creation time error, got %v", err)
	}
}

func TestValidateAnswersReportsRangeOnce(t *testing.T) {
	err := ValidateAnswers(Answers{UserAnswers: []*int{intPtr(501), nil, intPtr(-900)}})

	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected *ValidationError, got %T (%v)", err, err)
	}
	if len(validationErr.Problems) != 1 || !strings.Contains(validationErr.Problems[0], "-500 to 500") {
		t.Fatalf("problems = %v, want a single range problem", validationErr.Problems)
	}
}

func TestNormalizeQuestionsTrimsWhitespace(t *testing.T) {
	got := NormalizeQuestions([]string{" 2+2\t", "3*4", "\n"})
	want := []string{"2+2", "3*4", ""}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("NormalizeQuestions = %q, want %q", got, want)
	}
	if NormalizeQuestions(nil) != nil {
		t.Fatalf("expected nil for nil input")
	}
}
