package quiz

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationError collects every violated constraint of a submitted payload.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Problems, ", ")
}

type questionCountKey struct{}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterStructValidation(questionsAndAnswersStructLevel, QuestionsAndAnswers{})
	v.RegisterStructValidation(quizStructLevel, Quiz{})
	v.RegisterStructValidationCtx(updateAnswersStructLevel, UpdateAnswers{})
	return v
}

// AnswerInRange reports whether answer is unanswered or within [MinAnswer, MaxAnswer].
func AnswerInRange(answer *int) bool {
	return answer == nil || validate.Var(*answer, answerRangeTag) == nil
}

const answerRangeTag = "min=-500,max=500"

// ValidateAnswers checks the answer sheet on its own.
func ValidateAnswers(a Answers) error {
	return check(context.Background(), a)
}

// ValidateQuestionsAndAnswers checks a create payload.
func ValidateQuestionsAndAnswers(qa QuestionsAndAnswers) error {
	return check(context.Background(), qa)
}

// ValidateUpdate checks an edit payload against the quiz it replaces answers for.
func ValidateUpdate(update UpdateAnswers, questionCount int) error {
	return check(context.WithValue(context.Background(), questionCountKey{}, questionCount), update)
}

// NormalizeQuestions trims the whitespace the evaluator ignores so stored
// questions keep the canonical <int><op><int> form.
func NormalizeQuestions(questions []string) []string {
	if questions == nil {
		return nil
	}
	out := make([]string, len(questions))
	for idx, question := range questions {
		out[idx] = strings.TrimSpace(question)
	}
	return out
}

func questionsAndAnswersStructLevel(sl validator.StructLevel) {
	qa := sl.Current().Interface().(QuestionsAndAnswers)
	for idx, question := range qa.Questions {
		if strings.TrimSpace(question) == "" {
			sl.ReportError(question, fmt.Sprintf("Questions[%d]", idx), "Questions", "notblank", strconv.Itoa(idx+1))
		}
	}
	if qa.Questions != nil && qa.UserAnswers != nil && len(qa.Questions) != len(qa.UserAnswers) {
		sl.ReportError(qa.UserAnswers, "UserAnswers", "UserAnswers", "eqlen", "Questions")
	}
}

func quizStructLevel(sl validator.StructLevel) {
	q := sl.Current().Interface().(Quiz)
	if q.Score > len(q.Questions) {
		sl.ReportError(q.Score, "Score", "Score", "maxscore", strconv.Itoa(len(q.Questions)))
	}
}

func updateAnswersStructLevel(ctx context.Context, sl validator.StructLevel) {
	update := sl.Current().Interface().(UpdateAnswers)
	questionCount, ok := ctx.Value(questionCountKey{}).(int)
	if ok && update.UserAnswers != nil && len(update.UserAnswers) != questionCount {
		sl.ReportError(update.UserAnswers, "UserAnswers", "UserAnswers", "eqlen", strconv.Itoa(questionCount))
	}
}

func check(ctx context.Context, payload any) error {
	err := validate.StructCtx(ctx, payload)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	seen := make(map[string]bool, len(fieldErrs))
	problems := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		problem := problemFor(fe)
		if seen[problem] {
			continue
		}
		seen[problem] = true
		problems = append(problems, problem)
	}
	return &ValidationError{Problems: problems}
}

func problemFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		switch fe.Field() {
		case "Questions":
			return "A list of questions is required"
		case "UserAnswers":
			return "A list of answers is required"
		case "QuizID":
			return "A quiz ID is required for an update request."
		case "CreatedAt":
			return "The date and time of creation was not automatically populated."
		case "OwnerID":
			return "The owner of the quiz was not automatically populated."
		}
	case "min", "max":
		switch fe.Field() {
		case "Questions":
			return "At least one question is required"
		case "Score":
			return "The score cannot be below 0"
		default:
			return fmt.Sprintf("Answers must be null (unanswered), or whole numbers within the range: %d to %d.", MinAnswer, MaxAnswer)
		}
	case "notblank":
		return fmt.Sprintf("Question %s is empty", fe.Param())
	case "eqlen":
		return "The number of answers must match the number of questions."
	case "maxscore":
		return "The score cannot be greater than the number of questions."
	}
	return fmt.Sprintf("%s failed the %q check", fe.Namespace(), fe.Tag())
}
