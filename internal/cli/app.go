package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"math/rand"
	"strconv"
	"strings"

	"math-quiz/internal/quiz"
)

const maxAttempts = 3

type Config struct {
	QuestionCount int
	// Source seeds question generation; nil uses the clock.
	Source rand.Source
}

// Run plays one offline quiz on in/out. Blank input leaves a question
// unanswered.
func Run(ctx context.Context, in io.Reader, out io.Writer, cfg Config) error {
	if cfg.QuestionCount <= 0 {
		cfg.QuestionCount = quiz.DefaultQuestionCount
	}

	questions, err := quiz.NewGenerator(cfg.Source, nil).Generate(cfg.QuestionCount)
	if err != nil {
		return err
	}

	correct, err := quiz.CorrectAnswers(questions)
	if err != nil {
		return err
	}

	reader := bufio.NewReader(in)
	answers := make([]*int, len(questions))

	fmt.Fprintf(out, "Answer each question with a whole number between %d and %d.\n", quiz.MinAnswer, quiz.MaxAnswer)
	fmt.Fprintln(out, "Press Enter to skip a question.")

	for idx, question := range questions {
		if err := ctx.Err(); err != nil {
			return err
		}

		fmt.Fprintf(out, "\nQ%d: %s = ", idx+1, question)
		answer, eof := getAnswer(reader, out)
		answers[idx] = answer
		if eof {
			break
		}
	}

	score, err := quiz.Score(questions, answers)
	if err != nil {
		return err
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out)
	for idx, question := range questions {
		fmt.Fprintf(out, "Q%d: %s = %d (%s)\n", idx+1, question, correct[idx], describeAnswer(answers[idx], correct[idx]))
	}
	fmt.Fprintf(out, "\nFinal score: %d/%d (%.0f%%)\n", score, len(questions), quiz.ScorePercentage(score, len(questions)))
	return nil
}

// getAnswer reads one answer, re-prompting on invalid input. The bool
// reports that input is exhausted.
func getAnswer(reader *bufio.Reader, out io.Writer) (*int, bool) {
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		line, err := reader.ReadString('\n')
		line = strings.TrimSpace(line)
		if err != nil && line == "" {
			return nil, true
		}
		if line == "" {
			return nil, false
		}

		value, convErr := strconv.Atoi(line)
		if convErr == nil && quiz.AnswerInRange(&value) {
			return &value, err != nil
		}

		if err != nil {
			return nil, true
		}
		if attempt < maxAttempts {
			fmt.Fprintf(out, "Invalid input. Please enter a whole number between %d and %d: ", quiz.MinAnswer, quiz.MaxAnswer)
		}
	}

	fmt.Fprintln(out, "Skipping.")
	return nil, false
}

func describeAnswer(answer *int, correct int) string {
	switch {
	case answer == nil:
		return "skipped"
	case *answer == correct:
		return "correct"
	default:
		return fmt.Sprintf("you answered %d", *answer)
	}
}
