package userclient

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"math-quiz/internal/quiz"
)

// promptAnswer reads one answer. A blank line is a valid skip; the bool is
// false for input that is not a whole number in range.
func promptAnswer(reader *bufio.Reader, out io.Writer) (*int, bool, error) {
	fmt.Fprintf(out, "Your answer (%d to %d, blank to skip): ", quiz.MinAnswer, quiz.MaxAnswer)

	line, err := reader.ReadString('\n')
	line = strings.TrimSpace(line)
	if err != nil && line == "" {
		return nil, false, err
	}
	if line == "" {
		return nil, true, nil
	}

	value, convErr := strconv.Atoi(line)
	if convErr != nil || !quiz.AnswerInRange(&value) {
		return nil, false, nil
	}
	return &value, true, nil
}

// collectAnswers asks every question in turn. A question is skipped after
// maxInvalid bad inputs.
func collectAnswers(reader *bufio.Reader, out io.Writer, questions []string, maxInvalid int) ([]*int, error) {
	answers := make([]*int, len(questions))
	for idx, question := range questions {
		fmt.Fprintf(out, "\nQ%d: %s = ?\n", idx+1, question)

		invalidCount := 0
		for {
			answer, ok, err := promptAnswer(reader, out)
			if err != nil {
				return nil, err
			}
			if ok {
				answers[idx] = answer
				break
			}

			invalidCount++
			if invalidCount >= maxInvalid {
				fmt.Fprintln(out, "Skipping question after multiple invalid responses.")
				break
			}
			fmt.Fprintf(out, "Invalid input. Attempts remaining: %d\n", maxInvalid-invalidCount)
		}
	}
	return answers, nil
}

func printHelp(out io.Writer) {
	fmt.Fprintln(out, "Commands:")
	fmt.Fprintln(out, "  help")
	fmt.Fprintln(out, "  register <email> <password>")
	fmt.Fprintln(out, "  login <email> <password>")
	fmt.Fprintln(out, "  new [question_count]")
	fmt.Fprintln(out, "  list [created_desc|created_asc|score_desc|score_asc]")
	fmt.Fprintln(out, "  show <quiz_id>")
	fmt.Fprintln(out, "  edit <quiz_id>")
	fmt.Fprintln(out, "  delete <quiz_id>")
	fmt.Fprintln(out, "  exit")
}

func parsePositiveLimit(args []string, index int, defaultValue int) (int, error) {
	if len(args) <= index {
		return defaultValue, nil
	}

	value, err := strconv.Atoi(args[index])
	if err != nil || value <= 0 {
		return 0, errors.New("must be a positive integer")
	}
	return value, nil
}

func formatAnswer(answer *int) string {
	if answer == nil {
		return "-"
	}
	return strconv.Itoa(*answer)
}

func formatPercentage(percentage float64) string {
	return strconv.FormatFloat(percentage, 'f', 1, 64) + "%"
}

func promptYesNo(reader *bufio.Reader, out io.Writer, prompt string) (bool, error) {
	for {
		fmt.Fprint(out, prompt)
		line, err := reader.ReadString('\n')
		if err != nil {
			return false, err
		}
		answer := strings.ToLower(strings.TrimSpace(line))
		switch answer {
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		default:
			fmt.Fprintln(out, "Please answer yes or no.")
		}
	}
}

func describeClientError(err error, serverURL string) error {
	if errors.Is(err, ErrServiceUnavailable) {
		return fmt.Errorf("quiz service unavailable at %s", serverURL)
	}
	return err
}
