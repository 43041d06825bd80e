package userclient

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultServer            = "http://127.0.0.1:8080"
	defaultQuestionCount     = 10
	defaultHTTPTimeout       = 5 * time.Second
	defaultMaxInvalidAnswers = 3
)

var errLoginRequired = errors.New("login required. use: login <email> <password>")

type Config struct {
	ServerURL         string
	QuestionCount     int
	MaxInvalidAnswers int
	HTTPTimeout       time.Duration
}

type session struct {
	reader     *bufio.Reader
	out        io.Writer
	client     *HTTPClient
	serverURL  string
	count      int
	maxInvalid int
}

func Run(ctx context.Context, in io.Reader, out io.Writer, cfg Config) error {
	serverURL := strings.TrimSpace(cfg.ServerURL)
	if serverURL == "" {
		serverURL = defaultServer
	}
	count := cfg.QuestionCount
	if count <= 0 {
		count = defaultQuestionCount
	}
	maxInvalid := cfg.MaxInvalidAnswers
	if maxInvalid <= 0 {
		maxInvalid = defaultMaxInvalidAnswers
	}
	timeout := cfg.HTTPTimeout
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}

	s := &session{
		reader:     bufio.NewReader(in),
		out:        out,
		client:     NewHTTPClient(serverURL, &http.Client{Timeout: timeout}),
		serverURL:  serverURL,
		count:      count,
		maxInvalid: maxInvalid,
	}

	fmt.Fprintf(out, "quiz-user-service\nserver=%s\n\n", serverURL)
	printHelp(out)

	for {
		fmt.Fprint(out, "\n> ")
		line, err := s.reader.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(out)
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		args := strings.Fields(line)
		command := strings.ToLower(args[0])

		var cmdErr error
		switch command {
		case "help":
			printHelp(out)
		case "exit":
			return nil
		case "register", "login":
			if len(args) != 3 {
				fmt.Fprintf(out, "usage: %s <email> <password>\n", command)
				continue
			}
			if command == "register" {
				cmdErr = s.register(ctx, args[1], args[2])
			} else {
				cmdErr = s.login(ctx, args[1], args[2])
			}
		case "new":
			questionCount, parseErr := parsePositiveLimit(args, 1, s.count)
			if parseErr != nil {
				fmt.Fprintf(out, "invalid question count: %v\n", parseErr)
				continue
			}
			cmdErr = s.newQuiz(ctx, questionCount)
		case "list":
			sort := ""
			if len(args) > 1 {
				sort = args[1]
			}
			cmdErr = s.list(ctx, sort)
		case "show", "edit", "delete":
			if len(args) != 2 {
				fmt.Fprintf(out, "usage: %s <quiz_id>\n", command)
				continue
			}
			switch command {
			case "show":
				cmdErr = s.show(ctx, args[1])
			case "edit":
				cmdErr = s.edit(ctx, args[1])
			default:
				cmdErr = s.remove(ctx, args[1])
			}
		default:
			fmt.Fprintln(out, "unknown command. type 'help' for usage.")
		}

		if cmdErr != nil {
			if errors.Is(cmdErr, io.EOF) {
				fmt.Fprintln(out)
				return nil
			}
			fmt.Fprintf(out, "error: %v\n", describeClientError(cmdErr, s.serverURL))
		}
	}
}

func (s *session) register(ctx context.Context, email, password string) error {
	user, err := s.client.Register(ctx, email, password)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Registered %s (user_id=%s)\n", user.Email, user.UserID)
	return nil
}

func (s *session) login(ctx context.Context, email, password string) error {
	result, err := s.client.Login(ctx, email, password)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Logged in as %s until %s\n", result.UserID, result.ExpiresAt.Format(time.RFC3339))
	return nil
}

func (s *session) newQuiz(ctx context.Context, count int) error {
	if !s.client.LoggedIn() {
		return errLoginRequired
	}

	generated, err := s.client.NewQuestions(ctx, count)
	if err != nil {
		return err
	}

	answers, err := collectAnswers(s.reader, s.out, generated.Questions, s.maxInvalid)
	if err != nil {
		return err
	}

	result, err := s.client.CreateQuiz(ctx, generated.Questions, answers)
	if err != nil {
		return err
	}

	fmt.Fprintln(s.out)
	fmt.Fprintln(s.out, result.Message)
	if result.Score != nil {
		fmt.Fprintf(s.out, "quiz_id=%s score=%d/%d\n", result.QuizID, *result.Score, len(generated.Questions))
	}
	return nil
}

func (s *session) list(ctx context.Context, sort string) error {
	if !s.client.LoggedIn() {
		return errLoginRequired
	}

	summaries, err := s.client.ListQuizzes(ctx, sort)
	if err != nil {
		return err
	}
	if len(summaries) == 0 {
		fmt.Fprintln(s.out, "No quizzes yet.")
		return nil
	}

	fmt.Fprintln(s.out, "Your quizzes:")
	for idx, item := range summaries {
		fmt.Fprintf(s.out, "%d. %s score=%d/%d (%s) created %s\n",
			idx+1,
			item.Quiz.ID,
			item.Quiz.Score,
			len(item.Quiz.Questions),
			formatPercentage(item.ScorePercentage),
			item.Quiz.CreatedAt.Format(time.RFC3339),
		)
	}
	return nil
}

func (s *session) show(ctx context.Context, quizID string) error {
	if !s.client.LoggedIn() {
		return errLoginRequired
	}

	details, err := s.client.GetQuiz(ctx, quizID)
	if err != nil {
		return err
	}

	fmt.Fprintf(s.out, "quiz_id=%s score=%d/%d created %s\n",
		details.Quiz.ID, details.Quiz.Score, len(details.Quiz.Questions), details.Quiz.CreatedAt.Format(time.RFC3339))
	for idx, question := range details.Quiz.Questions {
		var answer *int
		if idx < len(details.Quiz.UserAnswers) {
			answer = details.Quiz.UserAnswers[idx]
		}
		correct := "?"
		if idx < len(details.CorrectAnswers) {
			correct = fmt.Sprint(details.CorrectAnswers[idx])
		}
		fmt.Fprintf(s.out, "Q%d: %s  your answer: %s  correct: %s\n", idx+1, question, formatAnswer(answer), correct)
	}
	return nil
}

func (s *session) edit(ctx context.Context, quizID string) error {
	if !s.client.LoggedIn() {
		return errLoginRequired
	}

	details, err := s.client.GetQuiz(ctx, quizID)
	if err != nil {
		return err
	}

	fmt.Fprintf(s.out, "Editing quiz %s. Enter new answers.\n", details.Quiz.ID)
	answers, err := collectAnswers(s.reader, s.out, details.Quiz.Questions, s.maxInvalid)
	if err != nil {
		return err
	}

	result, err := s.client.UpdateAnswers(ctx, details.Quiz.ID, answers)
	if err != nil {
		return err
	}

	fmt.Fprintln(s.out)
	fmt.Fprintln(s.out, result.Message)
	if result.Score != nil {
		fmt.Fprintf(s.out, "score=%d/%d\n", *result.Score, len(details.Quiz.Questions))
	}
	return nil
}

func (s *session) remove(ctx context.Context, quizID string) error {
	if !s.client.LoggedIn() {
		return errLoginRequired
	}

	confirmed, err := promptYesNo(s.reader, s.out, fmt.Sprintf("delete quiz %s? (yes/no): ", quizID))
	if err != nil {
		return err
	}
	if !confirmed {
		return nil
	}

	if err := s.client.DeleteQuiz(ctx, quizID); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Deleted quiz %s\n", quizID)
	return nil
}
