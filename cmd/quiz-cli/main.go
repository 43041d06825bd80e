package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"math-quiz/internal/cli"
	"math-quiz/internal/quiz"
)

func main() {
	count := flag.Int("questions", quiz.DefaultQuestionCount, "number of questions to ask")
	flag.Parse()

	if *count < 1 || *count > quiz.MaxQuestionCount {
		fmt.Fprintf(os.Stderr, "error: --questions must be between 1 and %d\n", quiz.MaxQuestionCount)
		os.Exit(1)
	}

	if err := cli.Run(context.Background(), os.Stdin, os.Stdout, cli.Config{QuestionCount: *count}); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
