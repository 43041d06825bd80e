package quiz

import (
	"bytes"
	"errors"
	"log"
	"math/rand"
	"regexp"
	"strconv"
	"strings"
	"testing"

	"math-quiz/internal/arith"
)

var questionPattern = regexp.MustCompile(`^(\d+)([+\-*])(\d+)$`)

type constantSource struct{}

func (constantSource) Int63() int64 { return 0 }
func (constantSource) Seed(int64)   {}

func TestGenerateProducesUniqueWellFormedQuestions(t *testing.T) {
	for _, count := range []int{0, 1, 10, 250} {
		t.Run(strconv.Itoa(count), func(t *testing.T) {
			questions, err := NewGenerator(rand.NewSource(int64(count)+42), nil).Generate(count)
			if err != nil {
				t.Fatalf("Generate(%d) failed: %v", count, err)
			}
			if len(questions) != count {
				t.Fatalf("len = %d, want %d", len(questions), count)
			}

			seen := make(map[string]bool, count)
			for _, question := range questions {
				if question == "" || !questionPattern.MatchString(question) {
					t.Fatalf("malformed question %q", question)
				}
				if seen[question] {
					t.Fatalf("duplicate question %q in %v", question, questions)
				}
				seen[question] = true
			}
		})
	}
}

func TestGenerateRespectsOperandRanges(t *testing.T) {
	questions, err := NewGenerator(rand.NewSource(7), nil).Generate(2000)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	type bounds struct{ firstMin, firstMax, secondMin, secondMax int }
	want := map[string]bounds{
		"+": {1, 99, 1, 99},
		"-": {10, 99, 1, 98},
		"*": {2, 9, 2, 19},
	}
	opsSeen := make(map[string]int)

	for _, question := range questions {
		parts := questionPattern.FindStringSubmatch(question)
		first, _ := strconv.Atoi(parts[1])
		second, _ := strconv.Atoi(parts[3])
		op := parts[2]
		opsSeen[op]++

		b := want[op]
		if first < b.firstMin || first > b.firstMax {
			t.Fatalf("%q: first operand %d outside [%d,%d]", question, first, b.firstMin, b.firstMax)
		}
		if second < b.secondMin || second > b.secondMax {
			t.Fatalf("%q: second operand %d outside [%d,%d]", question, second, b.secondMin, b.secondMax)
		}
	}

	for op := range want {
		if opsSeen[op] == 0 {
			t.Fatalf("operator %s never generated in %d questions", op, len(questions))
		}
	}
}

func TestGenerateIsDeterministicForSeed(t *testing.T) {
	first, err := NewGenerator(rand.NewSource(99), nil).Generate(20)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	second, err := NewGenerator(rand.NewSource(99), nil).Generate(20)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	for idx := range first {
		if first[idx] != second[idx] {
			t.Fatalf("index %d: %q != %q", idx, first[idx], second[idx])
		}
	}
}

func TestGenerateRejectsNegativeCount(t *testing.T) {
	if _, err := NewGenerator(rand.NewSource(1), nil).Generate(-1); err == nil {
		t.Fatalf("expected error for negative count")
	}
}

func TestGenerateStopsWhenCandidatesAreExhausted(t *testing.T) {
	// A constant source always yields "1+1", so the second slot can never be filled.
	_, err := NewGenerator(constantSource{}, nil).Generate(2)
	if !errors.Is(err, ErrGenerationExhausted) {
		t.Fatalf("expected ErrGenerationExhausted, got %v", err)
	}
}

func TestGenerateDiscardsCandidatesThatFailEvaluation(t *testing.T) {
	var logs bytes.Buffer
	g := NewGenerator(rand.NewSource(7), log.New(&logs, "", 0))

	checked := 0
	g.evaluable = func(expr string) (int, bool) {
		checked++
		if strings.Contains(expr, "*") {
			return 0, false
		}
		return arith.TryEvaluate(expr)
	}

	questions, err := g.Generate(20)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if len(questions) != 20 {
		t.Fatalf("len = %d, want 20", len(questions))
	}
	for _, question := range questions {
		if strings.Contains(question, "*") {
			t.Fatalf("rejected candidate %q was kept", question)
		}
	}
	if checked < len(questions) {
		t.Fatalf("evaluable called %d times for %d questions", checked, len(questions))
	}
	if !strings.Contains(logs.String(), "discarding question candidate") {
		t.Fatalf("expected discard to be logged, got: %s", logs.String())
	}
}
