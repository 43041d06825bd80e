package quiz

import (
	"fmt"
	"io"
	"log"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"math-quiz/internal/arith"
)

// Operand ranges are half-open: [min, max).
const (
	addMin = 1
	addMax = 100

	subtractFirstMin  = 10
	subtractFirstMax  = 100
	subtractSecondMin = 1
	subtractSecondMax = 99

	multiplyMin       = 2
	multiplyFirstMax  = 10
	multiplySecondMax = 20

	maxCandidatesPerSlot = 10000
)

var operators = []byte{'+', '-', '*'}

// Generator produces unique, evaluable arithmetic questions. It is not safe
// for concurrent use; build one per request.
type Generator struct {
	rng       *rand.Rand
	logger    *log.Logger
	evaluable func(string) (int, bool)
}

func NewGenerator(src rand.Source, logger *log.Logger) *Generator {
	if src == nil {
		src = rand.NewSource(time.Now().UnixNano())
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Generator{
		rng:       rand.New(src),
		logger:    logger,
		evaluable: arith.TryEvaluate,
	}
}

// Generate returns count questions in generation order. Candidates that repeat
// an earlier question or fail to evaluate are discarded and resampled.
func (g *Generator) Generate(count int) ([]string, error) {
	if count < 0 {
		return nil, fmt.Errorf("question count must not be negative, got %d", count)
	}

	questions := make([]string, 0, count)
	seen := make(map[string]struct{}, count)

	for slot := 0; slot < count; slot++ {
		accepted := false
		for attempt := 0; attempt < maxCandidatesPerSlot; attempt++ {
			candidate := g.candidate()
			if _, dup := seen[candidate]; dup {
				continue
			}
			if _, ok := g.evaluable(candidate); !ok {
				g.logger.Printf("discarding question candidate %q: not evaluable", candidate)
				continue
			}

			seen[candidate] = struct{}{}
			questions = append(questions, candidate)
			accepted = true
			break
		}
		if !accepted {
			return nil, fmt.Errorf("slot %d: %w", slot, ErrGenerationExhausted)
		}
	}

	g.logger.Printf("generated %d questions: %s", len(questions), strings.Join(questions, ", "))
	return questions, nil
}

func (g *Generator) candidate() string {
	op := operators[g.rng.Intn(len(operators))]

	var first, second int
	switch op {
	case '+':
		first = g.between(addMin, addMax)
		second = g.between(addMin, addMax)
	case '-':
		first = g.between(subtractFirstMin, subtractFirstMax)
		second = g.between(subtractSecondMin, subtractSecondMax)
	case '*':
		first = g.between(multiplyMin, multiplyFirstMax)
		second = g.between(multiplyMin, multiplySecondMax)
	}

	var builder strings.Builder
	builder.Grow(5)
	builder.WriteString(strconv.Itoa(first))
	builder.WriteByte(op)
	builder.WriteString(strconv.Itoa(second))
	return builder.String()
}

func (g *Generator) between(min, max int) int {
	return min + g.rng.Intn(max-min)
}
