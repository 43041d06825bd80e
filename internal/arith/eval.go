// Package arith evaluates the single-operator integer expressions used as quiz
// questions, e.g. "12+7", "40-53" or "6*13".
package arith

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

type Kind int

const (
	KindNullInput Kind = iota + 1
	KindUnparsable
	KindOverflow
	KindUnknown
)

func (k Kind) String() string {
	switch k {
	case KindNullInput:
		return "null_input"
	case KindUnparsable:
		return "unparsable"
	case KindOverflow:
		return "overflow"
	default:
		return "unknown"
	}
}

var (
	ErrNullInput  = errors.New("expression is empty")
	ErrUnparsable = errors.New("expression is not a binary arithmetic expression")
	ErrOverflow   = errors.New("expression result does not fit in a 32-bit integer")
	ErrUnknown    = errors.New("unknown error while evaluating expression")
)

// EvalError reports why an expression could not be evaluated. errors.Is matches
// it against the sentinel for its Kind.
type EvalError struct {
	Kind Kind
	Expr string
	Err  error
}

func (e *EvalError) Error() string {
	switch e.Kind {
	case KindNullInput:
		return "question is empty"
	case KindUnparsable:
		return fmt.Sprintf("unable to evaluate question %q", e.Expr)
	case KindOverflow:
		return fmt.Sprintf("computed answer of question %q cannot be converted to int", e.Expr)
	default:
		if e.Err != nil {
			return fmt.Sprintf("unknown error when evaluating question %q: %v", e.Expr, e.Err)
		}
		return fmt.Sprintf("unknown error when evaluating question %q", e.Expr)
	}
}

func (e *EvalError) Unwrap() error {
	return e.Err
}

func (e *EvalError) Is(target error) bool {
	switch target {
	case ErrNullInput:
		return e.Kind == KindNullInput
	case ErrUnparsable:
		return e.Kind == KindUnparsable
	case ErrOverflow:
		return e.Kind == KindOverflow
	case ErrUnknown:
		return e.Kind == KindUnknown
	}
	return false
}

// KindOf returns the Kind carried by err, or 0 when err is not an *EvalError.
func KindOf(err error) Kind {
	var evalErr *EvalError
	if errors.As(err, &evalErr) {
		return evalErr.Kind
	}
	return 0
}

// Evaluate computes "<int><op><int>" where op is one of + - *. Surrounding
// whitespace is ignored; anything else outside the grammar is rejected.
func Evaluate(expr string) (result int, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = 0
			err = &EvalError{Kind: KindUnknown, Expr: expr, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	trimmed := strings.TrimSpace(expr)
	if trimmed == "" {
		return 0, &EvalError{Kind: KindNullInput, Expr: expr, Err: ErrNullInput}
	}

	left, op, right, ok := split(trimmed)
	if !ok {
		return 0, &EvalError{Kind: KindUnparsable, Expr: expr, Err: ErrUnparsable}
	}

	a, err := parseOperand(left, expr)
	if err != nil {
		return 0, err
	}
	b, err := parseOperand(right, expr)
	if err != nil {
		return 0, err
	}

	var value int64
	switch op {
	case '+':
		value = a + b
	case '-':
		value = a - b
	case '*':
		value = a * b
	default:
		return 0, &EvalError{Kind: KindUnparsable, Expr: expr, Err: ErrUnparsable}
	}

	if value < math.MinInt32 || value > math.MaxInt32 {
		return 0, &EvalError{Kind: KindOverflow, Expr: expr, Err: ErrOverflow}
	}
	return int(value), nil
}

// TryEvaluate is Evaluate with every failure folded into ok=false.
func TryEvaluate(expr string) (int, bool) {
	value, err := Evaluate(expr)
	if err != nil {
		return 0, false
	}
	return value, true
}

func split(s string) (left string, op byte, right string, ok bool) {
	idx := strings.IndexAny(s, "+-*")
	if idx <= 0 || idx == len(s)-1 {
		return "", 0, "", false
	}
	left, right = s[:idx], s[idx+1:]
	if !allDigits(left) || !allDigits(right) {
		return "", 0, "", false
	}
	return left, s[idx], right, true
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for idx := 0; idx < len(s); idx++ {
		if s[idx] < '0' || s[idx] > '9' {
			return false
		}
	}
	return true
}

func parseOperand(s, expr string) (int64, error) {
	value, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return 0, &EvalError{Kind: KindOverflow, Expr: expr, Err: ErrOverflow}
		}
		return 0, &EvalError{Kind: KindUnparsable, Expr: expr, Err: ErrUnparsable}
	}
	return value, nil
}
