// Package query narrows sample documents down to the records to infer from,
// using jq expressions.
package query

import (
	"errors"
	"fmt"
	"strings"

	"github.com/itchyny/gojq"

	"github.com/usestring/prisma-infer/pkg/prisma"
)

// Engine evaluates jq selections against decoded documents.
type Engine struct{}

// NewEngine creates a new query engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Selection is the outcome of a jq selection.
type Selection struct {
	// Value is the single value the expression produced, or an array of all
	// of them when it produced zero or several.
	Value prisma.Value
	// Matches is the number of values the expression produced.
	Matches int
	// Ordered is true when the values were taken from the input by path, so
	// object key order is intact. Expressions that build new values (map,
	// object construction) lose the source order and come back key-sorted.
	Ordered bool
}

// Select evaluates expression against doc. Path expressions (.items,
// .data[].rows[], select(...)) are resolved against doc itself; anything else
// is evaluated as a plain jq filter.
func (e *Engine) Select(doc prisma.Value, expression string) (*Selection, error) {
	q, err := parse(expression)
	if err != nil {
		return nil, err
	}
	input := prisma.ToInterface(doc)

	paths, err := run(pathOf(q), input)
	if err == nil {
		values := make([]prisma.Value, 0, len(paths))
		for _, p := range paths {
			steps, ok := p.([]any)
			if !ok {
				return nil, fmt.Errorf("unexpected path %v", p)
			}
			values = append(values, lookup(doc, steps))
		}
		return newSelection(values, true), nil
	}
	if !isPathError(err) {
		return nil, err
	}

	outputs, err := run(q, input)
	if err != nil {
		return nil, err
	}
	values := make([]prisma.Value, 0, len(outputs))
	for _, out := range outputs {
		values = append(values, prisma.FromAny(out))
	}
	return newSelection(values, false), nil
}

func newSelection(values []prisma.Value, ordered bool) *Selection {
	s := &Selection{Matches: len(values), Ordered: ordered}
	if len(values) == 1 {
		s.Value = values[0]
	} else {
		s.Value = prisma.Array(values)
	}
	return s
}

// ValidateExpression checks if a jq expression is valid without executing it.
func (e *Engine) ValidateExpression(expression string) error {
	q, err := parse(expression)
	if err != nil {
		return err
	}
	if _, err := gojq.Compile(q); err != nil {
		return fmt.Errorf("failed to compile jq expression: %w", err)
	}
	return nil
}

func parse(expression string) (*gojq.Query, error) {
	q, err := gojq.Parse(expression)
	if err != nil {
		var parseErr *gojq.ParseError
		if errors.As(err, &parseErr) {
			return nil, fmt.Errorf("invalid jq expression at position %d: %w", parseErr.Offset, err)
		}
		return nil, fmt.Errorf("invalid jq expression: %w", err)
	}
	return q, nil
}

// pathOf wraps q as path(q).
func pathOf(q *gojq.Query) *gojq.Query {
	return &gojq.Query{
		Term: &gojq.Term{
			Type: gojq.TermTypeFunc,
			Func: &gojq.Func{Name: "path", Args: []*gojq.Query{q}},
		},
	}
}

func run(q *gojq.Query, input any) ([]any, error) {
	code, err := gojq.Compile(q)
	if err != nil {
		return nil, fmt.Errorf("failed to compile jq expression: %w", err)
	}

	var out []any
	iter := code.Run(input)
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if err, isErr := v.(error); isErr {
			return nil, errors.New(formatJQError(err))
		}
		out = append(out, v)
	}
	return out, nil
}

// isPathError reports whether err came from running a non-path expression
// under path(). gojq has no typed error for this, so the message is matched.
func isPathError(err error) bool {
	return strings.Contains(err.Error(), "invalid path")
}

// formatJQError adds a hint to common runtime errors. Runtime errors from
// gojq are plain errors, so hints are picked by message.
func formatJQError(err error) string {
	var haltErr *gojq.HaltError
	if errors.As(err, &haltErr) {
		if haltErr.Value() == nil {
			return "query halted"
		}
		return fmt.Sprintf("query halted with: %v", haltErr.Value())
	}

	errStr := err.Error()

	var hint string
	switch {
	case strings.Contains(errStr, "cannot iterate over: null"):
		hint = " (the path may not exist in this document)"
	case strings.Contains(errStr, "cannot index") && strings.Contains(errStr, "with"):
		hint = " (field not found or wrong type)"
	case strings.Contains(errStr, "object") && strings.Contains(errStr, "cannot be iterated"):
		hint = " (expected array but got object, try removing '[]')"
	case strings.Contains(errStr, "array") && strings.Contains(errStr, "cannot be indexed"):
		hint = " (expected object but got array, try adding '[]')"
	}

	return "jq: " + errStr + hint
}
