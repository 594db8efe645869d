package assertion

import (
	"fmt"
	"strconv"

	"github.com/hankh95/clinical-bdd-creator-sub001/internal/core/common"
	"github.com/hankh95/clinical-bdd-creator-sub001/internal/core/model"
)

// Evaluate runs one assertion against a node set. It is pure and read-only.
// A parse error, or a terminal/expect mismatch, returns an error; the
// caller counts it as a failed assertion so denominators stay stable.
func Evaluate(nodes []model.GraphNode, a model.Assertion) (bool, error) {
	q, err := ParseQuery(a.Query)
	if err != nil {
		return false, fmt.Errorf("assertion %s: %w", a.ID, err)
	}
	exp, err := ParseExpect(a.Expect)
	if err != nil {
		return false, fmt.Errorf("assertion %s: %w", a.ID, err)
	}

	matches := Select(nodes, q)

	switch exp.Kind {
	case ExpectExists:
		return len(matches) > 0, nil

	case ExpectNumeric:
		if q.Terminal != TerminalCount {
			return false, fmt.Errorf("assertion %s: numeric expect requires .count()", a.ID)
		}
		return compareNumeric(float64(len(matches)), exp.Op, exp.Number), nil

	case ExpectValue:
		if q.Terminal != TerminalValues {
			return false, fmt.Errorf("assertion %s: value expect requires .values(...)", a.ID)
		}
		want := common.Normalize(exp.Value)
		for _, n := range matches {
			got, ok := n.Property(q.ValuesProp)
			if ok && valuesEqual(common.Normalize(got), want) {
				return true, nil
			}
		}
		return false, nil
	}
	return false, fmt.Errorf("assertion %s: unhandled expect", a.ID)
}

// Select applies the query's node-type and property filters, without its
// terminal.
func Select(nodes []model.GraphNode, q *Query) []model.GraphNode {
	var matches []model.GraphNode
	for _, n := range nodes {
		if n.Type != q.NodeType {
			continue
		}
		ok := true
		for _, f := range q.Filters {
			got, has := n.Property(f.Property)
			if !has || !valuesEqual(common.Normalize(got), common.Normalize(f.Value)) {
				ok = false
				break
			}
		}
		if ok {
			matches = append(matches, n)
		}
	}
	return matches
}

// Validate checks that an assertion is well-formed: both halves parse and
// the expect fits the query's terminal.
func Validate(a model.Assertion) bool {
	q, err := ParseQuery(a.Query)
	if err != nil {
		return false
	}
	exp, err := ParseExpect(a.Expect)
	if err != nil {
		return false
	}
	switch exp.Kind {
	case ExpectNumeric:
		return q.Terminal == TerminalCount
	case ExpectValue:
		return q.Terminal == TerminalValues
	}
	return true
}

// valuesEqual compares normalized strings, numerically when both sides
// parse as numbers so "7.0" equals "7".
func valuesEqual(got, want string) bool {
	if got == want {
		return true
	}
	gf, gerr := strconv.ParseFloat(got, 64)
	wf, werr := strconv.ParseFloat(want, 64)
	return gerr == nil && werr == nil && gf == wf
}

func compareNumeric(got float64, op string, want float64) bool {
	switch op {
	case ">=":
		return got >= want
	case ">":
		return got > want
	case "<=":
		return got <= want
	case "<":
		return got < want
	case "==":
		return got == want
	}
	return false
}
