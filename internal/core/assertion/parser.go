// Package assertion implements the declarative graph-query assertion
// language used to validate constructed graphs:
//
//	select(<node_type>)[.has(<property>, <value>)]*[.count()|.values(<property>)]
//
// paired with an expectation: `exists`, a numeric comparison on a count
// (`>=2`, `==0`, ...), or a value equality on `.values(...)` (`==metformin`).
package assertion

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hankh95/clinical-bdd-creator-sub001/internal/core/model"
)

type Terminal int

const (
	TerminalNone Terminal = iota
	TerminalCount
	TerminalValues
)

type Filter struct {
	Property string
	Value    string
}

// Query is a parsed graph query.
type Query struct {
	NodeType   model.NodeType
	Filters    []Filter
	Terminal   Terminal
	ValuesProp string
}

// ParseQuery parses the query string. Any deviation from the grammar is an
// error; callers count it as a failed assertion rather than aborting.
func ParseQuery(s string) (*Query, error) {
	rest := strings.TrimSpace(s)

	arg, rest, err := call(rest, "select")
	if err != nil {
		return nil, err
	}
	nt := model.ParseNodeType(strings.TrimSpace(arg))
	if nt == model.NodeUnknown {
		return nil, fmt.Errorf("select: unknown node type %q", arg)
	}
	q := &Query{NodeType: nt}

	for rest != "" {
		if !strings.HasPrefix(rest, ".") {
			return nil, fmt.Errorf("expected '.' before %q", rest)
		}
		rest = rest[1:]

		switch {
		case strings.HasPrefix(rest, "has"):
			arg, rest, err = call(rest, "has")
			if err != nil {
				return nil, err
			}
			prop, value, found := strings.Cut(arg, ",")
			if !found {
				return nil, fmt.Errorf("has: want (property, value), got %q", arg)
			}
			q.Filters = append(q.Filters, Filter{
				Property: strings.TrimSpace(prop),
				Value:    strings.TrimSpace(value),
			})

		case strings.HasPrefix(rest, "count"):
			arg, rest, err = call(rest, "count")
			if err != nil {
				return nil, err
			}
			if strings.TrimSpace(arg) != "" {
				return nil, fmt.Errorf("count takes no argument")
			}
			if rest != "" {
				return nil, fmt.Errorf("count must be terminal")
			}
			q.Terminal = TerminalCount

		case strings.HasPrefix(rest, "values"):
			arg, rest, err = call(rest, "values")
			if err != nil {
				return nil, err
			}
			prop := strings.TrimSpace(arg)
			if prop == "" {
				return nil, fmt.Errorf("values: missing property")
			}
			if rest != "" {
				return nil, fmt.Errorf("values must be terminal")
			}
			q.Terminal = TerminalValues
			q.ValuesProp = prop

		default:
			return nil, fmt.Errorf("unknown step %q", rest)
		}
	}
	return q, nil
}

// call consumes `name(arg)` from the front of s and returns arg and the
// remainder.
func call(s, name string) (arg, rest string, err error) {
	if !strings.HasPrefix(s, name) {
		return "", "", fmt.Errorf("expected %s(...), got %q", name, s)
	}
	s = s[len(name):]
	if !strings.HasPrefix(s, "(") {
		return "", "", fmt.Errorf("%s: missing '('", name)
	}
	close := strings.Index(s, ")")
	if close < 0 {
		return "", "", fmt.Errorf("%s: missing ')'", name)
	}
	return s[1:close], s[close+1:], nil
}

type ExpectKind int

const (
	ExpectExists ExpectKind = iota
	ExpectNumeric
	ExpectValue
)

// Expectation is a parsed expect string.
type Expectation struct {
	Kind   ExpectKind
	Op     string // one of >= > <= < == for numeric
	Number float64
	Value  string
}

// ParseExpect parses the expect string: `exists`, a numeric comparison, or
// a value equality.
func ParseExpect(s string) (*Expectation, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("empty expect")
	}
	if s == "exists" {
		return &Expectation{Kind: ExpectExists}, nil
	}

	for _, op := range []string{">=", "<=", "==", ">", "<"} {
		if !strings.HasPrefix(s, op) {
			continue
		}
		operand := strings.TrimSpace(s[len(op):])
		if operand == "" {
			return nil, fmt.Errorf("missing operand after %q", op)
		}
		if n, err := strconv.ParseFloat(operand, 64); err == nil {
			return &Expectation{Kind: ExpectNumeric, Op: op, Number: n}, nil
		}
		if op == "==" {
			return &Expectation{Kind: ExpectValue, Value: operand}, nil
		}
		return nil, fmt.Errorf("operator %q needs a numeric operand, got %q", op, operand)
	}
	return nil, fmt.Errorf("unparseable expect %q", s)
}
