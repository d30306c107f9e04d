// Package filter turns a filter selection into a boolean expression tree and
// evaluates such trees in memory.
package filter

import (
	"strings"
)

// Op is a comparison operator.
type Op string

// Supported operators.
const (
	OpEq        Op = "="
	OpLt        Op = "<"
	OpGt        Op = ">"
	OpContains  Op = "CONTAINS"
	OpIsNotNull Op = "IS NOT NULL"
)

// Expr is a node of the expression tree: *Comparison, *And or *Or.
type Expr interface {
	expr()
}

// Comparison compares a dataset field with a literal value. Value is a
// string, bool, int or float64; it is ignored by OpIsNotNull.
type Comparison struct {
	Field string
	Op    Op
	Value any
}

// And is a conjunction of terms.
type And struct {
	Terms []Expr
}

// Or is a disjunction of terms.
type Or struct {
	Terms []Expr
}

func (*Comparison) expr() {}
func (*And) expr()        {}
func (*Or) expr()         {}

// Match evaluates e against a row addressed by field name.
// Missing fields behave like NULL: only OpIsNotNull can see them, and every
// other comparison against them is false.
func Match(e Expr, row map[string]any) bool {
	switch ex := e.(type) {
	case *Comparison:
		return matchComparison(ex, row)
	case *And:
		for _, t := range ex.Terms {
			if !Match(t, row) {
				return false
			}
		}
		return true
	case *Or:
		for _, t := range ex.Terms {
			if Match(t, row) {
				return true
			}
		}
		return false
	}
	return false
}

func matchComparison(c *Comparison, row map[string]any) bool {
	v, ok := row[c.Field]
	if !ok || v == nil {
		return false
	}
	switch c.Op {
	case OpIsNotNull:
		return true
	case OpContains:
		s, ok := asString(v)
		want, _ := c.Value.(string)
		return ok && strings.Contains(s, want)
	case OpEq:
		if s, ok := c.Value.(string); ok {
			got, ok := asString(v)
			return ok && got == s
		}
		a, aok := asNumber(v)
		b, bok := asNumber(c.Value)
		return aok && bok && a == b
	case OpLt, OpGt:
		a, aok := asNumber(v)
		b, bok := asNumber(c.Value)
		if !aok || !bok {
			return false
		}
		if c.Op == OpLt {
			return a < b
		}
		return a > b
	}
	return false
}

func asString(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case []byte:
		return string(x), true
	}
	return "", false
}

// asNumber widens the scalar types a SQL driver returns. Booleans count as
// 0 and 1, which is how SQLite stores them.
func asNumber(v any) (float64, bool) {
	switch x := v.(type) {
	case bool:
		if x {
			return 1, true
		}
		return 0, true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case float64:
		return x, true
	}
	return 0, false
}
