// Package query renders filter expression trees into SQLite statements over
// the placement tables.
package query

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"academyscope/internal/collation"
	"academyscope/internal/filter"
	"academyscope/internal/model"
)

// ErrInvalidField is returned when a sort names an unknown or unsortable column.
var ErrInvalidField = errors.New("invalid field")

// ErrInvalidLiteral is returned for a comparison value that has no SQL
// literal form, such as an infinite or NaN score.
var ErrInvalidLiteral = errors.New("invalid literal")

// Tables holding each preference kind's placement records.
const (
	TableStandard      = "YKS"
	TableSupplementary = "YKSEkTercih"
)

// TableFor returns the table queried for the preference kind.
func TableFor(kind model.PreferenceKind) string {
	if kind == model.PreferenceSupplementary {
		return TableSupplementary
	}
	return TableStandard
}

// Query is everything needed to render one SELECT.
type Query struct {
	// Where must come from filter.Build. A nil Where selects every row; an
	// unsatisfiable selection never reaches the compiler.
	Where *filter.And
	Table string
	// Sort is the requested order. Nil sorts by program code.
	Sort *model.Sort
	// Visibility is the column state of the same selection. Sorting on a
	// hidden column emits no ORDER BY.
	Visibility model.Visibility
}

// ValidateSort reports ErrInvalidField for a sort the compiler cannot render.
func ValidateSort(s *model.Sort) error {
	if s == nil {
		return nil
	}
	if !s.Column.Valid() {
		return fmt.Errorf("sort column %d: %w", int(s.Column), ErrInvalidField)
	}
	if s.Direction != model.Ascending && s.Direction != model.Descending {
		return fmt.Errorf("sort direction %q: %w", s.Direction, ErrInvalidField)
	}
	return nil
}

// Compile renders q as a single-line SQL statement. On error no partial
// statement is returned.
func Compile(q Query) (string, error) {
	if err := ValidateSort(q.Sort); err != nil {
		return "", err
	}
	order, err := orderBy(q.Sort, q.Visibility)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("SELECT * FROM ")
	b.WriteString(q.Table)
	if q.Where != nil && len(q.Where.Terms) > 0 {
		parts := make([]string, 0, len(q.Where.Terms))
		for _, t := range q.Where.Terms {
			part, err := encode(t, false)
			if err != nil {
				return "", err
			}
			parts = append(parts, part)
		}
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(parts, " AND "))
	}
	if order != "" {
		b.WriteString(" ORDER BY ")
		b.WriteString(order)
	}
	return b.String(), nil
}

func orderBy(s *model.Sort, vis model.Visibility) (string, error) {
	col, dir := model.ColProgramCode, model.Ascending
	if s != nil {
		if !vis.Visible(s.Column) {
			return "", nil
		}
		col, dir = s.Column, s.Direction
	}

	info := col.Info()
	if info.Field == "" {
		return "", fmt.Errorf("sort column %s has no data: %w", info.Name, ErrInvalidField)
	}
	key := info.Field
	if info.Text {
		key = collation.SortKeyExpr(key)
	}
	if dir == model.Descending {
		return key + " DESC", nil
	}
	return key + " ASC", nil
}

// encode renders one node. nested is true inside a disjunction, where a
// conjunction needs its own parentheses.
func encode(e filter.Expr, nested bool) (string, error) {
	switch ex := e.(type) {
	case *filter.Comparison:
		return encodeComparison(ex)
	case *filter.And:
		parts, err := encodeAll(ex.Terms)
		if err != nil {
			return "", err
		}
		s := strings.Join(parts, " AND ")
		if nested || len(parts) > 1 {
			return "(" + s + ")", nil
		}
		return s, nil
	case *filter.Or:
		if len(ex.Terms) == 1 {
			if and, ok := ex.Terms[0].(*filter.And); ok {
				return encode(and, true)
			}
		}
		parts, err := encodeAll(ex.Terms)
		if err != nil {
			return "", err
		}
		return "(" + strings.Join(parts, " OR ") + ")", nil
	}
	return "", fmt.Errorf("unsupported expression %T", e)
}

func encodeAll(terms []filter.Expr) ([]string, error) {
	parts := make([]string, 0, len(terms))
	for _, t := range terms {
		part, err := encode(t, true)
		if err != nil {
			return nil, err
		}
		parts = append(parts, part)
	}
	return parts, nil
}

func encodeComparison(c *filter.Comparison) (string, error) {
	switch c.Op {
	case filter.OpIsNotNull:
		return c.Field + " IS NOT NULL", nil
	case filter.OpContains:
		s, _ := c.Value.(string)
		return c.Field + " LIKE " + likePattern(s), nil
	}
	lit, err := literal(c.Value)
	if err != nil {
		return "", fmt.Errorf("%s %s: %w", c.Field, c.Op, err)
	}
	return c.Field + " " + string(c.Op) + " " + lit, nil
}

func literal(v any) (string, error) {
	switch x := v.(type) {
	case string:
		return quoteLiteral(x), nil
	case bool:
		if x {
			return "TRUE", nil
		}
		return "FALSE", nil
	case int:
		return strconv.Itoa(x), nil
	case int64:
		return strconv.FormatInt(x, 10), nil
	case float64:
		// FormatFloat spells these +Inf, -Inf and NaN, which SQLite reads
		// as column names.
		if math.IsInf(x, 0) || math.IsNaN(x) {
			return "", fmt.Errorf("%w: %v", ErrInvalidLiteral, x)
		}
		return strconv.FormatFloat(x, 'f', -1, 64), nil
	case nil:
		return "NULL", nil
	}
	return "", fmt.Errorf("%w: unsupported type %T", ErrInvalidLiteral, v)
}

// quoteLiteral returns a SQL string literal. NUL bytes are dropped because
// SQLite would end the literal there.
func quoteLiteral(s string) string {
	s = strings.ReplaceAll(s, "\x00", "")
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern wraps s in wildcards. Wildcard characters typed by the user
// match literally.
func likePattern(s string) string {
	escaped := likeEscaper.Replace(s)
	p := quoteLiteral("%" + escaped + "%")
	if escaped != s {
		p += ` ESCAPE '\'`
	}
	return p
}
