// Package collation implements Turkish-aware case folding, ordering and the
// ASCII surrogate sort key used where the database has no Turkish collation.
package collation

import (
	"strings"
	"sync"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// surrogates maps each Turkish-specific letter to a two-letter ASCII sequence
// whose byte order places it right after its base letter. Dotless I sorts
// before dotted I.
//
// The order matters for the nested SQL REPLACE chain: no replacement may
// produce a letter that a later replacement rewrites, so I and i come before
// İ and ı.
var surrogates = [][2]string{
	{"Ç", "CZ"}, {"ç", "cz"},
	{"Ğ", "GZ"}, {"ğ", "gz"},
	{"I", "IY"}, {"i", "iz"},
	{"İ", "IZ"}, {"ı", "iy"},
	{"Ö", "OZ"}, {"ö", "oz"},
	{"Ş", "SZ"}, {"ş", "sz"},
	{"Ü", "UZ"}, {"ü", "uz"},
}

var keyReplacer = func() *strings.Replacer {
	pairs := make([]string, 0, len(surrogates)*2)
	for _, kv := range surrogates {
		pairs = append(pairs, kv[0], kv[1])
	}
	return strings.NewReplacer(pairs...)
}()

// NormalizeForSearch lower-cases s with Turkish rules (İ→i, I→ı) for
// substring containment checks. It is idempotent.
func NormalizeForSearch(s string) string {
	return cases.Lower(language.Turkish).String(s)
}

// Upper upper-cases s with Turkish rules (i→İ, ı→I).
func Upper(s string) string {
	return cases.Upper(language.Turkish).String(s)
}

// TitleCase upper-cases the first letter of each space-separated word and
// lower-cases the rest, with Turkish rules. Runs of spaces collapse to one.
func TitleCase(s string) string {
	words := strings.Fields(s)
	upper := cases.Upper(language.Turkish)
	lower := cases.Lower(language.Turkish)
	for i, w := range words {
		first, rest := splitFirst(w)
		words[i] = upper.String(first) + lower.String(rest)
	}
	return strings.Join(words, " ")
}

func splitFirst(s string) (string, string) {
	for i := range s {
		if i > 0 {
			return s[:i], s[i:]
		}
	}
	return s, ""
}

// SortKey rewrites s into its ASCII surrogate form. Plain byte comparison of
// two keys approximates Turkish alphabetical order.
func SortKey(s string) string {
	return keyReplacer.Replace(s)
}

// SortKeyExpr wraps a SQL expression in the REPLACE chain that computes
// SortKey inside the database.
func SortKeyExpr(expr string) string {
	for _, kv := range surrogates {
		expr = "REPLACE(" + expr + ",'" + kv[0] + "','" + kv[1] + "')"
	}
	return expr
}

// Collator orders strings by Turkish collation, ignoring case. The
// underlying collator keeps scratch buffers, so access is serialised.
type Collator struct {
	mu sync.Mutex
	c  *collate.Collator
}

// NewCollator creates a case-insensitive Turkish collator.
func NewCollator() *Collator {
	return &Collator{c: collate.New(language.Turkish, collate.IgnoreCase)}
}

// Compare returns -1, 0 or 1. Letters such as ç and c, or ı and i, are
// distinct and never compare equal.
func (c *Collator) Compare(a, b string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.c.CompareString(a, b)
}

var defaultCollator = NewCollator()

// Compare orders a and b with the shared Turkish collator.
func Compare(a, b string) int {
	return defaultCollator.Compare(a, b)
}
