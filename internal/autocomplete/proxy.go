// Package autocomplete keeps a filtered, Turkish-collated view over a fixed
// list of candidate names.
package autocomplete

import (
	"slices"
	"strings"
	"sync"

	"academyscope/internal/collation"
)

// Candidate is one autocomplete entry.
type Candidate struct {
	ID   int64
	Text string

	normalized string
}

// Proxy filters candidates by a search needle. The candidate order is fixed
// at construction and does not depend on the needle.
type Proxy struct {
	mu         sync.RWMutex
	candidates []Candidate
	needle     string
	rows       []Candidate
}

// New sorts the candidates with Turkish collation and shows all of them.
func New(candidates []Candidate) *Proxy {
	sorted := make([]Candidate, len(candidates))
	for i, c := range candidates {
		c.normalized = collation.NormalizeForSearch(c.Text)
		sorted[i] = c
	}
	slices.SortStableFunc(sorted, func(a, b Candidate) int {
		return collation.Compare(a.Text, b.Text)
	})
	return &Proxy{candidates: sorted, rows: sorted}
}

// FromNames builds a proxy over plain names, numbering them in input order.
func FromNames(names []string) *Proxy {
	cs := make([]Candidate, len(names))
	for i, n := range names {
		cs[i] = Candidate{ID: int64(i), Text: n}
	}
	return New(cs)
}

// SetNeedle stores the normalized needle and recomputes the visible rows.
func (p *Proxy) SetNeedle(text string) {
	needle := collation.NormalizeForSearch(text)
	rows := p.filter(needle)

	p.mu.Lock()
	p.needle = needle
	p.rows = rows
	p.mu.Unlock()
}

// Suggest returns up to limit texts matching text without touching the
// proxy's needle. A limit of zero or less means no limit.
func (p *Proxy) Suggest(text string, limit int) []string {
	rows := p.filter(collation.NormalizeForSearch(text))
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	out := make([]string, len(rows))
	for i, c := range rows {
		out[i] = c.Text
	}
	return out
}

// filter returns the candidates containing the normalized needle. The
// candidate slice is never modified after New, so no lock is needed.
func (p *Proxy) filter(needle string) []Candidate {
	if needle == "" {
		return p.candidates
	}
	var rows []Candidate
	for _, c := range p.candidates {
		if strings.Contains(c.normalized, needle) {
			rows = append(rows, c)
		}
	}
	return rows
}

// Needle returns the normalized needle.
func (p *Proxy) Needle() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.needle
}

// Rows returns the visible candidates in collated order.
func (p *Proxy) Rows() []Candidate {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return slices.Clone(p.rows)
}

// Texts returns the texts of the visible candidates.
func (p *Proxy) Texts() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]string, len(p.rows))
	for i, c := range p.rows {
		out[i] = c.Text
	}
	return out
}

// Complete sets the needle and returns the matching texts.
func (p *Proxy) Complete(text string) []string {
	p.SetNeedle(text)
	return p.Texts()
}

// Len returns the total number of candidates.
func (p *Proxy) Len() int { return len(p.candidates) }
