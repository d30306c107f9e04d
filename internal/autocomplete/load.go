package autocomplete

import (
	"context"
	"fmt"

	"academyscope/internal/model"
)

// Lister lists the names offered for completion. storage.Storage satisfies it.
type Lister interface {
	ListUniversities(ctx context.Context) ([]model.University, error)
	ListDepartments(ctx context.Context) ([]string, error)
}

// LoadUniversities builds a proxy over every university, keyed by its id.
func LoadUniversities(ctx context.Context, l Lister) (*Proxy, error) {
	unis, err := l.ListUniversities(ctx)
	if err != nil {
		return nil, fmt.Errorf("list universities: %w", err)
	}
	cs := make([]Candidate, len(unis))
	for i, u := range unis {
		cs[i] = Candidate{ID: u.ID, Text: u.Name}
	}
	return New(cs), nil
}

// LoadDepartments builds a proxy over every distinct department name.
func LoadDepartments(ctx context.Context, l Lister) (*Proxy, error) {
	names, err := l.ListDepartments(ctx)
	if err != nil {
		return nil, fmt.Errorf("list departments: %w", err)
	}
	return FromNames(names), nil
}
