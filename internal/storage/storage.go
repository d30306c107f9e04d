// Package storage defines the read-only data source interface and its
// implementations.
package storage

import (
	"context"
	"errors"

	"academyscope/internal/model"
)

// ErrUnavailable is returned when the data source is not open or cannot be reached.
var ErrUnavailable = errors.New("data source unavailable")

// Storage is the data source the search engine and autocomplete read from.
type Storage interface {
	// Query runs a compiled statement and returns its rows addressed by
	// column name.
	Query(ctx context.Context, query string) ([]map[string]any, error)
	// ListUniversities returns every university, Turkish-collated by name.
	ListUniversities(ctx context.Context) ([]model.University, error)
	// ListDepartments returns the distinct program names of the standard
	// table, cut at the first parenthesis and trimmed, Turkish-collated.
	ListDepartments(ctx context.Context) ([]string, error)

	Close() error
}

// Unavailable is a Storage whose every call fails with ErrUnavailable. It
// stands in when the dataset could not be opened, so the front-ends stay
// usable but empty.
type Unavailable struct {
	// Cause is the open error, if any.
	Cause error
}

func (u Unavailable) err() error {
	if u.Cause != nil {
		return errors.Join(ErrUnavailable, u.Cause)
	}
	return ErrUnavailable
}

// Query implements Storage.
func (u Unavailable) Query(context.Context, string) ([]map[string]any, error) {
	return nil, u.err()
}

// ListUniversities implements Storage.
func (u Unavailable) ListUniversities(context.Context) ([]model.University, error) {
	return nil, u.err()
}

// ListDepartments implements Storage.
func (u Unavailable) ListDepartments(context.Context) ([]string, error) {
	return nil, u.err()
}

// Close implements Storage.
func (Unavailable) Close() error { return nil }
