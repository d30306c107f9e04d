// Package search runs the build, compile, execute, project cycle for a
// filter selection and delivers the outcome to a sink.
package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"academyscope/internal/filter"
	"academyscope/internal/metrics"
	"academyscope/internal/model"
	"academyscope/internal/query"
	"academyscope/internal/results"
)

// Source executes compiled statements. storage.Storage satisfies it.
type Source interface {
	Query(ctx context.Context, query string) ([]map[string]any, error)
}

// Result is what one cycle produces for display.
type Result struct {
	Rows       []results.Row
	Visibility model.Visibility
	// Sort is the active sort indicator; nil when the default order applies.
	Sort *model.Sort
	// Query is the executed statement, empty when nothing was executed.
	Query string
}

// Engine runs search cycles against one data source.
type Engine struct {
	src     Source
	log     *slog.Logger
	metrics *metrics.Metrics
}

// NewEngine creates an Engine. m may be nil.
func NewEngine(src Source, log *slog.Logger, m *metrics.Metrics) *Engine {
	return &Engine{src: src, log: log, metrics: m}
}

// Run executes one cycle for sel.
//
// An unsatisfiable selection yields an empty result without touching the
// data source. A failing data source is logged and also yields an empty
// result. An invalid sort returns an error wrapping query.ErrInvalidField and
// no result, so the caller keeps its previous sort. When ctx is cancelled
// while the statement runs, ctx's error is returned.
func (e *Engine) Run(ctx context.Context, sel model.FilterSelection) (Result, error) {
	if err := query.ValidateSort(sel.Sort); err != nil {
		e.metrics.ObserveQuery(metrics.OutcomeInvalid)
		return Result{}, err
	}

	vis := results.Visibility(sel)
	res := Result{Visibility: vis, Sort: sortIndicator(sel.Sort, vis)}

	where, err := filter.Build(sel)
	if errors.Is(err, filter.ErrUnsatisfiable) {
		e.log.Debug("vacuous selection, skipping query")
		e.metrics.ObserveQuery(metrics.OutcomeVacuous)
		return res, nil
	}
	if err != nil {
		return Result{}, fmt.Errorf("build filter: %w", err)
	}

	q, err := query.Compile(query.Query{
		Where:      where,
		Table:      query.TableFor(sel.PreferenceKind),
		Sort:       sel.Sort,
		Visibility: res.Visibility,
	})
	if err != nil {
		e.metrics.ObserveQuery(metrics.OutcomeInvalid)
		return Result{}, fmt.Errorf("compile query: %w", err)
	}

	start := time.Now()
	raw, err := e.src.Query(ctx, q)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Result{}, ctxErr
		}
		e.log.Error("query failed", "query", q, "error", err)
		e.metrics.ObserveQuery(metrics.OutcomeFailed)
		return res, nil
	}
	e.metrics.ObserveQuery(metrics.OutcomeExecuted)
	e.metrics.ObserveExecution(time.Since(start), len(raw))
	e.log.Debug("query executed", "query", q, "rows", len(raw))

	res.Query = q
	res.Rows = results.ProjectAll(raw, sel.PreferenceKind)
	return res, nil
}

// sortIndicator copies the active sort. A sort on a hidden column is not
// applied, so it has no indicator.
func sortIndicator(s *model.Sort, vis model.Visibility) *model.Sort {
	if s == nil || !vis.Visible(s.Column) {
		return nil
	}
	c := *s
	return &c
}
