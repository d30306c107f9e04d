package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/peterh/liner"

	"academyscope/internal/autocomplete"
	"academyscope/internal/command"
	"academyscope/internal/model"
	"academyscope/internal/preset"
	"academyscope/internal/query"
	"academyscope/internal/search"
)

const completionLimit = 20

// builtins are the REPL commands that do not edit the selection.
var builtins = []string{"help", "show", "search", "save", "load", "unis", "depts", "exit", "quit"}

// REPL is the interactive command loop. It holds one selection and renders
// a fresh table after every accepted change.
type REPL struct {
	session *search.Session
	unis    *autocomplete.Proxy
	depts   *autocomplete.Proxy
	sel     model.FilterSelection
	out     io.Writer
	liner   *liner.State
}

func newREPL(engine *search.Engine, unis, depts *autocomplete.Proxy, sel model.FilterSelection, out io.Writer, limit int) *REPL {
	return &REPL{
		session: engine.NewSession(&tableSink{out: out, limit: limit}),
		unis:    unis,
		depts:   depts,
		sel:     sel,
		out:     out,
	}
}

func historyFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".academyscope_history")
}

// Run reads commands until EOF, Ctrl-C or quit.
func (r *REPL) Run(ctx context.Context) error {
	r.liner = liner.NewLiner()
	defer r.liner.Close()

	r.liner.SetCtrlCAborts(true)
	r.liner.SetCompleter(r.completer)

	if f, err := os.Open(historyFile()); err == nil {
		_, _ = r.liner.ReadHistory(f)
		_ = f.Close()
	}
	defer r.saveHistory()

	fmt.Fprintln(r.out, "academyscope - type 'help' for commands, Tab completes names.")
	r.refresh(ctx, r.sel)

	for ctx.Err() == nil {
		line, err := r.liner.Prompt("academyscope> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				fmt.Fprintln(r.out)
				return nil
			}
			return fmt.Errorf("read input: %w", err)
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		r.liner.AppendHistory(line)

		if quit := r.exec(ctx, line); quit {
			return nil
		}
	}
	return nil
}

func (r *REPL) saveHistory() {
	if path := historyFile(); path != "" {
		if f, err := os.Create(path); err == nil {
			_, _ = r.liner.WriteHistory(f)
			_ = f.Close()
		}
	}
}

// exec runs one input line and reports whether the loop should stop.
func (r *REPL) exec(ctx context.Context, line string) bool {
	fields := strings.Fields(line)
	name, args := strings.ToLower(fields[0]), fields[1:]
	rest := strings.TrimSpace(strings.TrimPrefix(line, fields[0]))

	switch name {
	case "exit", "quit", "q":
		return true
	case "help", "?":
		r.printHelp()
	case "show", "filters":
		fmt.Fprint(r.out, command.Describe(r.sel))
	case "search":
		r.refresh(ctx, r.sel)
	case "save":
		if len(args) != 1 {
			fmt.Fprintln(r.out, "usage: save <path>")
			return false
		}
		if err := preset.Save(args[0], r.sel); err != nil {
			fmt.Fprintf(r.out, "Error: %v\n", err)
			return false
		}
		fmt.Fprintf(r.out, "Saved filters to %s\n", args[0])
	case "load":
		if len(args) != 1 {
			fmt.Fprintln(r.out, "usage: load <path>")
			return false
		}
		sel, err := preset.Load(args[0])
		if err != nil {
			fmt.Fprintf(r.out, "Error: %v\n", err)
			return false
		}
		prev := r.sel
		r.sel = sel
		r.update(ctx, prev)
	case "unis":
		r.suggest(r.unis, "uni", rest)
	case "depts":
		r.suggest(r.depts, "dept", rest)
	default:
		r.apply(ctx, name, args)
	}
	return false
}

// apply edits the selection with a filter command and re-runs the search.
func (r *REPL) apply(ctx context.Context, name string, args []string) {
	prev := r.sel.Clone()
	err := command.Execute(&r.sel, name, args)
	switch {
	case err == nil:
		r.update(ctx, prev)
	case errors.Is(err, command.ErrUnknownCommand):
		fmt.Fprintf(r.out, "Unknown command: %s (type 'help' for commands)\n", name)
	case errors.Is(err, query.ErrInvalidField):
		fmt.Fprintf(r.out, "Unknown column: %s\n", strings.Join(args, " "))
	default:
		fmt.Fprintf(r.out, "Error: %v\n", err)
	}
}

// update searches with the current selection. An invalid sort falls back to
// the sort of prev.
func (r *REPL) update(ctx context.Context, prev model.FilterSelection) {
	if err := r.refresh(ctx, r.sel); errors.Is(err, query.ErrInvalidField) {
		r.sel.Sort = prev.Sort
	}
}

func (r *REPL) refresh(ctx context.Context, sel model.FilterSelection) error {
	err := r.session.Update(ctx, sel.Clone())
	switch {
	case err == nil, errors.Is(err, search.ErrSuperseded):
		return nil
	case errors.Is(err, query.ErrInvalidField):
		fmt.Fprintln(r.out, "Cannot sort by that column, keeping the previous order.")
	default:
		fmt.Fprintf(r.out, "Search failed: %v\n", err)
	}
	return err
}

func (r *REPL) suggest(p *autocomplete.Proxy, cmd, text string) {
	names := p.Suggest(text, completionLimit)
	if len(names) == 0 {
		fmt.Fprintf(r.out, "No names match %q.\n", text)
		return
	}
	for _, n := range names {
		fmt.Fprintf(r.out, "%s %s\n", cmd, n)
	}
}

// completer completes command names, university and department names after
// uni and dept, and column ids after sort.
func (r *REPL) completer(line string) []string {
	name, rest, hasArgs := strings.Cut(line, " ")
	if !hasArgs {
		var out []string
		lower := strings.ToLower(line)
		for _, c := range slices.Concat(command.Names(), builtins) {
			if strings.HasPrefix(c, lower) {
				out = append(out, c)
			}
		}
		return out
	}

	var candidates []string
	switch strings.ToLower(name) {
	case "uni", "unis":
		candidates = r.unis.Complete(rest)
	case "dept", "depts":
		candidates = r.depts.Complete(rest)
	case "sort":
		for _, c := range model.Columns() {
			if c.Info().Field != "" && strings.HasPrefix(strings.ToLower(c.String()), strings.ToLower(rest)) {
				candidates = append(candidates, c.String())
			}
		}
	default:
		return nil
	}

	if len(candidates) > completionLimit {
		candidates = candidates[:completionLimit]
	}
	out := make([]string, len(candidates))
	for i, c := range candidates {
		out[i] = name + " " + c
	}
	return out
}

func (r *REPL) printHelp() {
	fmt.Fprintln(r.out, "Commands:")
	fmt.Fprintln(r.out, "  search              Run the current filters")
	fmt.Fprintln(r.out, "  show                Show the current filters")
	fmt.Fprintln(r.out, "  unis <text>         Suggest university names")
	fmt.Fprintln(r.out, "  depts <text>        Suggest department names")
	fmt.Fprintln(r.out, "  save <path>         Save the filters as a preset")
	fmt.Fprintln(r.out, "  load <path>         Load a preset and search")
	fmt.Fprintln(r.out, "  help                Show this help")
	fmt.Fprintln(r.out, "  exit / quit / q     Exit")
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, "Filters (each one re-runs the search):")
	for _, line := range strings.Split(strings.TrimSpace(command.Help()), "\n") {
		fmt.Fprintf(r.out, "  %s\n", line)
	}
}
