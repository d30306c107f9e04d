package bot

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"academyscope/internal/autocomplete"
	"academyscope/internal/command"
	"academyscope/internal/model"
	"academyscope/internal/query"
	"academyscope/internal/search"
)

const suggestLimit = 10

func (b *Bot) handleStart(chatID int64) {
	b.reply(chatID, `Welcome to AcademyScope!

Search Turkish university placement records by university, department, quota and score.

Quick start:
1. /uni ankara - filter by university name
2. /dept tıp - filter by department
3. /search - show matching programs

Use /help for the full command reference.`)
}

func (b *Bot) handleHelp(chatID int64) {
	var sb strings.Builder
	sb.WriteString(`Search:
/search - run the current filters
/filters - show the current filters
/unis <text> - suggest university names
/depts <text> - suggest department names

Filters (each one re-runs the search):
`)
	for _, line := range strings.Split(strings.TrimSpace(command.Help()), "\n") {
		sb.WriteString("/")
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	sb.WriteString("\nSort columns: ProgramKodu, Universite, Kampus, Program, PuanTuru, <group>Kontenjan, <group>Yerlesen, <group>EnKucukPuan")
	b.reply(chatID, sb.String())
}

func (b *Bot) handleSearch(ctx context.Context, chatID int64) {
	st := b.chat(chatID)
	st.mu.Lock()
	sel := st.sel.Clone()
	st.mu.Unlock()
	b.update(ctx, chatID, st, sel, sel)
}

func (b *Bot) handleFilters(chatID int64) {
	st := b.chat(chatID)
	st.mu.Lock()
	text := command.Describe(st.sel)
	st.mu.Unlock()
	b.reply(chatID, "Current filters:\n\n"+text)
}

func (b *Bot) handleSuggest(chatID int64, proxy *autocomplete.Proxy, cmd, args string) {
	if proxy == nil {
		b.reply(chatID, "Suggestions are not available.")
		return
	}
	names := proxy.Suggest(args, suggestLimit)
	if len(names) == 0 {
		b.reply(chatID, fmt.Sprintf("No names match %q.", args))
		return
	}
	var sb strings.Builder
	for _, n := range names {
		fmt.Fprintf(&sb, "/%s %s\n", cmd, n)
	}
	b.reply(chatID, sb.String())
}

func isFilterCommand(cmd string) bool {
	return slices.Contains(command.Names(), cmd)
}

// handleFilterCommand edits the chat's selection and re-runs the search.
func (b *Bot) handleFilterCommand(ctx context.Context, chatID int64, cmd, args string) {
	st := b.chat(chatID)

	st.mu.Lock()
	prev := st.sel.Clone()
	next := st.sel.Clone()
	if err := command.Execute(&next, cmd, strings.Fields(args)); err != nil {
		st.mu.Unlock()
		b.reply(chatID, commandError(err))
		return
	}
	st.sel = next
	st.mu.Unlock()

	b.update(ctx, chatID, st, prev, next.Clone())
}

// update runs a search for sel. On an invalid sort the chat goes back to
// prev, so the previous sort stays in effect.
func (b *Bot) update(ctx context.Context, chatID int64, st *chatState, prev, sel model.FilterSelection) {
	err := st.session.Update(ctx, sel)
	switch {
	case err == nil, errors.Is(err, search.ErrSuperseded):
	case errors.Is(err, query.ErrInvalidField):
		st.mu.Lock()
		st.sel.Sort = prev.Sort
		st.mu.Unlock()
		b.reply(chatID, "Cannot sort by that column, keeping the previous order.")
	default:
		b.log.Error("search", "chat_id", chatID, "error", err)
		b.reply(chatID, fmt.Sprintf("Search failed: %v", err))
	}
}

func commandError(err error) string {
	switch {
	case errors.Is(err, query.ErrInvalidField):
		return "Unknown column. Use /help to see the sortable columns."
	case errors.Is(err, command.ErrUsage):
		return "Invalid arguments: " + strings.TrimPrefix(err.Error(), command.ErrUsage.Error()+": ")
	}
	return fmt.Sprintf("Error: %v", err)
}
