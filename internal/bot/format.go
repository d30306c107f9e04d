package bot

import (
	"fmt"
	"strings"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"academyscope/internal/model"
	"academyscope/internal/results"
	"academyscope/internal/search"
)

const (
	emptyCell = "-"
	// maxMessageLen is Telegram's limit on the text of one message.
	maxMessageLen = 4096
)

var categoryLabels = map[model.QuotaCategory]string{
	model.QuotaGeneral:               "General",
	model.QuotaTopOfSchool:           "Top of school",
	model.QuotaMartyrVeteranRelative: "Martyr/veteran relatives",
	model.QuotaEarthquakeAffected:    "Earthquake affected",
	model.QuotaWoman34Plus:           "Women 34+",
}

// chatSink renders results into a chat.
type chatSink struct {
	bot    *Bot
	chatID int64
	limit  int
}

// Render sends the result, split into as many messages as needed. The sort
// keyboard goes under the last one.
func (s *chatSink) Render(res search.Result) {
	texts := FormatResult(res, s.limit)
	for i, text := range texts {
		msg := tgbotapi.NewMessage(s.chatID, text)
		if i == len(texts)-1 {
			if kb, ok := sortKeyboard(res); ok {
				msg.ReplyMarkup = kb
			}
		}
		s.bot.send(msg)
	}
}

// FormatResult formats up to limit rows of a search result as one or more
// messages, each within Telegram's length limit. Messages break between
// rows. Only visible columns are printed; empty cells print as "-".
func FormatResult(res search.Result, limit int) []string {
	if len(res.Rows) == 0 {
		return []string{"No programs match the current filters."}
	}

	var b strings.Builder
	shown := len(res.Rows)
	if limit > 0 && shown > limit {
		shown = limit
		fmt.Fprintf(&b, "Found %d programs, showing the first %d", len(res.Rows), limit)
	} else {
		fmt.Fprintf(&b, "Found %d programs", len(res.Rows))
	}
	if res.Sort != nil {
		fmt.Fprintf(&b, ", sorted by %s %s", res.Sort.Column, res.Sort.Direction)
	}
	b.WriteString(".\n")

	blocks := make([]string, 0, shown)
	for i, row := range res.Rows[:shown] {
		blocks = append(blocks, formatRow(i+1, row, res.Visibility))
	}
	return paginate(b.String(), blocks, maxMessageLen)
}

// formatRow renders one numbered row, starting with a blank line.
func formatRow(n int, row results.Row, vis model.Visibility) string {
	var b strings.Builder
	b.WriteString("\n")
	fmt.Fprintf(&b, "%d. #%s %s\n", n, cell(row, model.ColProgramCode), cell(row, model.ColUniversity))
	fmt.Fprintf(&b, "   %s", cell(row, model.ColProgram))
	if campus := row.Cell(model.ColCampus); campus != "" {
		fmt.Fprintf(&b, " (%s)", campus)
	}
	if st := row.Cell(model.ColScoreType); st != "" {
		fmt.Fprintf(&b, " [%s]", st)
	}
	b.WriteString("\n")
	for _, c := range model.QuotaCategories {
		if line, ok := groupLine(row, vis, c); ok {
			b.WriteString("   ")
			b.WriteString(line)
			b.WriteString("\n")
		}
	}
	return b.String()
}

// paginate packs header and blocks into messages of at most size runes. A
// block longer than size on its own is cut.
func paginate(header string, blocks []string, size int) []string {
	var msgs []string
	cur := truncateRunes(header, size)
	for _, blk := range blocks {
		if cur != "" && utf8.RuneCountInString(cur)+utf8.RuneCountInString(blk) > size {
			msgs = append(msgs, cur)
			cur = ""
		}
		if cur == "" {
			blk = strings.TrimPrefix(blk, "\n")
		}
		cur += truncateRunes(blk, size-utf8.RuneCountInString(cur))
	}
	return append(msgs, cur)
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:max(n, 0)])
}

func cell(row results.Row, col model.Column) string {
	if v := row.Cell(col); v != "" {
		return v
	}
	return emptyCell
}

// groupLine formats the visible columns of one quota group.
func groupLine(row results.Row, vis model.Visibility, c model.QuotaCategory) (string, bool) {
	var parts []string
	for _, part := range []struct {
		role  model.ColumnRole
		label string
	}{
		{model.RoleQuota, "quota"},
		{model.RolePlaced, "placed"},
		{model.RoleMinScore, "min score"},
	} {
		col, ok := model.ColumnFor(c, part.role)
		if !ok || !vis.Visible(col) {
			continue
		}
		parts = append(parts, part.label+" "+cell(row, col))
	}
	if len(parts) == 0 {
		return "", false
	}
	return categoryLabels[c] + ": " + strings.Join(parts, ", "), true
}

// sortKeyboard offers header-click sorting on the text columns and on the
// minimum score of each visible quota group.
func sortKeyboard(res search.Result) (tgbotapi.InlineKeyboardMarkup, bool) {
	if len(res.Rows) == 0 {
		return tgbotapi.InlineKeyboardMarkup{}, false
	}

	var buttons []tgbotapi.InlineKeyboardButton
	cols := []model.Column{model.ColUniversity, model.ColProgram}
	for _, c := range model.QuotaCategories {
		if col, ok := model.ColumnFor(c, model.RoleMinScore); ok && res.Visibility.Visible(col) {
			cols = append(cols, col)
		}
	}
	for _, col := range cols {
		label := col.String()
		if res.Sort != nil && res.Sort.Column == col {
			if res.Sort.Direction == model.Ascending {
				label += " ▲"
			} else {
				label += " ▼"
			}
		}
		buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(label, cmdSort+":"+col.String()))
	}

	var rows [][]tgbotapi.InlineKeyboardButton
	for len(buttons) > 0 {
		n := min(2, len(buttons))
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(buttons[:n]...))
		buttons = buttons[n:]
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...), true
}
