// Package results maps raw dataset rows onto the fixed display schema and
// decides which display columns are shown.
package results

import (
	"strconv"

	"academyscope/internal/model"
)

// Row is a projected result row. A column missing from the map is an empty
// cell, which is not the same as a zero value.
type Row map[model.Column]any

// Visibility computes the shown columns for sel. Base columns are always
// shown and rank columns never are. A quota group is shown when its category
// is selected; the General group is also shown when a special-eligibility flag
// is on, since those rows are placed through the general quota. Columns the
// preference kind's dataset does not carry stay hidden.
func Visibility(sel model.FilterSelection) model.Visibility {
	vis := make(model.Visibility, len(model.Columns()))
	for _, col := range model.Columns() {
		vis[col] = visible(col.Info(), sel)
	}
	return vis
}

func visible(info model.ColumnInfo, sel model.FilterSelection) bool {
	switch info.Role {
	case model.RoleBase:
		return true
	case model.RoleRank:
		return false
	}

	kind := sel.PreferenceKind
	if info.Category == model.QuotaTopOfSchool && !kind.HasTopOfSchool() {
		return false
	}
	if info.Role == model.RolePlaced && !kind.HasPlacedCounts() {
		return false
	}
	if sel.HasQuota(info.Category) {
		return true
	}
	return info.Category == model.QuotaGeneral && sel.SpecialEligibility.Any()
}

// Project maps one raw row, addressed by dataset field, onto display
// columns. Columns the kind's dataset does not carry are never read, so their
// cells stay empty even if the row happens to hold such a field.
func Project(raw map[string]any, kind model.PreferenceKind) Row {
	row := make(Row)
	for _, col := range model.Columns() {
		info := col.Info()
		if !carried(info, kind) {
			continue
		}
		v, ok := raw[info.Field]
		if !ok || v == nil {
			continue
		}
		if b, ok := v.([]byte); ok {
			v = string(b)
		}
		row[col] = v
	}
	return row
}

// ProjectAll projects a whole result set for one preference kind.
func ProjectAll(raw []map[string]any, kind model.PreferenceKind) []Row {
	out := make([]Row, 0, len(raw))
	for _, r := range raw {
		out = append(out, Project(r, kind))
	}
	return out
}

func carried(info model.ColumnInfo, kind model.PreferenceKind) bool {
	if info.Field == "" {
		return false
	}
	if info.Role == model.RolePlaced && !kind.HasPlacedCounts() {
		return false
	}
	if info.Category == model.QuotaTopOfSchool && !kind.HasTopOfSchool() {
		return false
	}
	return true
}

// FormatCell renders a cell for display. Empty cells render as "".
func FormatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case int:
		return strconv.Itoa(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	}
	return ""
}

// Cell returns the formatted value of col in r.
func (r Row) Cell(col model.Column) string {
	return FormatCell(r[col])
}
