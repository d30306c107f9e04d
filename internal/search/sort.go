package search

import "academyscope/internal/model"

// defaultSort is the order applied when no sort is selected.
var defaultSort = model.Sort{Column: model.ColProgramCode, Direction: model.Ascending}

// NextSort returns the sort after the header of col is activated. The same
// column flips direction; another column starts ascending. A nil prev stands
// for the default program-code order.
func NextSort(prev *model.Sort, col model.Column) *model.Sort {
	if prev == nil {
		prev = &defaultSort
	}
	if prev.Column == col {
		dir := model.Descending
		if prev.Direction == model.Descending {
			dir = model.Ascending
		}
		return &model.Sort{Column: col, Direction: dir}
	}
	return &model.Sort{Column: col, Direction: model.Ascending}
}
