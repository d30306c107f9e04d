package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Column identifies a display column of the program table.
type Column int

// Display columns in table order.
const (
	ColProgramCode Column = iota
	ColUniversity
	ColCampus
	ColProgram
	ColScoreType

	ColGeneralQuota
	ColGeneralPlaced
	ColGeneralRank
	ColGeneralMinScore

	ColTopOfSchoolQuota
	ColTopOfSchoolPlaced
	ColTopOfSchoolRank
	ColTopOfSchoolMinScore

	ColMartyrQuota
	ColMartyrPlaced
	ColMartyrRank
	ColMartyrMinScore

	ColEarthquakeQuota
	ColEarthquakePlaced
	ColEarthquakeRank
	ColEarthquakeMinScore

	ColWoman34Quota
	ColWoman34Placed
	ColWoman34Rank
	ColWoman34MinScore

	columnCount
)

// ColumnRole describes what a quota-group column holds.
type ColumnRole int

// Column roles.
const (
	RoleBase ColumnRole = iota
	RoleQuota
	RolePlaced
	RoleRank
	RoleMinScore
)

// ColumnInfo is the static metadata of a display column. Name is the display
// id used by the command grammar, Field the dataset field (empty for columns
// with no backing data) and Text marks columns sorted with Turkish collation.
type ColumnInfo struct {
	Name     string
	Field    string
	Text     bool
	Role     ColumnRole
	Category QuotaCategory
}

// categoryPrefix maps each quota category to its dataset field prefix and
// to its display id prefix.
var categoryPrefix = map[QuotaCategory][2]string{
	QuotaGeneral:               {"Genel", "Genel"},
	QuotaTopOfSchool:           {"OkulBirincisi", "OkulBirincisi"},
	QuotaMartyrVeteranRelative: {"SehitGazi", "SehitGaziYakini"},
	QuotaEarthquakeAffected:    {"Depremzede", "Depremzede"},
	QuotaWoman34Plus:           {"Kadin34", "Kadin34Plus"},
}

var columns = buildColumns()

func buildColumns() []ColumnInfo {
	cols := []ColumnInfo{
		{Name: "ProgramKodu", Field: "ProgramKodu"},
		{Name: "Universite", Field: "UniversiteAdi", Text: true},
		{Name: "Kampus", Field: "FakulteYuksekokulAdi", Text: true},
		{Name: "Program", Field: "ProgramAdi", Text: true},
		{Name: "PuanTuru", Field: "PuanTuru", Text: true},
	}
	for _, c := range QuotaCategories {
		p := categoryPrefix[c]
		cols = append(cols,
			ColumnInfo{Name: p[1] + "Kontenjan", Field: p[0] + "Kontenjan", Role: RoleQuota, Category: c},
			ColumnInfo{Name: p[1] + "Yerlesen", Field: p[0] + "Yerlesen", Role: RolePlaced, Category: c},
			// Success rank is not part of the dataset.
			ColumnInfo{Name: p[1] + "BasariSirasi", Role: RoleRank, Category: c},
			ColumnInfo{Name: p[1] + "EnKucukPuan", Field: p[0] + "EnKucukPuan", Role: RoleMinScore, Category: c},
		)
	}
	return cols
}

// Columns returns every display column in table order.
func Columns() []Column {
	out := make([]Column, columnCount)
	for i := range out {
		out[i] = Column(i)
	}
	return out
}

// Valid reports whether c is a known column.
func (c Column) Valid() bool { return c >= 0 && c < columnCount }

// Info returns the column metadata. It panics on an invalid column, so
// callers taking untrusted ids must check Valid first.
func (c Column) Info() ColumnInfo { return columns[c] }

func (c Column) String() string {
	if !c.Valid() {
		return fmt.Sprintf("Column(%d)", int(c))
	}
	return columns[c].Name
}

// ParseColumn resolves a display id, case-insensitively.
func ParseColumn(name string) (Column, bool) {
	for i, info := range columns {
		if strings.EqualFold(info.Name, name) {
			return Column(i), true
		}
	}
	return 0, false
}

// QuotaField returns the dataset field holding the category's quota.
func QuotaField(c QuotaCategory) string { return categoryPrefix[c][0] + "Kontenjan" }

// PlacedField returns the dataset field holding the category's placed count.
func PlacedField(c QuotaCategory) string { return categoryPrefix[c][0] + "Yerlesen" }

// MinScoreField returns the dataset field holding the category's minimum score.
func MinScoreField(c QuotaCategory) string { return categoryPrefix[c][0] + "EnKucukPuan" }

// MarshalJSON encodes the column by its display id.
func (c Column) MarshalJSON() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("invalid column %d", int(c))
	}
	return json.Marshal(c.String())
}

// UnmarshalJSON decodes a display id.
func (c *Column) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return fmt.Errorf("decode column: %w", err)
	}
	col, ok := ParseColumn(name)
	if !ok {
		return fmt.Errorf("unknown column %q", name)
	}
	*c = col
	return nil
}

// Visibility marks the display columns shown for a selection. Columns
// missing from the map are hidden.
type Visibility map[Column]bool

// Visible reports whether c is shown. A nil Visibility shows every column.
func (v Visibility) Visible(c Column) bool {
	if v == nil {
		return true
	}
	return v[c]
}

// ColumnFor returns the column of a quota category with the given role.
func ColumnFor(c QuotaCategory, role ColumnRole) (Column, bool) {
	for i, info := range columns {
		if info.Category == c && info.Role == role {
			return Column(i), true
		}
	}
	return 0, false
}
