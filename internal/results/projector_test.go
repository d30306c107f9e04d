package results

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"academyscope/internal/model"
)

func shown(vis model.Visibility) []string {
	var out []string
	for _, col := range model.Columns() {
		if vis.Visible(col) {
			out = append(out, col.String())
		}
	}
	return out
}

func TestVisibility(t *testing.T) {
	base := []string{"ProgramKodu", "Universite", "Kampus", "Program", "PuanTuru"}

	tests := []struct {
		name string
		edit func(*model.FilterSelection)
		want []string
	}{
		{
			name: "defaults",
			want: append(base, "GenelKontenjan", "GenelYerlesen", "GenelEnKucukPuan"),
		},
		{
			name: "no categories",
			edit: func(s *model.FilterSelection) { s.QuotaCategories = nil },
			want: base,
		},
		{
			name: "special eligibility shows the general group",
			edit: func(s *model.FilterSelection) {
				s.QuotaCategories = []model.QuotaCategory{model.QuotaWoman34Plus}
				s.SpecialEligibility.SpecialEducationNeeds = true
			},
			want: append(base,
				"GenelKontenjan", "GenelYerlesen", "GenelEnKucukPuan",
				"Kadin34PlusKontenjan", "Kadin34PlusYerlesen", "Kadin34PlusEnKucukPuan",
			),
		},
		{
			name: "standard top of school and martyr",
			edit: func(s *model.FilterSelection) {
				s.QuotaCategories = []model.QuotaCategory{model.QuotaTopOfSchool, model.QuotaMartyrVeteranRelative}
			},
			want: append(base,
				"OkulBirincisiKontenjan", "OkulBirincisiYerlesen", "OkulBirincisiEnKucukPuan",
				"SehitGaziYakiniKontenjan", "SehitGaziYakiniYerlesen", "SehitGaziYakiniEnKucukPuan",
			),
		},
		{
			name: "supplementary hides placed counts and top of school",
			edit: func(s *model.FilterSelection) {
				s.PreferenceKind = model.PreferenceSupplementary
				s.QuotaCategories = []model.QuotaCategory{model.QuotaGeneral, model.QuotaTopOfSchool, model.QuotaEarthquakeAffected}
			},
			want: append(base,
				"GenelKontenjan", "GenelEnKucukPuan",
				"DepremzedeKontenjan", "DepremzedeEnKucukPuan",
			),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel := model.DefaultSelection()
			if tt.edit != nil {
				tt.edit(&sel)
			}
			if diff := cmp.Diff(tt.want, shown(Visibility(sel))); diff != "" {
				t.Errorf("Visibility() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestVisibilityIsFreshPerSelection(t *testing.T) {
	sel := model.DefaultSelection()
	first := Visibility(sel)

	sel.QuotaCategories = []model.QuotaCategory{model.QuotaEarthquakeAffected}
	second := Visibility(sel)

	if !first.Visible(model.ColGeneralQuota) || second.Visible(model.ColGeneralQuota) {
		t.Errorf("general quota visibility = %v then %v, want true then false",
			first.Visible(model.ColGeneralQuota), second.Visible(model.ColGeneralQuota))
	}
	if first.Visible(model.ColEarthquakeQuota) || !second.Visible(model.ColEarthquakeQuota) {
		t.Errorf("earthquake quota visibility = %v then %v, want false then true",
			first.Visible(model.ColEarthquakeQuota), second.Visible(model.ColEarthquakeQuota))
	}
}

func TestProject(t *testing.T) {
	raw := map[string]any{
		"ProgramKodu":              int64(102210277),
		"UniversiteAdi":            []byte("ANKARA ÜNİVERSİTESİ"),
		"FakulteYuksekokulAdi":     "Tıp Fakültesi",
		"ProgramAdi":               "Tıp",
		"PuanTuru":                 "SAY",
		"GenelKontenjan":           int64(300),
		"GenelYerlesen":            int64(0),
		"GenelEnKucukPuan":         531.25,
		"OkulBirincisiKontenjan":   int64(3),
		"OkulBirincisiYerlesen":    int64(3),
		"OkulBirincisiEnKucukPuan": 520.5,
		"SehitGaziKontenjan":       nil,
		"UcretDurumu":              int64(0),
	}

	t.Run("standard", func(t *testing.T) {
		want := Row{
			model.ColProgramCode:         int64(102210277),
			model.ColUniversity:          "ANKARA ÜNİVERSİTESİ",
			model.ColCampus:              "Tıp Fakültesi",
			model.ColProgram:             "Tıp",
			model.ColScoreType:           "SAY",
			model.ColGeneralQuota:        int64(300),
			model.ColGeneralPlaced:       int64(0),
			model.ColGeneralMinScore:     531.25,
			model.ColTopOfSchoolQuota:    int64(3),
			model.ColTopOfSchoolPlaced:   int64(3),
			model.ColTopOfSchoolMinScore: 520.5,
		}
		if diff := cmp.Diff(want, Project(raw, model.PreferenceStandard)); diff != "" {
			t.Errorf("Project() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("supplementary leaves absent columns empty", func(t *testing.T) {
		want := Row{
			model.ColProgramCode:     int64(102210277),
			model.ColUniversity:      "ANKARA ÜNİVERSİTESİ",
			model.ColCampus:          "Tıp Fakültesi",
			model.ColProgram:         "Tıp",
			model.ColScoreType:       "SAY",
			model.ColGeneralQuota:    int64(300),
			model.ColGeneralMinScore: 531.25,
		}
		got := Project(raw, model.PreferenceSupplementary)
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("Project() mismatch (-want +got):\n%s", diff)
		}
		if _, ok := got[model.ColGeneralPlaced]; ok {
			t.Error("placed count cell must be empty, not zero, in supplementary mode")
		}
	})
}

func TestProjectAll(t *testing.T) {
	got := ProjectAll([]map[string]any{{"ProgramKodu": int64(1)}, {"ProgramKodu": int64(2)}}, model.PreferenceStandard)
	want := []Row{{model.ColProgramCode: int64(1)}, {model.ColProgramCode: int64(2)}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ProjectAll() mismatch (-want +got):\n%s", diff)
	}
}

func TestFormatCell(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{in: nil, want: ""},
		{in: "Tıp", want: "Tıp"},
		{in: int64(42), want: "42"},
		{in: 7, want: "7"},
		{in: 412.5, want: "412.5"},
		{in: 300.0, want: "300"},
		{in: int64(0), want: "0"},
		{in: true, want: "true"},
	}

	for _, tt := range tests {
		if got := FormatCell(tt.in); got != tt.want {
			t.Errorf("FormatCell(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
