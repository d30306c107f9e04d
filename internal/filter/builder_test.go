package filter

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"academyscope/internal/model"
)

func selection(edit func(*model.FilterSelection)) model.FilterSelection {
	sel := model.DefaultSelection()
	if edit != nil {
		edit(&sel)
	}
	return sel
}

var (
	noNorthCyprus      = &Comparison{Field: FieldNorthCyprus, Op: OpEq, Value: false}
	noSpecialEducation = &Comparison{Field: FieldSpecialEducation, Op: OpEq, Value: false}
	allTuition         = &Or{Terms: []Expr{
		&Comparison{Field: FieldTuition, Op: OpEq, Value: 0},
		&Comparison{Field: FieldTuition, Op: OpEq, Value: 1},
		&Comparison{Field: FieldTuition, Op: OpEq, Value: 2},
	}}
	generalQuota = &Or{Terms: []Expr{&Comparison{Field: "GenelKontenjan", Op: OpIsNotNull}}}
)

func TestBuild(t *testing.T) {
	tests := []struct {
		name string
		sel  model.FilterSelection
		want *And
	}{
		{
			name: "defaults",
			sel:  selection(nil),
			want: &And{Terms: []Expr{noNorthCyprus, noSpecialEducation, generalQuota, allTuition}},
		},
		{
			name: "general quota and free tuition only",
			sel: selection(func(s *model.FilterSelection) {
				s.TuitionTiers = []model.TuitionTier{model.TuitionFree}
			}),
			want: &And{Terms: []Expr{
				noNorthCyprus,
				noSpecialEducation,
				generalQuota,
				&Or{Terms: []Expr{&Comparison{Field: FieldTuition, Op: OpEq, Value: 0}}},
			}},
		},
		{
			name: "name substrings are case folded",
			sel: selection(func(s *model.FilterSelection) {
				s.UniversityNameSubstring = "istanbul"
				s.DepartmentSubstring = "BİLGİSAYAR mühendisliği"
			}),
			want: &And{Terms: []Expr{
				&Comparison{Field: FieldUniversityName, Op: OpContains, Value: "İSTANBUL"},
				&Comparison{Field: FieldProgramName, Op: OpContains, Value: "Bilgisayar Mühendisliği"},
				noNorthCyprus,
				noSpecialEducation,
				generalQuota,
				allTuition,
			}},
		},
		{
			name: "blank substrings are ignored",
			sel: selection(func(s *model.FilterSelection) {
				s.UniversityNameSubstring = "   "
				s.DepartmentSubstring = " "
			}),
			want: &And{Terms: []Expr{noNorthCyprus, noSpecialEducation, generalQuota, allTuition}},
		},
		{
			name: "categorical axes",
			sel: selection(func(s *model.FilterSelection) {
				s.CountryScope = model.CountryNorthCyprus
				s.LicenseType = model.LicenseBachelor
				s.UniversityOwnership = model.OwnershipFoundation
				s.ScoreType = model.ScoreVerbal
			}),
			want: &And{Terms: []Expr{
				&Comparison{Field: FieldCountry, Op: OpEq, Value: 2},
				&Comparison{Field: FieldLicense, Op: OpEq, Value: true},
				&Comparison{Field: FieldOwnership, Op: OpEq, Value: "VAKIF"},
				&Comparison{Field: FieldScoreType, Op: OpEq, Value: "SÖZ"},
				noNorthCyprus,
				noSpecialEducation,
				generalQuota,
				allTuition,
			}},
		},
		{
			name: "associate public domestic",
			sel: selection(func(s *model.FilterSelection) {
				s.CountryScope = model.CountryDomestic
				s.LicenseType = model.LicenseAssociate
				s.UniversityOwnership = model.OwnershipPublic
			}),
			want: &And{Terms: []Expr{
				&Comparison{Field: FieldCountry, Op: OpEq, Value: 1},
				&Comparison{Field: FieldLicense, Op: OpEq, Value: false},
				&Comparison{Field: FieldOwnership, Op: OpEq, Value: "DEVLET"},
				noNorthCyprus,
				noSpecialEducation,
				generalQuota,
				allTuition,
			}},
		},
		{
			name: "special eligibility widens the quota disjunction",
			sel: selection(func(s *model.FilterSelection) {
				s.SpecialEligibility = model.SpecialEligibility{NorthCyprusCitizen: true, SpecialEducationNeeds: true}
			}),
			want: &And{Terms: []Expr{
				&Or{Terms: []Expr{
					&Comparison{Field: "GenelKontenjan", Op: OpIsNotNull},
					&Comparison{Field: FieldNorthCyprus, Op: OpEq, Value: true},
					&Comparison{Field: FieldSpecialEducation, Op: OpEq, Value: true},
				}},
				allTuition,
			}},
		},
		{
			name: "special eligibility alone keeps the query satisfiable",
			sel: selection(func(s *model.FilterSelection) {
				s.QuotaCategories = nil
				s.SpecialEligibility.SpecialEducationNeeds = true
			}),
			want: &And{Terms: []Expr{
				noNorthCyprus,
				&Or{Terms: []Expr{&Comparison{Field: FieldSpecialEducation, Op: OpEq, Value: true}}},
				allTuition,
			}},
		},
		{
			name: "lower score bound",
			sel: selection(func(s *model.FilterSelection) {
				s.ScoreRange.Min = 300
			}),
			want: &And{Terms: []Expr{
				noNorthCyprus, noSpecialEducation, generalQuota, allTuition,
				&Or{Terms: []Expr{&Comparison{Field: "GenelEnKucukPuan", Op: OpGt, Value: 300.0}}},
			}},
		},
		{
			name: "upper score bound",
			sel: selection(func(s *model.FilterSelection) {
				s.ScoreRange.Max = 500
			}),
			want: &And{Terms: []Expr{
				noNorthCyprus, noSpecialEducation, generalQuota, allTuition,
				&Or{Terms: []Expr{&Comparison{Field: "GenelEnKucukPuan", Op: OpLt, Value: 500.0}}},
			}},
		},
		{
			name: "both score bounds per selected category",
			sel: selection(func(s *model.FilterSelection) {
				s.QuotaCategories = []model.QuotaCategory{model.QuotaWoman34Plus, model.QuotaGeneral}
				s.ScoreRange = model.ScoreRange{Min: 300, Max: 500}
			}),
			want: &And{Terms: []Expr{
				noNorthCyprus, noSpecialEducation,
				&Or{Terms: []Expr{
					&Comparison{Field: "GenelKontenjan", Op: OpIsNotNull},
					&Comparison{Field: "Kadin34Kontenjan", Op: OpIsNotNull},
				}},
				allTuition,
				&Or{Terms: []Expr{
					&And{Terms: []Expr{
						&Comparison{Field: "GenelEnKucukPuan", Op: OpGt, Value: 300.0},
						&Comparison{Field: "GenelEnKucukPuan", Op: OpLt, Value: 500.0},
					}},
					&And{Terms: []Expr{
						&Comparison{Field: "Kadin34EnKucukPuan", Op: OpGt, Value: 300.0},
						&Comparison{Field: "Kadin34EnKucukPuan", Op: OpLt, Value: 500.0},
					}},
				}},
			}},
		},
		{
			name: "inverted range is kept as is",
			sel: selection(func(s *model.FilterSelection) {
				s.ScoreRange = model.ScoreRange{Min: 450, Max: 200}
			}),
			want: &And{Terms: []Expr{
				noNorthCyprus, noSpecialEducation, generalQuota, allTuition,
				&Or{Terms: []Expr{&And{Terms: []Expr{
					&Comparison{Field: "GenelEnKucukPuan", Op: OpGt, Value: 450.0},
					&Comparison{Field: "GenelEnKucukPuan", Op: OpLt, Value: 200.0},
				}}}},
			}},
		},
		{
			name: "supplementary drops top of school",
			sel: selection(func(s *model.FilterSelection) {
				s.PreferenceKind = model.PreferenceSupplementary
				s.QuotaCategories = []model.QuotaCategory{model.QuotaGeneral, model.QuotaTopOfSchool}
				s.ScoreRange.Min = 250
			}),
			want: &And{Terms: []Expr{
				noNorthCyprus, noSpecialEducation, generalQuota, allTuition,
				&Or{Terms: []Expr{&Comparison{Field: "GenelEnKucukPuan", Op: OpGt, Value: 250.0}}},
			}},
		},
		{
			name: "score bounds without a selected category add nothing",
			sel: selection(func(s *model.FilterSelection) {
				s.QuotaCategories = nil
				s.SpecialEligibility.NorthCyprusCitizen = true
				s.ScoreRange.Min = 400
			}),
			want: &And{Terms: []Expr{
				noSpecialEducation,
				&Or{Terms: []Expr{&Comparison{Field: FieldNorthCyprus, Op: OpEq, Value: true}}},
				allTuition,
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Build(tt.sel)
			if err != nil {
				t.Fatalf("Build() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Build() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBuildUnsatisfiable(t *testing.T) {
	tests := []struct {
		name string
		sel  model.FilterSelection
	}{
		{
			name: "no quota category",
			sel:  selection(func(s *model.FilterSelection) { s.QuotaCategories = nil }),
		},
		{
			name: "no tuition tier",
			sel:  selection(func(s *model.FilterSelection) { s.TuitionTiers = nil }),
		},
		{
			name: "only top of school in supplementary",
			sel: selection(func(s *model.FilterSelection) {
				s.PreferenceKind = model.PreferenceSupplementary
				s.QuotaCategories = []model.QuotaCategory{model.QuotaTopOfSchool}
			}),
		},
		{
			name: "tuition empty even with special eligibility",
			sel: selection(func(s *model.FilterSelection) {
				s.TuitionTiers = []model.TuitionTier{}
				s.SpecialEligibility.NorthCyprusCitizen = true
			}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Build(tt.sel)
			if !errors.Is(err, ErrUnsatisfiable) {
				t.Fatalf("Build() error = %v, want ErrUnsatisfiable", err)
			}
			if got != nil {
				t.Errorf("Build() = %+v, want nil", got)
			}
		})
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	sel := selection(func(s *model.FilterSelection) {
		s.UniversityNameSubstring = "ege"
		s.QuotaCategories = []model.QuotaCategory{model.QuotaEarthquakeAffected, model.QuotaMartyrVeteranRelative, model.QuotaGeneral}
		s.TuitionTiers = []model.TuitionTier{model.TuitionPaid, model.TuitionFree}
		s.ScoreRange = model.ScoreRange{Min: 200, Max: 400}
	})

	first, err := Build(sel)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	for range 10 {
		again, err := Build(sel)
		if err != nil {
			t.Fatalf("Build() error = %v", err)
		}
		if diff := cmp.Diff(first, again); diff != "" {
			t.Fatalf("Build() not deterministic (-first +again):\n%s", diff)
		}
	}
}
