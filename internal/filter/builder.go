package filter

import (
	"errors"
	"strings"

	"academyscope/internal/collation"
	"academyscope/internal/model"
)

// ErrUnsatisfiable is returned by Build when the selection cannot match any
// program, because no quota category or no tuition tier is enabled.
var ErrUnsatisfiable = errors.New("filter selection matches nothing")

// Dataset fields the builder compares against.
const (
	FieldUniversityName   = "UniversiteAdi"
	FieldProgramName      = "ProgramAdi"
	FieldCountry          = "UlkeKodu"
	FieldLicense          = "Lisans"
	FieldOwnership        = "UniversiteTuru"
	FieldScoreType        = "PuanTuru"
	FieldNorthCyprus      = "KKTCUyruklu"
	FieldSpecialEducation = "MTOK"
	FieldTuition          = "UcretDurumu"
)

var countryCodes = map[model.CountryScope]int{
	model.CountryDomestic:    1,
	model.CountryNorthCyprus: 2,
	model.CountryAbroad:      3,
}

var licenseValues = map[model.LicenseType]bool{
	model.LicenseAssociate: false,
	model.LicenseBachelor:  true,
}

var ownershipValues = map[model.Ownership]string{
	model.OwnershipPublic:     "DEVLET",
	model.OwnershipFoundation: "VAKIF",
}

var scoreTypeValues = map[model.ScoreType]string{
	model.ScoreQuantitative:   "SAY",
	model.ScoreQuantVerbalMix: "EA",
	model.ScoreVerbal:         "SÖZ",
	model.ScoreBaseExamOnly:   "TYT",
	model.ScoreLanguageBased:  "DİL",
}

var tuitionCodes = map[model.TuitionTier]int{
	model.TuitionFree:       0,
	model.TuitionDiscounted: 1,
	model.TuitionPaid:       2,
}

// Build turns a selection into the conjunction every matching program must
// satisfy. Name substrings are case-folded here so the tree holds the exact
// text stored in the dataset: university names are upper case and program
// names title case.
//
// Unrestricted axes contribute nothing. Build returns ErrUnsatisfiable when
// the quota or tuition disjunction would be empty.
func Build(sel model.FilterSelection) (*And, error) {
	var terms []Expr

	if uni := strings.TrimSpace(sel.UniversityNameSubstring); uni != "" {
		terms = append(terms, &Comparison{Field: FieldUniversityName, Op: OpContains, Value: collation.Upper(uni)})
	}
	if dept := collation.TitleCase(sel.DepartmentSubstring); dept != "" {
		terms = append(terms, &Comparison{Field: FieldProgramName, Op: OpContains, Value: dept})
	}
	if code, ok := countryCodes[sel.CountryScope]; ok {
		terms = append(terms, &Comparison{Field: FieldCountry, Op: OpEq, Value: code})
	}
	if v, ok := licenseValues[sel.LicenseType]; ok {
		terms = append(terms, &Comparison{Field: FieldLicense, Op: OpEq, Value: v})
	}
	if v, ok := ownershipValues[sel.UniversityOwnership]; ok {
		terms = append(terms, &Comparison{Field: FieldOwnership, Op: OpEq, Value: v})
	}
	if v, ok := scoreTypeValues[sel.ScoreType]; ok {
		terms = append(terms, &Comparison{Field: FieldScoreType, Op: OpEq, Value: v})
	}

	if !sel.SpecialEligibility.NorthCyprusCitizen {
		terms = append(terms, &Comparison{Field: FieldNorthCyprus, Op: OpEq, Value: false})
	}
	if !sel.SpecialEligibility.SpecialEducationNeeds {
		terms = append(terms, &Comparison{Field: FieldSpecialEducation, Op: OpEq, Value: false})
	}

	quota, ok := buildDisjunction(quotaTerms(sel))
	if !ok {
		return nil, ErrUnsatisfiable
	}
	terms = append(terms, quota)

	tuition, ok := buildDisjunction(tuitionTerms(sel))
	if !ok {
		return nil, ErrUnsatisfiable
	}
	terms = append(terms, tuition)

	if score, ok := buildDisjunction(scoreTerms(sel)); ok {
		terms = append(terms, score)
	}

	return &And{Terms: terms}, nil
}

// buildDisjunction wraps terms in an Or, reporting false when there are none.
func buildDisjunction(terms []Expr) (*Or, bool) {
	if len(terms) == 0 {
		return nil, false
	}
	return &Or{Terms: terms}, true
}

// categories returns the selected quota categories the dataset of the
// selection's preference kind carries, in display order.
func categories(sel model.FilterSelection) []model.QuotaCategory {
	var out []model.QuotaCategory
	for _, c := range model.QuotaCategories {
		if !sel.HasQuota(c) {
			continue
		}
		if c == model.QuotaTopOfSchool && !sel.PreferenceKind.HasTopOfSchool() {
			continue
		}
		out = append(out, c)
	}
	return out
}

func quotaTerms(sel model.FilterSelection) []Expr {
	var terms []Expr
	for _, c := range categories(sel) {
		terms = append(terms, &Comparison{Field: model.QuotaField(c), Op: OpIsNotNull})
	}
	if sel.SpecialEligibility.NorthCyprusCitizen {
		terms = append(terms, &Comparison{Field: FieldNorthCyprus, Op: OpEq, Value: true})
	}
	if sel.SpecialEligibility.SpecialEducationNeeds {
		terms = append(terms, &Comparison{Field: FieldSpecialEducation, Op: OpEq, Value: true})
	}
	return terms
}

func tuitionTerms(sel model.FilterSelection) []Expr {
	var terms []Expr
	for _, t := range model.TuitionTiers {
		if sel.HasTuition(t) {
			terms = append(terms, &Comparison{Field: FieldTuition, Op: OpEq, Value: tuitionCodes[t]})
		}
	}
	return terms
}

// scoreTerms bounds the minimum score of each selected category. A bound left
// at its default is not emitted.
func scoreTerms(sel model.FilterSelection) []Expr {
	r := sel.ScoreRange
	if !r.LowerBoundActive() && !r.UpperBoundActive() {
		return nil
	}

	var terms []Expr
	for _, c := range categories(sel) {
		field := model.MinScoreField(c)
		var bounds []Expr
		if r.LowerBoundActive() {
			bounds = append(bounds, &Comparison{Field: field, Op: OpGt, Value: r.Min})
		}
		if r.UpperBoundActive() {
			bounds = append(bounds, &Comparison{Field: field, Op: OpLt, Value: r.Max})
		}
		if len(bounds) == 1 {
			terms = append(terms, bounds[0])
			continue
		}
		terms = append(terms, &And{Terms: bounds})
	}
	return terms
}
