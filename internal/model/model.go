// Package model defines the domain types used across the application.
package model

import (
	"math"
	"slices"
)

// Default bounds of the score range. A bound only filters when it is
// tightened past its default.
const (
	DefaultMinScore = 100.0
	DefaultMaxScore = 560.0
)

// CountryScope restricts programs by the country the university is in.
type CountryScope string

// Supported country scopes.
const (
	CountryAny         CountryScope = "any"
	CountryDomestic    CountryScope = "domestic"
	CountryNorthCyprus CountryScope = "kktc"
	CountryAbroad      CountryScope = "abroad"
)

// LicenseType selects associate (two-year) or bachelor programs.
type LicenseType string

// Supported license types.
const (
	LicenseAny       LicenseType = "any"
	LicenseAssociate LicenseType = "associate"
	LicenseBachelor  LicenseType = "bachelor"
)

// Ownership is the ownership type of a university.
type Ownership string

// Supported ownership types.
const (
	OwnershipAny        Ownership = "any"
	OwnershipPublic     Ownership = "public"
	OwnershipFoundation Ownership = "foundation"
)

// QuotaCategory is one of the admission-slot classes of a program.
type QuotaCategory string

// Supported quota categories.
const (
	QuotaGeneral               QuotaCategory = "general"
	QuotaTopOfSchool           QuotaCategory = "top"
	QuotaMartyrVeteranRelative QuotaCategory = "martyr"
	QuotaEarthquakeAffected    QuotaCategory = "earthquake"
	QuotaWoman34Plus           QuotaCategory = "woman34"
)

// QuotaCategories lists every quota category in display order.
var QuotaCategories = []QuotaCategory{
	QuotaGeneral,
	QuotaTopOfSchool,
	QuotaMartyrVeteranRelative,
	QuotaEarthquakeAffected,
	QuotaWoman34Plus,
}

// TuitionTier is the tuition status of a program.
type TuitionTier string

// Supported tuition tiers.
const (
	TuitionFree       TuitionTier = "free"
	TuitionDiscounted TuitionTier = "discounted"
	TuitionPaid       TuitionTier = "paid"
)

// TuitionTiers lists every tuition tier in display order.
var TuitionTiers = []TuitionTier{TuitionFree, TuitionDiscounted, TuitionPaid}

// ScoreType is the exam score type a program admits with.
type ScoreType string

// Supported score types.
const (
	ScoreAny            ScoreType = "any"
	ScoreQuantitative   ScoreType = "say"
	ScoreQuantVerbalMix ScoreType = "ea"
	ScoreVerbal         ScoreType = "soz"
	ScoreBaseExamOnly   ScoreType = "tyt"
	ScoreLanguageBased  ScoreType = "dil"
)

// PreferenceKind selects the placement round and therefore the dataset.
type PreferenceKind string

// Supported preference kinds.
const (
	PreferenceStandard      PreferenceKind = "standard"
	PreferenceSupplementary PreferenceKind = "supplementary"
)

// HasPlacedCounts reports whether the dataset exposes "number placed" columns.
func (p PreferenceKind) HasPlacedCounts() bool {
	return p != PreferenceSupplementary
}

// HasTopOfSchool reports whether the dataset carries the top-of-school quota group.
func (p PreferenceKind) HasTopOfSchool() bool {
	return p != PreferenceSupplementary
}

// SortDirection is the direction of a column sort.
type SortDirection string

// Supported sort directions.
const (
	Ascending  SortDirection = "asc"
	Descending SortDirection = "desc"
)

// Sort is the active sort column and direction.
type Sort struct {
	Column    Column        `json:"column"`
	Direction SortDirection `json:"direction"`
}

// ScoreRange is the inclusive score window selected by the user.
type ScoreRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Finite reports whether both bounds are finite numbers.
func (r ScoreRange) Finite() bool {
	for _, v := range []float64{r.Min, r.Max} {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return false
		}
	}
	return true
}

// LowerBoundActive reports whether the minimum is tightened past its default.
func (r ScoreRange) LowerBoundActive() bool { return r.Min > DefaultMinScore }

// UpperBoundActive reports whether the maximum is tightened past its default.
func (r ScoreRange) UpperBoundActive() bool { return r.Max < DefaultMaxScore }

// SpecialEligibility holds the two flags that widen the quota disjunction
// when enabled and exclude their rows when disabled.
type SpecialEligibility struct {
	NorthCyprusCitizen    bool `json:"northCyprusCitizen"`
	SpecialEducationNeeds bool `json:"specialEducationNeeds"`
}

// Any reports whether at least one flag is enabled.
func (s SpecialEligibility) Any() bool {
	return s.NorthCyprusCitizen || s.SpecialEducationNeeds
}

// FilterSelection is a snapshot of every user-chosen filter value at query time.
type FilterSelection struct {
	UniversityNameSubstring string             `json:"universityName"`
	DepartmentSubstring     string             `json:"department"`
	CountryScope            CountryScope       `json:"country"`
	LicenseType             LicenseType        `json:"license"`
	UniversityOwnership     Ownership          `json:"ownership"`
	QuotaCategories         []QuotaCategory    `json:"quotaCategories"`
	SpecialEligibility      SpecialEligibility `json:"specialEligibility"`
	TuitionTiers            []TuitionTier      `json:"tuitionTiers"`
	ScoreType               ScoreType          `json:"scoreType"`
	ScoreRange              ScoreRange         `json:"scoreRange"`
	PreferenceKind          PreferenceKind     `json:"preferenceKind"`
	Sort                    *Sort              `json:"sort,omitempty"`
}

// DefaultSelection returns the selection a fresh window starts with: every
// axis unrestricted, the General quota and every tuition tier enabled.
func DefaultSelection() FilterSelection {
	return FilterSelection{
		CountryScope:        CountryAny,
		LicenseType:         LicenseAny,
		UniversityOwnership: OwnershipAny,
		QuotaCategories:     []QuotaCategory{QuotaGeneral},
		TuitionTiers:        slices.Clone(TuitionTiers),
		ScoreType:           ScoreAny,
		ScoreRange:          ScoreRange{Min: DefaultMinScore, Max: DefaultMaxScore},
		PreferenceKind:      PreferenceStandard,
	}
}

// HasQuota reports whether the category is selected.
func (s FilterSelection) HasQuota(c QuotaCategory) bool {
	return slices.Contains(s.QuotaCategories, c)
}

// HasTuition reports whether the tier is selected.
func (s FilterSelection) HasTuition(t TuitionTier) bool {
	return slices.Contains(s.TuitionTiers, t)
}

// Clone returns a deep copy, so callers can edit it without touching the original.
func (s FilterSelection) Clone() FilterSelection {
	c := s
	c.QuotaCategories = slices.Clone(s.QuotaCategories)
	c.TuitionTiers = slices.Clone(s.TuitionTiers)
	if s.Sort != nil {
		st := *s.Sort
		c.Sort = &st
	}
	return c
}

// University is an autocomplete candidate from the universities table.
type University struct {
	ID   int64  `db:"UniversiteID"`
	Name string `db:"UniversiteAdi"`
}
