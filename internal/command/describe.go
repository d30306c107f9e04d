package command

import (
	"fmt"
	"strconv"
	"strings"

	"academyscope/internal/model"
)

// Describe summarises sel, one filter per line.
func Describe(sel model.FilterSelection) string {
	var b strings.Builder
	line := func(name, value string) {
		fmt.Fprintf(&b, "%-11s %s\n", name+":", value)
	}

	line("university", orAny(sel.UniversityNameSubstring))
	line("department", orAny(sel.DepartmentSubstring))
	line("country", string(sel.CountryScope))
	line("license", string(sel.LicenseType))
	line("ownership", string(sel.UniversityOwnership))
	line("quota", joinOrNone(sel.QuotaCategories))
	line("kktc", onOffText(sel.SpecialEligibility.NorthCyprusCitizen))
	line("special", onOffText(sel.SpecialEligibility.SpecialEducationNeeds))
	line("tuition", joinOrNone(sel.TuitionTiers))
	line("score", formatScore(sel.ScoreRange.Min)+" - "+formatScore(sel.ScoreRange.Max))
	line("scoretype", string(sel.ScoreType))
	line("pref", string(sel.PreferenceKind))
	if sel.Sort == nil {
		line("sort", "default")
	} else {
		line("sort", sel.Sort.Column.String()+" "+string(sel.Sort.Direction))
	}
	return b.String()
}

func orAny(s string) string {
	if strings.TrimSpace(s) == "" {
		return "any"
	}
	return s
}

func joinOrNone[T ~string](vs []T) string {
	if len(vs) == 0 {
		return "none"
	}
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}

func onOffText(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
