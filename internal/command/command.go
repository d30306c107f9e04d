// Package command parses the text commands shared by the REPL and the bot
// and applies them to a filter selection.
package command

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"academyscope/internal/model"
	"academyscope/internal/query"
	"academyscope/internal/search"
)

var (
	// ErrUnknownCommand is returned for a command name not in the grammar.
	ErrUnknownCommand = errors.New("unknown command")
	// ErrUsage is returned when a command's arguments are malformed.
	ErrUsage = errors.New("usage")
)

type spec struct {
	name  string
	usage string
	run   func(sel *model.FilterSelection, args []string) error
}

var specs = []spec{
	{"uni", "uni [text]", setUniversity},
	{"dept", "dept [text]", setDepartment},
	{"country", "country any|domestic|kktc|abroad", setCountry},
	{"license", "license any|associate|bachelor", setLicense},
	{"ownership", "ownership any|public|foundation", setOwnership},
	{"quota", "quota all|none|general|top|martyr|earthquake|woman34...", toggleQuota},
	{"kktc", "kktc on|off", setNorthCyprus},
	{"special", "special on|off", setSpecialEducation},
	{"tuition", "tuition all|none|free|discounted|paid...", toggleTuition},
	{"score", "score <min> <max> | score reset", setScore},
	{"scoretype", "scoretype any|say|ea|soz|tyt|dil", setScoreType},
	{"pref", "pref standard|supplementary", setPreference},
	{"sort", "sort <column>|none", setSort},
	{"reset", "reset", reset},
}

// Names returns the command names in help order.
func Names() []string {
	out := make([]string, len(specs))
	for i, s := range specs {
		out[i] = s.name
	}
	return out
}

// Help returns one usage line per command.
func Help() string {
	var b strings.Builder
	for _, s := range specs {
		b.WriteString(s.usage)
		b.WriteByte('\n')
	}
	return b.String()
}

// Apply parses line and applies it to sel. sel is left untouched on error.
func Apply(sel *model.FilterSelection, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return fmt.Errorf("%w: empty command", ErrUsage)
	}
	return Execute(sel, fields[0], fields[1:])
}

// Execute applies the named command with its arguments to sel. sel is left
// untouched on error.
func Execute(sel *model.FilterSelection, name string, args []string) error {
	i := slices.IndexFunc(specs, func(s spec) bool { return s.name == strings.ToLower(name) })
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownCommand, name)
	}

	next := sel.Clone()
	if err := specs[i].run(&next, args); err != nil {
		if errors.Is(err, ErrUsage) {
			return fmt.Errorf("%w (%s)", err, specs[i].usage)
		}
		return err
	}
	*sel = next
	return nil
}

func usagef(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrUsage}, args...)...)
}

func setUniversity(sel *model.FilterSelection, args []string) error {
	sel.UniversityNameSubstring = strings.Join(args, " ")
	return nil
}

func setDepartment(sel *model.FilterSelection, args []string) error {
	sel.DepartmentSubstring = strings.Join(args, " ")
	return nil
}

// one returns the single lower-cased argument.
func one(args []string) (string, error) {
	if len(args) != 1 {
		return "", usagef("want one argument, got %d", len(args))
	}
	return strings.ToLower(args[0]), nil
}

// choose parses a single argument that must be one of the allowed values.
func choose[T ~string](args []string, allowed ...T) (T, error) {
	arg, err := one(args)
	if err != nil {
		return "", err
	}
	for _, a := range allowed {
		if string(a) == arg {
			return a, nil
		}
	}
	return "", usagef("unknown value %q", arg)
}

func setCountry(sel *model.FilterSelection, args []string) error {
	v, err := choose(args, model.CountryAny, model.CountryDomestic, model.CountryNorthCyprus, model.CountryAbroad)
	if err != nil {
		return err
	}
	sel.CountryScope = v
	return nil
}

func setLicense(sel *model.FilterSelection, args []string) error {
	v, err := choose(args, model.LicenseAny, model.LicenseAssociate, model.LicenseBachelor)
	if err != nil {
		return err
	}
	sel.LicenseType = v
	return nil
}

func setOwnership(sel *model.FilterSelection, args []string) error {
	v, err := choose(args, model.OwnershipAny, model.OwnershipPublic, model.OwnershipFoundation)
	if err != nil {
		return err
	}
	sel.UniversityOwnership = v
	return nil
}

func setScoreType(sel *model.FilterSelection, args []string) error {
	v, err := choose(args, model.ScoreAny, model.ScoreQuantitative, model.ScoreQuantVerbalMix,
		model.ScoreVerbal, model.ScoreBaseExamOnly, model.ScoreLanguageBased)
	if err != nil {
		return err
	}
	sel.ScoreType = v
	return nil
}

func setPreference(sel *model.FilterSelection, args []string) error {
	v, err := choose(args, model.PreferenceStandard, model.PreferenceSupplementary)
	if err != nil {
		return err
	}
	sel.PreferenceKind = v
	return nil
}

func onOff(args []string) (bool, error) {
	v, err := choose(args, "on", "off")
	return v == "on", err
}

func setNorthCyprus(sel *model.FilterSelection, args []string) error {
	v, err := onOff(args)
	if err != nil {
		return err
	}
	sel.SpecialEligibility.NorthCyprusCitizen = v
	return nil
}

func setSpecialEducation(sel *model.FilterSelection, args []string) error {
	v, err := onOff(args)
	if err != nil {
		return err
	}
	sel.SpecialEligibility.SpecialEducationNeeds = v
	return nil
}

// toggle flips each named member of set. "all" and "none" replace the set.
// The result keeps the order of universe.
func toggle[T ~string](set []T, universe []T, args []string) ([]T, error) {
	if len(args) == 0 {
		return nil, usagef("want at least one value")
	}
	selected := slices.Clone(set)
	for _, raw := range args {
		arg := T(strings.ToLower(raw))
		switch {
		case arg == "all":
			selected = slices.Clone(universe)
		case arg == "none":
			selected = nil
		case !slices.Contains(universe, arg):
			return nil, usagef("unknown value %q", raw)
		case slices.Contains(selected, arg):
			selected = slices.DeleteFunc(selected, func(v T) bool { return v == arg })
		default:
			selected = append(selected, arg)
		}
	}

	out := []T{}
	for _, v := range universe {
		if slices.Contains(selected, v) {
			out = append(out, v)
		}
	}
	return out, nil
}

func toggleQuota(sel *model.FilterSelection, args []string) error {
	v, err := toggle(sel.QuotaCategories, model.QuotaCategories, args)
	if err != nil {
		return err
	}
	sel.QuotaCategories = v
	return nil
}

func toggleTuition(sel *model.FilterSelection, args []string) error {
	v, err := toggle(sel.TuitionTiers, model.TuitionTiers, args)
	if err != nil {
		return err
	}
	sel.TuitionTiers = v
	return nil
}

func setScore(sel *model.FilterSelection, args []string) error {
	if len(args) == 1 && strings.EqualFold(args[0], "reset") {
		sel.ScoreRange = model.ScoreRange{Min: model.DefaultMinScore, Max: model.DefaultMaxScore}
		return nil
	}
	if len(args) != 2 {
		return usagef("want min and max")
	}
	lo, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return usagef("invalid minimum %q", args[0])
	}
	hi, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return usagef("invalid maximum %q", args[1])
	}
	r := model.ScoreRange{Min: lo, Max: hi}
	if !r.Finite() {
		return usagef("scores must be finite numbers")
	}
	sel.ScoreRange = r
	return nil
}

func setSort(sel *model.FilterSelection, args []string) error {
	if len(args) != 1 {
		return usagef("want one column")
	}
	if strings.EqualFold(args[0], "none") {
		sel.Sort = nil
		return nil
	}
	col, ok := model.ParseColumn(args[0])
	if !ok {
		return fmt.Errorf("sort column %q: %w", args[0], query.ErrInvalidField)
	}
	sel.Sort = search.NextSort(sel.Sort, col)
	return nil
}

func reset(sel *model.FilterSelection, args []string) error {
	if len(args) != 0 {
		return usagef("takes no arguments")
	}
	*sel = model.DefaultSelection()
	return nil
}
