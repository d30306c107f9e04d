// Package preset stores filter selections as JSONC files.
package preset

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/natefinch/atomic"
	"github.com/tailscale/hujson"

	"academyscope/internal/model"
)

// ErrInvalid is returned for a preset that parses but holds unknown values.
var ErrInvalid = errors.New("invalid preset")

const filePerms = 0o644

// Load reads a preset. Comments and trailing commas are allowed; fields the
// file leaves out keep their defaults.
func Load(path string) (model.FilterSelection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.FilterSelection{}, fmt.Errorf("read preset: %w", err)
	}
	return Parse(data)
}

// Parse decodes preset file contents.
func Parse(data []byte) (model.FilterSelection, error) {
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return model.FilterSelection{}, fmt.Errorf("invalid JSONC: %w", err)
	}

	sel := model.DefaultSelection()
	if err := json.Unmarshal(standardized, &sel); err != nil {
		return model.FilterSelection{}, fmt.Errorf("invalid JSON: %w", err)
	}
	if err := validate(sel); err != nil {
		return model.FilterSelection{}, err
	}
	return sel, nil
}

// Save writes sel as indented JSON, replacing path atomically.
func Save(path string, sel model.FilterSelection) error {
	if err := validate(sel); err != nil {
		return err
	}
	data, err := json.MarshalIndent(sel, "", "  ")
	if err != nil {
		return fmt.Errorf("encode preset: %w", err)
	}
	data = append(data, '\n')

	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("write preset: %w", err)
	}
	// atomic.WriteFile leaves new files with temp-file permissions.
	if err := os.Chmod(path, filePerms); err != nil {
		return fmt.Errorf("set preset permissions: %w", err)
	}
	return nil
}

func validate(sel model.FilterSelection) error {
	checks := []struct {
		field string
		ok    bool
		value any
	}{
		{"country", slices.Contains([]model.CountryScope{model.CountryAny, model.CountryDomestic, model.CountryNorthCyprus, model.CountryAbroad}, sel.CountryScope), sel.CountryScope},
		{"license", slices.Contains([]model.LicenseType{model.LicenseAny, model.LicenseAssociate, model.LicenseBachelor}, sel.LicenseType), sel.LicenseType},
		{"ownership", slices.Contains([]model.Ownership{model.OwnershipAny, model.OwnershipPublic, model.OwnershipFoundation}, sel.UniversityOwnership), sel.UniversityOwnership},
		{"scoreType", slices.Contains([]model.ScoreType{model.ScoreAny, model.ScoreQuantitative, model.ScoreQuantVerbalMix, model.ScoreVerbal, model.ScoreBaseExamOnly, model.ScoreLanguageBased}, sel.ScoreType), sel.ScoreType},
		{"preferenceKind", slices.Contains([]model.PreferenceKind{model.PreferenceStandard, model.PreferenceSupplementary}, sel.PreferenceKind), sel.PreferenceKind},
	}
	for _, c := range checks {
		if !c.ok {
			return fmt.Errorf("%w: %s %q", ErrInvalid, c.field, c.value)
		}
	}

	for _, q := range sel.QuotaCategories {
		if !slices.Contains(model.QuotaCategories, q) {
			return fmt.Errorf("%w: quota category %q", ErrInvalid, q)
		}
	}
	for _, t := range sel.TuitionTiers {
		if !slices.Contains(model.TuitionTiers, t) {
			return fmt.Errorf("%w: tuition tier %q", ErrInvalid, t)
		}
	}
	if !sel.ScoreRange.Finite() {
		return fmt.Errorf("%w: score range %v-%v", ErrInvalid, sel.ScoreRange.Min, sel.ScoreRange.Max)
	}
	if sel.Sort != nil && sel.Sort.Direction != model.Ascending && sel.Sort.Direction != model.Descending {
		return fmt.Errorf("%w: sort direction %q", ErrInvalid, sel.Sort.Direction)
	}
	return nil
}
