package importer

import (
	"fmt"
	"strings"
)

var (
	validApproaches = map[string]bool{"western": true, "eastern": true, "hybrid": true}
	validTypes      = map[string]bool{"content": true, "crisis-resource": true}
)

// ValidateCatalogSchema checks the schema before conversion.
// Returns a slice of all validation errors found.
func ValidateCatalogSchema(schema *CatalogSchema) []error {
	var errs []error

	if len(schema.Content) == 0 && len(schema.Practices) == 0 {
		errs = append(errs, fmt.Errorf("catalog has no content or practices"))
	}
	errs = append(errs, validateDefaults(schema.Defaults)...)

	ids := make(map[string]bool)
	for i, c := range schema.Content {
		prefix := fmt.Sprintf("content[%d]", i)
		errs = append(errs, validateCommon(prefix, c.ID, c.Title, c.Approach, c.DurationSec, c.Effectiveness, ids)...)
		if c.Type != "" && !validTypes[strings.ToLower(c.Type)] {
			errs = append(errs, fmt.Errorf("%s.type: invalid value %q", prefix, c.Type))
		}
		if c.Popularity < 0 {
			errs = append(errs, fmt.Errorf("%s.popularity must not be negative", prefix))
		}
	}
	for i, p := range schema.Practices {
		prefix := fmt.Sprintf("practices[%d]", i)
		errs = append(errs, validateCommon(prefix, p.ID, p.Title, p.Approach, p.DurationSec, p.Effectiveness, ids)...)
	}

	return errs
}

func validateDefaults(d *DefaultsImport) []error {
	if d == nil {
		return nil
	}
	var errs []error
	if d.Approach != "" && !validApproaches[strings.ToLower(d.Approach)] {
		errs = append(errs, fmt.Errorf("defaults.approach: invalid value %q", d.Approach))
	}
	if d.DurationSec != nil && *d.DurationSec < 0 {
		errs = append(errs, fmt.Errorf("defaults.duration_sec must not be negative"))
	}
	return errs
}

// validateCommon checks the fields shared by content and practices. Ids
// are unique across both lists.
func validateCommon(prefix, id, title, approach string, durationSec *int, effectiveness *float64, ids map[string]bool) []error {
	var errs []error

	if strings.TrimSpace(title) == "" {
		errs = append(errs, fmt.Errorf("%s.title is required", prefix))
	}
	key := itemID(id, title)
	if ids[key] {
		errs = append(errs, fmt.Errorf("%s.id: duplicate id %q", prefix, key))
	} else {
		ids[key] = true
	}
	if approach != "" && !validApproaches[strings.ToLower(approach)] {
		errs = append(errs, fmt.Errorf("%s.approach: invalid value %q", prefix, approach))
	}
	if durationSec != nil && *durationSec < 0 {
		errs = append(errs, fmt.Errorf("%s.duration_sec must not be negative", prefix))
	}
	if effectiveness != nil && (*effectiveness < 0 || *effectiveness > 10) {
		errs = append(errs, fmt.Errorf("%s.effectiveness %.1f must be between 0 and 10", prefix, *effectiveness))
	}

	return errs
}
