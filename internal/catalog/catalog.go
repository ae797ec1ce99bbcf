// Package catalog is the fragrance record repository.
//
// Records live in a single SQLite database file with an FTS5 index for
// keyword search and a pre-lowercased text column for substring search
// (SQLite's lower() only folds ASCII, and most of the curated data is
// Russian). The catalog is populated from CSV exports; case-insensitive
// header probing tolerates both the small curated base and the large
// Fragrantica dump layouts.
package catalog

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Placeholder values for rows with missing data. The display name invariant
// (never empty) is enforced here so downstream code never special-cases it.
const (
	PlaceholderName  = "Без названия"
	PlaceholderBrand = "Неизвестный бренд"
)

// Record is one row of the fragrance database.
type Record struct {
	ID          int64   `json:"id,omitempty"`
	Name        string  `json:"name"`
	Brand       string  `json:"brand,omitempty"`
	MainAccords string  `json:"main_accords,omitempty"`
	Description string  `json:"description,omitempty"`
	Gender      string  `json:"gender,omitempty"`
	RatingValue float64 `json:"rating_value,omitempty"`
	RatingCount int     `json:"rating_count,omitempty"`
}

// DisplayName returns the record name, falling back to a placeholder.
func (r Record) DisplayName() string {
	if strings.TrimSpace(r.Name) == "" {
		return PlaceholderName
	}
	return r.Name
}

// BrandName returns the explicit brand column when present, otherwise a
// brand derived from the name.
func (r Record) BrandName() string {
	if strings.TrimSpace(r.Brand) != "" {
		return r.Brand
	}
	return DeriveBrand(r.Name)
}

// Accords returns the comma-separated accord descriptor string.
func (r Record) Accords() string { return r.MainAccords }

// Notes returns the free-text description.
func (r Record) Notes() string { return r.Description }

// GenderLabel returns the gender column or the unisex default.
func (r Record) GenderLabel() string {
	if strings.TrimSpace(r.Gender) == "" {
		return "Унисекс"
	}
	return r.Gender
}

var brandTitle = cases.Title(language.Und)

// DeriveBrand extracts a brand from a fragrance name when the source has no
// brand column: the prefix before "-", else the prefix before " by "
// (title-cased), else the first word of a multi-word name. A single-word
// name carries no brand signal, so it yields the placeholder.
func DeriveBrand(name string) string {
	name = strings.TrimSpace(name)
	if i := strings.Index(name, "-"); i >= 0 {
		return strings.TrimSpace(name[:i])
	}
	if i := strings.Index(strings.ToLower(name), " by "); i >= 0 {
		return brandTitle.String(strings.TrimSpace(name[:i]))
	}
	if fields := strings.Fields(name); len(fields) > 1 {
		return fields[0]
	}
	return PlaceholderBrand
}
