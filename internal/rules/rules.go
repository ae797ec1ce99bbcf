// Package rules defines the layering rule and preset tables.
//
// A table is immutable configuration: it is loaded once at startup (from a
// YAML file or the embedded defaults) and passed explicitly into the
// layering engine. Rule order is significant: tables are slices, never
// maps, so evaluation order is stable and reproducible.
package rules

import "strings"

// ScoreRule adjusts the compatibility score when every keyword is contained
// in the combined note text of a selection. Positive rules carry a Bonus,
// negative rules a Penalty; exactly one of the two is set.
type ScoreRule struct {
	Keywords []string `yaml:"keywords" json:"keywords"`
	Bonus    int      `yaml:"bonus,omitempty" json:"bonus,omitempty"`
	Penalty  int      `yaml:"penalty,omitempty" json:"penalty,omitempty"`
	Vibe     string   `yaml:"vibe" json:"vibe"`
	Risk     string   `yaml:"risk,omitempty" json:"risk,omitempty"`
}

// Delta returns the signed score adjustment for the rule.
func (r ScoreRule) Delta() int {
	if r.Bonus != 0 {
		return r.Bonus
	}
	return r.Penalty
}

// RiskRule appends a warning when every keyword is contained in the combined
// note text. Risk rules never affect the score.
type RiskRule struct {
	Keywords    []string `yaml:"keywords" json:"keywords"`
	Description string   `yaml:"description" json:"description"`
}

// Preset is a curated verdict for a specific named combination. Preset
// matching takes precedence over generic rule scoring.
type Preset struct {
	Names         []string `yaml:"names" json:"names"`
	Compatibility int      `yaml:"compatibility" json:"compatibility"`
	Vibe          string   `yaml:"vibe" json:"vibe"`
	Risks         []string `yaml:"risks" json:"risks"`
	Tips          []string `yaml:"tips" json:"tips"`
}

// Label returns the human-readable "A + B" form of the preset key.
func (p Preset) Label() string {
	return strings.Join(p.Names, " + ")
}

// Table holds all rule and preset data for one engine instance.
type Table struct {
	Presets  []Preset
	Positive []ScoreRule
	Negative []ScoreRule
	Risks    []RiskRule
}

// normalize lowercases every keyword in place. Rule matching is
// case-insensitive; doing the folding once at load time keeps the
// evaluation path allocation-free.
func (t *Table) normalize() {
	for i := range t.Positive {
		lowerAll(t.Positive[i].Keywords)
	}
	for i := range t.Negative {
		lowerAll(t.Negative[i].Keywords)
	}
	for i := range t.Risks {
		lowerAll(t.Risks[i].Keywords)
	}
}

func lowerAll(keywords []string) {
	for i, k := range keywords {
		keywords[i] = strings.ToLower(strings.TrimSpace(k))
	}
}
