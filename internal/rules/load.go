package rules

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// fileTable mirrors the on-disk YAML layout:
//
//	positive:
//	  - keywords: [пудровый, гурман]
//	    bonus: 95
//	    vibe: "..."
//	    risk: "..."
//	negative:
//	  - keywords: [...]
//	    penalty: -20
//	    vibe: "..."
//	risks:
//	  - keywords: [...]
//	    description: "..."
//	presets:
//	  - names: ["Mancera French Riviera", "Juliette has a gun Vanilla Vibes"]
//	    compatibility: 85
//	    vibe: "..."
//	    risks: [...]
//	    tips: [...]
type fileTable struct {
	Positive []ScoreRule `yaml:"positive"`
	Negative []ScoreRule `yaml:"negative"`
	Risks    []RiskRule  `yaml:"risks"`
	Presets  []Preset    `yaml:"presets"`
}

// Load reads a rule table from path. A missing file is not an error: the
// embedded defaults apply. Entries that fail validation are excluded from
// the table and reported as warnings so a single bad rule never takes the
// whole table down or crashes mid-evaluation.
func Load(path string) (Table, []string, error) {
	if strings.TrimSpace(path) == "" {
		return Default(), nil, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil, nil
		}
		return Table{}, nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var ft fileTable
	if err := yaml.Unmarshal(b, &ft); err != nil {
		return Table{}, nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	t, warnings := validate(ft)
	t.normalize()
	return t, warnings, nil
}

// validate filters out malformed entries, collecting one warning per drop.
func validate(ft fileTable) (Table, []string) {
	var t Table
	var warnings []string

	for i, r := range ft.Positive {
		switch {
		case len(r.Keywords) == 0:
			warnings = append(warnings, fmt.Sprintf("positive rule #%d: missing keywords, skipped", i+1))
		case r.Bonus <= 0:
			warnings = append(warnings, fmt.Sprintf("positive rule #%d: bonus must be a positive integer, skipped", i+1))
		default:
			r.Penalty = 0
			t.Positive = append(t.Positive, r)
		}
	}

	for i, r := range ft.Negative {
		switch {
		case len(r.Keywords) == 0:
			warnings = append(warnings, fmt.Sprintf("negative rule #%d: missing keywords, skipped", i+1))
		case r.Penalty >= 0:
			warnings = append(warnings, fmt.Sprintf("negative rule #%d: penalty must be a negative integer, skipped", i+1))
		default:
			r.Bonus = 0
			t.Negative = append(t.Negative, r)
		}
	}

	for i, r := range ft.Risks {
		switch {
		case len(r.Keywords) == 0:
			warnings = append(warnings, fmt.Sprintf("risk rule #%d: missing keywords, skipped", i+1))
		case strings.TrimSpace(r.Description) == "":
			warnings = append(warnings, fmt.Sprintf("risk rule #%d: missing description, skipped", i+1))
		default:
			t.Risks = append(t.Risks, r)
		}
	}

	for i, p := range ft.Presets {
		switch {
		case len(p.Names) < 2:
			warnings = append(warnings, fmt.Sprintf("preset #%d: needs at least 2 names, skipped", i+1))
		case p.Compatibility < 0 || p.Compatibility > 100:
			warnings = append(warnings, fmt.Sprintf("preset #%d: compatibility must be 0-100, skipped", i+1))
		default:
			t.Presets = append(t.Presets, p)
		}
	}

	return t, warnings
}
