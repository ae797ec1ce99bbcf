// Package layering implements the fragrance layering compatibility engine.
//
// The engine is a pure function from a selection of 2–3 fragrances plus an
// immutable rule/preset table to a Verdict. Curated presets are checked
// first: a preset fires when every token of its authored names appears in
// the word set of the selection, so a preset still matches a database row
// whose name carries extra descriptive words. When no preset matches, the
// generic rule table scores the combined accord/description text by
// substring containment.
//
// There is no I/O, no shared mutable state and no randomness anywhere in
// the evaluation path; concurrent analyses need no locking.
package layering

import (
	"errors"
	"strings"

	"github.com/scentstack/accord/internal/rules"
)

// ErrInsufficientSelection is returned when fewer than MinSelection
// fragrances are passed to Evaluate. Computing a score for a single
// fragrance would be misleading, so the engine refuses outright.
var ErrInsufficientSelection = errors.New("layering: at least 2 fragrances are required")

const (
	// MinSelection and MaxSelection bound a valid selection set.
	MinSelection = 2
	MaxSelection = 3

	baseCompatibility = 70
	minCompatibility  = 50
	maxCompatibility  = 100

	// sizeBonus is added once per selected fragrance.
	sizeBonus = 5
)

// Generic fallback texts used when no preset and no vibe-overriding rule
// applies. The floor of 50 is deliberate: the heuristic never reports total
// incompatibility, every combination is treated as at least marginally
// wearable.
var (
	genericVibe = "Уникальный микс — экспериментальный и интересный 🧪"
	minimalRisk = "Минимальные — должно сработать гладко!"
	genericTips = []string{
		"Наноси сначала более лёгкий/свежий аромат, сверху — тяжёлый",
		"2–3 пшика всего",
	}
)

// Fragrance is the minimal read-only view of a catalog row the engine
// consumes. Implementations adapt whatever column layout their data source
// has; the engine never probes schemas itself.
type Fragrance interface {
	// DisplayName is never empty; implementations fall back to a placeholder.
	DisplayName() string
	// BrandName is the explicit brand column or a value derived from the name.
	BrandName() string
	// Accords is the comma-separated accord descriptor string, may be empty.
	Accords() string
	// Notes is the free-text description, may be empty.
	Notes() string
}

// Verdict is the result of one layering analysis.
type Verdict struct {
	Compatibility int      `json:"compatibility"`
	Vibe          string   `json:"vibe"`
	Risks         []string `json:"risks"`
	Tips          []string `json:"tips"`
	// Curated reports whether the verdict came from a preset rather than
	// generic rule scoring.
	Curated bool `json:"curated,omitempty"`
}

// Evaluate analyzes a selection of fragrances against the given table.
// Preset matches win over rule evaluation; both paths are deterministic for
// a fixed table and selection.
func Evaluate(selection []Fragrance, table rules.Table) (Verdict, error) {
	if len(selection) < MinSelection {
		return Verdict{}, ErrInsufficientSelection
	}

	words := selectionWords(selection)
	for _, p := range table.Presets {
		if presetMatches(p, words) {
			return presetVerdict(p), nil
		}
	}

	return evaluateRules(selection, table), nil
}

// presetMatches reports whether every token of every authored preset name
// is present in the selection's word set. Subset, not equality: extra words
// in the database row never block a match.
func presetMatches(p rules.Preset, words map[string]struct{}) bool {
	for _, name := range p.Names {
		for _, tok := range strings.Fields(strings.ToLower(name)) {
			if _, ok := words[tok]; !ok {
				return false
			}
		}
	}
	return true
}

func presetVerdict(p rules.Preset) Verdict {
	return Verdict{
		Compatibility: p.Compatibility,
		Vibe:          p.Vibe,
		Risks:         append([]string(nil), p.Risks...),
		Tips:          append([]string(nil), p.Tips...),
		Curated:       true,
	}
}

// evaluateRules is the generic fallback scorer. Rule order is table order;
// score deltas and risk texts accumulate across every matching rule while
// the vibe is overwritten by the last matching score rule.
func evaluateRules(selection []Fragrance, table rules.Table) Verdict {
	notes := notesAll(selection)

	score := baseCompatibility
	vibe := genericVibe
	var risks []string

	for _, r := range table.Positive {
		if containsAll(notes, r.Keywords) {
			score += r.Bonus
			vibe = r.Vibe
			if r.Risk != "" {
				risks = append(risks, r.Risk)
			}
		}
	}
	for _, r := range table.Negative {
		if containsAll(notes, r.Keywords) {
			score += r.Penalty
			vibe = r.Vibe
			if r.Risk != "" {
				risks = append(risks, r.Risk)
			}
		}
	}

	score += sizeBonus * len(selection)
	score = clamp(score)

	for _, r := range table.Risks {
		if containsAll(notes, r.Keywords) {
			risks = append(risks, r.Description)
		}
	}
	if len(risks) == 0 {
		risks = []string{minimalRisk}
	}

	return Verdict{
		Compatibility: score,
		Vibe:          vibe,
		Risks:         risks,
		Tips:          append([]string(nil), genericTips...),
	}
}

// containsAll reports whether every keyword is a substring of notes.
// Keywords may be multi-word phrases; matching is containment, not token
// equality.
func containsAll(notes string, keywords []string) bool {
	if len(keywords) == 0 {
		return false
	}
	for _, k := range keywords {
		if !strings.Contains(notes, strings.ToLower(k)) {
			return false
		}
	}
	return true
}

func clamp(score int) int {
	if score < minCompatibility {
		return minCompatibility
	}
	if score > maxCompatibility {
		return maxCompatibility
	}
	return score
}
