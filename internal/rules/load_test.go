package rules

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeRuleFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rules.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing rule file: %v", err)
	}
	return path
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	for _, path := range []string{"", "  "} {
		table, warnings, err := Load(path)
		if err != nil {
			t.Fatalf("Load(%q): %v", path, err)
		}
		if len(warnings) != 0 {
			t.Errorf("Load(%q) warnings = %v, want none", path, warnings)
		}
		if len(table.Presets) != 5 || len(table.Positive) != 5 || len(table.Risks) != 3 {
			t.Errorf("Load(%q) = %d presets, %d positive, %d risks; want 5/5/3",
				path, len(table.Presets), len(table.Positive), len(table.Risks))
		}
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	table, warnings, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("warnings = %v, want none", warnings)
	}
	if len(table.Presets) != 5 {
		t.Errorf("presets = %d, want the 5 built-ins", len(table.Presets))
	}
}

func TestLoadParsesCustomTable(t *testing.T) {
	path := writeRuleFile(t, `
positive:
  - keywords: [Кожа, Табак]
    bonus: 15
    vibe: "клубный вечер"
negative:
  - keywords: [хлорка]
    penalty: -20
    vibe: "бассейн"
risks:
  - keywords: [уд]
    description: "может задушить всё остальное"
presets:
  - names: ["Tom Ford Tobacco Vanille", "Dior Homme Intense"]
    compatibility: 88
    vibe: "вечер у камина"
`)

	table, warnings, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(warnings) != 0 {
		t.Fatalf("warnings = %v, want none", warnings)
	}
	if len(table.Positive) != 1 || len(table.Negative) != 1 || len(table.Risks) != 1 || len(table.Presets) != 1 {
		t.Fatalf("table sizes = %d/%d/%d/%d, want 1 of each",
			len(table.Positive), len(table.Negative), len(table.Risks), len(table.Presets))
	}
	// Keywords are folded at load time.
	if got := table.Positive[0].Keywords; got[0] != "кожа" || got[1] != "табак" {
		t.Errorf("keywords = %q, want lowercase", got)
	}
	if table.Presets[0].Label() != "Tom Ford Tobacco Vanille + Dior Homme Intense" {
		t.Errorf("preset label = %q", table.Presets[0].Label())
	}
}

func TestLoadSkipsMalformedEntries(t *testing.T) {
	path := writeRuleFile(t, `
positive:
  - keywords: [амбра]
    bonus: 10
    vibe: "ок"
  - bonus: 10
    vibe: "без ключевых слов"
  - keywords: [мох]
    bonus: -5
    vibe: "бонус не может быть отрицательным"
negative:
  - keywords: [гудрон]
    penalty: 20
    vibe: "штраф не может быть положительным"
risks:
  - keywords: [уд]
presets:
  - names: ["только одно имя"]
    compatibility: 80
  - names: ["А", "Б"]
    compatibility: 146
`)

	table, warnings, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(table.Positive) != 1 {
		t.Errorf("positive = %d, want only the valid rule", len(table.Positive))
	}
	if len(table.Negative) != 0 || len(table.Risks) != 0 || len(table.Presets) != 0 {
		t.Errorf("table = %d/%d/%d negative/risks/presets, want all empty",
			len(table.Negative), len(table.Risks), len(table.Presets))
	}
	if len(warnings) != 5 {
		t.Fatalf("warnings = %d %v, want 5", len(warnings), warnings)
	}
	for _, w := range warnings {
		if !strings.Contains(w, "skipped") {
			t.Errorf("warning %q does not say the entry was skipped", w)
		}
	}
}

func TestLoadRejectsBrokenYAML(t *testing.T) {
	path := writeRuleFile(t, "positive: [\n")
	if _, _, err := Load(path); err == nil {
		t.Fatal("expected a parse error")
	}
}

func TestDefaultTableIsNormalized(t *testing.T) {
	table := Default()
	for _, r := range table.Positive {
		for _, k := range r.Keywords {
			if k != strings.ToLower(k) {
				t.Errorf("keyword %q is not lowercase", k)
			}
		}
	}
	for _, p := range table.Presets {
		if len(p.Names) < 2 {
			t.Errorf("preset %q has fewer than 2 names", p.Label())
		}
		if p.Compatibility < 0 || p.Compatibility > 100 {
			t.Errorf("preset %q compatibility = %d", p.Label(), p.Compatibility)
		}
	}
}

func TestScoreRuleDelta(t *testing.T) {
	if got := (ScoreRule{Bonus: 15}).Delta(); got != 15 {
		t.Errorf("Delta = %d, want 15", got)
	}
	if got := (ScoreRule{Penalty: -20}).Delta(); got != -20 {
		t.Errorf("Delta = %d, want -20", got)
	}
}
