package layering

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/scentstack/accord/internal/rules"
)

// frag is a minimal in-memory Fragrance for tests.
type frag struct {
	name, brand, accords, notes string
}

func (f frag) DisplayName() string { return f.name }
func (f frag) BrandName() string   { return f.brand }
func (f frag) Accords() string     { return f.accords }
func (f frag) Notes() string       { return f.notes }

func pair(a, b frag) []Fragrance { return []Fragrance{a, b} }

func TestEvaluateRejectsSmallSelections(t *testing.T) {
	table := rules.Default()

	for _, selection := range [][]Fragrance{
		nil,
		{},
		{frag{name: "Dior Homme Intense"}},
	} {
		_, err := Evaluate(selection, table)
		if !errors.Is(err, ErrInsufficientSelection) {
			t.Errorf("Evaluate(%d fragrances) error = %v, want ErrInsufficientSelection", len(selection), err)
		}
	}
}

func TestEvaluateIsDeterministic(t *testing.T) {
	table := rules.Default()
	selection := pair(
		frag{name: "Something Sweet", accords: "пудровый, гурман", notes: "тофи и ваниль"},
		frag{name: "Another One", accords: "свежий", notes: "цитрус"},
	)

	first, err := Evaluate(selection, table)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := Evaluate(selection, table)
		if err != nil {
			t.Fatalf("Evaluate run %d: %v", i, err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d diverged: %+v vs %+v", i, again, first)
		}
	}
}

func TestPresetTakesPrecedenceOverRules(t *testing.T) {
	table := rules.Default()
	// Accords would also trigger the musk rule; the preset must win.
	selection := pair(
		frag{name: "Mancera French Riviera", brand: "Mancera", accords: "цитрусовый, мускус"},
		frag{name: "Juliette has a gun Vanilla Vibes", brand: "Juliette Has A Gun", accords: "ваниль, мускус"},
	)

	v, err := Evaluate(selection, table)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if !v.Curated {
		t.Fatal("expected a curated verdict")
	}
	if v.Compatibility != 85 {
		t.Errorf("compatibility = %d, want 85", v.Compatibility)
	}
	if !strings.Contains(v.Vibe, "Пляжный вайб") {
		t.Errorf("vibe = %q, want the beach preset vibe", v.Vibe)
	}
	if len(v.Risks) != 3 || len(v.Tips) != 3 {
		t.Errorf("risks/tips = %d/%d, want 3/3", len(v.Risks), len(v.Tips))
	}
}

func TestPresetMatchesRowsWithExtraWords(t *testing.T) {
	// Catalog rows carry concentration suffixes the authored preset names
	// don't: subset matching must still fire.
	selection := pair(
		frag{name: "Paco Rabanne Pure XS Eau de Toilette", brand: "Paco Rabanne"},
		frag{name: "Dior Homme Intense 2011 EDP", brand: "Dior"},
	)

	v, err := Evaluate(selection, rules.Default())
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if !v.Curated || v.Compatibility != 90 {
		t.Errorf("verdict = %+v, want curated 90%% preset", v)
	}
}

func TestPresetRequiresEveryNameToken(t *testing.T) {
	// Only one half of a curated pair present: no preset may fire.
	selection := pair(
		frag{name: "Dior Homme Intense 2011", brand: "Dior"},
		frag{name: "Bleu de Chanel", brand: "Chanel"},
	)

	v, err := Evaluate(selection, rules.Default())
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if v.Curated {
		t.Fatalf("verdict = %+v, want rule-based, not curated", v)
	}
}

func TestRuleBonusClampsAtHundred(t *testing.T) {
	selection := pair(
		frag{name: "Flower Bomb", accords: "цветочный"},
		frag{name: "Spice Road", accords: "чёрный перец"},
	)

	v, err := Evaluate(selection, rules.Default())
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if v.Compatibility != 100 {
		t.Errorf("compatibility = %d, want 100 (clamped)", v.Compatibility)
	}
	if !strings.Contains(v.Vibe, "Цветы смягчают") {
		t.Errorf("vibe = %q, want the floral/pepper rule vibe", v.Vibe)
	}
}

func TestPenaltyClampsAtFloor(t *testing.T) {
	table := rules.Table{
		Negative: []rules.ScoreRule{
			{Keywords: []string{"дёготь"}, Penalty: -60, Vibe: "не надо так"},
		},
	}
	selection := pair(
		frag{name: "A", notes: "дёготь"},
		frag{name: "B", notes: "дёготь"},
	)

	v, err := Evaluate(selection, table)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	// 70 - 60 + 2*5 = 20, clamped up to the floor.
	if v.Compatibility != 50 {
		t.Errorf("compatibility = %d, want 50", v.Compatibility)
	}
	if v.Vibe != "не надо так" {
		t.Errorf("vibe = %q, want the penalty rule vibe", v.Vibe)
	}
}

func TestLastMatchingRuleSetsVibe(t *testing.T) {
	table := rules.Table{
		Positive: []rules.ScoreRule{
			{Keywords: []string{"амбра"}, Bonus: 5, Vibe: "первый"},
			{Keywords: []string{"кедр"}, Bonus: 5, Vibe: "второй"},
		},
	}
	selection := pair(
		frag{name: "A", notes: "амбра и кедр"},
		frag{name: "B", notes: "смола"},
	)

	v, err := Evaluate(selection, table)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if v.Vibe != "второй" {
		t.Errorf("vibe = %q, want the later rule to win", v.Vibe)
	}
	// Both bonuses accumulate: 70 + 5 + 5 + 10.
	if v.Compatibility != 90 {
		t.Errorf("compatibility = %d, want 90", v.Compatibility)
	}
}

func TestRisksAccumulateInTableOrder(t *testing.T) {
	selection := pair(
		frag{name: "A", accords: "пудровый", notes: "гурман с нотой виски"},
		frag{name: "B", notes: "синтетика и дешевизна"},
	)

	v, err := Evaluate(selection, rules.Default())
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	want := []string{
		"зависит от типа сладости (тофи/ваниль — лучше, виски — может сушить)",
		"Сильный спиртовой старт в начале — подожди 5–10 минут",
		"Алкогольная сладость может дать сухость и горечь",
	}
	if !reflect.DeepEqual(v.Risks, want) {
		t.Errorf("risks = %q, want %q", v.Risks, want)
	}
}

func TestFallbackVerdict(t *testing.T) {
	selection := pair(
		frag{name: "Plain One", accords: "зелёный чай"},
		frag{name: "Plain Two", accords: "бергамот"},
	)

	v, err := Evaluate(selection, rules.Default())
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	// Base 70 plus the per-fragrance bonus, nothing else fires.
	if v.Compatibility != 80 {
		t.Errorf("compatibility = %d, want 80", v.Compatibility)
	}
	if v.Vibe != genericVibe {
		t.Errorf("vibe = %q, want the generic fallback", v.Vibe)
	}
	if len(v.Risks) != 1 || v.Risks[0] != minimalRisk {
		t.Errorf("risks = %q, want the minimal-risk placeholder", v.Risks)
	}
	if len(v.Tips) == 0 {
		t.Error("expected generic tips")
	}
}

func TestThreeFragranceSizeBonus(t *testing.T) {
	selection := []Fragrance{
		frag{name: "One", accords: "ирис"},
		frag{name: "Two", accords: "пачули"},
		frag{name: "Three", accords: "ладан"},
	}

	v, err := Evaluate(selection, rules.Default())
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if v.Compatibility != 85 {
		t.Errorf("compatibility = %d, want 85 (70 + 3×5)", v.Compatibility)
	}
}

func TestContainsAll(t *testing.T) {
	tests := []struct {
		notes    string
		keywords []string
		want     bool
	}{
		{"пудровый гурман ваниль", []string{"пудровый", "гурман"}, true},
		{"пудровый ваниль", []string{"пудровый", "гурман"}, false},
		{"чёрный перец и цветы", []string{"перец"}, true},
		{"что угодно", nil, false},
		{"", []string{"перец"}, false},
	}
	for _, tt := range tests {
		if got := containsAll(tt.notes, tt.keywords); got != tt.want {
			t.Errorf("containsAll(%q, %q) = %v, want %v", tt.notes, tt.keywords, got, tt.want)
		}
	}
}
