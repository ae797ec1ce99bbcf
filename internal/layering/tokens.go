package layering

import "strings"

// selectionWords reduces a selection to a single lowercase word set: name
// tokens, comma-split accords, description tokens and brand tokens of every
// fragrance. Presets are matched against this set.
func selectionWords(selection []Fragrance) map[string]struct{} {
	words := make(map[string]struct{})
	for _, f := range selection {
		addFields(words, f.DisplayName())
		for _, accord := range strings.Split(strings.ToLower(f.Accords()), ",") {
			if accord = strings.TrimSpace(accord); accord != "" {
				words[accord] = struct{}{}
			}
		}
		addFields(words, f.Notes())
		addFields(words, f.BrandName())
	}
	return words
}

func addFields(words map[string]struct{}, s string) {
	for _, tok := range strings.Fields(strings.ToLower(s)) {
		words[tok] = struct{}{}
	}
}

// notesAll concatenates the lowercased accords and descriptions of every
// fragrance into one string. Rules are matched against this by substring
// containment, which is why it stays a string rather than a token set:
// rule keywords may be multi-word phrases.
func notesAll(selection []Fragrance) string {
	parts := make([]string, 0, len(selection))
	for _, f := range selection {
		parts = append(parts, strings.ToLower(f.Accords()+" "+f.Notes()))
	}
	return strings.Join(parts, " ")
}
