package bot

import (
	"fmt"
	"strings"

	"github.com/scentstack/accord/internal/catalog"
	"github.com/scentstack/accord/internal/layering"
	"github.com/scentstack/accord/internal/rules"
)

const welcomeText = "🌸 Привет! Я — Perfume Layering Bot\n" +
	"Подбираю лееринги по базе ароматов и проверенным миксам.\n\n" +
	"Выбери:"

const helpText = "Просто напиши название, бренд или ноту — я найду ароматы.\n" +
	"«Создать лееринг» — собери 2–3 аромата и получи анализ совместимости.\n" +
	"«Готовые миксы» — проверенные вручную сочетания."

func mainKeyboard() *inlineKeyboardMarkup {
	return &inlineKeyboardMarkup{InlineKeyboard: [][]inlineKeyboardButton{
		{{Text: "🔥 Готовые миксы", CallbackData: "presets"}},
		{{Text: "🔍 Поиск аромата", CallbackData: "search"}},
		{{Text: "🎭 Создать лееринг", CallbackData: "layer"}},
	}}
}

func presetsKeyboard(presets []rules.Preset) *inlineKeyboardMarkup {
	kb := &inlineKeyboardMarkup{}
	for i, p := range presets {
		kb.InlineKeyboard = append(kb.InlineKeyboard, []inlineKeyboardButton{
			{Text: fmt.Sprintf("%d. %s", i+1, p.Label()), CallbackData: fmt.Sprintf("preset_%d", i)},
		})
	}
	kb.InlineKeyboard = append(kb.InlineKeyboard, []inlineKeyboardButton{
		{Text: "← Назад", CallbackData: "back_main"},
	})
	return kb
}

func resultsKeyboard(n int) *inlineKeyboardMarkup {
	kb := &inlineKeyboardMarkup{}
	var row []inlineKeyboardButton
	for i := 0; i < n; i++ {
		row = append(row, inlineKeyboardButton{
			Text:         fmt.Sprintf("%d", i+1),
			CallbackData: fmt.Sprintf("pick_%d", i),
		})
		if len(row) == 4 {
			kb.InlineKeyboard = append(kb.InlineKeyboard, row)
			row = nil
		}
	}
	if len(row) > 0 {
		kb.InlineKeyboard = append(kb.InlineKeyboard, row)
	}
	kb.InlineKeyboard = append(kb.InlineKeyboard, []inlineKeyboardButton{
		{Text: "← Назад", CallbackData: "back_main"},
	})
	return kb
}

func selectionKeyboard() *inlineKeyboardMarkup {
	return &inlineKeyboardMarkup{InlineKeyboard: [][]inlineKeyboardButton{
		{{Text: "➕ Добавить ещё", CallbackData: "layer_more"}},
		{{Text: "🎭 Анализ", CallbackData: "analyze"}},
		{{Text: "← Назад", CallbackData: "back_main"}},
	}}
}

// formatVerdict renders a selection plus verdict as chat text.
func formatVerdict(selection []catalog.Record, v layering.Verdict) string {
	var sb strings.Builder

	for _, r := range selection {
		fmt.Fprintf(&sb, "• %s - %s\n", r.BrandName(), r.DisplayName())
	}

	fmt.Fprintf(&sb, "\nСовместимость: %d%%\n", v.Compatibility)
	fmt.Fprintf(&sb, "Вайб: %s\n", v.Vibe)

	sb.WriteString("\nРиски:\n")
	for _, r := range v.Risks {
		fmt.Fprintf(&sb, "• %s\n", r)
	}
	sb.WriteString("\nСоветы:\n")
	for _, t := range v.Tips {
		fmt.Fprintf(&sb, "• %s\n", t)
	}

	return sb.String()
}

// formatRecord renders one catalog row with its details.
func formatRecord(r catalog.Record) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s - %s\n", r.BrandName(), r.DisplayName())
	fmt.Fprintf(&sb, "Гендер: %s\n", r.GenderLabel())
	if r.MainAccords != "" {
		fmt.Fprintf(&sb, "Аккорды: %s\n", r.MainAccords)
	}
	if r.RatingCount > 0 {
		fmt.Fprintf(&sb, "Рейтинг: %.1f/5 (%d отзывов)\n", r.RatingValue, r.RatingCount)
	}
	if r.Description != "" {
		fmt.Fprintf(&sb, "\n%s\n", truncate(r.Description, 400))
	}
	return sb.String()
}
