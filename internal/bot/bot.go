// Package bot is the Telegram front end of the layering engine.
//
// It long-polls the Bot API over plain net/http and drives a small
// per-chat dialogue: search the catalog, accumulate a 2–3 fragrance
// selection, run the analysis, or jump straight to a curated preset.
// Session state is owned exclusively by its chat and discarded on /start
// or after an analysis; nothing is shared across chats.
package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/scentstack/accord/internal/catalog"
	"github.com/scentstack/accord/internal/layering"
	"github.com/scentstack/accord/internal/rules"
)

const (
	defaultPollTimeout = 30 // seconds
	maxSearchResults   = 8
)

// Config configures a Bot.
type Config struct {
	Token       string
	Catalog     *catalog.Store
	Table       rules.Table
	ReportDir   string // empty disables saving analysis reports
	PollTimeout int    // long-poll window in seconds
}

// Bot runs the Telegram dialogue loop.
type Bot struct {
	api       *apiClient
	catalog   *catalog.Store
	table     rules.Table
	reportDir string
	poll      int

	mu       sync.Mutex
	sessions map[int64]*session
}

// New validates the config and builds a Bot.
func New(cfg Config) (*Bot, error) {
	if err := validateBotToken(cfg.Token); err != nil {
		return nil, err
	}
	if cfg.Catalog == nil {
		return nil, fmt.Errorf("bot: catalog store is required")
	}
	poll := cfg.PollTimeout
	if poll <= 0 {
		poll = defaultPollTimeout
	}
	return &Bot{
		api:       newAPIClient(cfg.Token, poll),
		catalog:   cfg.Catalog,
		table:     cfg.Table,
		reportDir: cfg.ReportDir,
		poll:      poll,
		sessions:  make(map[int64]*session),
	}, nil
}

// Run polls for updates until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	var offset int64
	for {
		updates, err := b.api.getUpdates(ctx, offset, b.poll)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			fmt.Printf("warning: getUpdates: %v\n", err)
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(3 * time.Second):
			}
			continue
		}

		for _, upd := range updates {
			if upd.UpdateID >= offset {
				offset = upd.UpdateID + 1
			}
			if err := b.handleUpdate(ctx, upd); err != nil {
				fmt.Printf("warning: handling update %d: %v\n", upd.UpdateID, err)
			}
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, upd update) error {
	switch {
	case upd.CallbackQuery != nil:
		return b.handleCallback(ctx, upd.CallbackQuery)
	case upd.Message != nil && strings.TrimSpace(upd.Message.Text) != "":
		return b.handleMessage(ctx, upd.Message)
	}
	return nil
}

func (b *Bot) handleMessage(ctx context.Context, msg *message) error {
	chatID := msg.Chat.ID
	text := strings.TrimSpace(msg.Text)

	switch {
	case strings.HasPrefix(text, "/start"):
		b.resetSession(chatID)
		return b.api.sendMessage(ctx, chatID, welcomeText, mainKeyboard())
	case strings.HasPrefix(text, "/help"):
		return b.api.sendMessage(ctx, chatID, helpText, mainKeyboard())
	default:
		return b.handleSearchQuery(ctx, chatID, text)
	}
}

// handleSearchQuery treats any plain message as a catalog search.
func (b *Bot) handleSearchQuery(ctx context.Context, chatID int64, query string) error {
	results, err := b.catalog.Search(ctx, query, maxSearchResults)
	if err != nil {
		return b.api.sendMessage(ctx, chatID, "Ошибка поиска, попробуй ещё раз", mainKeyboard())
	}
	if len(results) == 0 {
		return b.api.sendMessage(ctx, chatID, "Ничего не найдено 😔 Попробуй другой запрос", nil)
	}

	s := b.session(chatID)
	b.mu.Lock()
	s.results = results
	b.mu.Unlock()

	var sb strings.Builder
	sb.WriteString("Нашёл вот что:\n\n")
	for i, r := range results {
		fmt.Fprintf(&sb, "%d. %s - %s", i+1, r.BrandName(), r.DisplayName())
		if r.MainAccords != "" {
			fmt.Fprintf(&sb, " (%s)", truncate(r.MainAccords, 50))
		}
		sb.WriteString("\n")
	}
	if s.selecting() {
		sb.WriteString("\nВыбери номер, чтобы добавить в лееринг:")
	} else {
		sb.WriteString("\nВыбери номер, чтобы посмотреть детали:")
	}

	return b.api.sendMessage(ctx, chatID, sb.String(), resultsKeyboard(len(results)))
}

func (b *Bot) handleCallback(ctx context.Context, cb *callbackQuery) error {
	// Best effort: a failed ack only leaves the button spinner visible.
	_ = b.api.answerCallbackQuery(ctx, cb.ID)

	if cb.Message == nil {
		return nil
	}
	chatID := cb.Message.Chat.ID

	switch {
	case cb.Data == "back_main":
		b.resetSession(chatID)
		return b.api.editMessageText(ctx, chatID, cb.Message.MessageID, "🌸 Главное меню\nВыбери, что хочешь сделать:", mainKeyboard())

	case cb.Data == "presets":
		return b.showPresets(ctx, chatID, cb.Message.MessageID)

	case cb.Data == "search":
		b.resetSession(chatID)
		return b.api.sendMessage(ctx, chatID, "🔍 Введи название, бренд или ноту:", nil)

	case cb.Data == "layer":
		s := b.session(chatID)
		b.mu.Lock()
		s.mode = modeSelect
		s.selection = nil
		b.mu.Unlock()
		return b.api.sendMessage(ctx, chatID, "🎭 Собираем лееринг!\nВведи название или бренд первого аромата:", nil)

	case cb.Data == "layer_more":
		s := b.session(chatID)
		b.mu.Lock()
		s.mode = modeSelect
		b.mu.Unlock()
		return b.api.sendMessage(ctx, chatID, "Введи название следующего аромата:", nil)

	case cb.Data == "analyze":
		return b.runAnalysis(ctx, chatID)

	case strings.HasPrefix(cb.Data, "preset_"):
		idx, err := strconv.Atoi(strings.TrimPrefix(cb.Data, "preset_"))
		if err != nil {
			return nil
		}
		return b.sendPreset(ctx, chatID, cb.Message.MessageID, idx)

	case strings.HasPrefix(cb.Data, "pick_"):
		idx, err := strconv.Atoi(strings.TrimPrefix(cb.Data, "pick_"))
		if err != nil {
			return nil
		}
		return b.pickResult(ctx, chatID, idx)
	}

	return nil
}

func (b *Bot) showPresets(ctx context.Context, chatID, messageID int64) error {
	if len(b.table.Presets) == 0 {
		return b.api.editMessageText(ctx, chatID, messageID, "Готовых миксов пока нет", mainKeyboard())
	}
	return b.api.editMessageText(ctx, chatID, messageID, "🔥 Выбери готовый микс:", presetsKeyboard(b.table.Presets))
}

// sendPreset renders a curated preset, resolving its fragrances from the
// catalog when possible and falling back to name-only placeholders.
func (b *Bot) sendPreset(ctx context.Context, chatID, messageID int64, idx int) error {
	if idx < 0 || idx >= len(b.table.Presets) {
		return nil
	}
	p := b.table.Presets[idx]

	selection := make([]catalog.Record, 0, len(p.Names))
	for _, name := range p.Names {
		rec, err := b.catalog.FindByName(ctx, name)
		if err != nil || rec == nil {
			selection = append(selection, catalog.Record{Name: name})
			continue
		}
		selection = append(selection, *rec)
	}

	verdict := layering.Verdict{
		Compatibility: p.Compatibility,
		Vibe:          p.Vibe,
		Risks:         p.Risks,
		Tips:          p.Tips,
		Curated:       true,
	}

	text := fmt.Sprintf("🎭 Готовый микс #%d\n\n%s", idx+1, formatVerdict(selection, verdict))
	return b.api.editMessageText(ctx, chatID, messageID, text, mainKeyboard())
}

func (b *Bot) pickResult(ctx context.Context, chatID int64, idx int) error {
	s := b.session(chatID)

	b.mu.Lock()
	if idx < 0 || idx >= len(s.results) {
		b.mu.Unlock()
		return nil
	}
	picked := s.results[idx]

	if s.mode != modeSelect {
		b.mu.Unlock()
		return b.api.sendMessage(ctx, chatID, formatRecord(picked), mainKeyboard())
	}

	if len(s.selection) >= layering.MaxSelection {
		b.mu.Unlock()
		return b.api.sendMessage(ctx, chatID, "Максимум 3 аромата — жми «Анализ»", selectionKeyboard())
	}
	s.selection = append(s.selection, picked)
	count := len(s.selection)
	b.mu.Unlock()

	text := fmt.Sprintf("✅ Добавлено: %s - %s (%d/%d)",
		picked.BrandName(), picked.DisplayName(), count, layering.MaxSelection)
	if count < layering.MinSelection {
		text += "\n\nВведи название следующего аромата:"
		return b.api.sendMessage(ctx, chatID, text, nil)
	}
	return b.api.sendMessage(ctx, chatID, text, selectionKeyboard())
}

func (b *Bot) runAnalysis(ctx context.Context, chatID int64) error {
	s := b.session(chatID)

	b.mu.Lock()
	selection := append([]catalog.Record(nil), s.selection...)
	b.mu.Unlock()

	verdict, err := layering.Evaluate(toFragrances(selection), b.table)
	if err != nil {
		if errors.Is(err, layering.ErrInsufficientSelection) {
			return b.api.sendMessage(ctx, chatID, "Нужно минимум 2 аромата для лееринга!", selectionKeyboard())
		}
		return err
	}

	text := "🎭 Результат лееринга\n\n" + formatVerdict(selection, verdict)
	if b.reportDir != "" {
		if path, err := b.saveReport(selection, verdict); err == nil {
			text += fmt.Sprintf("\n💾 Сохранено: %s", path)
		}
	}

	b.resetSession(chatID)
	return b.api.sendMessage(ctx, chatID, text, mainKeyboard())
}

func toFragrances(selection []catalog.Record) []layering.Fragrance {
	out := make([]layering.Fragrance, len(selection))
	for i := range selection {
		out[i] = selection[i]
	}
	return out
}

// truncate shortens s to max runes. Rune-based: most of the catalog text
// is Cyrillic and a byte slice would cut characters in half.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
