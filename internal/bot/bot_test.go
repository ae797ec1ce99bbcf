package bot

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path"
	"strings"
	"testing"

	"github.com/scentstack/accord/internal/catalog"
	"github.com/scentstack/accord/internal/rules"
)

// apiCall is one captured Bot API request.
type apiCall struct {
	method  string
	payload map[string]any
}

func (c apiCall) text() string {
	s, _ := c.payload["text"].(string)
	return s
}

// newTestBot wires a Bot against a fake Bot API server and a seeded
// in-memory catalog, returning the captured outgoing calls.
func newTestBot(t *testing.T) (*Bot, *[]apiCall) {
	t.Helper()

	var calls []apiCall
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]any
		_ = json.NewDecoder(r.Body).Decode(&payload)
		calls = append(calls, apiCall{method: path.Base(r.URL.Path), payload: payload})
		w.Write([]byte(`{"ok":true,"result":{}}`))
	}))
	t.Cleanup(srv.Close)
	swapBaseURL(t, srv.URL)

	store, err := catalog.Open(":memory:")
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	seed := []catalog.Record{
		{Name: "Pure XS", Brand: "Paco Rabanne", MainAccords: "сладкий, гурман", Description: "Тайская ваниль", RatingCount: 900},
		{Name: "Dior Homme Intense 2011", Brand: "Dior", MainAccords: "пудровый, древесный", Description: "Ирис и ваниль", RatingCount: 2100},
		{Name: "Vanilla Vibes", Brand: "Juliette Has A Gun", MainAccords: "ваниль, мускус", Description: "Солёная ваниль", RatingCount: 640},
	}
	for i := range seed {
		if _, err := store.Add(context.Background(), &seed[i]); err != nil {
			t.Fatalf("seeding %q: %v", seed[i].Name, err)
		}
	}

	b, err := New(Config{
		Token:   "123456:testsecret",
		Catalog: store,
		Table:   rules.Default(),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return b, &calls
}

func msgUpdate(chatID int64, text string) update {
	return update{Message: &message{MessageID: 1, Text: text, Chat: chat{ID: chatID, Type: "private"}}}
}

func cbUpdate(chatID int64, data string) update {
	return update{CallbackQuery: &callbackQuery{
		ID:      "cb1",
		Data:    data,
		Message: &message{MessageID: 2, Chat: chat{ID: chatID, Type: "private"}},
	}}
}

// lastSend returns the last captured call that is not a callback ack.
func lastSend(t *testing.T, calls *[]apiCall) apiCall {
	t.Helper()
	for i := len(*calls) - 1; i >= 0; i-- {
		if (*calls)[i].method != "answerCallbackQuery" {
			return (*calls)[i]
		}
	}
	t.Fatal("no outgoing message captured")
	return apiCall{}
}

func TestNewRejectsBadConfig(t *testing.T) {
	if _, err := New(Config{Token: "not-a-token"}); err == nil {
		t.Error("expected an error for a malformed token")
	}
	if _, err := New(Config{Token: "123456:testsecret"}); err == nil {
		t.Error("expected an error for a missing catalog")
	}
}

func TestStartCommand(t *testing.T) {
	b, calls := newTestBot(t)

	if err := b.handleUpdate(context.Background(), msgUpdate(1, "/start")); err != nil {
		t.Fatalf("handleUpdate: %v", err)
	}

	call := lastSend(t, calls)
	if call.method != "sendMessage" {
		t.Fatalf("method = %q, want sendMessage", call.method)
	}
	if !strings.Contains(call.text(), "Привет") {
		t.Errorf("welcome text = %q", call.text())
	}
	if call.payload["reply_markup"] == nil {
		t.Error("welcome message has no keyboard")
	}
}

func TestPlainMessageSearchesCatalog(t *testing.T) {
	b, calls := newTestBot(t)

	if err := b.handleUpdate(context.Background(), msgUpdate(1, "ваниль")); err != nil {
		t.Fatalf("handleUpdate: %v", err)
	}

	text := lastSend(t, calls).text()
	if !strings.Contains(text, "Нашёл вот что") {
		t.Fatalf("search reply = %q", text)
	}
	if !strings.Contains(text, "Vanilla Vibes") {
		t.Errorf("search reply misses the vanilla row: %q", text)
	}
}

func TestSearchMiss(t *testing.T) {
	b, calls := newTestBot(t)

	if err := b.handleUpdate(context.Background(), msgUpdate(1, "крайне странный запрос")); err != nil {
		t.Fatalf("handleUpdate: %v", err)
	}
	if text := lastSend(t, calls).text(); !strings.Contains(text, "Ничего не найдено") {
		t.Errorf("reply = %q", text)
	}
}

func TestLayeringDialogue(t *testing.T) {
	b, calls := newTestBot(t)
	ctx := context.Background()
	const chatID = int64(9)

	steps := []update{
		cbUpdate(chatID, "layer"),
		msgUpdate(chatID, "Pure XS"),
		cbUpdate(chatID, "pick_0"),
		msgUpdate(chatID, "Dior Homme Intense"),
		cbUpdate(chatID, "pick_0"),
	}
	for i, upd := range steps {
		if err := b.handleUpdate(ctx, upd); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}

	if text := lastSend(t, calls).text(); !strings.Contains(text, "(2/3)") {
		t.Fatalf("after second pick: %q", text)
	}

	if err := b.handleUpdate(ctx, cbUpdate(chatID, "analyze")); err != nil {
		t.Fatalf("analyze: %v", err)
	}
	text := lastSend(t, calls).text()
	if !strings.Contains(text, "Результат лееринга") {
		t.Fatalf("analysis reply = %q", text)
	}
	// Pure XS + Dior Homme Intense 2011 is a curated pair.
	if !strings.Contains(text, "Совместимость: 90%") {
		t.Errorf("analysis reply = %q, want the curated 90%%", text)
	}

	// The session is reset after analysis.
	b.mu.Lock()
	_, alive := b.sessions[chatID]
	b.mu.Unlock()
	if alive {
		t.Error("session survived the analysis")
	}
}

func TestAnalyzeNeedsTwoFragrances(t *testing.T) {
	b, calls := newTestBot(t)

	if err := b.handleUpdate(context.Background(), cbUpdate(3, "analyze")); err != nil {
		t.Fatalf("handleUpdate: %v", err)
	}
	if text := lastSend(t, calls).text(); !strings.Contains(text, "минимум 2 аромата") {
		t.Errorf("reply = %q", text)
	}
}

func TestBrowsePickShowsDetails(t *testing.T) {
	b, calls := newTestBot(t)
	ctx := context.Background()

	if err := b.handleUpdate(ctx, msgUpdate(4, "пудровый")); err != nil {
		t.Fatalf("search: %v", err)
	}
	if err := b.handleUpdate(ctx, cbUpdate(4, "pick_0")); err != nil {
		t.Fatalf("pick: %v", err)
	}

	text := lastSend(t, calls).text()
	if !strings.Contains(text, "Dior Homme Intense 2011") || !strings.Contains(text, "Аккорды:") {
		t.Errorf("details = %q", text)
	}
}

func TestPresetCallback(t *testing.T) {
	b, calls := newTestBot(t)
	ctx := context.Background()

	if err := b.handleUpdate(ctx, cbUpdate(5, "presets")); err != nil {
		t.Fatalf("presets: %v", err)
	}
	if call := lastSend(t, calls); call.method != "editMessageText" {
		t.Fatalf("method = %q, want editMessageText", call.method)
	}

	if err := b.handleUpdate(ctx, cbUpdate(5, "preset_0")); err != nil {
		t.Fatalf("preset_0: %v", err)
	}
	text := lastSend(t, calls).text()
	if !strings.Contains(text, "Готовый микс #1") {
		t.Fatalf("preset reply = %q", text)
	}
	if !strings.Contains(text, "Совместимость: 85%") {
		t.Errorf("preset reply = %q, want the curated compatibility", text)
	}
}

func TestCallbackWithUnknownDataIsIgnored(t *testing.T) {
	b, _ := newTestBot(t)
	if err := b.handleUpdate(context.Background(), cbUpdate(6, "bogus_data")); err != nil {
		t.Fatalf("handleUpdate: %v", err)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"короткий", 20, "короткий"},
		{"пудровый", 4, "пудр..."},
		{"abcdef", 3, "abc..."},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.max); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}
