package bot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// apiBaseURL is a variable so tests can point the client at a local server.
var apiBaseURL = "https://api.telegram.org"

type apiClient struct {
	baseURL    string
	botToken   string
	httpClient *http.Client
}

func newAPIClient(token string, pollTimeout int) *apiClient {
	return &apiClient{
		baseURL:  strings.TrimRight(apiBaseURL, "/"),
		botToken: strings.TrimSpace(token),
		// The HTTP timeout must outlast the long-poll window.
		httpClient: &http.Client{Timeout: time.Duration(pollTimeout+10) * time.Second},
	}
}

// validateBotToken checks the '<digits>:<secret>' shape without calling the
// API.
func validateBotToken(token string) error {
	parts := strings.Split(token, ":")
	if len(parts) != 2 || strings.TrimSpace(parts[0]) == "" || strings.TrimSpace(parts[1]) == "" {
		return fmt.Errorf("bot token must look like '<digits>:<secret>'")
	}
	for _, ch := range parts[0] {
		if ch < '0' || ch > '9' {
			return fmt.Errorf("bot token prefix must be numeric")
		}
	}
	if len(parts[1]) < 8 {
		return fmt.Errorf("bot token secret looks too short")
	}
	return nil
}

type apiResponse struct {
	OK          bool            `json:"ok"`
	Description string          `json:"description"`
	Result      json.RawMessage `json:"result"`
}

// call posts a JSON payload to a Bot API method and decodes the result.
func (c *apiClient) call(ctx context.Context, method string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding %s payload: %w", method, err)
	}

	endpoint := fmt.Sprintf("%s/bot%s/%s", c.baseURL, c.botToken, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("telegram %s failed: %w", method, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("telegram API returned %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var api apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&api); err != nil {
		return fmt.Errorf("decoding %s response: %w", method, err)
	}
	if !api.OK {
		if api.Description == "" {
			api.Description = "unknown error"
		}
		return fmt.Errorf("telegram API error: %s", api.Description)
	}

	if out != nil && len(api.Result) > 0 {
		if err := json.Unmarshal(api.Result, out); err != nil {
			return fmt.Errorf("decoding %s result: %w", method, err)
		}
	}
	return nil
}

func (c *apiClient) getUpdates(ctx context.Context, offset int64, timeoutSec int) ([]update, error) {
	payload := map[string]any{
		"offset":          offset,
		"limit":           100,
		"timeout":         timeoutSec,
		"allowed_updates": []string{"message", "callback_query"},
	}
	var updates []update
	if err := c.call(ctx, "getUpdates", payload, &updates); err != nil {
		return nil, err
	}
	return updates, nil
}

func (c *apiClient) sendMessage(ctx context.Context, chatID int64, text string, kb *inlineKeyboardMarkup) error {
	payload := sendMessagePayload{ChatID: chatID, Text: text, ReplyMarkup: kb}
	return c.call(ctx, "sendMessage", payload, nil)
}

func (c *apiClient) editMessageText(ctx context.Context, chatID, messageID int64, text string, kb *inlineKeyboardMarkup) error {
	payload := editMessagePayload{ChatID: chatID, MessageID: messageID, Text: text, ReplyMarkup: kb}
	return c.call(ctx, "editMessageText", payload, nil)
}

func (c *apiClient) answerCallbackQuery(ctx context.Context, callbackID string) error {
	return c.call(ctx, "answerCallbackQuery", map[string]any{"callback_query_id": callbackID}, nil)
}

// --- Wire types ---

type update struct {
	UpdateID      int64          `json:"update_id"`
	Message       *message       `json:"message"`
	CallbackQuery *callbackQuery `json:"callback_query"`
}

type message struct {
	MessageID int64  `json:"message_id"`
	Date      int64  `json:"date"`
	Text      string `json:"text"`
	From      *user  `json:"from"`
	Chat      chat   `json:"chat"`
}

type callbackQuery struct {
	ID      string   `json:"id"`
	Data    string   `json:"data"`
	From    *user    `json:"from"`
	Message *message `json:"message"`
}

type user struct {
	ID        int64  `json:"id"`
	IsBot     bool   `json:"is_bot"`
	FirstName string `json:"first_name"`
	Username  string `json:"username"`
}

type chat struct {
	ID   int64  `json:"id"`
	Type string `json:"type"`
}

type inlineKeyboardMarkup struct {
	InlineKeyboard [][]inlineKeyboardButton `json:"inline_keyboard"`
}

type inlineKeyboardButton struct {
	Text         string `json:"text"`
	CallbackData string `json:"callback_data"`
}

type sendMessagePayload struct {
	ChatID      int64                 `json:"chat_id"`
	Text        string                `json:"text"`
	ReplyMarkup *inlineKeyboardMarkup `json:"reply_markup,omitempty"`
}

type editMessagePayload struct {
	ChatID      int64                 `json:"chat_id"`
	MessageID   int64                 `json:"message_id"`
	Text        string                `json:"text"`
	ReplyMarkup *inlineKeyboardMarkup `json:"reply_markup,omitempty"`
}
