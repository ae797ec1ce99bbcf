package bot

import (
	"github.com/google/uuid"

	"github.com/scentstack/accord/internal/catalog"
	"github.com/scentstack/accord/internal/layering"
	"github.com/scentstack/accord/internal/report"
)

type sessionMode int

const (
	// modeBrowse: plain search, picking a result shows its details.
	modeBrowse sessionMode = iota
	// modeSelect: picking a result adds it to the layering selection.
	modeSelect
)

// session is the per-chat dialogue state. One chat owns one session; the
// bot mutex guards the map and the fields, since updates for the same chat
// can in principle be handled concurrently.
type session struct {
	id        uuid.UUID
	mode      sessionMode
	selection []catalog.Record
	results   []catalog.Record
}

func (s *session) selecting() bool {
	return s != nil && s.mode == modeSelect
}

// session returns the chat's session, creating it on first contact.
func (b *Bot) session(chatID int64) *session {
	b.mu.Lock()
	defer b.mu.Unlock()
	s, ok := b.sessions[chatID]
	if !ok {
		s = &session{id: uuid.New()}
		b.sessions[chatID] = s
	}
	return s
}

// resetSession discards all dialogue state for the chat.
func (b *Bot) resetSession(chatID int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.sessions, chatID)
}

func (b *Bot) saveReport(selection []catalog.Record, verdict layering.Verdict) (string, error) {
	return report.New(selection, verdict).Save(b.reportDir)
}
