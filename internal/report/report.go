// Package report persists layering analysis results as plain text files.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/scentstack/accord/internal/catalog"
	"github.com/scentstack/accord/internal/layering"
)

// Entry is one saved analysis.
type Entry struct {
	ID        uuid.UUID
	CreatedAt time.Time
	Selection []catalog.Record
	Verdict   layering.Verdict
}

// New builds an Entry with a fresh id and timestamp.
func New(selection []catalog.Record, verdict layering.Verdict) Entry {
	return Entry{
		ID:        uuid.New(),
		CreatedAt: time.Now(),
		Selection: selection,
		Verdict:   verdict,
	}
}

// Save writes the entry to dir and returns the file path. The directory is
// created if needed.
func (e Entry) Save(dir string) (string, error) {
	if strings.TrimSpace(dir) == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating report directory: %w", err)
	}

	name := fmt.Sprintf("layering-%s-%s.txt",
		e.CreatedAt.Format("20060102-150405"),
		e.ID.String()[:8],
	)
	path := filepath.Join(dir, name)

	if err := os.WriteFile(path, []byte(e.Text()), 0644); err != nil {
		return "", fmt.Errorf("writing report: %w", err)
	}
	return path, nil
}

// Text renders the entry in the layout users see on screen.
func (e Entry) Text() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Лееринг от %s\n", e.CreatedAt.Format("02.01.2006 15:04"))
	fmt.Fprintf(&sb, "ID: %s\n\n", e.ID)

	for _, r := range e.Selection {
		fmt.Fprintf(&sb, "%s - %s (%s)\n", r.BrandName(), r.DisplayName(), r.GenderLabel())
	}

	fmt.Fprintf(&sb, "\nСовместимость: %d%%\n", e.Verdict.Compatibility)
	fmt.Fprintf(&sb, "Вайб: %s\n", e.Verdict.Vibe)

	sb.WriteString("Риски:\n")
	for _, r := range e.Verdict.Risks {
		fmt.Fprintf(&sb, "- %s\n", r)
	}
	sb.WriteString("Советы:\n")
	for _, t := range e.Verdict.Tips {
		fmt.Fprintf(&sb, "- %s\n", t)
	}

	return sb.String()
}
