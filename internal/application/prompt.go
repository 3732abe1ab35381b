package application

import (
	"strings"

	"github.com/bnema/notesgit/internal/domain"
)

const DefaultMaxContextBytes = 512 * 1024

type QueryPrompt struct {
	Notes    string
	History  []domain.Turn
	Question string
}

// Build renders the instruction, the notes, the optional conversation history
// and the question. Notes beyond maxContextBytes are cut from the oldest end.
func (p QueryPrompt) Build(locale domain.Locale, maxContextBytes int) string {
	var b strings.Builder

	b.WriteString(locale.AnswerInstruction)
	b.WriteString("\n")
	b.WriteString(domain.TailEntries(strings.TrimSpace(p.Notes), maxContextBytes))
	b.WriteString("\n\n")

	if len(p.History) > 0 {
		b.WriteString(locale.HistoryHeading)
		b.WriteString("\n")
		for _, turn := range p.History {
			b.WriteString(turn.Format(locale))
		}
	}

	b.WriteString(locale.QuestionLabel)
	b.WriteString(": ")
	b.WriteString(strings.TrimSpace(p.Question))

	return b.String()
}
