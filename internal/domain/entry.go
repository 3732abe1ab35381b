package domain

import (
	"fmt"
	"strings"
	"time"
)

const entryDateLayout = "2006-01-02"

type NoteEntry struct {
	Date time.Time
	Text string
}

func (e NoteEntry) Format(locale Locale) string {
	return fmt.Sprintf("[%s: %s]\n%s\n---", locale.DateLabel, e.Date.Format(entryDateLayout), strings.TrimSpace(e.Text))
}

type Turn struct {
	User      string
	Assistant string
}

func (t Turn) Format(locale Locale) string {
	return fmt.Sprintf("%s: %s\n\n%s: %s\n\n\n", locale.UserLabel, t.User, locale.AssistantLabel, t.Assistant)
}

// LastTurns returns at most n of the most recent turns. n <= 0 returns none.
func LastTurns(turns []Turn, n int) []Turn {
	if n <= 0 || len(turns) == 0 {
		return nil
	}
	if len(turns) <= n {
		return turns
	}

	return turns[len(turns)-n:]
}
