package domain

import (
	"fmt"
	"strings"
)

const (
	DefaultLedgerName = "notes_git_data.txt"
	EntrySeparator    = "\n\n"
)

// LedgerHandle is the backend identifier of a resolved ledger. The zero value
// means the ledger has not been found or created yet.
type LedgerHandle string

func (h LedgerHandle) IsZero() bool {
	return strings.TrimSpace(string(h)) == ""
}

func (h LedgerHandle) String() string {
	return string(h)
}

type LedgerFormat string

const (
	LedgerFormatNotes LedgerFormat = "notes"
	LedgerFormatChat  LedgerFormat = "chat"
)

func ParseLedgerFormat(raw string) (LedgerFormat, error) {
	format := LedgerFormat(strings.ToLower(strings.TrimSpace(raw)))
	switch format {
	case "":
		return LedgerFormatNotes, nil
	case LedgerFormatNotes, LedgerFormatChat:
		return format, nil
	default:
		return "", fmt.Errorf("unsupported ledger format %q", raw)
	}
}

// JoinLedger returns the full ledger content after appending entry to existing.
// Surrounding whitespace of existing is dropped and an empty ledger gets no
// leading separator.
func JoinLedger(existing, entry string) string {
	trimmed := strings.TrimSpace(existing)
	if trimmed == "" {
		return entry
	}

	return trimmed + EntrySeparator + entry
}

// TailEntries keeps the most recent part of a ledger that fits in limit bytes,
// cutting on an entry boundary when one is available. A non-positive limit
// disables truncation.
func TailEntries(content string, limit int) string {
	if limit <= 0 || len(content) <= limit {
		return content
	}

	tail := content[len(content)-limit:]
	if idx := strings.Index(tail, EntrySeparator); idx >= 0 && idx+len(EntrySeparator) < len(tail) {
		return tail[idx+len(EntrySeparator):]
	}

	return strings.ToValidUTF8(tail, "")
}
