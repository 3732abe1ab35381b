package domain

import (
	"fmt"

	"golang.org/x/text/language"
)

// Locale carries the language-dependent keywords, labels and messages.
type Locale struct {
	Tag               language.Tag
	SaveKeywords      []string
	DateLabel         string
	UserLabel         string
	AssistantLabel    string
	NoteSaved         string
	ArchiveEmpty      string
	EmptyInput        string
	RequestFailed     string
	AnswerInstruction string
	HistoryHeading    string
	QuestionLabel     string
}

var (
	PolishLocale = Locale{
		Tag:               language.Polish,
		SaveKeywords:      []string{"zapisz", "zanotuj", "notatka", "pamiętaj"},
		DateLabel:         "DATA",
		UserLabel:         "Ty",
		AssistantLabel:    "Gemini",
		NoteSaved:         "Notatka została zapisana w Twoim archiwum.",
		ArchiveEmpty:      "Twoje archiwum jest jeszcze puste. Zapisz pierwszą notatkę!",
		EmptyInput:        "Wpisz notatkę albo pytanie.",
		RequestFailed:     "Nie udało się przetworzyć wiadomości: %v",
		AnswerInstruction: "Jesteś asystentem, który odpowiada na pytania wyłącznie na podstawie dostarczonych notatek z pamiętnika. Oto notatki:",
		HistoryHeading:    "Dotychczasowa rozmowa:",
		QuestionLabel:     "PYTANIE",
	}

	EnglishLocale = Locale{
		Tag:               language.English,
		SaveKeywords:      []string{"save", "note", "remember"},
		DateLabel:         "DATE",
		UserLabel:         "You",
		AssistantLabel:    "Assistant",
		NoteSaved:         "The note has been saved to your archive.",
		ArchiveEmpty:      "Your archive is still empty. Save your first note!",
		EmptyInput:        "Type a note or a question.",
		RequestFailed:     "Could not process the message: %v",
		AnswerInstruction: "You are an assistant that answers questions only from the provided diary notes. Here are the notes:",
		HistoryHeading:    "Conversation so far:",
		QuestionLabel:     "QUESTION",
	}
)

var supportedLocales = []Locale{PolishLocale, EnglishLocale}

var localeMatcher = language.NewMatcher([]language.Tag{PolishLocale.Tag, EnglishLocale.Tag})

// LookupLocale matches a BCP 47 tag such as "pl", "pl-PL" or "en-GB" against
// the supported locales. An empty tag selects Polish.
func LookupLocale(raw string) (Locale, error) {
	if raw == "" {
		return PolishLocale, nil
	}

	tag, err := language.Parse(raw)
	if err != nil {
		return Locale{}, fmt.Errorf("parse language %q: %w", raw, ErrUnsupportedLanguage)
	}

	_, index, confidence := localeMatcher.Match(tag)
	if confidence == language.No {
		return Locale{}, fmt.Errorf("language %q: %w", raw, ErrUnsupportedLanguage)
	}

	return supportedLocales[index], nil
}
