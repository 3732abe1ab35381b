package domain

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

type Intent string

const (
	IntentSave  Intent = "save"
	IntentQuery Intent = "query"
)

// Classifier routes input to Save when any keyword occurs anywhere in it,
// ignoring case. There is no negation handling: "don't save" is still a save.
type Classifier struct {
	keywords []string
}

func NewClassifier(keywords []string) Classifier {
	folded := make([]string, 0, len(keywords))
	for _, keyword := range keywords {
		keyword = foldText(strings.TrimSpace(keyword))
		if keyword == "" {
			continue
		}
		folded = append(folded, keyword)
	}

	return Classifier{keywords: folded}
}

func (c Classifier) Classify(text string) Intent {
	folded := foldText(text)
	for _, keyword := range c.keywords {
		if strings.Contains(folded, keyword) {
			return IntentSave
		}
	}

	return IntentQuery
}

func foldText(text string) string {
	// cases.Caser keeps state between calls, so each call gets its own.
	return cases.Fold().String(norm.NFC.String(text))
}
