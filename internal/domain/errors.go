package domain

import "errors"

var (
	ErrLedgerNotFound      = errors.New("ledger not found")
	ErrEmptyInput          = errors.New("input is empty")
	ErrMissingAPIKey       = errors.New("text generation api key is missing")
	ErrMissingCredentials  = errors.New("storage credentials are missing")
	ErrTokenNotFound       = errors.New("oauth token not found")
	ErrUnsupportedLanguage = errors.New("unsupported language")
)
