package core

import (
	"strings"
	"unicode/utf8"
)

const (
	MinBookNameLen = 2
	MaxBookNameLen = 200
)

// ValidateBookName rejects names that are empty or outside the accepted
// length bounds after trimming.
func ValidateBookName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return &InvalidInputError{Field: "book name", Reason: "must not be empty"}
	}
	if utf8.RuneCountInString(trimmed) < MinBookNameLen {
		return &InvalidInputError{Field: "book name", Reason: "too short"}
	}
	if utf8.RuneCountInString(trimmed) > MaxBookNameLen {
		return &InvalidInputError{Field: "book name", Reason: "too long"}
	}
	return nil
}

func ValidateQuestion(question string) error {
	if strings.TrimSpace(question) == "" {
		return &InvalidInputError{Field: "question", Reason: "must not be empty"}
	}
	return nil
}

// NormalizeBookKey folds a book name into its cache key form.
func NormalizeBookKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
