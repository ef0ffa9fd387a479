package app

import "errors"

var (
	// ErrUserNotFound indicates the referenced user profile does not exist.
	ErrUserNotFound      = errors.New("user not found")
	ErrFlashcardNotFound = errors.New("flashcard not found")
	ErrElementNotFound   = errors.New("interactive element not found")
)
