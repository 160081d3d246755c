package app

import "errors"

var (
	ErrInvalidInput         = errors.New("invalid input")
	ErrUserNotFound         = errors.New("user not found")
	ErrConversationNotFound = errors.New("conversation not found")
	ErrDocumentNotFound     = errors.New("document not found")
	ErrEmailExists          = errors.New("user with this email already exists")
	ErrDuplicateLink        = errors.New("document already linked to conversation")
)
