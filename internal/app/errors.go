package app

import "errors"

var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrUsernameExists      = errors.New("username already exists")
	ErrEmailExists         = errors.New("email already exists")
	ErrInvalidCredential   = errors.New("invalid username or password")
	ErrUserNotFound        = errors.New("user not found")
	ErrSessionNotFound     = errors.New("session not found")
	ErrSessionClosed       = errors.New("session already closed")
	ErrDocumentNotFound    = errors.New("document not found")
	ErrDuplicateDocument   = errors.New("document already uploaded")
	ErrFileTooLarge        = errors.New("file exceeds size limit")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrSuggestionNotFound  = errors.New("suggestion not found")
	ErrRetentionOutOfRange = errors.New("retention hours out of allowed range")
)
