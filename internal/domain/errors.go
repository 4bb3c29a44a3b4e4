package domain

import "errors"

var (
	ErrUnknownGame          = errors.New("unknown game")
	ErrCredentialIncomplete = errors.New("credential incomplete")
	ErrCredentialNotFound   = errors.New("credential not found")
	ErrNoGamesEnabled       = errors.New("no games enabled")
)
