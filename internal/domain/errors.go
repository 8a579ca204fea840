package domain

import "errors"

var (
	ErrNotLoggedIn        = errors.New("not logged in")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSessionExpired     = errors.New("session expired")
	ErrCacheMiss          = errors.New("cache key not found")
	ErrAccountNotFound    = errors.New("account not found")
	ErrNoActiveAccount    = errors.New("no active account selected")
)
