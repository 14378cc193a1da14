package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by a Store when no document with the given name exists
var ErrNotFound = errors.New("document not found")

// Store loads and saves whole named documents.
// Implementations replace the full document on every Save; there is no partial patch format.
type Store interface {
	// Load returns the raw JSON body of the named document or ErrNotFound
	Load(ctx context.Context, name string) ([]byte, error)

	// Save replaces the named document with data
	Save(ctx context.Context, name string, data []byte) error
}

// Document names used by the bot
const (
	DocumentEconomy  = "economy"
	DocumentActivity = "activity"
	DocumentWarnings = "warnings"
	DocumentMutes    = "mutes"
	DocumentWelcome  = "welcome"
	DocumentAudit    = "audit"
	DocumentBadWords = "badwords"
)
