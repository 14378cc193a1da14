package database

import (
	"fmt"
	"net/url"
	"strings"
)

// ConstructDatabaseURL appends databaseName to baseURL and defaults sslmode to disable.
// An empty databaseName returns baseURL untouched.
func ConstructDatabaseURL(baseURL, databaseName string) (string, error) {
	if databaseName == "" {
		return baseURL, nil
	}

	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return "", fmt.Errorf("invalid database URL: %w", err)
	}

	u.Path = "/" + databaseName

	q := u.Query()
	if q.Get("sslmode") == "" {
		q.Set("sslmode", "disable")
	}
	u.RawQuery = q.Encode()

	return u.String(), nil
}
