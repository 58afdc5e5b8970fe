// Package uuid generates and validates the string identifiers used as
// primary keys across finwise tables.
package uuid

import (
	googleuuid "github.com/google/uuid"
)

// New returns a new time-ordered UUIDv7 string. Time ordering keeps
// B-tree primary key inserts append-mostly.
func New() string {
	id, err := googleuuid.NewV7()
	if err != nil {
		// Entropy source failure; a random v4 is still a valid key.
		return googleuuid.New().String()
	}
	return id.String()
}

// Parse validates s and returns it in canonical lowercase form.
func Parse(s string) (string, error) {
	parsed, err := googleuuid.Parse(s)
	if err != nil {
		return "", err
	}
	return parsed.String(), nil
}

// IsValid reports whether s is a well-formed UUID.
func IsValid(s string) bool {
	_, err := googleuuid.Parse(s)
	return err == nil
}
