// Package uuid generates random identifiers and defines the empty sentinel used for
// "not yet assigned".
package uuid

import (
	"github.com/google/uuid"
)

// Empty is the reserved identifier meaning "not yet assigned".
var Empty = uuid.Nil.String()

// IsEmpty reports whether id is unset, either blank or the Empty sentinel.
func IsEmpty(id string) bool {
	return id == "" || id == Empty
}

// New produces a random UUIDv4 string.
func New() string {
	return uuid.NewString()
}
