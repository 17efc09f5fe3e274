package util

import "github.com/oklog/ulid/v2"

// NewULID returns a new ULID string. IDs created later sort after earlier ones
// at millisecond resolution.
func NewULID() string {
	return ulid.Make().String()
}
