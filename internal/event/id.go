package event

import (
	nanoid "github.com/matoous/go-nanoid/v2"
)

// idAlphabet avoids characters that need escaping inside XML attributes or
// JSON strings, matching the IDs editors mint for blocks.
const idAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

const idLength = 20

// NewGroupID mints a correlation ID for a group of related events. The
// model itself never assigns group IDs; callers stamp them via WithGroup.
func NewGroupID() (string, error) {
	return nanoid.Generate(idAlphabet, idLength)
}
