package flora

import "github.com/google/uuid"

// NewID returns an identifier that is unique for the process lifetime.
func NewID() string {
	return uuid.NewString()
}

// NewPartID returns a fresh part identifier.
func NewPartID() PartID {
	return PartID(uuid.NewString())
}
