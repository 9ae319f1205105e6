package domain

import (
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ID identifies every stored document. It is a 12-byte MongoDB ObjectID.
// It marshals to a 24-character hex string in JSON and stays native in BSON,
// so the wire format and the store format never need manual conversion.
type ID = primitive.ObjectID

// NilID is the zero ID. It is never assigned to a stored document.
var NilID = primitive.NilObjectID

// NewID returns a fresh, globally unique identifier.
func NewID() ID {
	return primitive.NewObjectID()
}

// ParseID converts a hex string from the wire into an ID.
// It is the only place in the codebase where string ids become native ids.
// Returns an error wrapping ErrValidation when s is not a valid identifier.
func ParseID(s string) (ID, error) {
	id, err := primitive.ObjectIDFromHex(strings.TrimSpace(s))
	if err != nil {
		return NilID, fmt.Errorf("%w: invalid id %q", ErrValidation, s)
	}
	return id, nil
}
