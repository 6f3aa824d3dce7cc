// Package ids is the single gate every externally supplied record identifier
// passes through before it reaches the store.
package ids

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// IsValid reports whether s has the store's canonical identifier shape
// (24 hexadecimal characters).
func IsValid(s string) bool {
	return primitive.IsValidObjectID(s)
}

// Parse converts a validated identifier string into an ObjectID.
func Parse(s string) (primitive.ObjectID, error) {
	if !IsValid(s) {
		return primitive.NilObjectID, fmt.Errorf("invalid id %q", s)
	}
	return primitive.ObjectIDFromHex(s)
}

// ParseAll converts every entry of in, stopping at the first invalid one.
// The returned index points at the offending entry when err != nil.
func ParseAll(in []string) ([]primitive.ObjectID, int, error) {
	out := make([]primitive.ObjectID, 0, len(in))
	for i, s := range in {
		oid, err := Parse(s)
		if err != nil {
			return nil, i, err
		}
		out = append(out, oid)
	}
	return out, -1, nil
}
