package database

import (
	"github.com/google/uuid"
)

// NullableUUIDBytes converts an optional UUID into a BINARY(16) driver value.
func NullableUUIDBytes(id *uuid.UUID) any {
	if id == nil {
		return nil
	}
	b, _ := id.MarshalBinary()
	return b
}

// ParseNullableUUIDBytes converts a scanned BINARY(16) column back into an optional UUID.
func ParseNullableUUIDBytes(b []byte) (*uuid.UUID, error) {
	if b == nil {
		return nil, nil
	}
	id, err := uuid.FromBytes(b)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
