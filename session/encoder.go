package session

import (
	"encoding/json"
	"errors"
)

// ErrCorruptRecord is returned when a cached blob cannot be decoded.
// Callers treat it the same as an absent session: the token is invalid.
var ErrCorruptRecord = errors.New("session record corrupt")

// Encode serializes a Record for storage.
func Encode(r *Record) ([]byte, error) {
	if r == nil {
		return nil, errors.New("nil session record")
	}
	return json.Marshal(r)
}

// Decode deserializes a stored blob back into a Record.
func Decode(data []byte) (*Record, error) {
	if len(data) == 0 {
		return nil, ErrCorruptRecord
	}

	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, ErrCorruptRecord
	}
	if r.Email == "" {
		return nil, ErrCorruptRecord
	}

	return &r, nil
}
