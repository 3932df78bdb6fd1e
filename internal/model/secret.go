// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"encoding/json"
)

// redacted is what every display or serialization path prints for a set Secret.
const redacted = "**********"

// Secret holds an API key. Its value is only reachable through Reveal.
type Secret struct {
	value string
}

// NewSecret wraps value.
func NewSecret(value string) Secret {
	return Secret{value: value}
}

// Reveal returns the wrapped value.
func (s Secret) Reveal() string {
	return s.value
}

// IsZero reports whether no value is set.
func (s Secret) IsZero() bool {
	return s.value == ""
}

// Equal compares the wrapped values.
func (s Secret) Equal(other Secret) bool {
	return s.value == other.value
}

// String implements fmt.Stringer.
func (s Secret) String() string {
	if s.value == "" {
		return ""
	}
	return redacted
}

// GoString masks %#v output.
func (s Secret) GoString() string {
	return "model.Secret(" + s.String() + ")"
}

// MarshalJSON implements json.Marshaler.
func (s Secret) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// MarshalText implements encoding.TextMarshaler.
func (s Secret) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler so config decoders can
// populate a Secret directly.
func (s *Secret) UnmarshalText(text []byte) error {
	s.value = string(text)
	return nil
}
