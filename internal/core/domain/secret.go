package domain

import "encoding/json"

const redacted = "[REDACTED]"

// Secret holds a plaintext credential. It prints and marshals as a placeholder
// so it cannot end up in logs or responses by accident.
type Secret string

func (s Secret) String() string   { return redacted }
func (s Secret) GoString() string { return redacted }

func (s Secret) MarshalJSON() ([]byte, error) {
	return json.Marshal(redacted)
}

// Reveal returns the plaintext value.
func (s Secret) Reveal() string { return string(s) }
