package domain

import "strings"

// Secret is a bearer token handle. It stays out of logs and marshaled
// output; persisting a token is an explicit opt-in at the config layer.
type Secret struct {
	value string
}

// NewSecret wraps a raw token, trimming surrounding whitespace.
func NewSecret(v string) Secret {
	return Secret{value: strings.TrimSpace(v)}
}

// Reveal returns the raw token for request signing.
func (s Secret) Reveal() string {
	return s.value
}

// IsSet reports whether a token is present.
func (s Secret) IsSet() bool {
	return s.value != ""
}

func (s Secret) String() string {
	if s.value == "" {
		return ""
	}
	return "[redacted]"
}

// MarshalJSON never emits the raw token.
func (s Secret) MarshalJSON() ([]byte, error) {
	return []byte(`""`), nil
}
