// Package token generates the bearer tokens and share slugs that are the
// sole authorization mechanism in SnapTab. Everything here draws from
// crypto/rand; tokens must never come from a predictable source.
package token

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

const shortAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

const (
	// ParticipantTokenLength is the length of short participant tokens.
	// 36^8 possible values; collisions are accepted rather than checked,
	// and lookups are always scoped by bill.
	ParticipantTokenLength = 8

	// SlugSuffixLength is the length of the random suffix appended to
	// share slugs for global uniqueness.
	SlugSuffixLength = 4
)

// New returns a high-entropy URL-safe token built from 32 random bytes.
// Used for creator tokens and the initial (pre-extraction) share token.
func New() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("reading random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// NewShort returns a short lowercase-alphanumeric token of length n.
// Bytes at or above the largest multiple of the alphabet size are rejected
// so the modulo stays uniform across the alphabet.
func NewShort(n int) (string, error) {
	const limit = 256 - 256%len(shortAlphabet)

	out := make([]byte, 0, n)
	buf := make([]byte, n)
	for len(out) < n {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("reading random bytes: %w", err)
		}
		for _, b := range buf {
			if int(b) >= limit {
				continue
			}
			out = append(out, shortAlphabet[int(b)%len(shortAlphabet)])
			if len(out) == n {
				break
			}
		}
	}
	return string(out), nil
}

// NewParticipant returns a short token identifying a participant.
func NewParticipant() (string, error) {
	return NewShort(ParticipantTokenLength)
}
