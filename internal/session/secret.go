package session

import (
	"encoding/hex"
	"errors"

	"github.com/gorilla/securecookie"
)

// SecretLength is the size of a generated CSRF key.
const SecretLength = 32

// ResolveSecret returns the CSRF key for the configured SESSION_SECRET: hex
// decoded when it is valid hex, the raw bytes otherwise. An empty value
// yields a random key, reported through generated.
func ResolveSecret(configured string) (key []byte, generated bool, err error) {
	if configured != "" {
		if decoded, err := hex.DecodeString(configured); err == nil {
			return decoded, false, nil
		}
		return []byte(configured), false, nil
	}

	key = securecookie.GenerateRandomKey(SecretLength)
	if key == nil {
		return nil, false, errors.New("failed to generate session secret")
	}
	return key, true, nil
}
