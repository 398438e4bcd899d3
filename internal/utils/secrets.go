package utils

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// SecretBytes is the entropy of a generated signing secret
const SecretBytes = 32

// GenerateSecret returns n random bytes encoded as URL-safe base64
func GenerateSecret(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// GenerateJWTSecrets returns a distinct access and refresh signing secret pair
func GenerateJWTSecrets() (access, refresh string, err error) {
	if access, err = GenerateSecret(SecretBytes); err != nil {
		return "", "", fmt.Errorf("access secret: %w", err)
	}
	for refresh == "" || refresh == access {
		if refresh, err = GenerateSecret(SecretBytes); err != nil {
			return "", "", fmt.Errorf("refresh secret: %w", err)
		}
	}
	return access, refresh, nil
}
