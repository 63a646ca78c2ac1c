package secrets

import (
	"errors"
)

var (
	// ErrKeyEmpty is returned when no key material was configured.
	ErrKeyEmpty = errors.New("secrets key is empty")

	// ErrKeyNotHex is returned when the configured key is not valid hex.
	ErrKeyNotHex = errors.New("secrets key is not valid hex")

	// ErrInvalidKeySize is returned when the key is not 32 bytes.
	ErrInvalidKeySize = errors.New("secrets key must be 32 bytes")

	// ErrCiphertextMalformed is returned when a stored value cannot be decrypted.
	ErrCiphertextMalformed = errors.New("ciphertext is malformed or was sealed with a different key")
)
