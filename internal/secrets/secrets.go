// Package secrets seals small string values with AES-256-GCM for at-rest
// storage. It is used by the settings store to encrypt sensitive setting
// values before they hit the database.
package secrets

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
)

// KeySize is the required key length in bytes (AES-256).
const KeySize = 32

// Box seals and opens string values with a fixed symmetric key.
type Box struct {
	aead cipher.AEAD
}

// ParseKey decodes a hex-encoded key as produced by GenerateKey.
func ParseKey(hexKey string) ([]byte, error) {
	if hexKey == "" {
		return nil, ErrKeyEmpty
	}

	key, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, ErrKeyNotHex
	}

	if len(key) != KeySize {
		return nil, ErrInvalidKeySize
	}

	return key, nil
}

// GenerateKey returns a fresh random key, hex encoded for config files.
func GenerateKey() (string, error) {
	key := make([]byte, KeySize)
	if _, err := rand.Read(key); err != nil {
		return "", err //nolint:wrapcheck
	}

	return hex.EncodeToString(key), nil
}

// NewBox creates a Box from raw key bytes.
func NewBox(key []byte) (*Box, error) {
	if len(key) != KeySize {
		return nil, ErrInvalidKeySize
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	return &Box{aead: aead}, nil
}

// Seal encrypts plaintext and returns base64(nonce || ciphertext).
func (b *Box) Seal(plaintext string) (string, error) {
	nonce := make([]byte, b.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", err //nolint:wrapcheck
	}

	sealed := b.aead.Seal(nonce, nonce, []byte(plaintext), nil)

	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Open decrypts a value produced by Seal. Corrupt or foreign-key
// ciphertext yields an error, never a partial plaintext.
func (b *Box) Open(encoded string) (string, error) {
	sealed, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", ErrCiphertextMalformed
	}

	if len(sealed) < b.aead.NonceSize() {
		return "", ErrCiphertextMalformed
	}

	nonce, ciphertext := sealed[:b.aead.NonceSize()], sealed[b.aead.NonceSize():]

	plaintext, err := b.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", ErrCiphertextMalformed
	}

	return string(plaintext), nil
}
