// Package tokencipher encrypts OAuth token material before it reaches the
// database, using nacl/secretbox with a static key from configuration.
package tokencipher

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"

	"golang.org/x/crypto/nacl/secretbox"
)

const nonceSize = 24

// Cipher seals and opens short secrets with a fixed 32-byte key.
type Cipher struct {
	key [32]byte
}

// New parses a hex-encoded 32-byte key. A short or malformed key is a startup
// configuration error, not something to limp along with.
func New(hexKey string) (*Cipher, error) {
	raw, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, fmt.Errorf("token cipher key is not valid hex: %w", err)
	}
	if len(raw) != 32 {
		return nil, fmt.Errorf("token cipher key must be 32 bytes, got %d", len(raw))
	}
	c := &Cipher{}
	copy(c.key[:], raw)
	return c, nil
}

// Encrypt seals the plaintext with a random nonce and returns base64 text
// suitable for a TEXT column. The nonce is prepended to the ciphertext.
func (c *Cipher) Encrypt(plaintext string) (string, error) {
	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}
	sealed := secretbox.Seal(nonce[:], []byte(plaintext), &nonce, &c.key)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt reverses Encrypt.
func (c *Cipher) Decrypt(encoded string) (string, error) {
	sealed, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("stored token is not valid base64: %w", err)
	}
	if len(sealed) < nonceSize {
		return "", fmt.Errorf("stored token is truncated")
	}
	var nonce [nonceSize]byte
	copy(nonce[:], sealed[:nonceSize])
	opened, ok := secretbox.Open(nil, sealed[nonceSize:], &nonce, &c.key)
	if !ok {
		return "", fmt.Errorf("stored token failed authentication")
	}
	return string(opened), nil
}
