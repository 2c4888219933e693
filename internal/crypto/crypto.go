package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"
)

// NonceSize is the GCM nonce length in bytes (96 bits).
const NonceSize = 12

// Decode failures are reported categorically only; the messages carry no
// cipher-level detail that could act as a decryption oracle.
var (
	ErrInvalidEncoding      = errors.New("invalid encoding")
	ErrTruncated            = errors.New("encrypted payload too short")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrMalformedPayload     = errors.New("malformed credential payload")
)

// Codec seals and opens member credentials for transport using AES-256-GCM.
// The key is derived once from the operator shared secret and reused for
// the life of the codec.
type Codec struct {
	aead cipher.AEAD
}

// NewCodec derives a 256-bit key from sharedSecret (SHA-256) and prepares
// the AEAD cipher.
func NewCodec(sharedSecret string) (*Codec, error) {
	if sharedSecret == "" {
		return nil, errors.New("shared secret must not be empty")
	}

	key := sha256.Sum256([]byte(sharedSecret))

	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, fmt.Errorf("creating cipher: %w", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("creating GCM: %w", err)
	}

	return &Codec{aead: aead}, nil
}

// Encrypt seals username and pin into a base64 envelope of
// nonce || ciphertext || tag. Every call draws a fresh random nonce, so
// two envelopes for the same credentials never match.
func (c *Codec) Encrypt(username, pin string) (string, error) {
	plaintext := []byte(username + ":" + pin)

	nonce := make([]byte, NonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("generating nonce: %w", err)
	}

	sealed := c.aead.Seal(nonce, nonce, plaintext, nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt opens an envelope produced by Encrypt and returns the username
// and pin. The recovered plaintext is split on the first ':' only, so a
// pin containing ':' is preserved verbatim.
func (c *Codec) Decrypt(envelope string) (username, pin string, err error) {
	data, err := base64.StdEncoding.DecodeString(envelope)
	if err != nil {
		return "", "", ErrInvalidEncoding
	}

	if len(data) < NonceSize+1 {
		return "", "", ErrTruncated
	}

	nonce, ciphertext := data[:NonceSize], data[NonceSize:]

	plaintext, err := c.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", "", ErrAuthenticationFailed
	}

	username, pin, found := strings.Cut(string(plaintext), ":")
	if !found {
		return "", "", ErrMalformedPayload
	}

	return username, pin, nil
}
