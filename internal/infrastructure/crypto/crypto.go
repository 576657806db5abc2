package crypto

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
)

var errCiphertextTooShort = errors.New("ciphertext too short")

// Service implements the cryptography port. Session-bound token
// fingerprints are SHA-256 hex digests; Encrypt/Decrypt use AES-256-GCM
// with a key derived from the caller-supplied secret.
type Service struct{}

func NewService() *Service {
	return &Service{}
}

// HashForSession produces the fingerprint handed to clients instead of
// the raw token. Deterministic, so the same token always maps to the
// same fingerprint.
func (s *Service) HashForSession(ctx context.Context, data string) (string, error) {
	sum := sha256.Sum256([]byte(data))
	return hex.EncodeToString(sum[:]), nil
}

// VerifySessionHash compares a raw value against a fingerprint in
// constant time.
func (s *Service) VerifySessionHash(ctx context.Context, data, hash string) (bool, error) {
	computed, err := s.HashForSession(ctx, data)
	if err != nil {
		return false, err
	}
	return hmac.Equal([]byte(computed), []byte(hash)), nil
}

// GenerateSecureRandom returns length random bytes hex-encoded.
func (s *Service) GenerateSecureRandom(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("invalid random length %d", length)
	}
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// Encrypt seals data with AES-256-GCM under a key derived from the
// secret and returns hex(nonce||ciphertext).
func (s *Service) Encrypt(ctx context.Context, data, key string) (string, error) {
	gcm, err := deriveGCM(key)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("read nonce: %w", err)
	}

	sealed := gcm.Seal(nonce, nonce, []byte(data), nil)
	return hex.EncodeToString(sealed), nil
}

// Decrypt reverses Encrypt. Tampered or truncated input fails the GCM
// tag check and returns an error.
func (s *Service) Decrypt(ctx context.Context, encrypted, key string) (string, error) {
	raw, err := hex.DecodeString(encrypted)
	if err != nil {
		return "", fmt.Errorf("decode ciphertext: %w", err)
	}

	gcm, err := deriveGCM(key)
	if err != nil {
		return "", err
	}
	if len(raw) < gcm.NonceSize() {
		return "", errCiphertextTooShort
	}

	nonce, ciphertext := raw[:gcm.NonceSize()], raw[gcm.NonceSize():]
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("open ciphertext: %w", err)
	}
	return string(plaintext), nil
}

func deriveGCM(key string) (cipher.AEAD, error) {
	derived := sha256.Sum256([]byte(key))
	block, err := aes.NewCipher(derived[:])
	if err != nil {
		return nil, fmt.Errorf("new cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("new gcm: %w", err)
	}
	return gcm, nil
}
