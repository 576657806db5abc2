package ports

import "context"

// CryptographyService covers the non-password cryptographic needs of
// the use cases. HashForSession produces the client-safe echo of a
// bearer token; raw signed tokens never leave the core.
type CryptographyService interface {
	HashForSession(ctx context.Context, data string) (string, error)
	VerifySessionHash(ctx context.Context, data, hash string) (bool, error)
	GenerateSecureRandom(length int) (string, error)
	Encrypt(ctx context.Context, data, key string) (string, error)
	Decrypt(ctx context.Context, encrypted, key string) (string, error)
}
