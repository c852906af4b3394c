package domain

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Environment constants
const (
	EnvTest = "test"
	EnvLive = "live"
)

// KeyTypeSecret prefixes server-side API keys
const KeyTypeSecret = "sk"

const (
	apiKeyLength    = 32
	keyPrefixLength = 14
	base62Chars     = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
)

var validEnvironments = map[string]bool{
	EnvTest: true,
	EnvLive: true,
}

// APIKey authenticates a client of the analysis API
type APIKey struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	KeyHash     string     `json:"-"`
	KeyPrefix   string     `json:"key_prefix"`
	Environment string     `json:"environment"`
	IsActive    bool       `json:"is_active"`
	LastUsedAt  *time.Time `json:"last_used_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// GenerateAPIKey returns (plainKey, hash, prefix).
// Format: sk_<env>_<32 base62 chars>, e.g. sk_test_A1b2C3...
func GenerateAPIKey(env string) (string, string, string, error) {
	if !validEnvironments[env] {
		return "", "", "", errors.New("invalid environment: must be 'test' or 'live'")
	}

	randomPart, err := generateSecureRandomString(apiKeyLength)
	if err != nil {
		return "", "", "", err
	}

	plainKey := KeyTypeSecret + "_" + env + "_" + randomPart
	return plainKey, HashAPIKey(plainKey), plainKey[:keyPrefixLength], nil
}

// HashAPIKey returns the hex SHA-256 of key
func HashAPIKey(key string) string {
	hash := sha256.Sum256([]byte(key))
	return hex.EncodeToString(hash[:])
}

// IsValidFormat reports whether key looks like sk_<env>_<32 base62 chars>
func IsValidFormat(key string) bool {
	parts := strings.SplitN(key, "_", 3)
	if len(parts) != 3 {
		return false
	}
	if parts[0] != KeyTypeSecret || !validEnvironments[parts[1]] {
		return false
	}
	if len(parts[2]) != apiKeyLength {
		return false
	}
	for _, char := range parts[2] {
		if !strings.ContainsRune(base62Chars, char) {
			return false
		}
	}
	return true
}

// Validate checks the fields required before persisting a key
func (a *APIKey) Validate() error {
	if a.Name == "" {
		return errors.New("name cannot be empty")
	}
	if a.KeyHash == "" {
		return errors.New("key_hash cannot be empty")
	}
	if a.KeyPrefix == "" {
		return errors.New("key_prefix cannot be empty")
	}
	if !validEnvironments[a.Environment] {
		return errors.New("invalid environment")
	}
	return nil
}

func generateSecureRandomString(length int) (string, error) {
	result := make([]byte, length)
	base62Len := big.NewInt(int64(len(base62Chars)))

	for i := 0; i < length; i++ {
		num, err := rand.Int(rand.Reader, base62Len)
		if err != nil {
			return "", err
		}
		result[i] = base62Chars[num.Int64()]
	}

	return string(result), nil
}
