package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/JungUiJin/faicial-ai-test/internal/domain"
)

const (
	// LocalAPIKeyID is the key to retrieve the authenticated key id from context
	LocalAPIKeyID = "api_key_id"
	// LocalAPIKey is the key to retrieve the full API key from context
	LocalAPIKey = "api_key"
)

// APIKeyLookup resolves an API key by its SHA-256 hash
type APIKeyLookup interface {
	GetByHash(ctx context.Context, hash string) (*domain.APIKey, error)
}

// LastUsedRecorder receives the ids of keys that authenticated successfully
type LastUsedRecorder interface {
	Enqueue(keyID uuid.UUID)
}

// AuthDependencies holds the collaborators of the Auth middleware
type AuthDependencies struct {
	APIKeys  APIKeyLookup
	LastUsed LastUsedRecorder
}

// Auth creates an authentication middleware using Bearer API keys
func Auth(deps AuthDependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		apiKey := extractBearerToken(c)
		if apiKey == "" {
			return domain.ErrUnauthorized
		}

		if !domain.IsValidFormat(apiKey) {
			return domain.ErrInvalidAPIKeyFormat
		}

		key, err := deps.APIKeys.GetByHash(c.Context(), domain.HashAPIKey(apiKey))
		if err != nil {
			// Not found and DB errors look the same to the caller
			return domain.ErrUnauthorized
		}

		if !key.IsActive {
			return domain.ErrAPIKeyRevoked
		}

		c.Locals(LocalAPIKeyID, key.ID)
		c.Locals(LocalAPIKey, key)

		if deps.LastUsed != nil {
			deps.LastUsed.Enqueue(key.ID)
		}

		return c.Next()
	}
}

// extractBearerToken extracts token from Authorization header
func extractBearerToken(c *fiber.Ctx) string {
	auth := c.Get("Authorization")
	if auth == "" {
		return ""
	}

	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}

// GetAPIKeyID returns the authenticated key id, or uuid.Nil when the request
// was not authenticated (auth disabled)
func GetAPIKeyID(c *fiber.Ctx) uuid.UUID {
	id, ok := c.Locals(LocalAPIKeyID).(uuid.UUID)
	if !ok {
		return uuid.Nil
	}
	return id
}

// GetAPIKey retrieves the full API key from Fiber context
func GetAPIKey(c *fiber.Ctx) (*domain.APIKey, error) {
	key, ok := c.Locals(LocalAPIKey).(*domain.APIKey)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	return key, nil
}
