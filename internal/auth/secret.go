// Package auth guards the trigger with a shared secret.
package auth

import (
	"crypto/subtle"

	"github.com/fekuna/omnipos-inventory-snapshot/internal/apperr"
	"github.com/fekuna/omnipos-inventory-snapshot/pkg/logger"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const DefaultSecretHeader = "X-Trigger-Secret"

// CheckSecret compares in constant time. An unset expected secret rejects everything.
func CheckSecret(expected, got string) error {
	switch {
	case expected == "":
		return &apperr.AuthorizationError{Reason: "trigger secret not configured"}
	case got == "":
		return &apperr.AuthorizationError{Reason: "missing trigger secret"}
	case subtle.ConstantTimeCompare([]byte(expected), []byte(got)) != 1:
		return &apperr.AuthorizationError{Reason: "trigger secret mismatch"}
	}
	return nil
}

// SecretMiddleware rejects requests whose header does not carry secret.
func SecretMiddleware(header, secret string, log logger.ZapLogger) fiber.Handler {
	if header == "" {
		header = DefaultSecretHeader
	}
	return func(c *fiber.Ctx) error {
		if err := CheckSecret(secret, c.Get(header)); err != nil {
			log.Warn("trigger rejected",
				zap.String("ip", c.IP()),
				zap.Error(err),
			)
			return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
		}
		return c.Next()
	}
}
