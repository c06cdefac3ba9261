package app

import (
	"crypto/rand"

	"go.uber.org/zap"
)

// SessionSecret returns the configured token signing key. Without one a random key
// is generated, so sessions do not survive a restart and cannot be shared between
// instances.
func SessionSecret(configured string, logger *zap.Logger) ([]byte, error) {
	if configured != "" {
		return []byte(configured), nil
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, err
	}
	logger.Warn("AUTH_JWT_SECRET not set; using a random signing key, sessions end on restart")
	return key, nil
}
