package execution

import (
	"crypto/subtle"

	"okx_bridge/internal/domain"
)

// Authenticate checks the inbound signal's shared secret. The comparison is
// exact and constant-time; an empty inbound secret is always rejected, even
// against an empty expected value, so a misconfigured secret can never
// disable auth. (Config validation makes an empty configured secret a
// startup error anyway.)
func Authenticate(sig *domain.Signal, expectedSecret string) error {
	if sig.Secret == "" {
		return domain.ErrUnauthorized
	}
	if subtle.ConstantTimeCompare([]byte(sig.Secret), []byte(expectedSecret)) != 1 {
		return domain.ErrUnauthorized
	}
	return nil
}
