package okx

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"time"
)

// timestampLayout is the ISO-8601 millisecond format OKX v5 expects in the
// OK-ACCESS-TIMESTAMP header and the signature prehash.
const timestampLayout = "2006-01-02T15:04:05.000Z"

// Signer produces OKX v5 API authentication signatures
type Signer struct {
	accessKey  string
	secretKey  string
	passphrase string
}

// NewSigner creates a new Signer instance
func NewSigner(accessKey, secretKey, passphrase string) *Signer {
	return &Signer{
		accessKey:  accessKey,
		secretKey:  secretKey,
		passphrase: passphrase,
	}
}

// Timestamp formats an instant the way OKX expects it. Generated once per
// outbound call and reused for both the header and the prehash.
func (s *Signer) Timestamp(now time.Time) string {
	return now.UTC().Format(timestampLayout)
}

// Sign computes the signature over the exact concatenation
// timestamp + method + requestPath + body, with no separators. body is the
// empty string for requests without a payload; requestPath includes the
// query string when present.
func (s *Signer) Sign(timestamp, method, requestPath, body string) string {
	prehash := timestamp + method + requestPath + body
	return computeHmacSha256(prehash, s.secretKey)
}

// GenerateHeaders creates the auth headers for a request. The body passed
// here must be the exact serialized bytes sent on the wire; any difference
// changes the signature and the exchange rejects the call.
func (s *Signer) GenerateHeaders(timestamp, method, requestPath, body string) map[string]string {
	return map[string]string{
		"OK-ACCESS-KEY":        s.accessKey,
		"OK-ACCESS-SIGN":       s.Sign(timestamp, method, requestPath, body),
		"OK-ACCESS-TIMESTAMP":  timestamp,
		"OK-ACCESS-PASSPHRASE": s.passphrase,
		"Content-Type":         "application/json",
	}
}

func computeHmacSha256(message string, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(message))
	return base64.StdEncoding.EncodeToString(h.Sum(nil))
}
