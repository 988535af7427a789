package security

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const webhookTolerance = 5 * time.Minute

var (
	ErrMissingHeaders   = errors.New("missing webhook headers")
	ErrTimestampSkew    = errors.New("webhook timestamp outside tolerance")
	ErrSignatureInvalid = errors.New("no matching webhook signature")
)

// WebhookVerifier checks svix style signatures: HMAC-SHA256 over
// "id.timestamp.body" keyed with the base64 part of a whsec_ secret.
type WebhookVerifier struct {
	key []byte
	now func() time.Time
}

func NewWebhookVerifier(secret string) (*WebhookVerifier, error) {
	key, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(secret, "whsec_"))
	if err != nil {
		return nil, fmt.Errorf("decode webhook secret: %w", err)
	}
	if len(key) == 0 {
		return nil, errors.New("empty webhook secret")
	}
	return &WebhookVerifier{key: key, now: time.Now}, nil
}

func (v *WebhookVerifier) Verify(id, timestamp, signatures string, body []byte) error {
	if id == "" || timestamp == "" || signatures == "" {
		return ErrMissingHeaders
	}
	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return ErrTimestampSkew
	}
	sent := time.Unix(ts, 0)
	now := v.now()
	if sent.Before(now.Add(-webhookTolerance)) || sent.After(now.Add(webhookTolerance)) {
		return ErrTimestampSkew
	}

	expected := v.Sign(id, timestamp, body)
	for _, sig := range strings.Fields(signatures) {
		version, value, ok := strings.Cut(sig, ",")
		if !ok || version != "v1" {
			continue
		}
		if hmac.Equal([]byte(value), []byte(expected)) {
			return nil
		}
	}
	return ErrSignatureInvalid
}

// Sign returns the base64 v1 signature for a delivery.
func (v *WebhookVerifier) Sign(id, timestamp string, body []byte) string {
	mac := hmac.New(sha256.New, v.key)
	mac.Write([]byte(id + "." + timestamp + "."))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}
