package middleware

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/davidbz/faqvoice/internal/config"
	"github.com/davidbz/faqvoice/internal/observability"
)

// Signature headers sent by the voice platform.
const (
	SignatureHeader       = "Layercode-Signature"
	LegacySignatureHeader = "X-Layercode-Signature"
)

const maxWebhookBody = 1 << 20

var (
	errMissingSignature = errors.New("missing signature")
	errMalformed        = errors.New("malformed signature")
	errExpired          = errors.New("signature timestamp outside tolerance")
	errMismatch         = errors.New("signature mismatch")
)

// Sign returns the header value for body signed at ts.
func Sign(secret string, ts time.Time, body []byte) string {
	t := strconv.FormatInt(ts.Unix(), 10)
	return "t=" + t + ",v1=" + digest(secret, t, body)
}

// Signature rejects webhook calls whose HMAC-SHA256 signature does not verify.
// Verification is skipped when no secret is configured.
func Signature(cfg *config.WebhookConfig) Middleware {
	if cfg == nil || cfg.Secret == "" {
		return noop
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := observability.FromContext(r.Context())

			body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
			if err != nil {
				http.Error(w, "failed to read body", http.StatusBadRequest)
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))

			header := r.Header.Get(SignatureHeader)
			if header == "" {
				header = r.Header.Get(LegacySignatureHeader)
			}

			if err := verify(cfg.Secret, header, body, cfg.Tolerance, time.Now()); err != nil {
				logger.Warn("webhook signature rejected", observability.Error(err))
				http.Error(w, "invalid signature", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func verify(secret, header string, body []byte, tolerance time.Duration, now time.Time) error {
	if header == "" {
		return errMissingSignature
	}

	var ts string
	var candidates []string
	for _, part := range strings.Split(header, ",") {
		k, v, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		switch k {
		case "t":
			ts = v
		case "v1":
			candidates = append(candidates, v)
		}
	}

	if ts == "" || len(candidates) == 0 {
		return errMalformed
	}

	unix, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: %w", errMalformed, err)
	}

	if tolerance > 0 {
		age := now.Sub(time.Unix(unix, 0))
		if age > tolerance || age < -tolerance {
			return errExpired
		}
	}

	expected := []byte(digest(secret, ts, body))
	for _, c := range candidates {
		if hmac.Equal(expected, []byte(strings.ToLower(c))) {
			return nil
		}
	}

	return errMismatch
}

func digest(secret, ts string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(ts))
	mac.Write([]byte("."))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}
