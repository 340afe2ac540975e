package middleware

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"strings"

	"github.com/BECOF-Cons/becof-website-sub000/internal/api/handlers"
)

const (
	// SignatureHeader заголовок с HMAC-SHA256 тела callback'а (hex)
	SignatureHeader = "X-Signature"

	msgInvalidSignature = "некорректная подпись запроса"
	msgInvalidBody      = "некорректное тело запроса"

	maxWebhookBody = 1 << 20
)

// WebhookSignature проверяет подпись callback'а платёжного шлюза
// Пустой secret отключает проверку
func WebhookSignature(secret string, logger Logger) func(http.Handler) http.Handler {
	key := []byte(secret)

	return func(next http.Handler) http.Handler {
		if len(key) == 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
			if err != nil {
				logger.Warn("%s %s - failed to read body: %v", r.Method, r.URL.Path, err)
				handlers.RespondBadRequest(w, msgInvalidBody)
				return
			}

			if !ValidSignature(key, body, r.Header.Get(SignatureHeader)) {
				logger.Warn("%s %s - invalid signature", r.Method, r.URL.Path)
				handlers.RespondUnauthorized(w, msgInvalidSignature)
				return
			}

			r.Body = io.NopCloser(bytes.NewReader(body))
			next.ServeHTTP(w, r)
		})
	}
}

// Sign hex HMAC-SHA256 тела
func Sign(key, body []byte) string {
	mac := hmac.New(sha256.New, key)
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// ValidSignature сравнение за постоянное время, допускается префикс "sha256="
func ValidSignature(key, body []byte, signature string) bool {
	signature = strings.TrimPrefix(strings.TrimSpace(signature), "sha256=")
	got, err := hex.DecodeString(signature)
	if err != nil || len(got) == 0 {
		return false
	}

	expected, _ := hex.DecodeString(Sign(key, body))
	return hmac.Equal(got, expected)
}
