package handlers

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/username/adlytics/backend/src/logger"
)

const csrfCookieName = "_csrf_token"

// GetCSRFToken issues a double-submit CSRF token: the same value goes into an
// HttpOnly cookie and the response header/body. Mutating requests must echo
// it back in X-CSRF-Token.
func GetCSRFToken(w http.ResponseWriter, r *http.Request) {
	token := generateRandomToken()

	http.SetCookie(w, &http.Cookie{
		Name:     csrfCookieName,
		Value:    token,
		Path:     "/",
		SameSite: http.SameSiteLaxMode,
		HttpOnly: true,
		Secure:   false, // behind TLS termination in production
		MaxAge:   3600,
	})

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-CSRF-Token", token)
	json.NewEncoder(w).Encode(map[string]string{
		"csrfToken": token,
	})
}

func generateRandomToken() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		logger.L.Error("Failed to generate random CSRF bytes, falling back to timestamp", "error", err)
		return fmt.Sprintf("%d", time.Now().UnixNano())
	}
	return base64.StdEncoding.EncodeToString(b)
}

// CSRFMiddleware validates the double-submit token on every non-GET request.
// Tokens are compared with a keyed HMAC so timing is independent of content.
func CSRFMiddleware(authKey []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions || r.Method == http.MethodGet || r.Method == http.MethodHead {
				next.ServeHTTP(w, r)
				return
			}

			headerToken := r.Header.Get("X-CSRF-Token")
			cookie, err := r.Cookie(csrfCookieName)
			if headerToken != "" && err == nil && tokensMatch(authKey, headerToken, cookie.Value) {
				next.ServeHTTP(w, r)
				return
			}

			logger.L.Warn("CSRF validation failed",
				"method", r.Method,
				"path", r.URL.Path,
				"origin", r.Header.Get("Origin"),
				"hasHeaderToken", headerToken != "",
				"cookieErr", err)
			http.Error(w, "CSRF token validation failed", http.StatusForbidden)
		})
	}
}

func tokensMatch(key []byte, a, b string) bool {
	macA := hmac.New(sha256.New, key)
	macA.Write([]byte(a))
	macB := hmac.New(sha256.New, key)
	macB.Write([]byte(b))
	return hmac.Equal(macA.Sum(nil), macB.Sum(nil))
}
