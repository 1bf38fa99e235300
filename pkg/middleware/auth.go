package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"staysdash/pkg/logger"
)

// BearerAuth rejects requests whose Authorization header does not carry the
// configured API token. Comparison is constant-time. A missing header yields
// 401, a present-but-wrong token 403; neither reaches the wrapped handler,
// so failed auth can never mutate storage or cache state.
func BearerAuth(apiToken string, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := extractBearerToken(r)
			if !ok {
				logAndReject(w, log, r, http.StatusUnauthorized, "Missing bearer token")
				return
			}

			if subtle.ConstantTimeCompare([]byte(token), []byte(apiToken)) != 1 {
				logAndReject(w, log, r, http.StatusForbidden, "Invalid bearer token")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func extractBearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}

	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		return "", false
	}

	return token, true
}

func logAndReject(w http.ResponseWriter, log *logger.Logger, r *http.Request, status int, reason string) {
	log.Warn("Request authentication failed",
		"request_id", RequestID(r.Context()),
		"reason", reason,
		"path", r.URL.Path,
		"remote_addr", r.RemoteAddr,
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`{"error":"Unauthorized"}`))
}
