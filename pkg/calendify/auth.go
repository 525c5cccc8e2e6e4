package calendify

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/sarveshmina/calendify/pkg/models"
)

// tokenTTL is how long a session token stays valid.
const tokenTTL = 72 * time.Hour

type contextKey string

// userIDKey carries the authenticated UserID through the request context.
const userIDKey contextKey = "userID"

// issueToken signs an HS256 session token carrying the user's ID.
func (a *App) issueToken(userID models.UserID) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userId": userID.String(),
		"exp":    time.Now().Add(tokenTTL).Unix(),
		"iat":    time.Now().Unix(),
	})
	signed, err := token.SignedString([]byte(a.config.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// parseToken verifies the signature and expiry and extracts the user ID.
func (a *App) parseToken(tokenStr string) (models.UserID, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(a.config.JWTSecret), nil
	})
	if err != nil {
		return models.UserID{}, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return models.UserID{}, fmt.Errorf("invalid token claims")
	}
	raw, ok := claims["userId"].(string)
	if !ok {
		return models.UserID{}, fmt.Errorf("token has no userId claim")
	}
	id, err := models.ParseUserID(raw)
	if err != nil {
		return models.UserID{}, fmt.Errorf("token userId is not a valid ID: %w", err)
	}
	return id, nil
}

// authMiddleware validates the bearer token and stashes the user ID in the
// request context for handlers to pick up with currentUserID.
func (a *App) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			respondError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		userID, err := a.parseToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			respondError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// currentUserID returns the authenticated user placed by authMiddleware.
func currentUserID(r *http.Request) (models.UserID, bool) {
	id, ok := r.Context().Value(userIDKey).(models.UserID)
	return id, ok
}
