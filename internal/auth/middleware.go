package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/dgrijalva/jwt-go"
)

type contextKey string

const actorKey contextKey = "actor"

// AnonymousActor is attributed when a request carries no usable token.
const AnonymousActor = "anonymous"

// Middleware extracts the acting username from a bearer token and
// attaches it to the request context for audit attribution. It never
// rejects a request: authorization is assumed to have happened before
// this service is called, attribution is all we need here.
func Middleware(secret string) func(http.Handler) http.Handler {
	key := []byte(secret)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor := AnonymousActor
			if raw := bearerToken(r); raw != "" {
				claims := &jwt.StandardClaims{}
				token, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
					return key, nil
				})
				if err == nil && token.Valid && claims.Subject != "" {
					actor = claims.Subject
				}
			}
			ctx := context.WithValue(r.Context(), actorKey, actor)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Actor returns the username attached by Middleware, or
// AnonymousActor when the request never passed through it.
func Actor(ctx context.Context) string {
	if v, ok := ctx.Value(actorKey).(string); ok && v != "" {
		return v
	}
	return AnonymousActor
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return ""
}
