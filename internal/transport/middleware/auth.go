package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

type ctxKey int

const userIdKey ctxKey = 0

var errUnexpectedSigningMethod = errors.New("unexpected signing method")

// Интерфейс проверки пользователя из токена
type UserVerifier interface {
	IsActive(ctx context.Context, userId string) (bool, error)
}

type Auth struct {
	secret []byte
	users  UserVerifier
	log    *zap.Logger
}

func NewAuth(secret string, users UserVerifier, log *zap.Logger) *Auth {
	return &Auth{
		secret: []byte(secret),
		users:  users,
		log:    log,
	}
}

// Protect пропускает только запросы с валидным Bearer токеном
func (a *Auth) Protect(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userId, err := a.verify(r)
		if err != nil {
			a.log.Warn("unauthorized request",
				zap.String("request_id", chimiddleware.GetReqID(r.Context())),
				zap.String("path", r.URL.Path),
				zap.Error(err),
			)
			writeUnauthorized(w)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userId)))
	})
}

// Optional кладет userId в контекст, если токен есть и валиден; иначе пропускает анонимно
func (a *Auth) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" {
			next.ServeHTTP(w, r)
			return
		}

		userId, err := a.verify(r)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userId)))
	})
}

func (a *Auth) verify(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || raw == "" {
		return "", errors.New("missing bearer token")
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("%w: %v", errUnexpectedSigningMethod, t.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil || !token.Valid {
		return "", fmt.Errorf("invalid token: %w", err)
	}
	if claims.Subject == "" {
		return "", errors.New("token has no subject")
	}

	// Деактивированный пользователь теряет доступ сразу, не дожидаясь истечения токена
	active, err := a.users.IsActive(r.Context(), claims.Subject)
	if err != nil {
		return "", fmt.Errorf("verify user: %w", err)
	}
	if !active {
		return "", errors.New("user is deactivated")
	}

	return claims.Subject, nil
}

// WithUserID кладет идентификатор пользователя в контекст запроса
func WithUserID(ctx context.Context, userId string) context.Context {
	return context.WithValue(ctx, userIdKey, userId)
}

// UserID достает идентификатор пользователя, положенный auth middleware
func UserID(ctx context.Context) (string, bool) {
	userId, ok := ctx.Value(userIdKey).(string)
	return userId, ok
}

func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"message": "not authorized to access this route",
		"code":    "UNAUTHORIZED",
	})
}
