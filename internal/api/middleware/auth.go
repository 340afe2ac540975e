package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/BECOF-Cons/becof-website-sub000/internal/api/handlers"
)

const (
	// RoleAdmin роль, дающая доступ к управлению записями
	RoleAdmin = "admin"

	msgUnauthorized = "требуется авторизация администратора"
)

var ErrInvalidToken = errors.New("middleware: invalid token")

type contextKey string

const actorKey contextKey = "actor"

// AdminClaims claims токена администратора
// Subject используется как идентификатор актора (booked_by, журнал изменений)
type AdminClaims struct {
	Role  string `json:"role"`
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// AdminAuth проверяет Bearer JWT (HS256) и кладёт актора в контекст
func AdminAuth(secret string, logger Logger) func(http.Handler) http.Handler {
	key := []byte(secret)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearerToken(r)
			if !ok {
				logger.Warn("%s %s - missing bearer token", r.Method, r.URL.Path)
				handlers.RespondUnauthorized(w, msgUnauthorized)
				return
			}

			claims, err := ParseAdminToken(key, raw)
			if err != nil {
				logger.Warn("%s %s - rejected token: %v", r.Method, r.URL.Path, err)
				handlers.RespondUnauthorized(w, msgUnauthorized)
				return
			}

			ctx := WithActor(r.Context(), claims.actor())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAdminAuth как AdminAuth, но запрос без заголовка Authorization пропускается анонимно
// Клиент может записаться или отменить запись сам, администратор делает это от своего имени
func OptionalAdminAuth(secret string, logger Logger) func(http.Handler) http.Handler {
	strict := AdminAuth(secret, logger)

	return func(next http.Handler) http.Handler {
		authenticated := strict(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") == "" {
				next.ServeHTTP(w, r)
				return
			}
			authenticated.ServeHTTP(w, r)
		})
	}
}

// ParseAdminToken проверяет подпись, срок действия и роль
func ParseAdminToken(key []byte, raw string) (*AdminClaims, error) {
	if len(key) == 0 {
		return nil, fmt.Errorf("%w: signing key is not configured", ErrInvalidToken)
	}

	token, err := jwt.ParseWithClaims(raw, &AdminClaims{}, func(t *jwt.Token) (interface{}, error) {
		return key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*AdminClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Role != RoleAdmin {
		return nil, fmt.Errorf("%w: role %q is not allowed", ErrInvalidToken, claims.Role)
	}
	if claims.actor() == "" {
		return nil, fmt.Errorf("%w: token has no subject", ErrInvalidToken)
	}

	return claims, nil
}

// WithActor кладёт идентификатор администратора в контекст
func WithActor(ctx context.Context, actor string) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// GetActor извлекает идентификатор администратора из контекста
func GetActor(ctx context.Context) (string, bool) {
	actor, ok := ctx.Value(actorKey).(string)
	return actor, ok && actor != ""
}

func (c *AdminClaims) actor() string {
	if c.Subject != "" {
		return c.Subject
	}
	return c.Email
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
