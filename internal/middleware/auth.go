package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/segyhp/vehicle-loan-engine/internal/config"
	"github.com/segyhp/vehicle-loan-engine/internal/domain"
	"github.com/segyhp/vehicle-loan-engine/pkg/response"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
)

type contextKey struct{}

// Claims carries the role and the agent or customer id of the caller.
type Claims struct {
	Role        domain.Role `json:"role"`
	PrincipalID string      `json:"pid,omitempty"`
	jwt.RegisteredClaims
}

// Authenticator issues and verifies HS256 bearer tokens.
type Authenticator struct {
	enabled bool
	secret  []byte
	ttl     time.Duration
	issuer  string
	now     func() time.Time
}

func NewAuthenticator(cfg config.AuthConfig) *Authenticator {
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Authenticator{
		enabled: cfg.Enabled,
		secret:  []byte(cfg.JWTSecret),
		ttl:     ttl,
		issuer:  cfg.Issuer,
		now:     time.Now,
	}
}

// IssueToken signs a token for p.
func (a *Authenticator) IssueToken(p domain.Principal) (string, error) {
	if !p.Role.Valid() {
		return "", fmt.Errorf("unknown role %q", p.Role)
	}
	if p.Role != domain.RoleAdmin && p.ID == uuid.Nil {
		return "", fmt.Errorf("%s token needs a principal id", p.Role)
	}

	now := a.now()
	claims := Claims{
		Role: p.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.Subject,
			Issuer:    a.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
		},
	}
	if p.ID != uuid.Nil {
		claims.PrincipalID = p.ID.String()
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

// ParseToken validates tokenString and returns the caller it names.
func (a *Authenticator) ParseToken(tokenString string) (*domain.Principal, error) {
	claims := &Claims{}
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(a.now),
	}
	if a.issuer != "" {
		opts = append(opts, jwt.WithIssuer(a.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return a.secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	if !token.Valid || !claims.Role.Valid() {
		return nil, ErrInvalidToken
	}

	p := &domain.Principal{Subject: claims.Subject, Role: claims.Role}
	if claims.PrincipalID != "" {
		id, err := uuid.Parse(claims.PrincipalID)
		if err != nil {
			return nil, ErrInvalidToken
		}
		p.ID = id
	}
	if p.Role != domain.RoleAdmin && p.ID == uuid.Nil {
		return nil, ErrInvalidToken
	}
	return p, nil
}

// Authenticate rejects requests without a valid bearer token. With auth
// disabled every request runs as an anonymous admin.
func (a *Authenticator) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !a.enabled {
			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), &domain.Principal{Subject: "anonymous", Role: domain.RoleAdmin})))
			return
		}

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			response.Unauthorized(w, "Authorization header required")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			response.Unauthorized(w, "Invalid authorization header format")
			return
		}

		principal, err := a.ParseToken(parts[1])
		if err != nil {
			response.Unauthorized(w, "Invalid or expired token")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
	})
}

// RequireRole lets through callers holding one of roles.
func RequireRole(roles ...domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := PrincipalFromContext(r.Context())
			if !ok {
				response.Unauthorized(w, "Authentication required")
				return
			}
			for _, role := range roles {
				if p.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			response.Forbidden(w, "Insufficient role")
		})
	}
}

func WithPrincipal(ctx context.Context, p *domain.Principal) context.Context {
	return context.WithValue(ctx, contextKey{}, p)
}

func PrincipalFromContext(ctx context.Context) (*domain.Principal, bool) {
	p, ok := ctx.Value(contextKey{}).(*domain.Principal)
	return p, ok && p != nil
}
