package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL matches the original deployment's 24-hour cookie.
const DefaultTokenTTL = 24 * time.Hour

// Claims is the payload carried by a bearer token: account id in the
// registered subject plus the role.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// TokenConfig configures a TokenManager. Secret is process-wide and
// mandatory; the server refuses to start without it.
type TokenConfig struct {
	Secret []byte
	TTL    time.Duration
}

// TokenManager signs and verifies compact HS256 bearer tokens. Safe for
// concurrent use after construction.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenManager validates the config and returns a ready manager.
func NewTokenManager(cfg TokenConfig) (*TokenManager, error) {
	if len(cfg.Secret) == 0 {
		return nil, errors.New("token signing secret is required")
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTokenTTL
	}
	return &TokenManager{secret: cfg.Secret, ttl: cfg.TTL}, nil
}

// TTL returns the lifetime stamped into issued tokens.
func (m *TokenManager) TTL() time.Duration {
	return m.ttl
}

// Issue creates a signed token for accountID with an absolute expiry exactly
// TTL from now.
func (m *TokenManager) Issue(accountID, role string) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   accountID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// Verify checks signature and expiry and returns the embedded identity.
// Every failure mode collapses into ErrTokenInvalid so callers cannot leak
// whether a token was malformed, forged, or merely expired.
func (m *TokenManager) Verify(token string) (accountID, role string, err error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	parsed, err := parser.ParseWithClaims(token, &Claims{}, func(*jwt.Token) (interface{}, error) {
		return m.secret, nil
	})
	if err != nil {
		return "", "", ErrTokenInvalid
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.Subject == "" {
		return "", "", ErrTokenInvalid
	}
	return claims.Subject, claims.Role, nil
}
