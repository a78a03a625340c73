package auth

import (
	"fmt"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/card-directory/internal/domain"
)

// DefaultTokenTTL is the lifetime of an identity token.
const DefaultTokenTTL = 15 * time.Minute

// ErrInvalidToken is returned for any token that fails verification.
var ErrInvalidToken = domain.ErrInvalidToken

// TokenManager handles issuing and validating JWT tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenManager builds a new manager.
func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenManager{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// WithClock returns a copy of the manager that reads time from now.
func (tm *TokenManager) WithClock(now func() time.Time) *TokenManager {
	clone := *tm
	clone.now = now
	return &clone
}

// tokenClaims is the wire payload. Pointers detect absent claims.
type tokenClaims struct {
	UserID     *string `json:"userId"`
	IsBusiness *bool   `json:"isBusiness"`
	IsAdmin    *bool   `json:"isAdmin"`
	jwt.RegisteredClaims
}

// Issue builds and signs a JWT carrying the claims.
func (tm *TokenManager) Issue(claims domain.Claims) (string, time.Time, error) {
	issuedAt := tm.now()
	expiresAt := issuedAt.Add(tm.ttl)

	payload := &tokenClaims{
		UserID:     &claims.UserID,
		IsBusiness: &claims.IsBusiness,
		IsAdmin:    &claims.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, payload)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// Verify checks signature, expiry and claim shape. Every failure wraps
// ErrInvalidToken.
func (tm *TokenManager) Verify(tokenStr string) (*domain.Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(tm.now),
	)

	var payload tokenClaims
	parsed, err := parser.ParseWithClaims(tokenStr, &payload, func(token *jwt.Token) (interface{}, error) {
		return tm.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if payload.UserID == nil || *payload.UserID == "" || payload.IsBusiness == nil || payload.IsAdmin == nil {
		return nil, fmt.Errorf("%w: missing required claims", ErrInvalidToken)
	}

	return &domain.Claims{
		UserID:     *payload.UserID,
		IsBusiness: *payload.IsBusiness,
		IsAdmin:    *payload.IsAdmin,
	}, nil
}
