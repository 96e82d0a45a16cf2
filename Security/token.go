package Security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"TaskTracker/apperrors"
)

// Claims is the identity carried inside a session token.
type Claims struct {
	EmployeeID uint   `json:"empId"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	jwt.RegisteredClaims
}

// TokenCodec issues and verifies HS256 session tokens. It holds no mutable
// state and is safe for concurrent use.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
	parser *jwt.Parser
}

// NewTokenCodec creates a codec signing with secret; tokens expire ttl after issuance.
func NewTokenCodec(secret []byte, ttl time.Duration) *TokenCodec {
	key := make([]byte, len(secret))
	copy(key, secret)
	return &TokenCodec{
		secret: key,
		ttl:    ttl,
		now:    time.Now,
		// Expiry is checked against the codec clock below.
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithoutClaimsValidation(),
		),
	}
}

// WithClock returns a copy of the codec reading time from now.
func (c *TokenCodec) WithClock(now func() time.Time) *TokenCodec {
	clone := *c
	clone.now = now
	return &clone
}

// TTL is the validity window of issued tokens.
func (c *TokenCodec) TTL() time.Duration {
	return c.ttl
}

// Issue signs a token for the employee.
func (c *TokenCodec) Issue(employeeID uint, name, email string) (string, time.Time, error) {
	issuedAt := c.now().Truncate(time.Second)
	expiresAt := issuedAt.Add(c.ttl)

	claims := Claims{
		EmployeeID: employeeID,
		Name:       name,
		Email:      email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Verify checks signature and expiry and returns the embedded claims.
// Malformed, tampered and expired tokens all produce an error.
func (c *TokenCodec) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := c.parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return c.secret, nil
	})
	if err != nil {
		return nil, apperrors.NewTokenInvalid(err)
	}
	if !token.Valid {
		return nil, apperrors.NewTokenInvalid(errors.New("token signature not valid"))
	}

	if claims.ExpiresAt == nil {
		return nil, apperrors.NewTokenInvalid(errors.New("token has no expiration"))
	}
	if !claims.VerifyExpiresAt(c.now(), true) {
		return nil, apperrors.NewTokenExpired(nil)
	}
	if claims.EmployeeID == 0 {
		return nil, apperrors.NewTokenInvalid(errors.New("token has no employee id"))
	}
	return claims, nil
}
