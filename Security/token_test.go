package Security

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"TaskTracker/apperrors"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func TestTokenCodec_IssueAndVerify(t *testing.T) {
	codec := NewTokenCodec(testSecret, 10*time.Hour)

	token, expiresAt, err := codec.Issue(5, "A", "a@x.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := codec.Verify(token)
	require.NoError(t, err)

	assert.Equal(t, uint(5), claims.EmployeeID)
	assert.Equal(t, "A", claims.Name)
	assert.Equal(t, "a@x.com", claims.Email)
	assert.Equal(t, "a@x.com", claims.Subject)
	assert.True(t, claims.ExpiresAt.Time.After(claims.IssuedAt.Time))
	assert.Equal(t, 10*time.Hour, claims.ExpiresAt.Time.Sub(claims.IssuedAt.Time))
	assert.True(t, expiresAt.Equal(claims.ExpiresAt.Time))
}

func TestTokenCodec_VerifyAfterExpiry(t *testing.T) {
	issued := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	codec := NewTokenCodec(testSecret, 10*time.Hour).WithClock(func() time.Time { return issued })

	token, expiresAt, err := codec.Issue(5, "A", "a@x.com")
	require.NoError(t, err)

	tests := []struct {
		name    string
		at      time.Time
		wantErr bool
	}{
		{"just before expiry", expiresAt.Add(-time.Second), false},
		{"at expiry instant", expiresAt, true},
		{"after expiry", expiresAt.Add(time.Minute), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := codec.WithClock(func() time.Time { return tt.at }).Verify(token)
			if tt.wantErr {
				assert.Nil(t, claims)
				assert.ErrorIs(t, err, apperrors.ErrTokenExpired)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, uint(5), claims.EmployeeID)
		})
	}
}

func TestTokenCodec_RejectsTamperedSignature(t *testing.T) {
	codec := NewTokenCodec(testSecret, time.Hour)
	token, _, err := codec.Issue(5, "A", "a@x.com")
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	claims, err := codec.Verify(tampered)
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)
}

func TestTokenCodec_RejectsInvalidTokens(t *testing.T) {
	codec := NewTokenCodec(testSecret, time.Hour)

	otherKey, _, err := NewTokenCodec([]byte("another-secret-another-secret-xx"), time.Hour).Issue(5, "A", "a@x.com")
	require.NoError(t, err)

	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		EmployeeID: 5,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{
		EmployeeID: 5,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString(testSecret)
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{EmployeeID: 5}).SignedString(testSecret)
	require.NoError(t, err)

	tests := map[string]string{
		"empty":          "",
		"garbage":        "not-a-token",
		"two segments":   "abc.def",
		"wrong key":      otherKey,
		"alg none":       noneToken,
		"unexpected alg": hs512,
		"missing expiry": noExpiry,
	}

	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			claims, err := codec.Verify(token)
			assert.Nil(t, claims)
			assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)
		})
	}
}

func TestTokenCodec_SecretCopied(t *testing.T) {
	secret := append([]byte(nil), testSecret...)
	codec := NewTokenCodec(secret, time.Hour)
	token, _, err := codec.Issue(1, "A", "a@x.com")
	require.NoError(t, err)

	secret[0] ^= 0xff

	_, err = codec.Verify(token)
	assert.NoError(t, err)
}

func TestPassword_HashAndCheck(t *testing.T) {
	hash, err := HashPassword("s3cret", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", hash)

	ok, err := CheckPassword(hash, "s3cret")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = CheckPassword(hash, "wrong")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = CheckPassword("plaintext-not-a-hash", "s3cret")
	assert.Error(t, err)
}
