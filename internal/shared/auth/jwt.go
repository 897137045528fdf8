package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// DefaultTokenTTL is the token lifetime used when none is configured.
const DefaultTokenTTL = 15 * time.Minute

var (
	// ErrMalformedToken means the token is not a structurally valid JWT.
	ErrMalformedToken = errors.New("malformed token")
	// ErrInvalidSignature means the signature does not verify against the
	// shared secret, or the token uses an unexpected signing method.
	ErrInvalidSignature = errors.New("invalid token signature")
	// ErrTokenExpired means the exp claim has passed.
	ErrTokenExpired = errors.New("token expired")
	// ErrUnknownSubject means the token subject no longer maps to a user.
	ErrUnknownSubject = errors.New("unknown token subject")
)

// Claims is the payload carried by an access token. The subject is the
// username of the authenticated user.
type Claims struct {
	jwt.RegisteredClaims
}

// Username returns the subject claim.
func (c *Claims) Username() string {
	return c.Subject
}

// JWT issues and verifies HS256 bearer tokens. Tokens are stateless: no
// server-side record is kept and there is no revocation.
type JWT struct {
	secret []byte
	ttl    time.Duration
}

func NewJWT(secret string, ttl time.Duration) *JWT {
	if ttl == 0 {
		ttl = DefaultTokenTTL
	}
	return &JWT{secret: []byte(secret), ttl: ttl}
}

// Generate signs a token with sub=username and exp=now+ttl.
func (j *JWT) Generate(username string) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(j.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Validate parses and verifies a token, returning its claims.
func (j *JWT) Validate(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSignature
		}
		return j.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, ErrMalformedToken
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		default:
			return nil, ErrInvalidSignature
		}
	}

	if claims.Subject == "" {
		return nil, ErrMalformedToken
	}
	return claims, nil
}
