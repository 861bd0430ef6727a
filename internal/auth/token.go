package auth

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleStudent Role = "student"
)

type Claims struct {
	Role      Role  `json:"role"`
	SubjectID int64 `json:"subjectId"`
	jwt.RegisteredClaims
}

// Codec signs and verifies the stateless session tokens. Tokens are HS256
// JWTs over the process-wide session secret; once issued they cannot be
// revoked before expiry, only the session table supports server-side logout.
type Codec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewCodec(secret string, ttl time.Duration) *Codec {
	return &Codec{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// WithClock replaces the clock, for simulated-time tests.
func (c *Codec) WithClock(now func() time.Time) *Codec {
	c.now = now
	return c
}

func (c *Codec) Encode(role Role, subjectID int64) (string, error) {
	now := c.now().UTC()
	claims := Claims{
		Role:      role,
		SubjectID: subjectID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(subjectID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.secret)
}

// Decode returns the claims carried by a token. Malformed, tampered and
// expired tokens all come back as an error; callers treat them identically.
func (c *Codec) Decode(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(_ *jwt.Token) (interface{}, error) {
		return c.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithTimeFunc(c.now))
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	if claims.Role != RoleAdmin && claims.Role != RoleStudent {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}
