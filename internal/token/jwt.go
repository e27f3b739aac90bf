package token

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dtroode/authcore/internal/permission"
)

// Token purposes, stored in the "typ" claim.
const (
	PurposeSession           = "session"
	PurposeEmailVerification = "email_verification"
	PurposePasswordReset     = "password_reset"
)

var (
	// ErrInvalidToken is wrapped by every verification failure.
	ErrInvalidToken = errors.New("invalid token")
	// ErrTokenExpired is wrapped when a token is past its expiry.
	ErrTokenExpired = errors.New("token expired")
)

// Claims is the signed payload of every token the codec issues.
type Claims struct {
	jwt.RegisteredClaims
	UserID      int64              `json:"id"`
	AccountID   int64              `json:"account"`
	Roles       []string           `json:"roles"`
	Permissions []permission.Grant `json:"permissions"`
	Purpose     string             `json:"typ"`
}

// Token is a parsed token.
type Token struct {
	Header    map[string]any
	Claims    *Claims
	Signature []byte
}

// Codec signs and parses HS256 tokens for a single purpose.
type Codec struct {
	secretKey []byte
	ttl       time.Duration
	purpose   string
	now       func() time.Time
}

// NewCodec creates a codec bound to one secret, default TTL and purpose.
func NewCodec(secretKey string, ttl time.Duration, purpose string) *Codec {
	return &Codec{
		secretKey: []byte(secretKey),
		ttl:       ttl,
		purpose:   purpose,
		now:       time.Now,
	}
}

// Purpose returns the purpose the codec signs for.
func (c *Codec) Purpose() string {
	return c.purpose
}

// Sign signs claims with the codec's TTL, or ttl when given.
// Issued-at, expiry, token id and purpose are always overwritten.
func (c *Codec) Sign(claims Claims, ttl ...time.Duration) (string, error) {
	lifetime := c.ttl
	if len(ttl) > 0 && ttl[0] > 0 {
		lifetime = ttl[0]
	}

	now := c.now()
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(lifetime))
	claims.ID = uuid.NewString()
	claims.Purpose = c.purpose
	if claims.Subject == "" && claims.UserID != 0 {
		claims.Subject = strconv.FormatInt(claims.UserID, 10)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(c.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign %s token: %w", c.purpose, err)
	}

	return tokenString, nil
}

// Verify parses the token and checks signature, expiry and purpose.
func (c *Codec) Verify(tokenString string) (*Token, error) {
	return c.parse(tokenString, jwt.WithTimeFunc(c.now))
}

// Decode parses the token ignoring expiry and not-before.
// Signature and purpose are still enforced.
func (c *Codec) Decode(tokenString string) (*Token, error) {
	return c.parse(tokenString, jwt.WithoutClaimsValidation())
}

func (c *Codec) parse(tokenString string, opts ...jwt.ParserOption) (*Token, error) {
	if tokenString == "" {
		return nil, fmt.Errorf("%w: empty token", ErrInvalidToken)
	}

	opts = append(opts, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("wrong signing method %v", t.Header["alg"])
		}
		return c.secretKey, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %w", ErrTokenExpired, ErrInvalidToken)
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return nil, fmt.Errorf("%w: token is invalid", ErrInvalidToken)
	}
	if claims.Purpose != c.purpose {
		return nil, fmt.Errorf("%w: token type mismatch: %s", ErrInvalidToken, claims.Purpose)
	}

	return &Token{
		Header:    parsed.Header,
		Claims:    claims,
		Signature: parsed.Signature,
	}, nil
}
