package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/pratty2304/MedConnect/internal/models"
)

type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

var (
	// ErrInvalidToken covers malformed tokens, bad signatures and wrong
	// signing methods. Possible tampering; logged at a higher severity.
	ErrInvalidToken = errors.New("invalid token")
	// ErrExpiredToken is the routine case of a token past its expiry.
	ErrExpiredToken = errors.New("token expired")
)

// TokenClaims are the fields embedded in every bearer token.
type TokenClaims struct {
	UserID    string          `json:"sub"`
	Role      models.UserRole `json:"role"`
	TokenType TokenType       `json:"typ"`
	jwt.RegisteredClaims
}

// TokenIssuer mints and validates HS256-signed access/refresh token
// pairs carrying identity and role claims.
type TokenIssuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewTokenIssuer(secret string, accessTTL, refreshTTL time.Duration) *TokenIssuer {
	if accessTTL <= 0 {
		accessTTL = time.Hour
	}
	if refreshTTL <= 0 {
		refreshTTL = 30 * 24 * time.Hour
	}
	return &TokenIssuer{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

// SetClock overrides the issuer's time source. Test use only.
func (i *TokenIssuer) SetClock(now func() time.Time) {
	i.now = now
}

// Issue returns a signed access/refresh token pair for the identity.
func (i *TokenIssuer) Issue(userID uuid.UUID, role models.UserRole) (string, string, error) {
	access, err := i.sign(userID, role, TokenTypeAccess, i.accessTTL)
	if err != nil {
		return "", "", err
	}
	refresh, err := i.sign(userID, role, TokenTypeRefresh, i.refreshTTL)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

// IssueAccess mints a single access token, used by the refresh exchange.
func (i *TokenIssuer) IssueAccess(userID uuid.UUID, role models.UserRole) (string, error) {
	return i.sign(userID, role, TokenTypeAccess, i.accessTTL)
}

func (i *TokenIssuer) sign(userID uuid.UUID, role models.UserRole, typ TokenType, ttl time.Duration) (string, error) {
	now := i.now().UTC()
	claims := TokenClaims{
		UserID:    userID.String(),
		Role:      role,
		TokenType: typ,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(i.secret)
}

// Decode parses and validates a token string. It returns ErrExpiredToken
// for a well-signed token past its expiry and ErrInvalidToken for
// everything else that fails validation.
func (i *TokenIssuer) Decode(tokenStr string) (*TokenClaims, error) {
	claims := &TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return i.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return i.now() }))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// DecodeAccess decodes a token and additionally requires it to be an
// access token; refresh tokens never authorize a request directly.
func (i *TokenIssuer) DecodeAccess(tokenStr string) (*TokenClaims, error) {
	claims, err := i.Decode(tokenStr)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != TokenTypeAccess {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// DecodeRefresh decodes a token and requires it to be a refresh token.
func (i *TokenIssuer) DecodeRefresh(tokenStr string) (*TokenClaims, error) {
	claims, err := i.Decode(tokenStr)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != TokenTypeRefresh {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
