package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/tasknest/vault-backend/interfaces"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"

	// DefaultAccessTTL bounds how long a stolen access token is useful.
	DefaultAccessTTL = 15 * time.Minute

	// DefaultRefreshTTL is how long a session survives without re-login.
	DefaultRefreshTTL = 7 * 24 * time.Hour
)

// ErrInvalidToken is returned for any token that fails verification:
// expired, malformed, wrong signature, or wrong token type.
var ErrInvalidToken = errors.New("invalid token")

// TokenIssuer mints and verifies HS256 access/refresh token pairs.
type TokenIssuer struct {
	secret     []byte
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// TokenPair is the credential set returned at login.
type TokenPair struct {
	Access  string
	Refresh string
}

// NewTokenIssuer creates an issuer from a signing secret. The secret must be
// non-empty; there is no insecure default.
func NewTokenIssuer(secret []byte, issuer string) (*TokenIssuer, error) {
	if len(secret) == 0 {
		return nil, fmt.Errorf("%w: empty jwt secret", interfaces.ErrInvalidParameter)
	}
	return &TokenIssuer{
		secret:     secret,
		issuer:     issuer,
		accessTTL:  DefaultAccessTTL,
		refreshTTL: DefaultRefreshTTL,
	}, nil
}

// IssuePair mints a fresh access/refresh pair for a user.
func (i *TokenIssuer) IssuePair(user interfaces.UserID) (*TokenPair, error) {
	access, err := i.issue(user, tokenTypeAccess, i.accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := i.issue(user, tokenTypeRefresh, i.refreshTTL)
	if err != nil {
		return nil, err
	}
	return &TokenPair{Access: access, Refresh: refresh}, nil
}

// Refresh exchanges a valid refresh token for a new access token.
func (i *TokenIssuer) Refresh(refreshToken string) (string, error) {
	user, err := i.verify(refreshToken, tokenTypeRefresh)
	if err != nil {
		return "", err
	}
	return i.issue(user, tokenTypeAccess, i.accessTTL)
}

// VerifyAccess validates an access token and returns the user it belongs to.
func (i *TokenIssuer) VerifyAccess(token string) (interfaces.UserID, error) {
	return i.verify(token, tokenTypeAccess)
}

func (i *TokenIssuer) issue(user interfaces.UserID, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"iss":        i.issuer,
		"sub":        strconv.FormatInt(int64(user), 10),
		"iat":        now.Unix(),
		"exp":        now.Add(ttl).Unix(),
		"jti":        uuid.NewString(),
		"token_type": tokenType,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
}

func (i *TokenIssuer) verify(token, wantType string) (interfaces.UserID, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return i.secret, nil
	}, jwt.WithIssuer(i.issuer))
	if err != nil || !parsed.Valid {
		return 0, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return 0, ErrInvalidToken
	}
	if tokenType, _ := claims["token_type"].(string); tokenType != wantType {
		return 0, ErrInvalidToken
	}
	sub, _ := claims["sub"].(string)
	id, err := strconv.ParseInt(sub, 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidToken
	}
	return interfaces.UserID(id), nil
}
