package utils // package utils provides password hashing and token issuing

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/odontolegal/forensic-api/internal/model"
)

// ErrInvalidToken is returned for any token that fails verification:
// bad signature, wrong algorithm, malformed claims or expiry.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the payload of an access token.  The subject carries the user
// id; role is the user's profile at issue time.
type Claims struct {
	Role model.Role `json:"role"`
	jwt.RegisteredClaims
}

// Identity is what a verified token proves about the caller.
type Identity struct {
	UserID string
	Role   model.Role
}

// AccessToken is a signed token together with its expiry.
type AccessToken struct {
	Token string
	Exp   time.Time
}

// TokenManager signs and verifies HS256 access tokens.  The secret is
// injected once at construction.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenManager{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// WithClock returns a copy using now as the time source.
func (m *TokenManager) WithClock(now func() time.Time) *TokenManager {
	cp := *m
	cp.now = now
	return &cp
}

// Issue builds and signs a token for userID with the given role.  Claims are
// sub, role, iat and exp.
func (m *TokenManager) Issue(userID string, role model.Role) (AccessToken, error) {
	iat := m.now().UTC()
	exp := iat.Add(m.ttl)
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(iat),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}

// Verify parses raw and returns the identity it carries.  Every failure
// collapses to ErrInvalidToken.
func (m *TokenManager) Verify(raw string) (Identity, error) {
	var claims Claims
	tok, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !tok.Valid {
		return Identity{}, ErrInvalidToken
	}
	if claims.Subject == "" || !claims.Role.Valid() {
		return Identity{}, ErrInvalidToken
	}
	return Identity{UserID: claims.Subject, Role: claims.Role}, nil
}
