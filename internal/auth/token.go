// Package auth implements the session credential layer: a signed, expiring
// token carrying an identity snapshot, the bcrypt password helpers, and the
// cookie used to transport the token.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ravelor/dealer-inventory/internal/model"
)

// Decode failure kinds. Callers treat both the same way (clear the cookie,
// force re-login) but logs and tests need to tell them apart.
var (
	// ErrTokenInvalid covers malformed tokens, bad signatures, unexpected
	// signing methods and role claims outside the closed role set.
	ErrTokenInvalid = errors.New("invalid session token")
	// ErrTokenExpired means the token verified but its expiry has passed.
	ErrTokenExpired = errors.New("session token expired")
)

// Claims is the JWT payload of a session token: the identity snapshot plus
// the registered expiry/issued-at claims. The password hash is never part
// of a token.
type Claims struct {
	AccountID uint64 `json:"account_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	jwt.RegisteredClaims
}

// Codec issues and verifies session tokens. The signing secret and lifetime
// are fixed at construction; Decode is a pure function of (token, secret,
// current time).
type Codec struct {
	secret []byte
	ttl    time.Duration
}

// NewCodec builds a Codec with the given signing secret and token lifetime.
func NewCodec(secret string, ttl time.Duration) *Codec {
	return &Codec{secret: []byte(secret), ttl: ttl}
}

// TTL returns the configured token lifetime.
func (c *Codec) TTL() time.Duration { return c.ttl }

// Issue signs an HS256 token for the given identity snapshot. The token
// expires a fixed TTL after issuance.
func (c *Codec) Issue(id model.Identity) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		AccountID: id.AccountID,
		FirstName: id.FirstName,
		LastName:  id.LastName,
		Email:     id.Email,
		Role:      string(id.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(c.secret)
}

// Decode verifies signature and expiry and returns the identity snapshot
// carried by the token. Expired tokens fail with ErrTokenExpired; every
// other failure, including a role outside the closed set, is ErrTokenInvalid.
func (c *Codec) Decode(token string) (model.Identity, error) {
	var claims Claims
	tok, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return c.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return model.Identity{}, ErrTokenExpired
		}
		return model.Identity{}, ErrTokenInvalid
	}
	if !tok.Valid {
		return model.Identity{}, ErrTokenInvalid
	}
	role, ok := model.ParseRole(claims.Role)
	if !ok {
		return model.Identity{}, ErrTokenInvalid
	}
	return model.Identity{
		AccountID: claims.AccountID,
		FirstName: claims.FirstName,
		LastName:  claims.LastName,
		Email:     claims.Email,
		Role:      role,
	}, nil
}
