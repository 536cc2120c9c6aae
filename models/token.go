package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Session is the caller identity established from a verified session token.
// It is the only thing downstream handlers know about the caller.
type Session struct {
	AccountID int64  `json:"user_id"`
	Role      Role   `json:"role"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	RegNo     string `json:"reg_no,omitempty"`
}

// SessionClaims is the JWT claim set of a session token: the [Session]
// fields plus the registered claims (iss, sub, iat, exp).
type SessionClaims struct {
	Session
	jwt.RegisteredClaims
}

// Token is an issued session token.
type Token struct {
	// SignedString is the compact JWS representation of the token
	// (base64url-encoded header.payload.signature).
	SignedString string `json:"-"`

	// Session holds the identity the token was issued for.
	Session Session `json:"-"`

	// ExpiresAt is the absolute expiry embedded in the "exp" claim.
	ExpiresAt time.Time `json:"-"`
}

// String returns the compact JWS serialization of the token.
// It implements the [fmt.Stringer] interface.
func (t *Token) String() string {
	return t.SignedString
}
