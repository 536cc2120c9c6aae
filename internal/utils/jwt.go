package utils

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/MKhiriev/go-cert-flow/models"
	"github.com/golang-jwt/jwt/v5"
)

// GenerateSessionToken creates a signed HMAC-SHA256 JWT for session.
//
// The token carries the session fields plus the standard claims:
//   - Issuer    (iss): identifies the service that issued the token
//   - Subject   (sub): the account ID encoded as a string
//   - IssuedAt  (iat): the current time
//   - ExpiresAt (exp): the current time plus tokenDuration
//
// Returns an error if issuer, tokenDuration or signKey is empty.
//
// Example usage:
//
//	token, err := utils.GenerateSessionToken("go-cert-flow", account.Session(), 24*time.Hour, "secret")
func GenerateSessionToken(issuer string, session models.Session, tokenDuration time.Duration, signKey string) (models.Token, error) {
	if issuer == "" || tokenDuration <= 0 || signKey == "" {
		return models.Token{}, errors.New("invalid params for generating JWT Token")
	}

	now := time.Now()
	expiresAt := now.Add(tokenDuration)
	claims := &models.SessionClaims{
		Session: session,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   strconv.FormatInt(session.AccountID, 10),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(signKey))
	if err != nil {
		return models.Token{}, fmt.Errorf("error occurred during singing JWT token: %w", err)
	}

	return models.Token{
		SignedString: tokenString,
		Session:      session,
		ExpiresAt:    claims.ExpiresAt.Time,
	}, nil
}

// ValidateAndParseSessionToken validates the given JWT string and extracts
// the session it was issued for.
//
// Validation includes:
//   - signing method is HS256 and the signature verifies with tokenSignKey
//   - issuer (iss) equals tokenIssuer
//   - the token has not expired
//   - subject (sub) is present and matches the embedded account ID
//   - the embedded role is known
func ValidateAndParseSessionToken(tokenString, tokenSignKey, tokenIssuer string) (models.Session, error) {
	claims := &models.SessionClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return []byte(tokenSignKey), nil
	},
		jwt.WithIssuer(tokenIssuer),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return models.Session{}, fmt.Errorf("error occurred validating and parsing token: %w", err)
	}

	if claims.Subject == "" {
		return models.Session{}, errors.New("empty subject error")
	}

	accountID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return models.Session{}, fmt.Errorf("error occurred during converting subject to account id: %w", err)
	}
	if accountID != claims.AccountID {
		return models.Session{}, errors.New("subject does not match session")
	}
	if !claims.Role.Valid() {
		return models.Session{}, fmt.Errorf("unknown role %q in token", claims.Role)
	}

	return claims.Session, nil
}

// ParseBearerToken extracts the token from an "Authorization: Bearer <token>"
// header value.
func ParseBearerToken(authorizationHeader string) (string, error) {
	parts := strings.Fields(authorizationHeader)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", errors.New("invalid authorization header")
	}
	return parts[1], nil
}
