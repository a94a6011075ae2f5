package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"
)

const tokenTTL = 24 * time.Hour

// IssueToken signs an HS256 token for the given subject. The jti makes
// individual logins distinguishable in audit logs.
func IssueToken(secret []byte, subject string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": subject,
		"jti": ulid.Make().String(),
		"exp": time.Now().Add(tokenTTL).Unix(),
	})
	return token.SignedString(secret)
}
