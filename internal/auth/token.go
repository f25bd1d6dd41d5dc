package auth

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"nexusjob_backend/internal/models"
	"nexusjob_backend/pkg/apperrors"
)

// Claims is the token payload issued by the hosted identity provider.
// User identity lives in the standard subject claim; role and display
// name ride in custom claims.
type Claims struct {
	Role models.UserRole `json:"role"`
	Name string          `json:"name"`
	jwt.RegisteredClaims
}

// Verifier validates bearer tokens against the shared signing secret.
type Verifier struct {
	secret []byte
	issuer string
}

func NewVerifier(secret, issuer string) *Verifier {
	return &Verifier{secret: []byte(secret), issuer: issuer}
}

// Verify parses and validates a raw token string, returning its claims.
func (v *Verifier) Verify(raw string) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInvalidToken, "auth", "invalid or expired token", http.StatusUnauthorized)
	}
	if !token.Valid || claims.Subject == "" {
		return nil, apperrors.New(apperrors.CodeInvalidToken, "auth", "invalid or expired token", http.StatusUnauthorized)
	}
	if claims.Role != models.UserRoleSeeker && claims.Role != models.UserRoleEmployer {
		return nil, apperrors.New(apperrors.CodeInvalidToken, "auth", "token carries unknown role", http.StatusUnauthorized)
	}
	return claims, nil
}

// FromHeader extracts the bearer token from an Authorization header.
func FromHeader(header string) (string, bool) {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, prefix))
	return token, token != ""
}
