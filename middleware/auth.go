package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// Roles recognised by the platform. Every verified subject is at least an
// athlete; SAI officials get elevated read/review access.
const (
	RoleAthlete  = "authenticated"
	RoleOfficial = "sai_official"
	RoleWorker   = "analysis_worker"
)

// Context keys set by Auth for downstream handlers.
const (
	CtxSubjectID = "subject_id"
	CtxEmail     = "email"
	CtxRole      = "role"
)

// Identity is the verified subject returned by the identity provider.
type Identity struct {
	SubjectID string
	Email     string
	Role      string
}

// Verifier is the contract with the external identity provider: given a
// bearer credential, return the verified subject or reject it.
type Verifier interface {
	Verify(ctx context.Context, credential string) (Identity, error)
}

// ErrRejected is returned by a Verifier for credentials that fail validation.
var ErrRejected = errors.New("credential rejected")

// Claims extends jwt.RegisteredClaims with application-specific fields.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// JWTVerifier validates HS256 bearer tokens minted by the identity provider
// with a shared signing key.
type JWTVerifier struct {
	key []byte
}

// NewJWTVerifier creates a JWTVerifier for the given signing key.
func NewJWTVerifier(key []byte) *JWTVerifier {
	return &JWTVerifier{key: key}
}

// Verify parses and validates the token, returning the subject identity.
func (v *JWTVerifier) Verify(_ context.Context, credential string) (Identity, error) {
	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(credential, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return v.key, nil
	})
	if err != nil || !tkn.Valid {
		return Identity{}, ErrRejected
	}
	if claims.Subject == "" {
		return Identity{}, ErrRejected
	}

	role := claims.Role
	if role == "" {
		role = RoleAthlete
	}
	return Identity{SubjectID: claims.Subject, Email: claims.Email, Role: role}, nil
}

// MintToken signs a token for the given identity, valid for 30 days.
// Used by cmd tooling and tests; production credentials come from the
// identity provider itself.
func MintToken(key []byte, id Identity) (string, error) {
	claims := &Claims{
		Email: id.Email,
		Role:  id.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.SubjectID,
			ExpiresAt: jwt.NewNumericDate(time.Now().AddDate(0, 0, 30)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
}

// Auth returns an Echo middleware that validates the Authorization header
// credential with the given Verifier and stores the subject identity in the
// request context.
func Auth(v Verifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cred := c.Request().Header.Get("Authorization")
			if cred == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}
			cred = strings.TrimPrefix(cred, "Bearer ")

			id, err := v.Verify(c.Request().Context(), cred)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid credential")
			}

			c.Set(CtxSubjectID, id.SubjectID)
			c.Set(CtxEmail, id.Email)
			c.Set(CtxRole, id.Role)
			return next(c)
		}
	}
}

// RequireRole returns a middleware rejecting subjects without the given role.
// Must run after Auth.
func RequireRole(role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if r, _ := c.Get(CtxRole).(string); r != role {
				return echo.NewHTTPError(http.StatusForbidden, "access denied")
			}
			return next(c)
		}
	}
}
