package middlewares

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/tekkenfreya/gowater-hr-management-system-sub000/ledger"
)

// Claims carried by the auth token; Subject holds the user id.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

type AuthConfig struct {
	Secret     string
	CookieName string
	TTL        time.Duration
}

// SignToken issues an HS256 token for the given identity.
func (a AuthConfig) SignToken(id Identity) (string, error) {
	now := time.Now()
	claims := Claims{
		Email: id.Email,
		Role:  id.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UserID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.TTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(a.Secret))
}

func (a AuthConfig) parse(tok string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tok, &Claims{}, func(t *jwt.Token) (any, error) {
		// reject alg switching
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, echo.NewHTTPError(http.StatusUnauthorized, map[string]any{"error": "INVALID_TOKEN_METHOD"})
		}
		return []byte(a.Secret), nil
	})
	if err != nil || !token.Valid {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, map[string]any{"error": "INVALID_TOKEN"})
	}
	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, map[string]any{"error": "INVALID_CLAIMS"})
	}
	return claims, nil
}

// extractToken prefers the HTTP-only cookie and falls back to a bearer header.
func (a AuthConfig) extractToken(c echo.Context) (string, error) {
	if ck, err := c.Cookie(a.CookieName); err == nil && ck.Value != "" {
		return ck.Value, nil
	}
	h := c.Request().Header.Get("Authorization")
	if h == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, map[string]any{"error": "MISSING_AUTH_TOKEN"})
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", echo.NewHTTPError(http.StatusUnauthorized, map[string]any{"error": "INVALID_AUTH_HEADER"})
	}
	return parts[1], nil
}

// RequireAuth verifies the token, then resolves the subject through dir so a
// deactivated account or a changed role takes effect on the next request.
func RequireAuth(a AuthConfig, dir ledger.Directory) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tok, err := a.extractToken(c)
			if err != nil {
				return err
			}
			claims, err := a.parse(tok)
			if err != nil {
				return err
			}
			uid, err := uuid.Parse(claims.Subject)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, map[string]any{"error": "INVALID_CLAIMS"})
			}
			u, err := dir.Lookup(c.Request().Context(), uid)
			if errors.Is(err, ledger.ErrNotFound) {
				return echo.NewHTTPError(http.StatusUnauthorized, map[string]any{"error": "UNKNOWN_USER"})
			}
			if err != nil {
				return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": "Internal server error"}).SetInternal(err)
			}
			if !u.Active {
				return echo.NewHTTPError(http.StatusUnauthorized, map[string]any{"error": "ACCOUNT_DISABLED"})
			}
			c.Set(identityKey, Identity{UserID: u.ID, Email: u.Email, Role: strings.ToLower(u.Role)})
			return next(c)
		}
	}
}
