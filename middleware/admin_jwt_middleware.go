package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const (
	AdminTokenHeader = "X-Skyview-Admin-Token"
	AdminRole        = "admin"
)

var (
	errMissingToken     = errors.New("missing admin token")
	errInvalidToken     = errors.New("invalid admin token")
	errInvalidClaims    = errors.New("invalid claims")
	errInvalidIssuer    = errors.New("invalid issuer")
	errInsufficientRole = errors.New("insufficient role")
	errSecretMissing    = errors.New("admin JWT secret not configured")
)

// AdminClaims is the token shape accepted on the admin routes.
type AdminClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// AdminJWTMiddleware guards operator endpoints with an HS256 token.
type AdminJWTMiddleware struct {
	logger *slog.Logger
	secret []byte
	issuer string
}

func NewAdminJWTMiddleware(logger *slog.Logger, secret, issuer string) *AdminJWTMiddleware {
	if secret == "" && logger != nil {
		logger.Warn("ADMIN_JWT_SECRET not set, admin routes will deny all requests")
	}
	return &AdminJWTMiddleware{
		logger: logger,
		secret: []byte(secret),
		issuer: issuer,
	}
}

// RequireAdmin rejects requests without a valid admin token.
func (m *AdminJWTMiddleware) RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			_, err := m.validate(c.Request().Header.Get(AdminTokenHeader))
			if err != nil {
				switch {
				case errors.Is(err, errMissingToken):
					return echo.NewHTTPError(http.StatusUnauthorized, "missing admin token")
				case errors.Is(err, errInvalidToken), errors.Is(err, errInvalidClaims):
					return echo.NewHTTPError(http.StatusUnauthorized, "invalid admin token")
				case errors.Is(err, errInvalidIssuer):
					return echo.NewHTTPError(http.StatusUnauthorized, "invalid token issuer")
				case errors.Is(err, errInsufficientRole):
					return echo.NewHTTPError(http.StatusForbidden, "admin role required")
				default:
					if m.logger != nil {
						m.logger.Error("admin JWT validation error", "error", err)
					}
					return echo.NewHTTPError(http.StatusUnauthorized, "authentication failed")
				}
			}
			return next(c)
		}
	}
}

func (m *AdminJWTMiddleware) validate(tokenStr string) (*AdminClaims, error) {
	if tokenStr == "" {
		return nil, errMissingToken
	}
	if len(m.secret) == 0 {
		return nil, errSecretMissing
	}

	parsed, err := jwt.ParseWithClaims(tokenStr, &AdminClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidToken, err)
	}
	if !parsed.Valid {
		return nil, errInvalidToken
	}

	claims, ok := parsed.Claims.(*AdminClaims)
	if !ok {
		return nil, errInvalidClaims
	}
	if m.issuer != "" && claims.Issuer != m.issuer {
		return nil, errInvalidIssuer
	}
	if claims.Role != AdminRole {
		return nil, errInsufficientRole
	}
	return claims, nil
}
