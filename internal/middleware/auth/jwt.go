package auth

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/wekeepgrowing/semo-fleet/internal/domain/entity"
)

// Echo context keys set by JWTMiddleware
const (
	OwnerIDKey   = "owner_id"
	OwnerNameKey = "owner_name"
)

// JWTConfig holds the configuration for JWT middleware
type JWTConfig struct {
	Secret    string
	Issuer    string // optional; checked when set
	Logger    *zap.Logger
	SkipPaths []string // Paths to skip JWT validation
}

// JWTMiddleware validates HS256 bearer tokens. The token subject is the fleet owner.
func JWTMiddleware(config JWTConfig) echo.MiddlewareFunc {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if config.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(config.Issuer))
	}
	parser := jwt.NewParser(opts...)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Request().URL.Path
			for _, skipPath := range config.SkipPaths {
				if strings.HasPrefix(path, skipPath) {
					return next(c)
				}
			}

			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				config.Logger.Warn("Missing authorization header",
					zap.String("path", path),
					zap.String("method", c.Request().Method))
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"error": "Authorization header required",
					"code":  "MISSING_AUTH_HEADER",
				})
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == authHeader {
				config.Logger.Warn("Invalid authorization header format",
					zap.String("path", path))
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"error": "Invalid authorization header format. Expected: Bearer <token>",
					"code":  "INVALID_AUTH_FORMAT",
				})
			}

			claims := jwt.MapClaims{}
			token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
				return []byte(config.Secret), nil
			})
			if err != nil || !token.Valid {
				config.Logger.Warn("JWT validation failed",
					zap.Error(err),
					zap.String("path", path))
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"error": "Invalid or expired token",
					"code":  "INVALID_TOKEN",
				})
			}

			ownerID, err := claims.GetSubject()
			if err != nil || ownerID == "" {
				config.Logger.Warn("Token without subject", zap.String("path", path))
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"error": "Invalid token claims",
					"code":  "INVALID_CLAIMS",
				})
			}

			c.Set(OwnerIDKey, ownerID)
			if name, ok := claims["name"].(string); ok && name != "" {
				c.Set(OwnerNameKey, name)
			}

			config.Logger.Debug("Owner authenticated",
				zap.String("owner_id", ownerID),
				zap.String("path", path))

			return next(c)
		}
	}
}

// OwnerID returns the authenticated owner set by JWTMiddleware.
func OwnerID(c echo.Context) (string, error) {
	ownerID, ok := c.Get(OwnerIDKey).(string)
	if !ok || ownerID == "" {
		return "", fmt.Errorf("no authenticated owner in context")
	}
	return ownerID, nil
}

// ActorFrom builds the audit actor for the authenticated caller.
func ActorFrom(c echo.Context) entity.Actor {
	actor := entity.Actor{}
	actor.ID, _ = OwnerID(c)
	if name, ok := c.Get(OwnerNameKey).(string); ok {
		actor.Name = &name
	}
	return actor
}
