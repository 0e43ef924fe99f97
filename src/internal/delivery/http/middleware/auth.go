package middleware

import (
	"strings"

	httpError "wallet-service/src/pkg/http-error"
	"wallet-service/src/pkg/token"
	"wallet-service/src/pkg/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/viper"
)

const userLocalsKey = "auth:user"

// VerifyBearer parses the Authorization header and stores the token metadata
// in the request locals. Identity is owned by the auth service; this only
// verifies the signature and extracts the claims.
func VerifyBearer(config *viper.Viper) fiber.Handler {
	secret := []byte(config.GetString("jwt.secret"))

	return func(ctx *fiber.Ctx) error {
		header := ctx.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(header, "Bearer ") {
			errObj := httpError.NewUnauthorized()
			errObj.Message = "missing bearer token"
			return utils.ResponseError(errObj, ctx)
		}

		raw := strings.TrimPrefix(header, "Bearer ")
		claims := jwt.MapClaims{}
		parsed, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return secret, nil
		})
		if err != nil || !parsed.Valid {
			errObj := httpError.NewUnauthorized()
			errObj.Message = "invalid bearer token"
			return utils.ResponseError(errObj, ctx)
		}

		metadata := token.Metadata{}
		if rawMeta, ok := claims["metadata"].(map[string]interface{}); ok {
			if v, ok := rawMeta["user_id"].(string); ok {
				metadata.UserID = v
			}
			if v, ok := rawMeta["full_name"].(string); ok {
				metadata.FullName = v
			}
			if v, ok := rawMeta["role"].(string); ok {
				metadata.Role = v
			}
		}

		if metadata.UserID == "" {
			errObj := httpError.NewUnauthorized()
			errObj.Message = "token carries no user identity"
			return utils.ResponseError(errObj, ctx)
		}

		ctx.Locals(userLocalsKey, metadata)
		return ctx.Next()
	}
}

// RequireAdmin guards the back-office routes.
func RequireAdmin() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		auth := GetUser(ctx)
		if auth.Role != "admin" {
			errObj := httpError.NewUnauthorized()
			errObj.Message = "admin role required"
			return utils.ResponseError(errObj, ctx)
		}
		return ctx.Next()
	}
}

func GetUser(ctx *fiber.Ctx) token.Metadata {
	if metadata, ok := ctx.Locals(userLocalsKey).(token.Metadata); ok {
		return metadata
	}
	return token.Metadata{}
}
