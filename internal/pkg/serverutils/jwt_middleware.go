package serverutils

import (
	"strings"

	"learnflow-be/internal/pkg/apperr"

	"github.com/gofiber/fiber/v2"
)

const (
	LocalUserID    = "user_id"
	LocalUserEmail = "user_email"
)

// Authenticate resolves the caller from a Bearer header or the access
// cookie. When only a valid refresh cookie is present it rotates both
// cookies, the way the browser session is kept alive.
func Authenticate(ctx *fiber.Ctx, issuer *TokenIssuer, secureCookies bool) (*TokenClaims, error) {
	if tokenStr := bearerToken(ctx); tokenStr != "" {
		return issuer.Parse(tokenStr, TokenTypeAccess)
	}

	if access := ctx.Cookies(AccessTokenCookie); access != "" {
		if claims, err := issuer.Parse(access, TokenTypeAccess); err == nil {
			return claims, nil
		}
	}

	refresh := ctx.Cookies(RefreshTokenCookie)
	if refresh == "" {
		return nil, apperr.Unauthorized("Not authenticated")
	}
	claims, err := issuer.Parse(refresh, TokenTypeRefresh)
	if err != nil {
		return nil, err
	}

	pair, err := issuer.Issue(mustUUID(claims.UserID), claims.Email)
	if err != nil {
		return nil, err
	}
	SetAuthCookies(ctx, pair, secureCookies)
	return claims, nil
}

func JwtMiddleware(issuer *TokenIssuer, secureCookies bool) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		claims, err := Authenticate(ctx, issuer, secureCookies)
		if err != nil {
			return apperr.Unauthorized("Unauthorized").WithDetails(err.Error())
		}

		ctx.Locals(LocalUserID, claims.UserID)
		ctx.Locals(LocalUserEmail, claims.Email)
		return ctx.Next()
	}
}

func bearerToken(ctx *fiber.Ctx) string {
	authHeader := ctx.Get("Authorization")
	if len(authHeader) < 7 || !strings.EqualFold(authHeader[:7], "Bearer ") {
		return ""
	}
	return strings.TrimSpace(authHeader[7:])
}
