package serverutils

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

const (
	AccessTokenCookie  = "access_token"
	RefreshTokenCookie = "refresh_token"
)

func SetAuthCookies(ctx *fiber.Ctx, pair *TokenPair, secure bool) {
	ctx.Cookie(&fiber.Cookie{
		Name:     AccessTokenCookie,
		Value:    pair.AccessToken,
		Path:     "/",
		Expires:  pair.AccessExpiresAt,
		HTTPOnly: true,
		Secure:   secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	ctx.Cookie(&fiber.Cookie{
		Name:     RefreshTokenCookie,
		Value:    pair.RefreshToken,
		Path:     "/",
		Expires:  pair.RefreshExpiresAt,
		HTTPOnly: true,
		Secure:   secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func ClearAuthCookies(ctx *fiber.Ctx, secure bool) {
	for _, name := range []string{AccessTokenCookie, RefreshTokenCookie} {
		ctx.Cookie(&fiber.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			Expires:  time.Unix(0, 0),
			MaxAge:   -1,
			HTTPOnly: true,
			Secure:   secure,
			SameSite: fiber.CookieSameSiteLaxMode,
		})
	}
}
