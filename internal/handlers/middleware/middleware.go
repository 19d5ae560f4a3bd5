package middleware

import (
	"errors"
	"net/url"

	accountController "pojistovna/internal/controllers/account"
	"pojistovna/internal/logger"
	. "pojistovna/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
)

// SessionCookie is the name of the HTTP-only cookie carrying the session
// token.
const SessionCookie = "pojistovna_session"

// CSRFCookie carries the anti-forgery token; it is readable by scripts so
// clients can echo it back in the header.
const CSRFCookie = "pojistovna_csrf"

// CSRF rejects any mutating request whose X-Csrf-Token header does not
// carry a token previously issued through the cookie.
func CSRF() fiber.Handler {
	return csrf.New(csrf.Config{
		KeyLookup:      "header:X-Csrf-Token",
		CookieName:     CSRFCookie,
		CookieHTTPOnly: false,
		CookieSameSite: fiber.CookieSameSiteLaxMode,
	})
}

type Middleware struct {
	account *accountController.AccountController
	log     logger.Logger
}

func New(account *accountController.AccountController) Middleware {
	return Middleware{
		account: account,
		log:     logger.New("middleware"),
	}
}

// LoadUser resolves the session cookie to a user and stores it in locals.
// Anonymous requests pass through with no user set.
func (m Middleware) LoadUser() fiber.Handler {
	log := m.log.Function("LoadUser")

	return func(c *fiber.Ctx) error {
		token := c.Cookies(SessionCookie)
		if token == "" {
			return c.Next()
		}

		user, err := m.account.CurrentUser(c.Context(), token)
		if err != nil {
			if !errors.Is(err, ErrNotFound) {
				log.Er("failed to resolve session", err)
			}
			return c.Next()
		}

		c.Locals("user", *user)
		return c.Next()
	}
}

// RequireAdmin rejects unauthenticated or non-admin callers with a redirect
// to the login challenge before any handler logic runs.
func (m Middleware) RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := c.Locals("user").(User)
		if !ok || !m.account.IsInRole(&user, RoleAdmin) {
			challenge := "/Account/Login?returnUrl=" + url.QueryEscape(c.OriginalURL())
			return c.Redirect(challenge, fiber.StatusFound)
		}
		return c.Next()
	}
}
