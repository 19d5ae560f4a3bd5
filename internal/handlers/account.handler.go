package handlers

import (
	"errors"
	"time"

	"pojistovna/internal/app"
	accountController "pojistovna/internal/controllers/account"
	"pojistovna/internal/handlers/middleware"
	"pojistovna/internal/logger"
	. "pojistovna/internal/models"

	"github.com/gofiber/fiber/v2"
)

type AccountHandler struct {
	Handler
	controller *accountController.AccountController
}

func NewAccountHandler(app app.App, router fiber.Router) *AccountHandler {
	log := logger.New("handlers").File("account_handler")
	return &AccountHandler{
		controller: app.AccountController,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *AccountHandler) Register() {
	account := h.router.Group("/Account")
	account.Get("/Login", h.loginForm)
	account.Post("/Login", h.login)
	account.Get("/Register", h.registerForm)
	account.Post("/Register", h.register)
	account.Get("/Logout", h.logout)
}

func (h *AccountHandler) loginForm(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"message": "success", "returnUrl": c.Query("returnUrl")})
}

func (h *AccountHandler) login(c *fiber.Ctx) error {
	log := h.log.Function("login")

	var request LoginRequest
	if err := c.BodyParser(&request); err != nil {
		log.Er("failed to parse login request", err)
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"message": "failed to parse login request"})
	}

	_, session, err := h.controller.Login(c.Context(), &request)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			return c.Status(fiber.StatusUnauthorized).
				JSON(fiber.Map{"message": "invalid credentials"})
		}
		return h.respondError(c, err)
	}

	setSessionCookie(c, session)
	return redirectToLocal(c, request.ReturnURL)
}

func (h *AccountHandler) registerForm(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"message": "success", "returnUrl": c.Query("returnUrl")})
}

func (h *AccountHandler) register(c *fiber.Ctx) error {
	log := h.log.Function("register")

	var request RegisterRequest
	if err := c.BodyParser(&request); err != nil {
		log.Er("failed to parse register request", err)
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"message": "failed to parse register request"})
	}

	_, session, err := h.controller.Register(c.Context(), &request)
	if err != nil {
		return h.respondError(c, err)
	}

	setSessionCookie(c, session)
	return redirectToLocal(c, request.ReturnURL)
}

func (h *AccountHandler) logout(c *fiber.Ctx) error {
	log := h.log.Function("logout")

	token := c.Cookies(middleware.SessionCookie)
	if err := h.controller.Logout(c.Context(), token); err != nil {
		log.Er("failed to destroy session", err)
	}

	clearSessionCookie(c)
	return c.Redirect("/", fiber.StatusSeeOther)
}

func setSessionCookie(c *fiber.Ctx, session *Session) {
	cookie := &fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    session.Token,
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	}
	// Remember-me sessions survive the browser; others stay session-scoped.
	if session.RememberMe {
		cookie.Expires = session.ExpiresAt
	}
	c.Cookie(cookie)
}

func clearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		Expires:  time.Unix(0, 0),
	})
}
