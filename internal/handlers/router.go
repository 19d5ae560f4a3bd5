package handlers

import (
	"errors"
	"strconv"
	"strings"

	"pojistovna/internal/app"
	"pojistovna/internal/handlers/middleware"
	"pojistovna/internal/logger"
	. "pojistovna/internal/models"

	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	middleware middleware.Middleware
	log        logger.Logger
	router     fiber.Router
}

func Router(router fiber.Router, app *app.App) error {
	router.Use(app.Middleware.LoadUser())

	HomeHandler(router)
	NewAccountHandler(*app, router).Register()
	NewPolicyHolderHandler(*app, router).Register()
	NewInsuranceHandler(*app, router).Register()
	NewInsuranceEventHandler(*app, router).Register()
	NewContactFormHandler(*app, router).Register()

	return nil
}

func HomeHandler(router fiber.Router) {
	router.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "success", "service": "pojistovna"})
	})
}

// parseID reads the :id path parameter. Anything that is not a positive
// integer short-circuits to not-found before the store is touched.
func parseID(c *fiber.Ctx) (int, error) {
	raw := c.Params("id")
	if raw == "" {
		return 0, ErrNotFound
	}

	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, ErrNotFound
	}

	return id, nil
}

// respondError maps the controller error taxonomy onto HTTP statuses.
func (h Handler) respondError(c *fiber.Ctx, err error) error {
	if errors.Is(err, ErrNotFound) {
		return c.Status(fiber.StatusNotFound).
			JSON(fiber.Map{"message": "not found"})
	}

	if validationErrs, ok := AsValidationErrors(err); ok {
		return c.Status(fiber.StatusUnprocessableEntity).
			JSON(fiber.Map{"message": "validation failed", "errors": validationErrs.Fields})
	}

	if errors.Is(err, ErrConcurrentModification) {
		return c.Status(fiber.StatusConflict).
			JSON(fiber.Map{"message": "the record was modified by another user"})
	}

	h.log.Er("request failed", err, "path", c.Path())
	return c.Status(fiber.StatusInternalServerError).
		JSON(fiber.Map{"message": "internal server error"})
}

// redirectToLocal sends the caller to returnURL only when it is local to
// this application; anything else falls back to the home page.
func redirectToLocal(c *fiber.Ctx, returnURL string) error {
	if isLocalURL(returnURL) {
		return c.Redirect(returnURL, fiber.StatusSeeOther)
	}
	return c.Redirect("/", fiber.StatusSeeOther)
}

func isLocalURL(u string) bool {
	if u == "" || !strings.HasPrefix(u, "/") {
		return false
	}
	// "//host" and "/\host" are scheme-relative escapes, not local paths.
	if strings.HasPrefix(u, "//") || strings.HasPrefix(u, "/\\") {
		return false
	}
	return true
}
