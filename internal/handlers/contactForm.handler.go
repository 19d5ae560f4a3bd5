package handlers

import (
	"pojistovna/internal/app"
	contactFormController "pojistovna/internal/controllers/contactform"
	"pojistovna/internal/logger"
	. "pojistovna/internal/models"

	"github.com/gofiber/fiber/v2"
)

type ContactFormHandler struct {
	Handler
	controller *contactFormController.ContactFormController
}

func NewContactFormHandler(app app.App, router fiber.Router) *ContactFormHandler {
	log := logger.New("handlers").File("contactForm_handler")
	return &ContactFormHandler{
		controller: app.ContactFormController,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

// Register maps the contact surface. Submitting an inquiry is public; the
// inbox itself is admin-only.
func (h *ContactFormHandler) Register() {
	admin := h.middleware.RequireAdmin()

	forms := h.router.Group("/ContactForm")
	forms.Get("/Index", admin, h.index)
	forms.Get("/Details/:id", admin, h.details)
	forms.Get("/Create", h.createForm)
	forms.Post("/Create", h.create)
	forms.Get("/Edit/:id", admin, h.editForm)
	forms.Post("/Edit/:id", admin, h.edit)
	forms.Get("/Delete/:id", admin, h.deleteForm)
	forms.Post("/Delete/:id", admin, h.deleteConfirmed)
}

func (h *ContactFormHandler) index(c *fiber.Ctx) error {
	log := h.log.Function("index")

	forms, err := h.controller.List(c.Context())
	if err != nil {
		log.Er("failed to list contact forms", err)
		return h.respondError(c, err)
	}

	return c.JSON(fiber.Map{"message": "success", "contactForms": forms})
}

func (h *ContactFormHandler) details(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return h.respondError(c, err)
	}

	form, err := h.controller.Get(c.Context(), id)
	if err != nil {
		return h.respondError(c, err)
	}

	return c.JSON(fiber.Map{"message": "success", "contactForm": form})
}

func (h *ContactFormHandler) createForm(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"message": "success"})
}

func (h *ContactFormHandler) create(c *fiber.Ctx) error {
	log := h.log.Function("create")

	var request ContactFormRequest
	if err := c.BodyParser(&request); err != nil {
		log.Er("failed to parse contact form request", err)
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"message": "failed to parse request"})
	}

	if _, err := h.controller.Create(c.Context(), &request); err != nil {
		return h.respondError(c, err)
	}

	return c.Redirect("/", fiber.StatusSeeOther)
}

func (h *ContactFormHandler) editForm(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return h.respondError(c, err)
	}

	form, err := h.controller.Get(c.Context(), id)
	if err != nil {
		return h.respondError(c, err)
	}

	return c.JSON(fiber.Map{"message": "success", "contactForm": form})
}

func (h *ContactFormHandler) edit(c *fiber.Ctx) error {
	log := h.log.Function("edit")

	id, err := parseID(c)
	if err != nil {
		return h.respondError(c, err)
	}

	var request ContactFormRequest
	if err := c.BodyParser(&request); err != nil {
		log.Er("failed to parse contact form request", err)
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"message": "failed to parse request"})
	}

	if _, err := h.controller.Update(c.Context(), id, &request); err != nil {
		return h.respondError(c, err)
	}

	return c.Redirect("/ContactForm/Index", fiber.StatusSeeOther)
}

func (h *ContactFormHandler) deleteForm(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return h.respondError(c, err)
	}

	form, err := h.controller.Get(c.Context(), id)
	if err != nil {
		return h.respondError(c, err)
	}

	return c.JSON(fiber.Map{"message": "success", "contactForm": form})
}

func (h *ContactFormHandler) deleteConfirmed(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return h.respondError(c, err)
	}

	if err := h.controller.Delete(c.Context(), id); err != nil {
		return h.respondError(c, err)
	}

	return c.Redirect("/ContactForm/Index", fiber.StatusSeeOther)
}
