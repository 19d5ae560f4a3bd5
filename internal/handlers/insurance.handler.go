package handlers

import (
	"pojistovna/internal/app"
	insuranceController "pojistovna/internal/controllers/insurance"
	"pojistovna/internal/logger"
	. "pojistovna/internal/models"

	"github.com/gofiber/fiber/v2"
)

type InsuranceHandler struct {
	Handler
	controller *insuranceController.InsuranceController
}

func NewInsuranceHandler(app app.App, router fiber.Router) *InsuranceHandler {
	log := logger.New("handlers").File("insurance_handler")
	return &InsuranceHandler{
		controller: app.InsuranceController,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *InsuranceHandler) Register() {
	admin := h.middleware.RequireAdmin()

	insurances := h.router.Group("/Insurance")
	insurances.Get("/Index", h.index)
	insurances.Get("/Details/:id", h.details)
	insurances.Get("/Create", admin, h.createForm)
	insurances.Post("/Create", admin, h.create)
	insurances.Get("/Edit/:id", admin, h.editForm)
	insurances.Post("/Edit/:id", admin, h.edit)
	insurances.Get("/Delete/:id", admin, h.deleteForm)
	insurances.Post("/Delete/:id", admin, h.deleteConfirmed)
}

func (h *InsuranceHandler) index(c *fiber.Ctx) error {
	log := h.log.Function("index")

	insurances, err := h.controller.List(c.Context())
	if err != nil {
		log.Er("failed to list insurances", err)
		return h.respondError(c, err)
	}

	return c.JSON(fiber.Map{"message": "success", "insurances": insurances})
}

func (h *InsuranceHandler) details(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return h.respondError(c, err)
	}

	insurance, err := h.controller.Get(c.Context(), id)
	if err != nil {
		return h.respondError(c, err)
	}

	return c.JSON(fiber.Map{"message": "success", "insurance": insurance})
}

// createForm returns the type set and selectable policy holders for the
// create form.
func (h *InsuranceHandler) createForm(c *fiber.Ctx) error {
	formData, err := h.controller.GetCreateFormData(c.Context())
	if err != nil {
		return h.respondError(c, err)
	}

	return c.JSON(fiber.Map{"message": "success", "formData": formData})
}

func (h *InsuranceHandler) create(c *fiber.Ctx) error {
	log := h.log.Function("create")

	var request InsuranceRequest
	if err := c.BodyParser(&request); err != nil {
		log.Er("failed to parse insurance request", err)
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"message": "failed to parse request"})
	}

	if _, err := h.controller.Create(c.Context(), &request); err != nil {
		return h.respondError(c, err)
	}

	return c.Redirect("/Insurance/Index", fiber.StatusSeeOther)
}

func (h *InsuranceHandler) editForm(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return h.respondError(c, err)
	}

	insurance, err := h.controller.Get(c.Context(), id)
	if err != nil {
		return h.respondError(c, err)
	}

	formData, err := h.controller.GetCreateFormData(c.Context())
	if err != nil {
		return h.respondError(c, err)
	}

	return c.JSON(fiber.Map{"message": "success", "insurance": insurance, "formData": formData})
}

func (h *InsuranceHandler) edit(c *fiber.Ctx) error {
	log := h.log.Function("edit")

	id, err := parseID(c)
	if err != nil {
		return h.respondError(c, err)
	}

	var request InsuranceRequest
	if err := c.BodyParser(&request); err != nil {
		log.Er("failed to parse insurance request", err)
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"message": "failed to parse request"})
	}

	if _, err := h.controller.Update(c.Context(), id, &request); err != nil {
		return h.respondError(c, err)
	}

	return c.Redirect("/Insurance/Index", fiber.StatusSeeOther)
}

func (h *InsuranceHandler) deleteForm(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return h.respondError(c, err)
	}

	insurance, err := h.controller.Get(c.Context(), id)
	if err != nil {
		return h.respondError(c, err)
	}

	return c.JSON(fiber.Map{"message": "success", "insurance": insurance})
}

func (h *InsuranceHandler) deleteConfirmed(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return h.respondError(c, err)
	}

	if err := h.controller.Delete(c.Context(), id); err != nil {
		return h.respondError(c, err)
	}

	return c.Redirect("/Insurance/Index", fiber.StatusSeeOther)
}
