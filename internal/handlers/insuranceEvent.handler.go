package handlers

import (
	"strconv"

	"pojistovna/internal/app"
	insuranceEventController "pojistovna/internal/controllers/insuranceevent"
	"pojistovna/internal/logger"
	. "pojistovna/internal/models"

	"github.com/gofiber/fiber/v2"
)

type InsuranceEventHandler struct {
	Handler
	controller *insuranceEventController.InsuranceEventController
}

func NewInsuranceEventHandler(app app.App, router fiber.Router) *InsuranceEventHandler {
	log := logger.New("handlers").File("insuranceEvent_handler")
	return &InsuranceEventHandler{
		controller: app.InsuranceEventController,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *InsuranceEventHandler) Register() {
	admin := h.middleware.RequireAdmin()

	events := h.router.Group("/InsuranceEvent")
	events.Get("/Index", h.index)
	events.Get("/Details/:id", h.details)
	events.Get("/Create", admin, h.createForm)
	events.Post("/Create", admin, h.create)
	events.Get("/Edit/:id", admin, h.editForm)
	events.Post("/Edit/:id", admin, h.edit)
	events.Get("/Delete/:id", admin, h.deleteForm)
	events.Post("/Delete/:id", admin, h.deleteConfirmed)

	// Read-only filtered query feeding the dependent insurance selector.
	events.Get("/GetInsurancesByPolicyHolder", h.getInsurancesByPolicyHolder)
}

func (h *InsuranceEventHandler) index(c *fiber.Ctx) error {
	log := h.log.Function("index")

	events, err := h.controller.List(c.Context())
	if err != nil {
		log.Er("failed to list insurance events", err)
		return h.respondError(c, err)
	}

	return c.JSON(fiber.Map{"message": "success", "insuranceEvents": events})
}

func (h *InsuranceEventHandler) details(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return h.respondError(c, err)
	}

	event, err := h.controller.Get(c.Context(), id)
	if err != nil {
		return h.respondError(c, err)
	}

	return c.JSON(fiber.Map{"message": "success", "insuranceEvent": event})
}

func (h *InsuranceEventHandler) createForm(c *fiber.Ctx) error {
	formData, err := h.controller.GetCreateFormData(c.Context())
	if err != nil {
		return h.respondError(c, err)
	}

	return c.JSON(fiber.Map{"message": "success", "formData": formData})
}

func (h *InsuranceEventHandler) getInsurancesByPolicyHolder(c *fiber.Ctx) error {
	// An absent or malformed id binds to zero, which matches no holder and
	// yields an empty set, clearing the dependent selector.
	policyHolderID, _ := strconv.Atoi(c.Query("policyHolderId"))

	options, err := h.controller.GetInsurancesByPolicyHolder(c.Context(), policyHolderID)
	if err != nil {
		return h.respondError(c, err)
	}

	return c.JSON(options)
}

func (h *InsuranceEventHandler) create(c *fiber.Ctx) error {
	log := h.log.Function("create")

	var request InsuranceEventRequest
	if err := c.BodyParser(&request); err != nil {
		log.Er("failed to parse insurance event request", err)
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"message": "failed to parse request"})
	}

	if _, err := h.controller.Create(c.Context(), &request); err != nil {
		return h.respondError(c, err)
	}

	return c.Redirect("/InsuranceEvent/Index", fiber.StatusSeeOther)
}

func (h *InsuranceEventHandler) editForm(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return h.respondError(c, err)
	}

	event, err := h.controller.Get(c.Context(), id)
	if err != nil {
		return h.respondError(c, err)
	}

	formData, err := h.controller.GetCreateFormData(c.Context())
	if err != nil {
		return h.respondError(c, err)
	}

	return c.JSON(fiber.Map{"message": "success", "insuranceEvent": event, "formData": formData})
}

func (h *InsuranceEventHandler) edit(c *fiber.Ctx) error {
	log := h.log.Function("edit")

	id, err := parseID(c)
	if err != nil {
		return h.respondError(c, err)
	}

	var request InsuranceEventRequest
	if err := c.BodyParser(&request); err != nil {
		log.Er("failed to parse insurance event request", err)
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"message": "failed to parse request"})
	}

	if _, err := h.controller.Update(c.Context(), id, &request); err != nil {
		return h.respondError(c, err)
	}

	return c.Redirect("/InsuranceEvent/Index", fiber.StatusSeeOther)
}

func (h *InsuranceEventHandler) deleteForm(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return h.respondError(c, err)
	}

	event, err := h.controller.Get(c.Context(), id)
	if err != nil {
		return h.respondError(c, err)
	}

	return c.JSON(fiber.Map{"message": "success", "insuranceEvent": event})
}

func (h *InsuranceEventHandler) deleteConfirmed(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return h.respondError(c, err)
	}

	if err := h.controller.Delete(c.Context(), id); err != nil {
		return h.respondError(c, err)
	}

	return c.Redirect("/InsuranceEvent/Index", fiber.StatusSeeOther)
}
