package handlers

import (
	"pojistovna/internal/app"
	policyHolderController "pojistovna/internal/controllers/policyholder"
	"pojistovna/internal/logger"
	. "pojistovna/internal/models"

	"github.com/gofiber/fiber/v2"
)

type PolicyHolderHandler struct {
	Handler
	controller *policyHolderController.PolicyHolderController
}

func NewPolicyHolderHandler(app app.App, router fiber.Router) *PolicyHolderHandler {
	log := logger.New("handlers").File("policyHolder_handler")
	return &PolicyHolderHandler{
		controller: app.PolicyHolderController,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *PolicyHolderHandler) Register() {
	admin := h.middleware.RequireAdmin()

	holders := h.router.Group("/PolicyHolder")
	holders.Get("/Index", h.index)
	holders.Get("/Details/:id", h.details)
	holders.Get("/Create", admin, h.createForm)
	holders.Post("/Create", admin, h.create)
	holders.Get("/Edit/:id", admin, h.editForm)
	holders.Post("/Edit/:id", admin, h.edit)
	holders.Get("/Delete/:id", admin, h.deleteForm)
	holders.Post("/Delete/:id", admin, h.deleteConfirmed)
}

func (h *PolicyHolderHandler) index(c *fiber.Ctx) error {
	log := h.log.Function("index")

	holders, err := h.controller.List(c.Context())
	if err != nil {
		log.Er("failed to list policy holders", err)
		return h.respondError(c, err)
	}

	return c.JSON(fiber.Map{"message": "success", "policyHolders": holders})
}

func (h *PolicyHolderHandler) details(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return h.respondError(c, err)
	}

	holder, err := h.controller.Get(c.Context(), id)
	if err != nil {
		return h.respondError(c, err)
	}

	return c.JSON(fiber.Map{"message": "success", "policyHolder": holder})
}

func (h *PolicyHolderHandler) createForm(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"message": "success"})
}

func (h *PolicyHolderHandler) create(c *fiber.Ctx) error {
	log := h.log.Function("create")

	var request PolicyHolderRequest
	if err := c.BodyParser(&request); err != nil {
		log.Er("failed to parse policy holder request", err)
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"message": "failed to parse request"})
	}

	if _, err := h.controller.Create(c.Context(), &request); err != nil {
		return h.respondError(c, err)
	}

	return c.Redirect("/PolicyHolder/Index", fiber.StatusSeeOther)
}

func (h *PolicyHolderHandler) editForm(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return h.respondError(c, err)
	}

	holder, err := h.controller.Get(c.Context(), id)
	if err != nil {
		return h.respondError(c, err)
	}

	return c.JSON(fiber.Map{"message": "success", "policyHolder": holder})
}

func (h *PolicyHolderHandler) edit(c *fiber.Ctx) error {
	log := h.log.Function("edit")

	id, err := parseID(c)
	if err != nil {
		return h.respondError(c, err)
	}

	var request PolicyHolderRequest
	if err := c.BodyParser(&request); err != nil {
		log.Er("failed to parse policy holder request", err)
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"message": "failed to parse request"})
	}

	if _, err := h.controller.Update(c.Context(), id, &request); err != nil {
		return h.respondError(c, err)
	}

	return c.Redirect("/PolicyHolder/Index", fiber.StatusSeeOther)
}

func (h *PolicyHolderHandler) deleteForm(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return h.respondError(c, err)
	}

	holder, err := h.controller.Get(c.Context(), id)
	if err != nil {
		return h.respondError(c, err)
	}

	return c.JSON(fiber.Map{"message": "success", "policyHolder": holder})
}

func (h *PolicyHolderHandler) deleteConfirmed(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return h.respondError(c, err)
	}

	if err := h.controller.Delete(c.Context(), id); err != nil {
		return h.respondError(c, err)
	}

	return c.Redirect("/PolicyHolder/Index", fiber.StatusSeeOther)
}
