package handlers

import (
	"atelier/internal/middleware"
	"atelier/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// WorkshopHandler handles workshop info and subscription plan routes.
type WorkshopHandler struct {
	service  *services.WorkshopService
	validate *validator.Validate
}

// NewWorkshopHandler creates a new WorkshopHandler.
func NewWorkshopHandler(service *services.WorkshopService) *WorkshopHandler {
	return &WorkshopHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterPublicRoutes registers routes that need no session.
func (h *WorkshopHandler) RegisterPublicRoutes(router fiber.Router) {
	router.Get("/plans", h.HandleListPlans)
}

// RegisterOwnerRoutes registers routes restricted to WORKSHOP_OWNER.
func (h *WorkshopHandler) RegisterOwnerRoutes(router fiber.Router) {
	router.Get("/workshop", h.HandleGetWorkshop)
	router.Put("/workshop/plan", h.HandleSetPlan)
}

// HandleListPlans lists the subscription plans.
func (h *WorkshopHandler) HandleListPlans(c *fiber.Ctx) error {
	plans, err := h.service.Plans()
	if err != nil {
		return fail(c, "could not list plans", err)
	}
	return success(c, fiber.StatusOK, "subscription plans", plans)
}

// HandleGetWorkshop returns the caller's workshop.
func (h *WorkshopHandler) HandleGetWorkshop(c *fiber.Ctx) error {
	workshop, err := h.service.GetForOwner(middleware.UserID(c))
	if err != nil {
		return fail(c, "could not load workshop", err)
	}
	return success(c, fiber.StatusOK, "workshop", workshop)
}

// SetPlanRequest selects a subscription plan.
type SetPlanRequest struct {
	PlanID string `json:"plan_id" validate:"required"`
}

// HandleSetPlan subscribes the caller's workshop to a plan.
func (h *WorkshopHandler) HandleSetPlan(c *fiber.Ctx) error {
	var req SetPlanRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFail(c, err)
	}

	workshop, err := h.service.SetPlan(middleware.UserID(c), req.PlanID)
	if err != nil {
		return fail(c, "could not set plan", err)
	}
	return success(c, fiber.StatusOK, "plan updated", workshop)
}
