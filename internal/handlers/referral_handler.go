package handlers

import (
	"atelier/internal/middleware"
	"atelier/internal/models"
	"atelier/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ReferralHandler handles referral link management. All routes are
// restricted to WORKSHOP_OWNER by the route group in main.
type ReferralHandler struct {
	service  *services.ReferralService
	validate *validator.Validate
}

// NewReferralHandler creates a new ReferralHandler.
func NewReferralHandler(service *services.ReferralService) *ReferralHandler {
	return &ReferralHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the referral management routes.
func (h *ReferralHandler) RegisterRoutes(router fiber.Router) {
	referralRoutes := router.Group("/referrals")
	referralRoutes.Get("/", h.HandleList)
	referralRoutes.Post("/", h.HandleCreate)
	referralRoutes.Post("/bulk", h.HandleCreateBulk)
	referralRoutes.Patch("/:id/deactivate", h.HandleDeactivate)
	referralRoutes.Patch("/:id/reactivate", h.HandleReactivate)
}

// CreateReferralRequest is the request body for link creation.
type CreateReferralRequest struct {
	ReferralType  models.ReferralType `json:"referral_type" validate:"required,oneof=MAGAZINE TAILOR VALIDATOR"`
	ExpiresInDays *int                `json:"expires_in_days" validate:"omitempty,gt=0"`
}

// BulkReferralRequest is the request body for bulk link creation.
type BulkReferralRequest struct {
	ReferralType  models.ReferralType `json:"referral_type" validate:"required,oneof=MAGAZINE TAILOR VALIDATOR"`
	ExpiresInDays *int                `json:"expires_in_days" validate:"omitempty,gt=0"`
	Count         int                 `json:"count" validate:"required,min=1,max=100"`
}

// ReactivateRequest optionally resets the expiry when reactivating.
type ReactivateRequest struct {
	ExpiresInDays *int `json:"expires_in_days" validate:"omitempty,gt=0"`
}

// HandleList returns every link of the caller's workshop.
func (h *ReferralHandler) HandleList(c *fiber.Ctx) error {
	links, err := h.service.ListForOwner(middleware.UserID(c))
	if err != nil {
		return fail(c, "could not list referral links", err)
	}
	return success(c, fiber.StatusOK, "referral links", links)
}

// HandleCreate creates one referral link.
func (h *ReferralHandler) HandleCreate(c *fiber.Ctx) error {
	var req CreateReferralRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFail(c, err)
	}

	link, err := h.service.CreateLink(middleware.UserID(c), req.ReferralType, req.ExpiresInDays)
	if err != nil {
		return fail(c, "could not create referral link", err)
	}
	return success(c, fiber.StatusCreated, "referral link created", link)
}

// HandleCreateBulk creates N independent links. Creation is not atomic:
// on partial failure the links created so far are kept and returned.
func (h *ReferralHandler) HandleCreateBulk(c *fiber.Ctx) error {
	var req BulkReferralRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFail(c, err)
	}

	links, err := h.service.CreateBulk(middleware.UserID(c), req.ReferralType, req.ExpiresInDays, req.Count)
	if err != nil {
		if len(links) > 0 {
			return c.Status(fiber.StatusInternalServerError).JSON(envelope{
				Success: false,
				Message: "bulk creation partially failed",
				Data:    links,
				Error:   "some links could not be created",
			})
		}
		return fail(c, "could not create referral links", err)
	}
	return success(c, fiber.StatusCreated, "referral links created", links)
}

// HandleDeactivate flips a link inactive.
func (h *ReferralHandler) HandleDeactivate(c *fiber.Ctx) error {
	link, err := h.service.Deactivate(c.Params("id"), middleware.UserID(c))
	if err != nil {
		return fail(c, "could not deactivate referral link", err)
	}
	return success(c, fiber.StatusOK, "referral link deactivated", link)
}

// HandleReactivate flips a link active, optionally with a new expiry.
func (h *ReferralHandler) HandleReactivate(c *fiber.Ctx) error {
	var req ReactivateRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, err)
		}
		if err := h.validate.Struct(req); err != nil {
			return validationFail(c, err)
		}
	}

	link, err := h.service.Reactivate(c.Params("id"), middleware.UserID(c), req.ExpiresInDays)
	if err != nil {
		return fail(c, "could not reactivate referral link", err)
	}
	return success(c, fiber.StatusOK, "referral link reactivated", link)
}
