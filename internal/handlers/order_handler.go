package handlers

import (
	"atelier/internal/middleware"
	"atelier/internal/models"
	"atelier/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles the order lifecycle routes. The group is already
// behind AuthRequired; individual mutations carry their role guard.
type OrderHandler struct {
	service  *services.OrderService
	validate *validator.Validate
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService) *OrderHandler {
	return &OrderHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the order and item routes.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Get("/", h.HandleList)
	orderRoutes.Get("/:id", h.HandleGet)
	orderRoutes.Get("/:id/tracking", h.HandleTracking)
	orderRoutes.Post("/", middleware.RequireRoles(models.RoleMagazineOwner), h.HandleCreate)
	orderRoutes.Patch("/:id/validate", middleware.RequireRoles(models.RoleValidator), h.HandleValidate)
	orderRoutes.Patch("/:id/reject", middleware.RequireRoles(models.RoleValidator), h.HandleReject)
	orderRoutes.Patch("/:id/advance", middleware.RequireRoles(models.RoleValidator), h.HandleAdvance)

	itemRoutes := router.Group("/items")
	itemRoutes.Patch("/:id/assign", middleware.RequireRoles(models.RoleValidator), h.HandleAssignItem)
	itemRoutes.Patch("/:id/status", middleware.RequireRoles(models.RoleTailor), h.HandleUpdateItemStatus)
}

// HandleCreate places a new order for the caller's magazine.
func (h *OrderHandler) HandleCreate(c *fiber.Ctx) error {
	var req services.CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFail(c, err)
	}

	order, err := h.service.Create(middleware.UserID(c), req)
	if err != nil {
		return fail(c, "could not create order", err)
	}
	return success(c, fiber.StatusCreated, "order created", order)
}

// HandleList returns the orders visible to the caller's role.
func (h *OrderHandler) HandleList(c *fiber.Ctx) error {
	orders, err := h.service.ListForActor(middleware.UserID(c), middleware.UserRole(c))
	if err != nil {
		return fail(c, "could not list orders", err)
	}
	return success(c, fiber.StatusOK, "orders", orders)
}

// HandleGet returns a single order.
func (h *OrderHandler) HandleGet(c *fiber.Ctx) error {
	order, err := h.service.Get(middleware.UserID(c), middleware.UserRole(c), c.Params("id"))
	if err != nil {
		return fail(c, "could not load order", err)
	}
	return success(c, fiber.StatusOK, "order", order)
}

// HandleTracking returns the ordered status audit trail of an order.
func (h *OrderHandler) HandleTracking(c *fiber.Ctx) error {
	rows, err := h.service.Tracking(middleware.UserID(c), middleware.UserRole(c), c.Params("id"))
	if err != nil {
		return fail(c, "could not load order tracking", err)
	}
	return success(c, fiber.StatusOK, "order tracking", rows)
}

// HandleValidate accepts a pending order.
func (h *OrderHandler) HandleValidate(c *fiber.Ctx) error {
	order, err := h.service.Validate(middleware.UserID(c), c.Params("id"))
	if err != nil {
		return fail(c, "could not validate order", err)
	}
	return success(c, fiber.StatusOK, "order validated", order)
}

// HandleReject rejects a pending order terminally.
func (h *OrderHandler) HandleReject(c *fiber.Ctx) error {
	order, err := h.service.Reject(middleware.UserID(c), c.Params("id"))
	if err != nil {
		return fail(c, "could not reject order", err)
	}
	return success(c, fiber.StatusOK, "order rejected", order)
}

// AdvanceRequest names the status to advance to.
type AdvanceRequest struct {
	Status models.OrderStatus `json:"status" validate:"required,oneof=PACKAGING COMPLETED"`
}

// HandleAdvance moves an order to PACKAGING or COMPLETED.
func (h *OrderHandler) HandleAdvance(c *fiber.Ctx) error {
	var req AdvanceRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFail(c, err)
	}

	order, err := h.service.Advance(middleware.UserID(c), c.Params("id"), req.Status)
	if err != nil {
		return fail(c, "could not advance order", err)
	}
	return success(c, fiber.StatusOK, "order advanced", order)
}

// AssignItemRequest binds an item to a tailor.
type AssignItemRequest struct {
	TailorID string `json:"tailor_id" validate:"required"`
	Reason   string `json:"reason" validate:"omitempty,max=255"`
}

// HandleAssignItem assigns an order item to a tailor.
func (h *OrderHandler) HandleAssignItem(c *fiber.Ctx) error {
	var req AssignItemRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFail(c, err)
	}

	item, err := h.service.AssignItem(middleware.UserID(c), c.Params("id"), req.TailorID, req.Reason)
	if err != nil {
		return fail(c, "could not assign item", err)
	}
	return success(c, fiber.StatusOK, "item assigned", item)
}

// ItemStatusRequest names the next item status.
type ItemStatusRequest struct {
	Status models.ItemStatus `json:"status" validate:"required,oneof=IN_PROGRESS COMPLETED"`
}

// HandleUpdateItemStatus progresses an item for its assigned tailor.
func (h *OrderHandler) HandleUpdateItemStatus(c *fiber.Ctx) error {
	var req ItemStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFail(c, err)
	}

	item, err := h.service.UpdateItemStatus(middleware.UserID(c), c.Params("id"), req.Status)
	if err != nil {
		return fail(c, "could not update item status", err)
	}
	return success(c, fiber.StatusOK, "item status updated", item)
}
