package handlers

import (
	"errors"

	"github.com/freshtrio/backend/internal/dto"
	"github.com/freshtrio/backend/internal/middleware"
	"github.com/freshtrio/backend/internal/models"
	"github.com/freshtrio/backend/internal/repository"
	"github.com/freshtrio/backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type OrderHandler struct {
	orders *services.OrderService
	users  repository.UserStore
}

func NewOrderHandler(orders *services.OrderService, users repository.UserStore) *OrderHandler {
	return &OrderHandler{orders: orders, users: users}
}

// caller resolves the authenticated token subject to a user record.
func (h *OrderHandler) caller(c *fiber.Ctx) (*models.User, error) {
	email := middleware.ClaimSubject(c)
	if email == "" {
		return nil, fiber.ErrUnauthorized
	}
	user, err := h.users.FindByEmail(c.Context(), email)
	if err != nil {
		return nil, fiber.ErrUnauthorized
	}
	return user, nil
}

func (h *OrderHandler) Create(c *fiber.Ctx) error {
	user, err := h.caller(c)
	if err != nil {
		return err
	}

	var req dto.CreateOrderRequest
	if !parseBody(c, &req) {
		return nil
	}

	order, err := h.orders.Create(c.Context(), user.ID, &req)
	if err != nil {
		if errors.Is(err, services.ErrProductNotFound) || errors.Is(err, services.ErrEmptyOrder) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return fiber.ErrInternalServerError
	}
	return c.Status(fiber.StatusCreated).JSON(order)
}

func (h *OrderHandler) List(c *fiber.Ctx) error {
	user, err := h.caller(c)
	if err != nil {
		return err
	}

	orders, err := h.orders.ListByUser(c.Context(), user.ID)
	if err != nil {
		return fiber.ErrInternalServerError
	}
	return c.JSON(orders)
}

func (h *OrderHandler) Get(c *fiber.Ctx) error {
	user, err := h.caller(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid order id",
		})
	}

	order, err := h.orders.GetByID(c.Context(), id, user.ID, user.Role != models.RoleCustomer)
	if err != nil {
		return orderError(c, err)
	}
	return c.JSON(order)
}

func (h *OrderHandler) Track(c *fiber.Ctx) error {
	user, err := h.caller(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid order id",
		})
	}

	tracking, err := h.orders.Track(c.Context(), id, user.ID, user.Role != models.RoleCustomer)
	if err != nil {
		return orderError(c, err)
	}
	return c.JSON(tracking)
}

func (h *OrderHandler) Cancel(c *fiber.Ctx) error {
	user, err := h.caller(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid order id",
		})
	}

	order, err := h.orders.Cancel(c.Context(), id, user.ID)
	if err != nil {
		return orderError(c, err)
	}
	return c.JSON(order)
}

// UpdateStatus moves an order along the delivery pipeline (driver/admin).
func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid order id",
		})
	}

	var req dto.UpdateOrderStatusRequest
	if !parseBody(c, &req) {
		return nil
	}

	order, err := h.orders.UpdateStatus(c.Context(), id, models.OrderStatus(req.Status))
	if err != nil {
		return orderError(c, err)
	}
	return c.JSON(order)
}

func orderError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrOrderNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "Order not found",
		})
	case errors.Is(err, services.ErrOrderNotCancelled):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	default:
		return fiber.ErrInternalServerError
	}
}
