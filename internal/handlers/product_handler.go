package handlers

import (
	"errors"

	"github.com/freshtrio/backend/internal/dto"
	"github.com/freshtrio/backend/internal/models"
	"github.com/freshtrio/backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ProductHandler struct {
	products *services.ProductService
}

func NewProductHandler(products *services.ProductService) *ProductHandler {
	return &ProductHandler{products: products}
}

func (h *ProductHandler) List(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	size := c.QueryInt("size", 20)
	category := c.Query("category")

	result, err := h.products.List(c.Context(), category, page, size)
	if err != nil {
		return fiber.ErrInternalServerError
	}
	return c.JSON(result)
}

func (h *ProductHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid product id",
		})
	}

	product, err := h.products.GetByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrProductNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "Product not found",
			})
		}
		return fiber.ErrInternalServerError
	}
	return c.JSON(product)
}

func (h *ProductHandler) Categories(c *fiber.Ctx) error {
	categories, err := h.products.Categories(c.Context())
	if err != nil {
		return fiber.ErrInternalServerError
	}
	return c.JSON(categories)
}

func (h *ProductHandler) Search(c *fiber.Ctx) error {
	q := c.Query("q")
	if q == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Query parameter q is required",
		})
	}

	result, err := h.products.Search(c.Context(), q, c.Query("category"), c.QueryInt("page", 1), c.QueryInt("size", 20))
	if err != nil {
		return fiber.ErrInternalServerError
	}
	return c.JSON(result)
}

// Save upserts a catalog item (admin only).
func (h *ProductHandler) Save(c *fiber.Ctx) error {
	var product models.Product
	if err := c.BodyParser(&product); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}
	if product.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Product name is required",
		})
	}

	if err := h.products.Save(c.Context(), &product); err != nil {
		return fiber.ErrInternalServerError
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// Delete soft-deletes a catalog item (admin only).
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid product id",
		})
	}

	if err := h.products.Delete(c.Context(), id); err != nil {
		if errors.Is(err, services.ErrProductNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "Product not found",
			})
		}
		return fiber.ErrInternalServerError
	}
	return c.JSON(fiber.Map{"message": "Product deleted"})
}
