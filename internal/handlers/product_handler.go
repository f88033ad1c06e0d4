package handlers

import (
	"errors"
	"reflect"
	"strconv"
	"strings"

	"catalog/internal/models"
	"catalog/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// DefaultPageSize is used when a list request has no max parameter.
const DefaultPageSize = 10

// Envelope is the body of every successful response.
type Envelope struct {
	Status int         `json:"status"`
	Data   interface{} `json:"data"`
}

// listParams are the list query parameters after parsing, before validation.
type listParams struct {
	Category string `query:"category" validate:"excludesall=0123456789"`
	Page     int    `query:"page" validate:"min=1"`
	Max      int    `query:"max" validate:"min=0"`
}

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	service         *services.ProductService
	validate        *validator.Validate
	defaultPageSize int
}

// NewProductHandler creates a new ProductHandler. A non-positive
// defaultPageSize falls back to DefaultPageSize.
func NewProductHandler(service *services.ProductService, defaultPageSize int) *ProductHandler {
	if defaultPageSize <= 0 {
		defaultPageSize = DefaultPageSize
	}
	return &ProductHandler{
		service:         service,
		validate:        newValidator(),
		defaultPageSize: defaultPageSize,
	}
}

// newValidator reports fields by their query or JSON name.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"query", "json"} {
			name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return f.Name
	})
	return v
}

// RegisterRoutes registers the product routes with the Fiber app.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleListProducts)
	productRoutes.Post("/", h.HandleCreateProduct)
}

// HandleListProducts returns one page of products, newest first, optionally
// restricted to a category.
func (h *ProductHandler) HandleListProducts(c *fiber.Ctx) error {
	params, err := h.parseListParams(c)
	if err != nil {
		return err
	}
	if err := h.validate.Struct(params); err != nil {
		return newValidationError(err)
	}

	products, err := h.service.ListProducts(c.UserContext(), services.ListQuery{
		Category: params.Category,
		Page:     params.Page,
		Max:      params.Max,
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(Envelope{
		Status: fiber.StatusOK,
		Data:   products,
	})
}

// parseListParams applies defaults for missing or empty parameters.
func (h *ProductHandler) parseListParams(c *fiber.Ctx) (listParams, error) {
	params := listParams{
		Category: c.Query("category", services.CategoryAll),
	}

	var err error
	if params.Page, err = queryInt(c, "page", 1); err != nil {
		return listParams{}, err
	}
	if params.Max, err = queryInt(c, "max", h.defaultPageSize); err != nil {
		return listParams{}, err
	}
	return params, nil
}

func queryInt(c *fiber.Ctx, key string, def int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) {
			err = numErr.Err
		}
		return 0, &ArgumentError{Param: "query parameter " + key, Value: raw, Err: err}
	}
	return n, nil
}

// HandleCreateProduct stores the product in the request body. id and
// createdAt in the body are ignored.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var product models.Product
	if err := c.BodyParser(&product); err != nil {
		return &ArgumentError{Param: "request body", Err: err}
	}
	if err := h.validate.Struct(product); err != nil {
		return newValidationError(err)
	}

	created, err := h.service.CreateProduct(c.UserContext(), product)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(Envelope{
		Status: fiber.StatusCreated,
		Data:   created,
	})
}
