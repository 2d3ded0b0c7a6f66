// Package catalog serves the admin-managed site lists (services, projects,
// testimonials, news) through one set of generic CRUD handlers.
package catalog

import (
	"encoding/json"

	"github.com/libyanfood/site/internal/models"
	"github.com/libyanfood/site/internal/response"

	"github.com/gofiber/fiber/v2"
)

type Options struct {
	// Name is used in response messages, e.g. "Service".
	Name string
	// Order is the SQL ORDER BY used by the public list.
	Order string
}

// Register mounts GET and POST on path and PUT and DELETE on path/:id.
// Everything except GET runs behind the protect handlers.
func Register[T any, PT interface {
	*T
	models.Editable
}](router fiber.Router, path string, opts Options, protect ...fiber.Handler) {
	router.Get(path, ListHandler[T](opts))
	router.Post(path, chain(protect, CreateHandler[T, PT](opts))...)
	router.Put(path+"/:id", chain(protect, UpdateHandler[T, PT](opts))...)
	router.Delete(path+"/:id", chain(protect, DeleteHandler[T](opts))...)
}

func chain(middleware []fiber.Handler, h fiber.Handler) []fiber.Handler {
	handlers := make([]fiber.Handler, 0, len(middleware)+1)
	handlers = append(handlers, middleware...)
	return append(handlers, h)
}

func ListHandler[T any](opts Options) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := ListActive[T](c.UserContext(), opts.Order)
		if err != nil {
			return response.InternalError(c, "Failed to list "+opts.Name)
		}
		return response.Success(c, items, "")
	}
}

func CreateHandler[T any, PT interface {
	*T
	models.Editable
}](opts Options) fiber.Handler {
	return func(c *fiber.Ctx) error {
		item := new(T)
		if err := c.BodyParser(item); err != nil {
			return response.BadRequest(c, "Invalid request body", err.Error())
		}
		if errs := PT(item).Validate(); errs != nil {
			return response.ValidationError(c, errs)
		}

		if err := Create[T, PT](c.UserContext(), item); err != nil {
			return response.InternalError(c, "Failed to create "+opts.Name)
		}

		return response.Created(c, item, opts.Name+" created successfully")
	}
}

func UpdateHandler[T any, PT interface {
	*T
	models.Editable
}](opts Options) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return response.BadRequest(c, "Invalid ID", nil)
		}

		item := new(T)
		if err := c.BodyParser(item); err != nil {
			return response.BadRequest(c, "Invalid request body", err.Error())
		}
		if !hasKey(c.Body(), "is_active") {
			PT(item).SetActive(true)
		}
		if errs := PT(item).Validate(); errs != nil {
			return response.ValidationError(c, errs)
		}

		updated, err := Update[T, PT](c.UserContext(), uint(id), item)
		if err != nil {
			return response.FromStoreError(c, err, opts.Name)
		}

		return response.Success(c, updated, opts.Name+" updated successfully")
	}
}

func DeleteHandler[T any](opts Options) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return response.BadRequest(c, "Invalid ID", nil)
		}

		if err := Delete[T](c.UserContext(), uint(id)); err != nil {
			return response.FromStoreError(c, err, opts.Name)
		}

		return response.Success(c, nil, opts.Name+" deleted successfully")
	}
}

func hasKey(body []byte, key string) bool {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return false
	}
	_, ok := fields[key]
	return ok
}
