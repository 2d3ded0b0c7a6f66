package content

import (
	"github.com/libyanfood/site/internal/response"

	"github.com/gofiber/fiber/v2"
)

const maxKeyLength = 100

type UpdateContentRequest struct {
	Value *string `json:"value"`
}

func GetAllContentHandler(c *fiber.Ctx) error {
	tree, err := GetAllContent(c.UserContext())
	if err != nil {
		return response.InternalError(c, "Failed to load content")
	}
	return response.Success(c, tree, "")
}

func GetSectionHandler(c *fiber.Ctx) error {
	section := c.Params("section")
	if !validKey(section) {
		return response.BadRequest(c, "Invalid section", nil)
	}

	fields, err := GetSection(c.UserContext(), section)
	if err != nil {
		return response.InternalError(c, "Failed to load content")
	}
	return response.Success(c, fields, "")
}

func UpdateContentHandler(c *fiber.Ctx) error {
	section := c.Params("section")
	key := c.Params("key")
	if !validKey(section) || !validKey(key) {
		return response.BadRequest(c, "Invalid section or key", nil)
	}

	var body UpdateContentRequest
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}
	if body.Value == nil {
		return response.ValidationError(c, map[string]string{
			"value": "value is required",
		})
	}

	row, err := UpdateContent(c.UserContext(), section, key, *body.Value)
	if err != nil {
		return response.InternalError(c, "Failed to update content")
	}

	return response.Success(c, row, "Content updated successfully")
}

func validKey(s string) bool {
	return s != "" && len(s) <= maxKeyLength
}
