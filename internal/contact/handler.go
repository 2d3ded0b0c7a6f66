package contact

import (
	"github.com/libyanfood/site/internal/models"
	"github.com/libyanfood/site/internal/response"

	"github.com/gofiber/fiber/v2"
)

type SubmitRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

func SubmitHandler(c *fiber.Ctx) error {
	var body SubmitRequest
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}

	msg := models.ContactMessage{
		Name:    body.Name,
		Email:   body.Email,
		Phone:   body.Phone,
		Message: body.Message,
	}

	errs, err := Submit(c.UserContext(), &msg)
	if err != nil {
		return response.InternalError(c, "Failed to send message")
	}
	if errs != nil {
		return response.ValidationError(c, errs)
	}

	return response.Created(c, fiber.Map{"id": msg.ID}, "Message sent successfully")
}

func ListHandler(c *fiber.Ctx) error {
	messages, err := List(c.UserContext())
	if err != nil {
		return response.InternalError(c, "Failed to list messages")
	}
	return response.Success(c, messages, "")
}

func MarkReadHandler(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Invalid ID", nil)
	}

	if err := MarkRead(c.UserContext(), uint(id)); err != nil {
		return response.FromStoreError(c, err, "Message")
	}
	return response.Success(c, nil, "Message marked as read")
}

func DeleteHandler(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Invalid ID", nil)
	}

	if err := Delete(c.UserContext(), uint(id)); err != nil {
		return response.FromStoreError(c, err, "Message")
	}
	return response.Success(c, nil, "Message deleted successfully")
}
