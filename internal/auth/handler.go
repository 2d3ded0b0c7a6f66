package auth

import (
	"errors"
	"log"

	"github.com/libyanfood/site/internal/database"
	"github.com/libyanfood/site/internal/models"
	"github.com/libyanfood/site/internal/response"
	"github.com/libyanfood/site/internal/utils"

	"github.com/gofiber/fiber/v2"
)

func LoginHandler(c *fiber.Ctx) error {
	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}

	if body.Username == "" || body.Password == "" {
		return response.ValidationError(c, map[string]string{
			"username": "username is required",
			"password": "password is required",
		})
	}

	accessToken, user, err := LoginUser(body.Username, body.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			return response.Error(c, fiber.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid credentials", nil)
		}
		return response.InternalError(c, "Failed to log in")
	}

	return response.Success(c, fiber.Map{
		"access_token": accessToken,
		"expires_in":   int(utils.AccessTokenTTL.Seconds()),
		"user":         user,
	}, "Login successful")
}

func MeHandler(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)

	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		return response.FromStoreError(c, err, "User")
	}

	return response.Success(c, user, "")
}

// LogoutHandler only acknowledges the logout; access tokens are stateless
// and the client discards its copy.
func LogoutHandler(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)
	log.Printf("User %d logged out", userID)

	return response.Success(c, fiber.Map{"user_id": userID}, "Logout successful")
}
