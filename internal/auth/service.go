package auth

import (
	"errors"
	"fmt"

	"github.com/libyanfood/site/internal/database"
	"github.com/libyanfood/site/internal/models"
	"github.com/libyanfood/site/internal/utils"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// LoginUser checks a username/password pair and issues an access token.
func LoginUser(username, password string) (string, *models.User, error) {
	var user models.User
	if err := database.DB.Where("username = ?", username).First(&user).Error; err != nil {
		return "", nil, ErrInvalidCredentials
	}

	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return "", nil, ErrInvalidCredentials
	}

	accessToken, err := utils.GenerateJWT(user.ID, user.Username, user.Role)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return accessToken, &user, nil
}
