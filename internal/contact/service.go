package contact

import (
	"context"
	"fmt"
	"strings"

	"github.com/libyanfood/site/internal/database"
	"github.com/libyanfood/site/internal/models"

	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm"
)

var policy = bluemonday.StrictPolicy()

func sanitizeInput(input string) string {
	return strings.TrimSpace(policy.Sanitize(input))
}

// Submit stores a message from the public contact form. Markup is stripped
// from every field before validation.
func Submit(ctx context.Context, msg *models.ContactMessage) (map[string]string, error) {
	msg.ID = 0
	msg.IsRead = false
	msg.Name = sanitizeInput(msg.Name)
	msg.Email = sanitizeInput(msg.Email)
	msg.Phone = sanitizeInput(msg.Phone)
	msg.Message = sanitizeInput(msg.Message)

	if errs := msg.Validate(); errs != nil {
		return errs, nil
	}

	if err := database.DB.WithContext(ctx).Create(msg).Error; err != nil {
		return nil, err
	}
	return nil, nil
}

func List(ctx context.Context) ([]models.ContactMessage, error) {
	messages := []models.ContactMessage{}
	err := database.DB.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Find(&messages).Error
	return messages, err
}

func MarkRead(ctx context.Context, id uint) error {
	result := database.DB.WithContext(ctx).
		Model(&models.ContactMessage{}).
		Where("id = ?", id).
		Update("is_read", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		// MySQL reports zero affected rows when the value did not change.
		var count int64
		database.DB.WithContext(ctx).Model(&models.ContactMessage{}).Where("id = ?", id).Count(&count)
		if count == 0 {
			return fmt.Errorf("message %d: %w", id, gorm.ErrRecordNotFound)
		}
	}
	return nil
}

func Delete(ctx context.Context, id uint) error {
	result := database.DB.WithContext(ctx).Delete(&models.ContactMessage{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("message %d: %w", id, gorm.ErrRecordNotFound)
	}
	return nil
}
