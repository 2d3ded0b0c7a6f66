package catalog

import (
	"context"
	"fmt"

	"github.com/libyanfood/site/internal/database"
	"github.com/libyanfood/site/internal/models"

	"gorm.io/gorm"
)

// ListActive returns the active records of T in display order.
func ListActive[T any](ctx context.Context, order string) ([]T, error) {
	items := []T{}
	err := database.DB.WithContext(ctx).
		Where("is_active = ?", true).
		Order(order).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// Create inserts item as a new active record with a server-assigned id.
func Create[T any, PT interface {
	*T
	models.Editable
}](ctx context.Context, item *T) error {
	p := PT(item)
	p.ResetIdentity()
	p.SetActive(true)
	return database.DB.WithContext(ctx).Create(item).Error
}

// Update overwrites every attribute of record id with item, zero values
// included, and returns the stored record.
func Update[T any, PT interface {
	*T
	models.Editable
}](ctx context.Context, id uint, item *T) (*T, error) {
	db := database.DB.WithContext(ctx)

	existing := new(T)
	if err := db.First(existing, id).Error; err != nil {
		return nil, err
	}

	p := PT(item)
	p.ResetIdentity()

	err := db.Model(existing).
		Select("*").
		Omit("id", "created_at").
		Updates(item).Error
	if err != nil {
		return nil, err
	}

	updated := new(T)
	if err := db.First(updated, id).Error; err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes record id permanently.
func Delete[T any](ctx context.Context, id uint) error {
	result := database.DB.WithContext(ctx).Delete(new(T), id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("delete %d: %w", id, gorm.ErrRecordNotFound)
	}
	return nil
}
