package stats

import (
	"context"

	"github.com/libyanfood/site/internal/database"
	"github.com/libyanfood/site/internal/models"
	"github.com/libyanfood/site/internal/response"

	"github.com/gofiber/fiber/v2"
)

// Dashboard is the set of counters shown on the admin home screen.
type Dashboard struct {
	Services       int64 `json:"services"`
	Projects       int64 `json:"projects"`
	Testimonials   int64 `json:"testimonials"`
	News           int64 `json:"news"`
	UnreadMessages int64 `json:"unread_messages"`
	TotalMessages  int64 `json:"total_messages"`
}

func Collect(ctx context.Context) (*Dashboard, error) {
	db := database.DB.WithContext(ctx)
	d := &Dashboard{}

	counts := []struct {
		model interface{}
		where string
		args  []interface{}
		dest  *int64
	}{
		{&models.Service{}, "is_active = ?", []interface{}{true}, &d.Services},
		{&models.Project{}, "is_active = ?", []interface{}{true}, &d.Projects},
		{&models.Testimonial{}, "is_active = ?", []interface{}{true}, &d.Testimonials},
		{&models.NewsItem{}, "is_active = ?", []interface{}{true}, &d.News},
		{&models.ContactMessage{}, "is_read = ?", []interface{}{false}, &d.UnreadMessages},
		{&models.ContactMessage{}, "1 = 1", nil, &d.TotalMessages},
	}

	for _, q := range counts {
		if err := db.Model(q.model).Where(q.where, q.args...).Count(q.dest).Error; err != nil {
			return nil, err
		}
	}
	return d, nil
}

func Handler(c *fiber.Ctx) error {
	d, err := Collect(c.UserContext())
	if err != nil {
		return response.InternalError(c, "Failed to load stats")
	}
	return response.Success(c, d, "")
}
