package manager

import (
	"log/slog"

	"github.com/libyanfood/site/internal/admin/apiclient"
	"github.com/libyanfood/site/internal/admin/resource"
	"github.com/libyanfood/site/internal/admin/schema"
	"github.com/libyanfood/site/internal/models"
)

// The admin screens, one configuration each.

func Services(api *apiclient.Client, log *slog.Logger) *Manager[models.Service] {
	rc := resource.Services(api)
	return New(Config[models.Service]{
		Entity:        "service",
		Client:        rc,
		Form:          schema.ServiceForm,
		ConfirmPrompt: "هل أنت متأكد من حذف هذه الخدمة؟",
		Logger:        log,
	})
}

func Projects(api *apiclient.Client, log *slog.Logger) *Manager[models.Project] {
	rc := resource.Projects(api)
	return New(Config[models.Project]{
		Entity:        "project",
		Client:        rc,
		Form:          schema.ProjectForm,
		ConfirmPrompt: "هل أنت متأكد من حذف هذا المشروع؟",
		Uploader:      rc,
		Logger:        log,
	})
}

func Testimonials(api *apiclient.Client, log *slog.Logger) *Manager[models.Testimonial] {
	rc := resource.Testimonials(api)
	return New(Config[models.Testimonial]{
		Entity:        "testimonial",
		Client:        rc,
		Form:          schema.TestimonialForm,
		ConfirmPrompt: "هل أنت متأكد من حذف هذا الرأي؟",
		Uploader:      rc,
		Logger:        log,
	})
}

func News(api *apiclient.Client, log *slog.Logger) *Manager[models.NewsItem] {
	rc := resource.News(api)
	return New(Config[models.NewsItem]{
		Entity:        "news",
		Client:        rc,
		Form:          schema.NewsForm,
		ConfirmPrompt: "هل أنت متأكد من حذف هذا الخبر؟",
		Uploader:      rc,
		Logger:        log,
	})
}

func Messages(api *apiclient.Client, log *slog.Logger) *Manager[models.ContactMessage] {
	rc := resource.Messages(api)
	return New(Config[models.ContactMessage]{
		Entity:        "message",
		Client:        rc,
		Form:          schema.MessageForm,
		ConfirmPrompt: "هل أنت متأكد من حذف هذه الرسالة؟",
		MarkRead:      rc.MarkRead,
		IsUnread:      func(m models.ContactMessage) bool { return !m.IsRead },
		Logger:        log,
	})
}
