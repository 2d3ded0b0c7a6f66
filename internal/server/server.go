package server

import (
	"github.com/libyanfood/site/internal/media"
	"github.com/libyanfood/site/internal/response"
	"github.com/libyanfood/site/internal/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type Options struct {
	CORSOrigins    string
	MaxUploadBytes int64
	LoginRateLimit int
	// Quiet disables the request logger.
	Quiet bool
}

func DefaultOptions() Options {
	return Options{
		CORSOrigins:    "*",
		MaxUploadBytes: 16 * 1024 * 1024,
		LoginRateLimit: 10,
	}
}

func New(db *gorm.DB, opts Options) *fiber.App {
	media.MaxUploadSize = opts.MaxUploadBytes

	app := fiber.New(fiber.Config{
		// Leave room for the multipart envelope around a maximum-size file.
		BodyLimit: int(opts.MaxUploadBytes) + 1024*1024,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return response.Error(c, e.Code, "HTTP_ERROR", e.Message, nil)
			}
			return response.InternalError(c, "Internal server error")
		},
	})

	app.Static("/uploads", utils.UploadBasePath, fiber.Static{
		Compress:  true,
		ByteRange: true,
		Browse:    false,
		MaxAge:    3600,
	})

	SetupRoutes(app, opts)

	return app
}
