package media

import (
	"fmt"
	"log"
	"mime/multipart"
	"strings"

	"github.com/libyanfood/site/internal/database"
	"github.com/libyanfood/site/internal/models"
	"github.com/libyanfood/site/internal/response"
	"github.com/libyanfood/site/internal/utils"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gofiber/fiber/v2"
)

// MaxUploadSize is the largest accepted image in bytes.
var MaxUploadSize int64 = 16 * 1024 * 1024

type UploadResult struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
}

func UploadHandler(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(uint)

	file, err := c.FormFile("file")
	if err != nil {
		return response.BadRequest(c, "No file provided", nil)
	}
	if file.Filename == "" || file.Size == 0 {
		return response.BadRequest(c, "No file selected", nil)
	}

	if file.Size > MaxUploadSize {
		return response.BadRequest(c, "File too large", map[string]interface{}{
			"max_size_mb":  MaxUploadSize / (1024 * 1024),
			"file_size_mb": file.Size / (1024 * 1024),
		})
	}

	mime, err := detectMIME(file)
	if err != nil {
		return response.BadRequest(c, "Unreadable file", err.Error())
	}
	if !strings.HasPrefix(mime, "image/") {
		return response.BadRequest(c, "Only image uploads are allowed", map[string]string{
			"type": mime,
		})
	}

	url, filename, err := utils.UploadFile(file)
	if err != nil {
		return response.InternalError(c, "Failed to upload file: "+err.Error())
	}

	record := models.MediaFile{
		FileName:   filename,
		Original:   file.Filename,
		URL:        url,
		Type:       mime,
		Size:       file.Size,
		UploadedBy: userID,
	}
	if err := database.DB.WithContext(c.UserContext()).Create(&record).Error; err != nil {
		if delErr := utils.DeleteFile(url); delErr != nil {
			log.Printf("⚠️  failed to remove orphaned upload %s: %v", url, delErr)
		}
		return response.InternalError(c, "Failed to save upload metadata")
	}

	return response.Success(c, UploadResult{URL: url, Filename: filename}, "File uploaded successfully")
}

func detectMIME(file *multipart.FileHeader) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open file: %v", err)
	}
	defer src.Close()

	mt, err := mimetype.DetectReader(src)
	if err != nil {
		return "", err
	}
	return mt.String(), nil
}
