package utils

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

const ImagesFolder = "images"

var (
	UploadBasePath = "./uploads"

	unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)
)

func InitLocalStorage(base string) error {
	if base != "" {
		UploadBasePath = base
	}

	dir := filepath.Join(UploadBasePath, ImagesFolder)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %v", dir, err)
	}

	return nil
}

// SafeFileName reduces an uploaded file name to ASCII letters, digits, dots,
// dashes and underscores. Names with nothing left keep only their extension.
func SafeFileName(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)

	base = unsafeFileChars.ReplaceAllString(strings.ReplaceAll(base, " ", "_"), "")
	base = strings.Trim(base, "._")
	if base == "" {
		base = "file"
	}
	ext = strings.ToLower(unsafeFileChars.ReplaceAllString(ext, ""))
	if ext == "." {
		ext = ""
	}
	return base + ext
}

// UniqueFileName prefixes the sanitized name with a random UUID.
func UniqueFileName(original string) string {
	return fmt.Sprintf("%s_%s", uuid.New().String(), SafeFileName(original))
}

func UploadToLocal(file *multipart.FileHeader) (string, string, error) {
	src, err := file.Open()
	if err != nil {
		return "", "", fmt.Errorf("failed to open file: %v", err)
	}
	defer src.Close()

	filename := UniqueFileName(file.Filename)
	fullPath := filepath.Join(UploadBasePath, ImagesFolder, filename)

	dst, err := os.Create(fullPath)
	if err != nil {
		return "", "", fmt.Errorf("failed to create file: %v", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", "", fmt.Errorf("failed to save file: %v", err)
	}

	return "/uploads/" + ImagesFolder + "/" + filename, filename, nil
}

func DeleteFromLocal(url string) error {
	rel := strings.TrimPrefix(url, "/uploads/")
	if rel == url {
		return fmt.Errorf("not a local upload URL: %s", url)
	}

	baseAbs, err := filepath.Abs(UploadBasePath)
	if err != nil {
		return fmt.Errorf("invalid base path: %v", err)
	}
	absPath, err := filepath.Abs(filepath.Join(UploadBasePath, filepath.FromSlash(rel)))
	if err != nil {
		return fmt.Errorf("invalid file path: %v", err)
	}
	if !strings.HasPrefix(absPath, baseAbs+string(os.PathSeparator)) {
		return fmt.Errorf("file path outside uploads directory")
	}

	if err := os.Remove(absPath); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("file not found: %s", url)
		}
		return fmt.Errorf("failed to delete file: %v", err)
	}

	return nil
}

func FileExists(url string) bool {
	rel := strings.TrimPrefix(url, "/uploads/")
	_, err := os.Stat(filepath.Join(UploadBasePath, filepath.FromSlash(rel)))
	return !os.IsNotExist(err)
}
