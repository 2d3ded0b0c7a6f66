package models

import "time"

type MediaFile struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	FileName   string    `gorm:"size:255" json:"filename"`
	Original   string    `gorm:"size:255" json:"original_name"`
	URL        string    `gorm:"size:500" json:"url"`
	Type       string    `gorm:"size:100;index" json:"type"`
	Size       int64     `json:"size"`
	UploadedBy uint      `gorm:"index" json:"uploaded_by"`
	CreatedAt  time.Time `json:"created_at"`
}
