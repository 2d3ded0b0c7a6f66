package models

import "time"

// SiteContent is one editable value of the public site, keyed by (section, key).
type SiteContent struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	Section   string    `gorm:"size:100;not null;uniqueIndex:idx_section_key" json:"-"`
	Key       string    `gorm:"size:100;not null;uniqueIndex:idx_section_key" json:"-"`
	Value     string    `gorm:"type:text" json:"value"`
	Type      string    `gorm:"size:20;default:'text'" json:"type"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (SiteContent) TableName() string {
	return "site_content"
}
