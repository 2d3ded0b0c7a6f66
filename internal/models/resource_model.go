package models

import (
	"strings"
	"time"
)

// Resource is implemented by every record the admin manages as a list.
type Resource interface {
	GetID() uint
}

// Editable is implemented by the pointer types of the admin-managed catalog
// records (services, projects, testimonials, news).
type Editable interface {
	Resource
	SetActive(active bool)
	ResetIdentity()
	Validate() map[string]string
}

type Service struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Icon        string    `gorm:"size:50" json:"icon"`
	Color       string    `gorm:"size:100" json:"color"`
	OrderNum    int       `gorm:"default:0" json:"order_num"`
	IsActive    bool      `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

type Project struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Image       string    `gorm:"size:500" json:"image"`
	Location    string    `gorm:"size:255" json:"location"`
	Date        string    `gorm:"size:100" json:"date"`
	Weight      string    `gorm:"size:100" json:"weight"`
	OrderNum    int       `gorm:"default:0" json:"order_num"`
	IsActive    bool      `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

type Testimonial struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Position  string    `gorm:"size:255" json:"position"`
	Content   string    `gorm:"type:text" json:"content"`
	Image     string    `gorm:"size:500" json:"image"`
	Rating    int       `gorm:"default:5" json:"rating"`
	OrderNum  int       `gorm:"default:0" json:"order_num"`
	IsActive  bool      `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

type NewsItem struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Title      string    `gorm:"size:255;not null" json:"title"`
	Excerpt    string    `gorm:"type:text" json:"excerpt"`
	Content    string    `gorm:"type:text" json:"content"`
	Image      string    `gorm:"size:500" json:"image"`
	Category   string    `gorm:"size:100" json:"category"`
	Author     string    `gorm:"size:255" json:"author"`
	Date       string    `gorm:"size:100" json:"date"`
	IsFeatured bool      `gorm:"default:false" json:"is_featured"`
	IsActive   bool      `gorm:"default:true" json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
}

func (NewsItem) TableName() string {
	return "news"
}

type ContactMessage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Email     string    `gorm:"size:255;not null" json:"email"`
	Phone     string    `gorm:"size:50" json:"phone"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	IsRead    bool      `gorm:"default:false" json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

func (s Service) GetID() uint        { return s.ID }
func (p Project) GetID() uint        { return p.ID }
func (t Testimonial) GetID() uint    { return t.ID }
func (n NewsItem) GetID() uint       { return n.ID }
func (m ContactMessage) GetID() uint { return m.ID }

func (s *Service) SetActive(active bool)     { s.IsActive = active }
func (p *Project) SetActive(active bool)     { p.IsActive = active }
func (t *Testimonial) SetActive(active bool) { t.IsActive = active }
func (n *NewsItem) SetActive(active bool)    { n.IsActive = active }

func (s *Service) ResetIdentity()     { s.ID, s.CreatedAt = 0, time.Time{} }
func (p *Project) ResetIdentity()     { p.ID, p.CreatedAt = 0, time.Time{} }
func (t *Testimonial) ResetIdentity() { t.ID, t.CreatedAt = 0, time.Time{} }
func (n *NewsItem) ResetIdentity()    { n.ID, n.CreatedAt = 0, time.Time{} }

func (s *Service) Validate() map[string]string {
	return requireFields(map[string]string{"title": s.Title})
}

func (p *Project) Validate() map[string]string {
	return requireFields(map[string]string{"title": p.Title})
}

func (t *Testimonial) Validate() map[string]string {
	errs := requireFields(map[string]string{"name": t.Name})
	if t.Rating < 1 || t.Rating > 5 {
		if errs == nil {
			errs = map[string]string{}
		}
		errs["rating"] = "rating must be between 1 and 5"
	}
	return errs
}

func (n *NewsItem) Validate() map[string]string {
	return requireFields(map[string]string{"title": n.Title})
}

func (m *ContactMessage) Validate() map[string]string {
	return requireFields(map[string]string{
		"name":    m.Name,
		"email":   m.Email,
		"message": m.Message,
	})
}

// requireFields reports every empty value, or nil when all are present.
func requireFields(fields map[string]string) map[string]string {
	var errs map[string]string
	for name, value := range fields {
		if strings.TrimSpace(value) == "" {
			if errs == nil {
				errs = map[string]string{}
			}
			errs[name] = name + " is required"
		}
	}
	return errs
}
