package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CourseStatus string

const (
	CourseDraft     CourseStatus = "draft"
	CoursePublished CourseStatus = "published"
	CourseArchived  CourseStatus = "archived"
)

func (s CourseStatus) Valid() bool {
	switch s {
	case CourseDraft, CoursePublished, CourseArchived:
		return true
	}
	return false
}

type Course struct {
	ID           uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	Title        string       `gorm:"index;not null" json:"title"`
	Description  string       `json:"description"`
	ThumbnailURL string       `json:"thumbnail_url"`
	Status       CourseStatus `gorm:"not null;default:'draft';index" json:"status"`
	InstructorID uuid.UUID    `gorm:"type:uuid;index" json:"instructor_id"`

	// Lessons are deleted together with the course.
	Lessons []Lesson `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE;" json:"lessons,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *Course) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.Status == "" {
		c.Status = CourseDraft
	}
	return nil
}

// Lesson belongs to exactly one course. Order is a sort key only: duplicates
// are allowed.
type Lesson struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID uuid.UUID `gorm:"type:uuid;index;not null" json:"course_id"`
	Title    string    `gorm:"not null" json:"title"`
	Content  string    `json:"content"`
	VideoURL string    `json:"video_url"`
	Order    int       `gorm:"not null;default:0" json:"order"`

	// Derived from VideoURL, never stored.
	EmbedURL string `gorm:"-" json:"embed_url,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (l *Lesson) BeforeCreate(*gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
