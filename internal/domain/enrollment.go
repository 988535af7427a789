package domain

import (
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EnrollmentStatus string

const (
	EnrollmentActive    EnrollmentStatus = "active"
	EnrollmentCompleted EnrollmentStatus = "completed"
	EnrollmentDropped   EnrollmentStatus = "dropped"
)

// Enrollment is unique per (user, course). A dropped enrollment is
// reactivated in place, so its progress history survives re-enrollment.
type Enrollment struct {
	ID         uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_enrollment_user_course" json:"user_id"`
	CourseID   uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_enrollment_user_course;index" json:"course_id"`
	Status     EnrollmentStatus `gorm:"not null;default:'active';index" json:"status"`
	EnrolledAt time.Time        `gorm:"not null" json:"enrolled_at"`

	User     *User            `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Course   *Course          `gorm:"foreignKey:CourseID" json:"course,omitempty"`
	Progress []LessonProgress `gorm:"foreignKey:EnrollmentID;constraint:OnDelete:CASCADE;" json:"lesson_progress,omitempty"`
}

func (e *Enrollment) BeforeCreate(*gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.EnrolledAt.IsZero() {
		e.EnrolledAt = time.Now().UTC()
	}
	return nil
}

// LessonProgress is the completion flag of one lesson within one enrollment.
// CompletedAt is set iff Completed is true.
type LessonProgress struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	EnrollmentID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_progress_enrollment_lesson" json:"enrollment_id"`
	LessonID     uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_progress_enrollment_lesson;index" json:"lesson_id"`
	Completed    bool       `gorm:"not null;default:false" json:"completed"`
	CompletedAt  *time.Time `json:"completed_at"`
}

func (LessonProgress) TableName() string {
	return "lesson_progress"
}

func (p *LessonProgress) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// Mark sets the flag and keeps CompletedAt in step with it.
func (p *LessonProgress) Mark(completed bool, at time.Time) {
	p.Completed = completed
	if completed {
		t := at
		p.CompletedAt = &t
		return
	}
	p.CompletedAt = nil
}

// AggregateComplete reports whether an enrollment with the given progress
// rows counts as finished. An enrollment without rows is never complete.
func AggregateComplete(rows []LessonProgress) bool {
	if len(rows) == 0 {
		return false
	}
	for _, r := range rows {
		if !r.Completed {
			return false
		}
	}
	return true
}

// NextStatus derives the enrollment status from the persisted one and the
// aggregate completion. Dropped enrollments never move.
func NextStatus(current EnrollmentStatus, complete bool) (EnrollmentStatus, bool) {
	switch {
	case complete && current == EnrollmentActive:
		return EnrollmentCompleted, true
	case !complete && current == EnrollmentCompleted:
		return EnrollmentActive, true
	}
	return current, false
}

func CountCompleted(rows []LessonProgress) int {
	n := 0
	for _, r := range rows {
		if r.Completed {
			n++
		}
	}
	return n
}

// Percent is completed/total rounded to a whole percent, 0 for an empty total.
func Percent(completed, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}

type LessonState struct {
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at"`
}

type ProgressCounts struct {
	Completed int `json:"completed"`
	Total     int `json:"total"`
	Percent   int `json:"percent"`
}

func NewProgressCounts(completed, total int) ProgressCounts {
	return ProgressCounts{Completed: completed, Total: total, Percent: Percent(completed, total)}
}

// ProgressSummary is the per-course view of one enrollment's progress.
type ProgressSummary struct {
	EnrollmentID     uuid.UUID                 `json:"enrollment_id"`
	EnrollmentStatus EnrollmentStatus          `json:"enrollment_status"`
	PerLesson        map[uuid.UUID]LessonState `json:"progress"`
	Summary          ProgressCounts            `json:"summary"`
}

func SummarizeProgress(e *Enrollment, rows []LessonProgress) *ProgressSummary {
	per := make(map[uuid.UUID]LessonState, len(rows))
	for _, r := range rows {
		per[r.LessonID] = LessonState{Completed: r.Completed, CompletedAt: r.CompletedAt}
	}
	return &ProgressSummary{
		EnrollmentID:     e.ID,
		EnrollmentStatus: e.Status,
		PerLesson:        per,
		Summary:          NewProgressCounts(CountCompleted(rows), len(rows)),
	}
}
